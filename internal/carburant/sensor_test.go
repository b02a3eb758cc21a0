package carburant

import (
	"testing"
	"time"

	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	lyon := Point{Latitude: 45.7640, Longitude: 4.8357}

	assert.Zero(t, Distance(paris.Longitude, paris.Latitude, paris.Longitude, paris.Latitude))
	d := Distance(paris.Longitude, paris.Latitude, lyon.Longitude, lyon.Latitude)
	assert.InDelta(t, 392, d, 2)
	assert.Equal(t, d, Distance(lyon.Longitude, lyon.Latitude, paris.Longitude, paris.Latitude))
	assert.Equal(t, d, round2(d))

	points := []Point{paris, lyon, {0, 0}, {-33.87, 151.21}, {89.9, -179.9}}
	for _, a := range points {
		for _, b := range points {
			assert.Equal(t, Distance(a.Longitude, a.Latitude, b.Longitude, b.Latitude),
				Distance(b.Longitude, b.Latitude, a.Longitude, a.Latitude))
		}
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"STATION TOTAL", "Total"},
		{"station esso express", "Esso Express"},
		{"RELAIS DE LA GARE", "Relais De La Gare"},
		{"LA STATION DU PORT", "La Station Du Port"},
		{"STATION L'ESSENCE", "L'Essence"},
		{"AVIA-XPRESS", "Avia-Xpress"},
		{"ÉLAN SERVICE", "Élan Service"},
		{"", ""},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, CleanName(test.input), test.input)
	}
}

func TestEntityPicture(t *testing.T) {
	assert.Contains(t, EntityPicture("Total Access"), "TotalEnergies")
	assert.Equal(t, EntityPicture("Carrefour"), EntityPicture("Carrefour Market"))
	assert.Empty(t, EntityPicture("Unknown brand"))
	assert.Empty(t, EntityPicture(""))
}

func TestDaysSinceUpdate(t *testing.T) {
	now := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

	days, err := DaysSinceUpdate("2024-05-02T10:00:00+02:00", now)
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = DaysSinceUpdate("2024-05-05T11:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	_, err = DaysSinceUpdate("02/05/2024", now)
	assert.Error(t, err)
}

func TestBuildSensors(t *testing.T) {
	distance := 1.23
	stations := map[int64]*Station{
		101: {
			ID: 101, Name: "Total", Brand: "Total", Address: "1 rue", PostalCode: "75001", City: "Paris",
			Distance: &distance,
			Fuels: map[api.FuelType]FuelPrice{
				api.Gazole: {UpdatedDate: "2024-05-02T10:00:00+02:00", Price: 1.789},
				api.E85:    {UpdatedDate: "not a date", Price: 0.899},
				api.SP98:   {UpdatedDate: "2024-05-02T10:00:00+02:00", Price: 1.959},
			},
		},
		202: {
			ID: 202, Name: UndefinedName,
			Fuels: map[api.FuelType]FuelPrice{
				api.GPLc: {UpdatedDate: "2024-05-04T10:00:00+02:00", Price: 0.99},
			},
		},
	}

	sensors := BuildSensors(stations, SensorOptions{
		Fuels:    map[api.FuelType]bool{api.SP98: false},
		Pictures: true,
		Now:      time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC),
	})

	require.Len(t, sensors, 3)
	assert.Equal(t, "prix_carburant_101_E85", sensors[0].UniqueID)
	assert.Equal(t, "prix_carburant_101_Gazole", sensors[1].UniqueID)
	assert.Equal(t, "prix_carburant_202_GPLc", sensors[2].UniqueID)

	gazole := sensors[1]
	assert.Equal(t, "Station Total Gazole", gazole.Name)
	assert.Equal(t, 1.789, *gazole.State)
	assert.Equal(t, "€", gazole.Unit)
	assert.Contains(t, gazole.EntityPicture, "TotalEnergies")
	assert.Equal(t, "Total", gazole.Device.Manufacturer)
	require.NotNil(t, gazole.Attributes.DaysSinceLastUpdate)
	assert.Equal(t, 3, *gazole.Attributes.DaysSinceLastUpdate)
	assert.Equal(t, &distance, gazole.Attributes.Distance)

	assert.Nil(t, sensors[0].Attributes.DaysSinceLastUpdate)

	unnamed := sensors[2]
	assert.Equal(t, "Station 202 GPLc", unnamed.Name)
	assert.Equal(t, "Station", unnamed.Device.Manufacturer)
	assert.Empty(t, unnamed.EntityPicture)
}
