package carburant

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/rubiojr/prixcarburant/pkg/api"
)

const (
	sensorDomain     = "prix_carburant"
	sensorIcon       = "mdi:gas-station"
	sensorUnit       = "€"
	configurationURL = "https://www.prix-carburants.gouv.fr/"
	updatedLayout    = "2006-01-02T15:04:05Z07:00"
)

// Device groups the sensors of one station.
type Device struct {
	Identifier       string `json:"identifier"`
	Manufacturer     string `json:"manufacturer"`
	Model            string `json:"model"`
	Name             string `json:"name"`
	ConfigurationURL string `json:"configuration_url"`
}

// SensorAttributes are the extra attributes exposed next to a price.
type SensorAttributes struct {
	Name                string       `json:"name"`
	Brand               string       `json:"brand"`
	Address             string       `json:"address"`
	PostalCode          string       `json:"postal_code"`
	City                string       `json:"city"`
	Latitude            float64      `json:"latitude"`
	Longitude           float64      `json:"longitude"`
	Distance            *float64     `json:"distance"`
	UpdatedDate         *string      `json:"updated_date"`
	DaysSinceLastUpdate *int         `json:"days_since_last_update"`
	FuelType            api.FuelType `json:"fuel_type"`
}

// Sensor is the price of one fuel at one station.
type Sensor struct {
	UniqueID      string           `json:"unique_id"`
	Name          string           `json:"name"`
	StationID     int64            `json:"station_id"`
	State         *float64         `json:"state"`
	Unit          string           `json:"unit_of_measurement"`
	Icon          string           `json:"icon"`
	EntityPicture string           `json:"entity_picture,omitempty"`
	Device        Device           `json:"device"`
	Attributes    SensorAttributes `json:"attributes"`
}

// SensorOptions selects which sensors are built and how.
type SensorOptions struct {
	// Fuels enables fuels by type. Missing fuels are enabled.
	Fuels    map[api.FuelType]bool
	Pictures bool
	Now      time.Time
}

func (o SensorOptions) enabled(f api.FuelType) bool {
	on, ok := o.Fuels[f]
	return !ok || on
}

// BuildSensors renders one sensor per station and enabled fuel the station
// has a price for, sorted by unique id.
func BuildSensors(stations map[int64]*Station, opts SensorOptions) []Sensor {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var sensors []Sensor
	for _, s := range stations {
		for _, fuel := range api.FuelTypes {
			fp, ok := s.Fuels[fuel]
			if !ok || !opts.enabled(fuel) {
				continue
			}
			sensors = append(sensors, newSensor(s, fuel, fp, opts))
		}
	}
	slices.SortFunc(sensors, func(a, b Sensor) int {
		return cmp.Compare(a.UniqueID, b.UniqueID)
	})
	return sensors
}

func newSensor(s *Station, fuel api.FuelType, fp FuelPrice, opts SensorOptions) Sensor {
	price := fp.Price
	updated := fp.UpdatedDate
	manufacturer := s.Brand
	if manufacturer == "" {
		manufacturer = "Station"
	}

	sensor := Sensor{
		UniqueID:  fmt.Sprintf("%s_%d_%s", sensorDomain, s.ID, fuel),
		Name:      fmt.Sprintf("%s %s", s.DisplayName(), fuel),
		StationID: s.ID,
		State:     &price,
		Unit:      sensorUnit,
		Icon:      sensorIcon,
		Device: Device{
			Identifier:       strconv.FormatInt(s.ID, 10),
			Manufacturer:     manufacturer,
			Model:            strconv.FormatInt(s.ID, 10),
			Name:             s.DisplayName(),
			ConfigurationURL: configurationURL,
		},
		Attributes: SensorAttributes{
			Name:        s.Name,
			Brand:       s.Brand,
			Address:     s.Address,
			PostalCode:  s.PostalCode,
			City:        s.City,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			Distance:    s.Distance,
			UpdatedDate: &updated,
			FuelType:    fuel,
		},
	}
	if days, err := DaysSinceUpdate(updated, opts.Now); err == nil {
		sensor.Attributes.DaysSinceLastUpdate = &days
	}
	if opts.Pictures {
		sensor.EntityPicture = EntityPicture(s.Brand)
	}
	return sensor
}

// DaysSinceUpdate returns the number of whole days between an ISO-8601
// update timestamp and now.
func DaysSinceUpdate(updated string, now time.Time) (int, error) {
	t, err := time.Parse(updatedLayout, updated)
	if err != nil {
		return 0, fmt.Errorf("error parsing update date %q: %w", updated, err)
	}
	return int(math.Floor(now.Sub(t).Hours() / 24)), nil
}

// NearestResult is one entry of a nearest stations answer.
type NearestResult struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Address   string   `json:"address"`
	Latitude  string   `json:"latitude"`
	Longitude string   `json:"longitude"`
	Distance  *float64 `json:"distance,omitempty"`
	// UpdatedDate is when the price of the searched fuel last changed.
	UpdatedDate string `json:"updated_date,omitempty"`
}

// NearestResults renders stations returned by FindNearest, cheapest first.
// Stations without a price come last, by distance.
func NearestResults(stations map[int64]*Station, fuel api.FuelType) []NearestResult {
	out := make([]NearestResult, 0, len(stations))
	for _, s := range stations {
		out = append(out, NearestResult{
			ID:          s.ID,
			Name:        s.Name,
			Price:       s.Price,
			Address:     s.FullAddress(),
			Latitude:    strconv.FormatFloat(s.Latitude, 'f', -1, 64),
			Longitude:   strconv.FormatFloat(s.Longitude, 'f', -1, 64),
			Distance:    s.Distance,
			UpdatedDate: s.Fuels[fuel].UpdatedDate,
		})
	}
	slices.SortFunc(out, func(a, b NearestResult) int {
		if c := comparePtr(a.Price, b.Price); c != 0 {
			return c
		}
		if c := comparePtr(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// comparePtr orders nil after every value.
func comparePtr(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
