package carburant

import (
	"bytes"
	"testing"

	"github.com/rubiojr/prixcarburant/internal/translations"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNearest(t *testing.T) {
	price, dist := 1.789, 2.5
	results := []NearestResult{
		{ID: 1, Name: "Total", Price: &price, Address: "1 rue, 75001 Paris", Distance: &dist, UpdatedDate: "2024-05-02T10:00:00+02:00"},
		{ID: 2, Name: UndefinedName, Address: "2 rue, 75002 Paris"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteNearest(&buf, translations.GetTranslations("en"), api.Gazole, 10, results))

	want := "Cheapest nearby fuel stations (Gazole)\n" +
		"Found 2 stations within 10 km\n\n" +
		"1. Total\n   Price: 1.789 €\n   Address: 1 rue, 75001 Paris\n   Updated: 2024-05-02T10:00:00+02:00\n   Distance: 2.50 km away\n\n" +
		"2. Station 2\n   Price: N/A\n   Address: 2 rue, 75002 Paris\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteNearestEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNearest(&buf, translations.GetTranslations("fr"), api.E10, 5, nil))
	assert.Equal(t, "Aucune station trouvée dans un rayon de 5 km\n", buf.String())
}
