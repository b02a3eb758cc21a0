package geocode

import (
	"errors"
	"testing"

	"github.com/muesli/gominatim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	calls := 0
	g := NewWithSearch(func(q string) ([]gominatim.SearchResult, error) {
		calls++
		return []gominatim.SearchResult{{DisplayName: "Paris, France", Lat: "48.8566", Lon: "2.3522"}}, nil
	})

	res, err := g.Locate("Paris")
	require.NoError(t, err)
	assert.Equal(t, Result{DisplayName: "Paris, France", Latitude: 48.8566, Longitude: 2.3522}, res)

	_, err = g.Locate("Paris")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second lookup must hit the cache")
}

func TestLocateErrors(t *testing.T) {
	g := NewWithSearch(func(q string) ([]gominatim.SearchResult, error) {
		switch q {
		case "nowhere":
			return nil, nil
		case "broken":
			return []gominatim.SearchResult{{Lat: "x", Lon: "2"}}, nil
		}
		return nil, errors.New("network down")
	})

	_, err := g.Locate("nowhere")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = g.Locate("broken")
	assert.Error(t, err)

	_, err = g.Locate("anything")
	assert.ErrorContains(t, err, "network down")
}
