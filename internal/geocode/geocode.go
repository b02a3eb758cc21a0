// Package geocode resolves free-text locations to coordinates using the
// OpenStreetMap Nominatim service.
package geocode

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultServer   = "https://nominatim.openstreetmap.org/"
	cacheExpiration = 24 * time.Hour
	cacheCleanup    = time.Hour
)

var ErrNotFound = errors.New("location not found")

// Result is a resolved location.
type Result struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
}

// SearchFunc runs a Nominatim search.
type SearchFunc func(q string) ([]gominatim.SearchResult, error)

// Geocoder resolves and caches locations.
type Geocoder struct {
	search SearchFunc
	cache  *cache.Cache
}

// New returns a Geocoder backed by the public Nominatim server.
func New() *Geocoder {
	gominatim.SetServer(DefaultServer)
	return NewWithSearch(func(q string) ([]gominatim.SearchResult, error) {
		qry := gominatim.SearchQuery{Q: q}
		return qry.Get()
	})
}

// NewWithSearch returns a Geocoder backed by search.
func NewWithSearch(search SearchFunc) *Geocoder {
	return &Geocoder{
		search: search,
		cache:  cache.New(cacheExpiration, cacheCleanup),
	}
}

// Locate returns the best match for location.
func (g *Geocoder) Locate(location string) (Result, error) {
	if cached, ok := g.cache.Get(location); ok {
		return cached.(Result), nil
	}

	results, err := g.search(location)
	if err != nil {
		return Result{}, fmt.Errorf("geocoding error: %w", err)
	}
	if len(results) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, location)
	}

	res, err := toResult(results[0])
	if err != nil {
		return Result{}, err
	}
	g.cache.Set(location, res, cache.DefaultExpiration)
	return res, nil
}

func toResult(r gominatim.SearchResult) (Result, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("error parsing longitude: %w", err)
	}
	return Result{DisplayName: r.DisplayName, Latitude: lat, Longitude: lng}, nil
}
