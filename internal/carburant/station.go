// Package carburant keeps the set of followed fuel stations and refreshes
// their prices from the catalog.
package carburant

import (
	"fmt"
	"maps"
	"strings"
	"unicode"

	"github.com/rubiojr/prixcarburant/internal/names"
	"github.com/rubiojr/prixcarburant/pkg/api"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UndefinedName is the display name of stations missing from the lookup table.
const UndefinedName = "undefined"

const stationPrefix = "Station "

// Point is a position in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// FuelPrice is the last known price of one fuel at one station.
type FuelPrice struct {
	UpdatedDate string  `json:"updated_date"`
	Price       float64 `json:"price"`
}

// Station is a followed point of sale.
type Station struct {
	ID         int64                      `json:"id"`
	Latitude   float64                    `json:"latitude"`
	Longitude  float64                    `json:"longitude"`
	Address    string                     `json:"address"`
	PostalCode string                     `json:"postal_code"`
	City       string                     `json:"city"`
	Name       string                     `json:"name"`
	Brand      string                     `json:"brand,omitempty"`
	Distance   *float64                   `json:"distance"`
	Price      *float64                   `json:"price,omitempty"`
	Fuels      map[api.FuelType]FuelPrice `json:"fuels"`
}

// Clone returns a deep copy of s.
func (s *Station) Clone() *Station {
	c := *s
	if s.Distance != nil {
		d := *s.Distance
		c.Distance = &d
	}
	if s.Price != nil {
		p := *s.Price
		c.Price = &p
	}
	c.Fuels = maps.Clone(s.Fuels)
	if c.Fuels == nil {
		c.Fuels = map[api.FuelType]FuelPrice{}
	}
	return &c
}

// DisplayName is "Station <name>", or "Station <id>" for unnamed stations.
func (s *Station) DisplayName() string {
	if s.Name != "" && s.Name != UndefinedName {
		return stationPrefix + s.Name
	}
	return fmt.Sprintf("%s%d", stationPrefix, s.ID)
}

// FullAddress renders "<address>, <postal code> <city>".
func (s *Station) FullAddress() string {
	return fmt.Sprintf("%s, %s %s", s.Address, s.PostalCode, s.City)
}

// upsertPrices records every priced fuel of rec. Fuels without a price are
// left as they were.
func (s *Station) upsertPrices(rec *api.Record) int {
	updated := 0
	for _, fuel := range api.FuelTypes {
		u, ok := rec.Fuel(fuel)
		if !ok {
			continue
		}
		s.Fuels[fuel] = FuelPrice{UpdatedDate: u.Updated, Price: u.Price}
		updated++
	}
	return updated
}

// newStation builds a station from a catalog record. ref, when set, is the
// point the distance is computed from.
func newStation(rec *api.Record, ref *Point, lookup names.Lookup) (*Station, error) {
	if rec.Err != nil {
		return nil, rec.Err
	}
	if !rec.HasID {
		return nil, fmt.Errorf("id: %w", api.ErrMissingField)
	}
	lat, lng, err := rec.Coordinates()
	if err != nil {
		return nil, err
	}

	s := &Station{
		ID:         rec.ID,
		Latitude:   lat,
		Longitude:  lng,
		Address:    rec.Address,
		PostalCode: rec.PostalCode,
		City:       rec.City,
		Name:       UndefinedName,
		Fuels:      map[api.FuelType]FuelPrice{},
	}
	if ref != nil {
		d := Distance(lng, lat, ref.Longitude, ref.Latitude)
		s.Distance = &d
	}
	if lookup != nil {
		if e, ok := lookup.Lookup(rec.ID); ok {
			s.Name = CleanName(e.Name)
			s.Brand = titleCase(e.Brand)
		}
	}
	return s, nil
}

// CleanName title-cases a published station name and strips its leading
// "Station " prefix.
func CleanName(name string) string {
	return strings.TrimPrefix(titleCase(name), stationPrefix)
}

// titleCase lowercases s then uppercases the first letter of every run of
// letters, so "L'ESSENCE" becomes "L'Essence" and "AVIA-XPRESS" "Avia-Xpress".
func titleCase(s string) string {
	runes := []rune(cases.Lower(language.French).String(strings.TrimSpace(s)))
	inWord := false
	for i, c := range runes {
		if !unicode.IsLetter(c) {
			inWord = false
			continue
		}
		if !inWord {
			runes[i] = unicode.ToTitle(c)
		}
		inWord = true
	}
	return string(runes)
}
