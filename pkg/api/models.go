package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CoordinateScale converts raw catalog coordinates to decimal degrees.
const CoordinateScale = 100000

var ErrMissingField = errors.New("missing field")

// RecordSet represents the response structure from the catalog API.
type RecordSet struct {
	TotalCount int
	Results    []Record
}

// FuelUpdate is the price of one fuel as reported by the catalog.
// A zero Price means the station does not report that fuel.
type FuelUpdate struct {
	Price   float64
	Updated string
}

// Record represents a single catalog row. Only the selected fields are set.
type Record struct {
	ID           int64
	HasID        bool
	RawLatitude  *float64
	RawLongitude *float64
	Address      string
	PostalCode   string
	City         string
	Fuels        map[FuelType]FuelUpdate
	// Err holds the fields that could not be parsed. The rest of the page
	// still decodes.
	Err error
}

// Coordinates returns the station position in decimal degrees.
func (r *Record) Coordinates() (lat, lng float64, err error) {
	if r.RawLatitude == nil {
		return 0, 0, fmt.Errorf("latitude: %w", ErrMissingField)
	}
	if r.RawLongitude == nil {
		return 0, 0, fmt.Errorf("longitude: %w", ErrMissingField)
	}
	return *r.RawLatitude / CoordinateScale, *r.RawLongitude / CoordinateScale, nil
}

// Fuel returns the reported price for f, if the record carries a non-zero one.
func (r *Record) Fuel(f FuelType) (FuelUpdate, bool) {
	u, ok := r.Fuels[f]
	if !ok || u.Price == 0 {
		return FuelUpdate{}, false
	}
	return u, true
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{Fuels: map[FuelType]FuelUpdate{}}
	var errs []error
	for key, value := range raw {
		switch key {
		case "id":
			id, ok, err := parseNumber(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("id: %w", err))
				continue
			}
			r.ID, r.HasID = int64(id), ok
		case "latitude":
			lat, ok, err := parseNumber(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("latitude: %w", err))
				continue
			}
			if ok {
				r.RawLatitude = &lat
			}
		case "longitude":
			lng, ok, err := parseNumber(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("longitude: %w", err))
				continue
			}
			if ok {
				r.RawLongitude = &lng
			}
		case "adresse":
			r.Address = parseString(value)
		case "cp":
			r.PostalCode = parseString(value)
		case "ville":
			r.City = parseString(value)
		default:
			if err := r.setFuelField(key, value); err != nil {
				errs = append(errs, err)
			}
		}
	}
	r.Err = errors.Join(errs...)
	return nil
}

// parseNumber accepts JSON numbers, numeric strings (dot or comma decimal) and null.
func parseNumber(value json.RawMessage) (float64, bool, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return 0, false, nil
	}
	if value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return 0, false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return 0, false, err
		}
		return f, true, nil
	}
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return 0, false, err
	}
	return f, true, nil
}

func parseString(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err == nil {
		return n.String()
	}
	return ""
}
