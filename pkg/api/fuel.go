package api

import (
	"fmt"
	"strings"
)

// FuelType is one of the fuels reported by the catalog.
type FuelType string

const (
	E10    FuelType = "E10"
	E85    FuelType = "E85"
	SP95   FuelType = "SP95"
	SP98   FuelType = "SP98"
	Gazole FuelType = "Gazole"
	GPLc   FuelType = "GPLc"
)

// FuelTypes lists every fuel in display order.
var FuelTypes = []FuelType{E10, E85, SP95, SP98, Gazole, GPLc}

// Key is the lowercase code used as field prefix by the catalog.
func (f FuelType) Key() string {
	return strings.ToLower(string(f))
}

func (f FuelType) PriceField() string {
	return f.Key() + "_prix"
}

func (f FuelType) UpdatedField() string {
	return f.Key() + "_maj"
}

// ParseFuelType matches s case-insensitively against the known fuels.
func ParseFuelType(s string) (FuelType, error) {
	for _, f := range FuelTypes {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown fuel type %q", s)
}

func fuelFromKey(key string) (FuelType, bool) {
	for _, f := range FuelTypes {
		if f.Key() == key {
			return f, true
		}
	}
	return "", false
}
