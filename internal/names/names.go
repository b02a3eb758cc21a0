// Package names maps station ids to the display name and brand published
// alongside the fuel price dataset.
package names

import (
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed stations_name.json
var bundled []byte

// Entry is the name and brand of a station, as published.
type Entry struct {
	Name  string `json:"Nom"`
	Brand string `json:"Marque"`
}

// Lookup resolves a station id to its published name and brand.
type Lookup interface {
	Lookup(id int64) (Entry, bool)
}

// Table is an in-memory Lookup loaded once at startup.
type Table map[int64]Entry

func (t Table) Lookup(id int64) (Entry, bool) {
	e, ok := t[id]
	return e, ok
}

// Default returns the table bundled with the binary.
func Default() (Table, error) {
	return ParseJSON(bundled)
}

// Load reads a JSON or CSV lookup file, chosen by extension.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening names file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseCSV(f)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading names file: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON parses {"<id>": {"Nom": "...", "Marque": "..."}}.
func ParseJSON(data []byte) (Table, error) {
	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling names: %w", err)
	}

	t := make(Table, len(raw))
	for k, e := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid station id %q: %w", k, err)
		}
		t[id] = e
	}
	return t, nil
}

// ParseCSV parses rows of id,Nom,Marque with a header line.
func ParseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("error reading names header: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), "id") {
		return nil, fmt.Errorf("unexpected names header %v", header)
	}

	t := Table{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading names row: %w", err)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid station id %q: %w", row[0], err)
		}
		t[id] = Entry{Name: row[1], Brand: row[2]}
	}
	return t, nil
}
