package carburant

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/rubiojr/prixcarburant/internal/names"
	"github.com/rubiojr/prixcarburant/pkg/api"
)

const (
	// PageSize is the largest page the catalog serves.
	PageSize = 100
	// NearestLimit caps the number of stations returned by FindNearest.
	NearestLimit = 10
	// DefaultNearestKm is the FindNearest radius when none is given.
	DefaultNearestKm = 10
)

// Repository holds the followed stations, keyed by station id.
type Repository struct {
	fetcher api.Fetcher
	names   names.Lookup
	log     *slog.Logger

	mu       sync.RWMutex
	stations map[int64]*Station
}

func NewRepository(fetcher api.Fetcher, lookup names.Lookup, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		fetcher:  fetcher,
		names:    lookup,
		log:      logger,
		stations: map[int64]*Station{},
	}
}

// Stations returns a copy of the followed stations.
func (r *Repository) Stations() map[int64]*Station {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]*Station, len(r.stations))
	for id, s := range r.stations {
		out[id] = s.Clone()
	}
	return out
}

// Len returns the number of followed stations.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stations)
}

// InitFromList follows the given station ids. Ids the catalog does not
// resolve to exactly one station are logged and skipped.
func (r *Repository) InitFromList(ctx context.Context, ids []int64, ref Point) error {
	data := make(map[int64]*Station, len(ids))
	for _, id := range ids {
		r.log.Debug("Search station", "id", id)
		set, err := r.fetcher.Records(ctx, api.Query{
			Select: api.StationFields,
			Where:  api.WhereID(id),
			Limit:  1,
		})
		if err != nil {
			return fmt.Errorf("error fetching station %d: %w", id, err)
		}
		if set.TotalCount != 1 || len(set.Results) != 1 {
			r.log.Error("Unexpected number of stations returned, must be 1", "id", id, "count", set.TotalCount)
			continue
		}
		r.addStation(data, &set.Results[0], &ref)
	}

	r.replace(data)
	return nil
}

// InitFromLocation follows every station within km kilometers of ref,
// paging through the catalog PageSize records at a time.
func (r *Repository) InitFromLocation(ctx context.Context, ref Point, km float64) error {
	where := api.WhereDistance(ref.Latitude, ref.Longitude, km)
	countSet, err := r.fetcher.Records(ctx, api.Query{
		Select: []string{"id"},
		Where:  where,
		Limit:  1,
	})
	if err != nil {
		return fmt.Errorf("error counting stations: %w", err)
	}
	count := countSet.TotalCount
	r.log.Debug("Stations returned by the API", "count", count)

	data := make(map[int64]*Station, count)
	for offset := 0; offset < count; offset += PageSize {
		limit := min(PageSize, count-offset)
		r.log.Debug("Query stations", "offset", offset, "limit", limit, "count", count)
		set, err := r.fetcher.Records(ctx, api.Query{
			Select: api.StationFields,
			Where:  where,
			Offset: offset,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("error fetching stations page at offset %d: %w", offset, err)
		}
		for i := range set.Results {
			r.addStation(data, &set.Results[i], &ref)
		}
	}

	r.replace(data)
	return nil
}

// UpdatePrices refreshes the fuel prices of every followed station, one
// request per station. A station the catalog does not resolve to exactly one
// row, or whose row cannot be parsed, keeps its previous prices. The first transport or request error stops
// the pass; stations refreshed before it keep their new prices.
func (r *Repository) UpdatePrices(ctx context.Context) error {
	fields := api.PriceFields(api.FuelTypes...)

	for _, id := range r.ids() {
		r.log.Debug("Update fuel prices", "id", id)
		set, err := r.fetcher.Records(ctx, api.Query{
			Select: fields,
			Where:  api.WhereID(id),
			Limit:  1,
		})
		if err != nil {
			return fmt.Errorf("error updating prices of station %d: %w", id, err)
		}
		if set.TotalCount != 1 || len(set.Results) != 1 {
			r.log.Error("Unexpected number of stations returned, must be 1", "id", id, "count", set.TotalCount)
			continue
		}

		if rec := &set.Results[0]; rec.Err != nil {
			r.log.Error("Error while reading station prices", "id", id, "error", rec.Err)
			continue
		}

		r.mu.Lock()
		if s, ok := r.stations[id]; ok {
			n := s.upsertPrices(&set.Results[0])
			r.log.Debug("Fuel prices updated", "id", id, "name", s.Name, "fuels", n)
		}
		r.mu.Unlock()
	}
	return nil
}

// FindNearest returns up to NearestLimit stations within km kilometers of
// point, cheapest fuel first. The followed stations are not modified.
func (r *Repository) FindNearest(ctx context.Context, point Point, fuel api.FuelType, km float64) (map[int64]*Station, error) {
	if km <= 0 {
		km = DefaultNearestKm
	}
	set, err := r.fetcher.Records(ctx, api.Query{
		Select:  append(slices.Clone(api.StationFields), fuel.PriceField(), fuel.UpdatedField()),
		Where:   api.WhereDistance(point.Latitude, point.Longitude, km),
		OrderBy: fuel.PriceField(),
		Limit:   NearestLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("error searching nearest stations: %w", err)
	}
	r.log.Debug("Stations returned by the API", "count", set.TotalCount, "fuel", fuel)

	data := make(map[int64]*Station, len(set.Results))
	for i := range set.Results {
		rec := &set.Results[i]
		s := r.addStation(data, rec, &point)
		if s == nil {
			continue
		}
		if u, ok := rec.Fuel(fuel); ok {
			price := u.Price
			s.Price = &price
			s.Fuels[fuel] = FuelPrice{UpdatedDate: u.Updated, Price: u.Price}
		}
	}
	return data, nil
}

func (r *Repository) addStation(data map[int64]*Station, rec *api.Record, ref *Point) *Station {
	s, err := newStation(rec, ref, r.names)
	if err != nil {
		r.log.Error("Error while getting station information", "id", rec.ID, "error", err)
		return nil
	}
	data[s.ID] = s
	return s
}

func (r *Repository) replace(data map[int64]*Station) {
	r.mu.Lock()
	r.stations = data
	r.mu.Unlock()
}

func (r *Repository) ids() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.stations))
}
