package storage

import (
	"cmp"
	"context"
	"slices"

	"github.com/rubiojr/prixcarburant/internal/carburant"
)

// areaClusterKm is the distance under which two searched locations belong to
// the same area.
const areaClusterKm = 1.0

// PopularArea groups nearby searched locations.
type PopularArea struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	SearchCount int64   `json:"weight"`
	// Radius is the largest search radius used in the area, in km.
	Radius float64 `json:"radius"`
}

// PopularAreas clusters the logged searches, most searched area first. A
// limit of 0 returns every area.
func (s *Storage) PopularAreas(ctx context.Context, limit int) ([]PopularArea, error) {
	logs, err := s.GetLocationLogs(ctx, 0)
	if err != nil {
		return nil, err
	}

	areas := clusterSearches(logs)
	if limit > 0 && len(areas) > limit {
		areas = areas[:limit]
	}
	return areas, nil
}

// clusterSearches merges every log within areaClusterKm of a more searched
// one into its area. Area centers are weighted by search count.
func clusterSearches(logs []LocationLog) []PopularArea {
	merged := make([]bool, len(logs))
	var areas []PopularArea

	for i, l := range logs {
		if merged[i] {
			continue
		}
		merged[i] = true
		area := PopularArea{
			Latitude:    l.Latitude,
			Longitude:   l.Longitude,
			SearchCount: l.SearchCount,
			Radius:      l.Distance,
		}

		for j := i + 1; j < len(logs); j++ {
			other := logs[j]
			if merged[j] || carburant.Distance(l.Longitude, l.Latitude, other.Longitude, other.Latitude) > areaClusterKm {
				continue
			}
			merged[j] = true

			total := float64(area.SearchCount + other.SearchCount)
			area.Latitude = (area.Latitude*float64(area.SearchCount) + other.Latitude*float64(other.SearchCount)) / total
			area.Longitude = (area.Longitude*float64(area.SearchCount) + other.Longitude*float64(other.SearchCount)) / total
			area.SearchCount += other.SearchCount
			area.Radius = max(area.Radius, other.Distance)
		}
		areas = append(areas, area)
	}

	slices.SortStableFunc(areas, func(a, b PopularArea) int {
		return cmp.Compare(b.SearchCount, a.SearchCount)
	})
	return areas
}
