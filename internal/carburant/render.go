package carburant

import (
	"fmt"
	"io"

	"github.com/rubiojr/prixcarburant/internal/translations"
	"github.com/rubiojr/prixcarburant/pkg/api"
)

// WriteNearest prints a nearest stations listing in the language of tr.
func WriteNearest(w io.Writer, tr translations.Translations, fuel api.FuelType, radiusKm float64, results []NearestResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintf(w, "%s %g km\n", tr.NoStationsFound, radiusKm)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s (%s)\n%s %d %s %g km\n\n",
		tr.NearbyStations, fuel, tr.StationsFound, len(results), tr.StationsWithin, radiusKm); err != nil {
		return err
	}

	for i, r := range results {
		price := tr.NotAvailable
		if r.Price != nil {
			price = fmt.Sprintf("%.3f €", *r.Price)
		}
		name := r.Name
		if name == "" || name == UndefinedName {
			name = fmt.Sprintf("%s%d", stationPrefix, r.ID)
		}

		if _, err := fmt.Fprintf(w, "%d. %s\n   %s %s\n   %s %s\n", i+1, name, tr.Price, price, tr.Address, r.Address); err != nil {
			return err
		}
		if r.UpdatedDate != "" {
			if _, err := fmt.Fprintf(w, "   %s %s\n", tr.Updated, r.UpdatedDate); err != nil {
				return err
			}
		}
		if r.Distance != nil {
			if _, err := fmt.Fprintf(w, "   %s %.2f %s\n", tr.Distance, *r.Distance, tr.KmAway); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
