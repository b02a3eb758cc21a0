package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Base fields selected for every station record.
var StationFields = []string{"id", "latitude", "longitude", "cp", "adresse", "ville"}

// Query selects, filters, orders and paginates catalog records.
type Query struct {
	Select  []string
	Where   string
	OrderBy string
	Offset  int
	Limit   int
}

// Values encodes the query as URL parameters. Zero values are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if len(q.Select) > 0 {
		v.Set("select", strings.Join(q.Select, ","))
	}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// WhereID filters on a single station id.
func WhereID(id int64) string {
	return fmt.Sprintf("id=%d", id)
}

// WhereDistance filters on stations within km kilometers of (lat, lon).
// The catalog expects the point as POINT(lon lat).
func WhereDistance(lat, lon, km float64) string {
	return fmt.Sprintf("distance(geom, geom'POINT(%s %s)', %skm)", formatFloat(lon), formatFloat(lat), formatFloat(km))
}

// PriceFields returns the <fuel>_prix fields followed by the <fuel>_maj fields.
func PriceFields(fuels ...FuelType) []string {
	fields := make([]string, 0, 2*len(fuels))
	for _, f := range fuels {
		fields = append(fields, f.PriceField())
	}
	for _, f := range fuels {
		fields = append(fields, f.UpdatedField())
	}
	return fields
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
