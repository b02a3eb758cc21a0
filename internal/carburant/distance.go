package carburant

import "math"

// EarthRadiusKm is the mean Earth radius used for every distance.
const EarthRadiusKm = 6371

// Distance returns the great-circle distance in kilometers between two
// (lon, lat) points in decimal degrees, rounded to 2 decimals.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	lon1, lat1 = toRadians(lon1), toRadians(lat1)
	lon2, lat2 = toRadians(lon2), toRadians(lat2)

	dlon := lon2 - lon1
	dlat := lat2 - lat1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return round2(c * EarthRadiusKm)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
