package translations

// GetEnglishTranslations returns all English text strings
func GetEnglishTranslations() Translations {
	return Translations{
		NearbyStations:   "Cheapest nearby fuel stations",
		ResultsFor:       "Results for:",
		ResultsForCoords: "Results for coordinates:",
		SearchRadius:     "Search radius:",
		NoStationsFound:  "No fuel stations found within",
		LocationNotFound: "Location not found.",
		StationsFound:    "Found",
		StationsWithin:   "stations within",

		Price:        "Price:",
		Address:      "Address:",
		Distance:     "Distance:",
		KmAway:       "km away",
		Updated:      "Updated:",
		NotAvailable: "N/A",
	}
}
