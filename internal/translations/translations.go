package translations

// Translations contains all text strings of the nearest stations listing
type Translations struct {
	// Listing
	NearbyStations   string
	ResultsFor       string
	ResultsForCoords string
	SearchRadius     string
	NoStationsFound  string
	LocationNotFound string
	StationsFound    string
	StationsWithin   string

	// Station entry
	Price        string
	Address      string
	Distance     string
	KmAway       string
	Updated      string
	NotAvailable string
}

// GetTranslations returns translations for the specified language
func GetTranslations(lang string) Translations {
	switch lang {
	case "en", "english":
		return GetEnglishTranslations()
	default:
		return GetFrenchTranslations()
	}
}

// GetLanguageFromQuery extracts language from query parameter, defaults to French
func GetLanguageFromQuery(langParam string) string {
	switch langParam {
	case "en", "english":
		return "en"
	default:
		return "fr"
	}
}
