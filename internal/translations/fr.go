package translations

// GetFrenchTranslations returns all French text strings
func GetFrenchTranslations() Translations {
	return Translations{
		NearbyStations:   "Stations les moins chères à proximité",
		ResultsFor:       "Résultats pour :",
		ResultsForCoords: "Résultats pour les coordonnées :",
		SearchRadius:     "Rayon de recherche :",
		NoStationsFound:  "Aucune station trouvée dans un rayon de",
		LocationNotFound: "Lieu introuvable.",
		StationsFound:    "Trouvé",
		StationsWithin:   "stations dans un rayon de",

		Price:        "Prix :",
		Address:      "Adresse :",
		Distance:     "Distance :",
		KmAway:       "km",
		Updated:      "Mis à jour :",
		NotAvailable: "N/D",
	}
}
