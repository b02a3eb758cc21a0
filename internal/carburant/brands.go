package carburant

var brandLogos = map[string]string{
	"Aldi":                "https://upload.wikimedia.org/wikipedia/commons/2/2c/Aldi_Nord_201x_logo.svg",
	"Agip":                "https://upload.wikimedia.org/wikipedia/fr/a/ad/Agip.svg",
	"Atac":                "https://upload.wikimedia.org/wikipedia/fr/c/c3/Logo_Atac_2015.svg",
	"Auchan":              "https://upload.wikimedia.org/wikipedia/fr/c/cd/Logo_Auchan_%282015%29.svg",
	"Avia":                "https://upload.wikimedia.org/wikipedia/commons/c/c0/AVIA_International_logo.svg",
	"BP":                  "https://upload.wikimedia.org/wikipedia/fr/3/32/B_P.svg",
	"BP Express":          "https://upload.wikimedia.org/wikipedia/fr/3/32/B_P.svg",
	"Bricomarché":         "https://upload.wikimedia.org/wikipedia/commons/d/dc/BRICOMARCHE.png",
	"Carrefour":           "https://upload.wikimedia.org/wikipedia/fr/3/3b/Logo_Carrefour.svg",
	"Carrefour Contact":   "https://upload.wikimedia.org/wikipedia/fr/3/3b/Logo_Carrefour.svg",
	"Carrefour Express":   "https://upload.wikimedia.org/wikipedia/fr/3/3b/Logo_Carrefour.svg",
	"Carrefour Market":    "https://upload.wikimedia.org/wikipedia/fr/3/3b/Logo_Carrefour.svg",
	"Casino":              "https://upload.wikimedia.org/wikipedia/commons/6/68/Logo_of_Casino_Supermarch%C3%A9s.svg",
	"Super Casino":        "https://upload.wikimedia.org/wikipedia/commons/6/68/Logo_of_Casino_Supermarch%C3%A9s.svg",
	"Cora":                "https://upload.wikimedia.org/wikipedia/commons/c/ce/Cora_logo.svg",
	"CORA":                "https://upload.wikimedia.org/wikipedia/commons/c/ce/Cora_logo.svg",
	"Elf":                 "https://upload.wikimedia.org/wikipedia/fr/1/17/ELF_logo_1991-2004.svg",
	"ENI FRANCE":          "https://upload.wikimedia.org/wikipedia/fr/b/b8/Eni_SpA_%28logo%29.svg",
	"ENI":                 "https://upload.wikimedia.org/wikipedia/fr/b/b8/Eni_SpA_%28logo%29.svg",
	"Esso":                "https://upload.wikimedia.org/wikipedia/commons/0/0e/Esso-Logo.svg",
	"Esso Express":        "https://upload.wikimedia.org/wikipedia/commons/0/0e/Esso-Logo.svg",
	"Géant":               "https://upload.wikimedia.org/wikipedia/commons/3/31/Hypermarche_Geant_Casino.jpg",
	"Gulf":                "https://upload.wikimedia.org/wikipedia/commons/7/70/Gulf_logo.png",
	"Huit à 8":            "https://upload.wikimedia.org/wikipedia/fr/9/98/Logo_8_%C3%80_Huit.svg",
	"Intermarché":         "https://upload.wikimedia.org/wikipedia/commons/9/96/Intermarch%C3%A9_logo_2009_classic.svg",
	"Intermarché Contact": "https://upload.wikimedia.org/wikipedia/commons/9/96/Intermarch%C3%A9_logo_2009_classic.svg",
	"Leclerc":             "https://upload.wikimedia.org/wikipedia/commons/e/ed/Logo_E.Leclerc_Sans_le_texte.svg",
	"Leader Price":        "https://upload.wikimedia.org/wikipedia/fr/2/2d/Logo_Leader_Price_-_2017.svg",
	"LEADER-PRICE":        "https://upload.wikimedia.org/wikipedia/fr/2/2d/Logo_Leader_Price_-_2017.svg",
	"Monoprix":            "https://upload.wikimedia.org/wikipedia/commons/0/0a/Monoprix_logo.svg",
	"Roady":               "https://upload.wikimedia.org/wikipedia/fr/6/62/Roady.svg",
	"Shell":               "https://upload.wikimedia.org/wikipedia/fr/e/e8/Shell_logo.svg",
	"SPAR":                "https://upload.wikimedia.org/wikipedia/commons/6/69/Spar_logo_without_red_background.png",
	"SPAR STATION":        "https://upload.wikimedia.org/wikipedia/commons/6/69/Spar_logo_without_red_background.png",
	"Supermarchés Spar":   "https://upload.wikimedia.org/wikipedia/commons/6/69/Spar_logo_without_red_background.png",
	"Système U":           "https://upload.wikimedia.org/wikipedia/fr/1/13/U_commer%C3%A7ants_logo_2018.svg",
	"Super U":             "https://upload.wikimedia.org/wikipedia/fr/1/13/U_commer%C3%A7ants_logo_2018.svg",
	"Station U":           "https://upload.wikimedia.org/wikipedia/fr/1/13/U_commer%C3%A7ants_logo_2018.svg",
	"Total":               "https://upload.wikimedia.org/wikipedia/fr/f/f7/Logo_TotalEnergies.svg",
	"Total Access":        "https://upload.wikimedia.org/wikipedia/fr/f/f7/Logo_TotalEnergies.svg",
	"Weldom":              "https://upload.wikimedia.org/wikipedia/commons/4/4b/Logo_weldom.png",
	"Supermarché Match":   "https://upload.wikimedia.org/wikipedia/fr/a/ad/Logo_Supermarché_Match.svg",
}

// EntityPicture returns the logo URL of brand, or "" when unknown.
func EntityPicture(brand string) string {
	return brandLogos[brand]
}
