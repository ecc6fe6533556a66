// Package reference holds the static country data the pool is seeded from.
package reference

import "sort"

// Country is one selectable entry of the reference table
type Country struct {
	Code       string
	Name       string
	Tier       int
	HasMedaled bool // medaled at a Winter Games between 2010 and 2022
}

type entry struct {
	name       string
	hasMedaled bool
}

// countriesByTier is keyed by tier, then IOC code
var countriesByTier = map[int]map[string]entry{
	1: {
		"NOR": {"Norway", true},
		"GER": {"Germany", true},
		"USA": {"United States", true},
		"CAN": {"Canada", true},
	},
	2: {
		"NED": {"Netherlands", true},
		"AUT": {"Austria", true},
		"SWE": {"Sweden", true},
		"FRA": {"France", true},
		"SUI": {"Switzerland", true},
		"KOR": {"South Korea", true},
	},
	3: {
		"CHN": {"China", true},
		"JPN": {"Japan", true},
		"ITA": {"Italy", true},
	},
	4: {
		"FIN": {"Finland", true},
		"CZE": {"Czech Republic", true},
		"SLO": {"Slovenia", true},
	},
	5: {
		"POL": {"Poland", true},
		"GBR": {"Great Britain", true},
		"AUS": {"Australia", true},
		"SVK": {"Slovakia", true},
		"LAT": {"Latvia", true},
	},
	6: {
		"NZL": {"New Zealand", true},
		"UKR": {"Ukraine", true},
		"HUN": {"Hungary", true},
		"KAZ": {"Kazakhstan", true},
		"CRO": {"Croatia", true},
		"BEL": {"Belgium", true},
		"ESP": {"Spain", true},
		"EST": {"Estonia", true},
		"LIE": {"Liechtenstein", true},

		"AND": {"Andorra", false},
		"ARG": {"Argentina", false},
		"ARM": {"Armenia", false},
		"AZE": {"Azerbaijan", false},
		"BIH": {"Bosnia and Herzegovina", false},
		"BRA": {"Brazil", false},
		"BUL": {"Bulgaria", false},
		"CHI": {"Chile", false},
		"COL": {"Colombia", false},
		"CYP": {"Cyprus", false},
		"DEN": {"Denmark", false},
		"GEO": {"Georgia", false},
		"GRE": {"Greece", false},
		"HKG": {"Hong Kong", false},
		"IND": {"India", false},
		"IRI": {"Iran", false},
		"IRL": {"Ireland", false},
		"ISR": {"Israel", false},
		"JAM": {"Jamaica", false},
		"KGZ": {"Kyrgyzstan", false},
		"LBN": {"Lebanon", false},
		"LTU": {"Lithuania", false},
		"LUX": {"Luxembourg", false},
		"MDA": {"Moldova", false},
		"MEX": {"Mexico", false},
		"MGL": {"Mongolia", false},
		"MKD": {"North Macedonia", false},
		"MNE": {"Montenegro", false},
		"MAR": {"Morocco", false},
		"PAK": {"Pakistan", false},
		"PER": {"Peru", false},
		"PHI": {"Philippines", false},
		"POR": {"Portugal", false},
		"ROU": {"Romania", false},
		"RSA": {"South Africa", false},
		"SRB": {"Serbia", false},
		"SMR": {"San Marino", false},
		"TPE": {"Chinese Taipei", false},
		"THA": {"Thailand", false},
		"TUR": {"Turkey", false},
		"UZB": {"Uzbekistan", false},
	},
}

// ExcludedCountries cannot be selected and are never seeded
var ExcludedCountries = map[string]string{
	"RUS": "Russia",
	"BLR": "Belarus",
	"AIN": "Individual Neutral Athletes",
}

// Countries returns every selectable country ordered by tier, then code
func Countries() []Country {
	var out []Country
	for tier, countries := range countriesByTier {
		for code, e := range countries {
			if _, excluded := ExcludedCountries[code]; excluded {
				continue
			}
			out = append(out, Country{Code: code, Name: e.name, Tier: tier, HasMedaled: e.hasMedaled})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// CountriesInTier returns the selectable countries of a single tier
func CountriesInTier(tier int) []Country {
	var out []Country
	for _, c := range Countries() {
		if c.Tier == tier {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a country by IOC code
func Lookup(code string) (Country, bool) {
	for tier, countries := range countriesByTier {
		if e, ok := countries[code]; ok {
			return Country{Code: code, Name: e.name, Tier: tier, HasMedaled: e.hasMedaled}, true
		}
	}
	return Country{}, false
}

// Codes returns the set of selectable IOC codes
func Codes() map[string]struct{} {
	codes := make(map[string]struct{})
	for _, c := range Countries() {
		codes[c.Code] = struct{}{}
	}
	return codes
}
