package reference

import "strings"

// iocToISO maps IOC codes to ISO 3166-1 alpha-2 codes. Flag emoji and the
// flag-icons stylesheet are keyed by ISO codes.
var iocToISO = map[string]string{
	"NOR": "NO", "GER": "DE", "USA": "US", "CAN": "CA",
	"NED": "NL", "AUT": "AT", "SWE": "SE", "FRA": "FR", "SUI": "CH", "KOR": "KR",
	"CHN": "CN", "JPN": "JP", "ITA": "IT",
	"FIN": "FI", "CZE": "CZ", "SLO": "SI",
	"POL": "PL", "GBR": "GB", "AUS": "AU", "SVK": "SK", "LAT": "LV",
	"NZL": "NZ", "UKR": "UA", "HUN": "HU", "KAZ": "KZ", "CRO": "HR",
	"BEL": "BE", "ESP": "ES", "EST": "EE", "LIE": "LI",
	"AND": "AD", "ARG": "AR", "ARM": "AM", "AZE": "AZ", "BIH": "BA",
	"BRA": "BR", "BUL": "BG", "CHI": "CL", "COL": "CO", "CYP": "CY",
	"DEN": "DK", "GEO": "GE", "GRE": "GR", "HKG": "HK", "IND": "IN",
	"IRI": "IR", "IRL": "IE", "ISR": "IL", "JAM": "JM", "KGZ": "KG",
	"LBN": "LB", "LTU": "LT", "LUX": "LU", "MDA": "MD", "MEX": "MX",
	"MGL": "MN", "MKD": "MK", "MNE": "ME", "MAR": "MA", "PAK": "PK",
	"PER": "PE", "PHI": "PH", "POR": "PT", "ROU": "RO", "RSA": "ZA",
	"SRB": "RS", "SMR": "SM", "TPE": "TW", "THA": "TH", "TUR": "TR",
	"UZB": "UZ",
}

// ISOCode returns the lowercase ISO code for an IOC code. Unknown codes fall
// back to their first two letters.
func ISOCode(ioc string) string {
	if ioc == "" {
		return ""
	}
	ioc = strings.ToUpper(ioc)
	if iso, ok := iocToISO[ioc]; ok {
		return strings.ToLower(iso)
	}
	if len(ioc) < 2 {
		return strings.ToLower(ioc)
	}
	return strings.ToLower(ioc[:2])
}

// FlagEmoji builds the regional-indicator pair for an IOC code
func FlagEmoji(ioc string) string {
	iso := strings.ToUpper(ISOCode(ioc))
	if len(iso) != 2 {
		return ""
	}

	var b strings.Builder
	for _, r := range iso {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

// FlagClass returns the flag-icons CSS class, e.g. "fi fi-us"
func FlagClass(ioc string) string {
	return "fi fi-" + ISOCode(ioc)
}

// FlagImageURL returns a flag image for clients that cannot render emoji
func FlagImageURL(ioc string) string {
	iso := ISOCode(ioc)
	if iso == "" {
		return ""
	}
	return "https://flagcdn.com/w40/" + iso + ".png"
}
