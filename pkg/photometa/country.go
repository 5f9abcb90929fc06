package photometa

import "strings"

// countryAliases maps lowercase aliases and abbreviations to canonical
// country names. The model is instructed to canonicalize these itself;
// applying the table locally makes the invariant hold regardless.
var countryAliases = map[string]string{
	"usa":           "United States",
	"us":            "United States",
	"u.s.":          "United States",
	"u.s.a":         "United States",
	"u.s.a.":        "United States",
	"united states": "United States",
	"america":       "United States",

	"uk":            "United Kingdom",
	"u.k.":          "United Kingdom",
	"great britain": "United Kingdom",
	"britain":       "United Kingdom",

	"uae": "United Arab Emirates",

	"ksa":   "Saudi Arabia",
	"saudi": "Saudi Arabia",

	"drc": "Democratic Republic of the Congo",

	"holland": "Netherlands",
}

// CanonicalCountry returns the canonical full name for a known alias or
// abbreviation, and the input unchanged otherwise. Matching is
// case-insensitive and ignores surrounding whitespace.
func CanonicalCountry(country string) string {
	if country == "" {
		return ""
	}
	if canonical, ok := countryAliases[strings.ToLower(strings.TrimSpace(country))]; ok {
		return canonical
	}
	return country
}

// NormalizeCountry rewrites photo_location_country in place to its
// canonical form when the field holds a known alias.
func NormalizeCountry(rec Record) {
	if c := rec.String("photo_location_country"); c != "" {
		rec["photo_location_country"] = CanonicalCountry(c)
	}
}
