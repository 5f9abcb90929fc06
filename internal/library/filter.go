package library

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/snapmeta/snapmeta/pkg/photometa"
)

// proximityKm is how close a photo must be to the record's coordinates to
// count as a geographic match.
const proximityKm = 200.0

// yearSlack allows near-miss years, since submission dates often trail the
// capture date.
const yearSlack = 5

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true, "were": true,
	"of": true, "in": true, "on": true, "at": true, "for": true, "to": true, "by": true, "with": true,
	"picture": true, "photo": true, "image": true, "photograph": true, "view": true,
}

var wordRegex = regexp.MustCompile(`\b\w+\b`)

// Filter returns the corpus entries matching the record's non-null fields.
// When the strict pass (including coordinates and description keywords)
// yields nothing, progressively relaxed passes are attempted: first without
// the coordinate constraint, then without the description constraint.
func Filter(rec photometa.Record, entries []PhotoEntry) []PhotoEntry {
	strict := filterPass(rec, entries, true, true)
	if len(strict) > 0 {
		return strict
	}

	if rec.Has("photo_location_latitude") && rec.Has("photo_location_longitude") {
		if relaxed := filterPass(rec, entries, false, true); len(relaxed) > 0 {
			return relaxed
		}
	}

	if rec.Has("photo_description") {
		if relaxed := filterPass(rec, entries, false, false); len(relaxed) > 0 {
			return relaxed
		}
	}

	return nil
}

func filterPass(rec photometa.Record, entries []PhotoEntry, useCoords, useDescription bool) []PhotoEntry {
	var out []PhotoEntry
	for _, entry := range entries {
		if matches(rec, entry, useCoords, useDescription) {
			out = append(out, entry)
		}
	}
	return out
}

func matches(rec photometa.Record, p PhotoEntry, useCoords, useDescription bool) bool {
	if useCoords && rec.Has("photo_location_latitude") && rec.Has("photo_location_longitude") {
		if !withinProximity(rec, p) {
			return false
		}
	}
	if rec.Has("photo_location_country") || rec.Has("photo_location_city") {
		if !matchesPlace(rec, p) {
			return false
		}
	}
	if rec.Has("year") && !matchesYear(rec, p.PhotoSubmittedAt) {
		return false
	}
	if rec.Has("photographer_username") || rec.Has("photographer_first_name") || rec.Has("photographer_last_name") {
		if !matchesPhotographer(rec, p) {
			return false
		}
	}
	if rec.Has("exif_camera_make") || rec.Has("exif_camera_model") {
		if !matchesCamera(rec, p) {
			return false
		}
	}
	if useDescription && rec.Has("photo_description") {
		if !matchesDescription(rec, p) {
			return false
		}
	}
	return true
}

func withinProximity(rec photometa.Record, p PhotoEntry) bool {
	lat, _ := rec.Number("photo_location_latitude")
	lon, _ := rec.Number("photo_location_longitude")
	return haversineKm(lat, lon, p.PhotoLocationLatitude, p.PhotoLocationLongitude) <= proximityKm
}

// matchesPlace checks country (after canonicalization) and, when both sides
// carry one, city. A record city with no photo city is tolerated as long as
// the country agrees.
func matchesPlace(rec photometa.Record, p PhotoEntry) bool {
	if city := rec.String("photo_location_city"); city != "" && p.PhotoLocationCity != "" {
		if !strings.EqualFold(city, p.PhotoLocationCity) {
			return false
		}
	}
	if country := rec.String("photo_location_country"); country != "" {
		want := photometa.CanonicalCountry(country)
		got := photometa.CanonicalCountry(p.PhotoLocationCountry)
		if !strings.EqualFold(want, got) {
			return false
		}
	}
	return true
}

func matchesYear(rec photometa.Record, submittedAt string) bool {
	want, ok := rec.Number("year")
	if !ok {
		return true
	}
	got := parseYear(submittedAt)
	if got == 0 {
		return false
	}
	return math.Abs(float64(got)-want) <= yearSlack
}

func matchesPhotographer(rec photometa.Record, p PhotoEntry) bool {
	// An explicit username is the strongest criterion and decides alone.
	if rec.Has("photographer_username") {
		return strings.EqualFold(rec.String("photographer_username"), p.PhotographerUsername)
	}
	if rec.Has("photographer_first_name") {
		if !strings.EqualFold(rec.String("photographer_first_name"), p.PhotographerFirstName) {
			return false
		}
	}
	if rec.Has("photographer_last_name") {
		if !strings.EqualFold(rec.String("photographer_last_name"), p.PhotographerLastName) {
			return false
		}
	}
	return true
}

func matchesCamera(rec photometa.Record, p PhotoEntry) bool {
	if cameraMake := rec.String("exif_camera_make"); cameraMake != "" {
		if !strings.EqualFold(cameraMake, p.ExifCameraMake) {
			return false
		}
	}
	if model := rec.String("exif_camera_model"); model != "" {
		if !strings.EqualFold(model, p.ExifCameraModel) {
			return false
		}
	}
	return true
}

// matchesDescription requires every meaningful keyword of the record's
// description to appear in the photo's own or AI-generated description.
func matchesDescription(rec photometa.Record, p PhotoEntry) bool {
	keywords := descriptionKeywords(rec.String("photo_description"))
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(p.PhotoDescription + " " + p.AiDescription)
	for _, kw := range keywords {
		if !strings.Contains(haystack, kw) {
			return false
		}
	}
	return true
}

func descriptionKeywords(desc string) []string {
	var keywords []string
	for _, word := range wordRegex.FindAllString(strings.ToLower(desc), -1) {
		if len(word) > 2 && !stopwords[word] {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// parseYear extracts the leading four-digit year of a timestamp string,
// returning 0 when absent.
func parseYear(ts string) int {
	if len(ts) < 4 {
		return 0
	}
	y, err := strconv.Atoi(ts[:4])
	if err != nil {
		return 0
	}
	return y
}
