package event

import (
	"fmt"
	"regexp"
	"strings"
)

// townPatterns pairs each town slug with the text patterns that imply it.
// More specific names are checked before "mendocino", which also appears in
// the region name "Mendocino Coast" and would otherwise swallow everything.
var townPatterns = []struct {
	slug     string
	patterns []string
}{
	{"fort-bragg", []string{"fort bragg", "fort-bragg", "fortbragg"}},
	{"little-river", []string{"little river", "little-river"}},
	{"caspar", []string{"caspar"}},
	{"albion", []string{"albion"}},
	{"mendocino", []string{"mendocino"}},
}

// InferTown scans the given text fragments (address, title, description,
// URL) for place names in fixed priority order and returns the first match,
// or TownAll when nothing matches.
func InferTown(texts ...string) string {
	haystack := strings.ToLower(strings.Join(texts, " "))
	for _, tp := range townPatterns {
		for _, p := range tp.patterns {
			if strings.Contains(haystack, p) {
				return tp.slug
			}
		}
	}
	return TownAll
}

// categoryKeywords pairs each category tag with its keyword group.
// Checked in this fixed order; first hit wins.
var categoryKeywords = []struct {
	tag      string
	keywords []string
}{
	{"art", []string{"gallery", "exhibit", "artist", "painting", "sculpture", "pottery", "art walk", "art center", "craft fair"}},
	{"music", []string{"concert", "live music", "band", "singer", "jazz", "choir", "symphony", "bluegrass", "open mic"}},
	{"food", []string{"dinner", "tasting", "wine", "beer", "brunch", "crab feed", "farmers market", "food truck", "barbecue"}},
	{"wellness", []string{"yoga", "meditation", "wellness", "guided hike", "qigong", "tai chi", "sound bath"}},
	{"nightlife", []string{"trivia", "karaoke", "pub crawl", "dance party", "dj ", "late night"}},
	{"movies", []string{"film", "movie", "screening", "cinema", "matinee", "double feature"}},
}

// Categories lists the recognized category tags in inference priority order.
var Categories = func() []string {
	tags := make([]string, 0, len(categoryKeywords))
	for _, ck := range categoryKeywords {
		tags = append(tags, ck.tag)
	}
	return tags
}()

// IsCategory reports whether tag names a recognized category or CategoryAny.
func IsCategory(tag string) bool {
	if tag == CategoryAny {
		return true
	}
	for _, ck := range categoryKeywords {
		if ck.tag == tag {
			return true
		}
	}
	return false
}

// InferCategory classifies free text against the fixed keyword groups.
// Returns CategoryAny when no group matches.
func InferCategory(texts ...string) string {
	haystack := strings.ToLower(strings.Join(texts, " "))
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(haystack, kw) {
				return ck.tag
			}
		}
	}
	return CategoryAny
}

// freePhrases is the allow-list of phrases that reliably mean free
// admission. A bare "free" substring is deliberately not matched: the word
// shows up in too many non-price contexts ("free parking", "gluten-free").
var freePhrases = []string{
	"no cover",
	"free admission",
	"free entry",
	"free event",
	"admission is free",
	"complimentary",
	"no charge",
}

var currencyPattern = regexp.MustCompile(`\$\d+(?:\.\d{2})?`)

// ScanPrice looks for a price hint in free text: a currency-looking token
// first, then the free-admission phrase allow-list. Returns "" when nothing
// trustworthy is found.
func ScanPrice(text string) string {
	if m := currencyPattern.FindString(text); m != "" {
		return ensurePeriod(m)
	}
	lower := strings.ToLower(text)
	for _, phrase := range freePhrases {
		if strings.Contains(lower, phrase) {
			return "Free."
		}
	}
	return ""
}

// FormatOfferPrice renders a structured-data offer price. Zero-valued
// offers are free events, not unknown prices.
func FormatOfferPrice(amount float64) string {
	if amount == 0 {
		return "Free."
	}
	if amount == float64(int(amount)) {
		return fmt.Sprintf("$%d.", int(amount))
	}
	return fmt.Sprintf("$%.2f.", amount)
}

func ensurePeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

// genericTitles are link-text placeholders that convey nothing worth
// showing. A record whose resolved title lands here is rejected outright.
var genericTitles = map[string]bool{
	"read more":     true,
	"details":       true,
	"learn more":    true,
	"view event":    true,
	"event details": true,
}

// IsGenericTitle reports whether a resolved title is a known placeholder.
func IsGenericTitle(title string) bool {
	return genericTitles[strings.ToLower(strings.TrimSpace(title))]
}
