// Package normalize converts raw scraped descriptors into canonical events
// with trustworthy dates, display-ready text and a map coordinate hint.
package normalize

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/extract"
)

// maxDescription bounds the description shown on a card.
const maxDescription = 220

// ValidationError reports a descriptor not worth showing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rejecting event: %s", e.Reason)
}

// Options carries per-source context the page itself cannot provide.
type Options struct {
	SourceID string
	URL      string
	// Town pins the event to a town when the source is single-town
	// (e.g. a cinema). Empty means infer from the page.
	Town string
	// Category pins the category the same way.
	Category string
}

// Event builds a canonical event from a raw descriptor. Every display field
// ends up non-empty; a descriptor whose resolved title is missing or a
// known placeholder is rejected with *ValidationError.
func Event(raw extract.RawEvent, opts Options) (*event.Event, error) {
	title := strings.TrimSpace(raw.Name)
	if event.IsGenericTitle(title) {
		return nil, &ValidationError{Reason: fmt.Sprintf("generic title %q", title)}
	}
	if title == "" {
		if raw.IsEmpty() {
			return nil, &ValidationError{Reason: "no title and no data"}
		}
		title = event.FallbackTitle
	}

	start, startHasTime := parseWhen(raw.StartDate)
	end, endHasTime := parseWhen(raw.EndDate)
	if !end.IsZero() && !start.IsZero() && end.Before(start) {
		// A backwards range is a page bug; trust only the start.
		end, endHasTime = time.Time{}, false
	}

	description := trimDescription(raw.Description)
	address := buildAddress(raw)

	town := opts.Town
	if town == "" {
		town = event.InferTown(address, title, description, opts.URL)
	}
	category := opts.Category
	if category == "" {
		category = event.InferCategory(title, description)
	}

	evt := &event.Event{
		Title:       title,
		Start:       dateOnly(start),
		End:         dateOnly(end),
		When:        buildWhen(start, end, startHasTime, endHasTime),
		Description: description,
		Price:       buildPrice(raw, description),
		Contact:     buildContact(raw),
		Address:     address,
		Town:        town,
		Category:    category,
		SourceID:    opts.SourceID,
		Geo:         buildGeo(raw, town),
	}
	return evt, nil
}

func parseWhen(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, hasTime, err := event.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, hasTime
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// buildWhen renders the display date/time string. Multi-day spans suppress
// the time of day; a single-day event shows its clock time when one is
// known. Without a start date the fixed textual fallback is used.
func buildWhen(start, end time.Time, startHasTime, endHasTime bool) string {
	if start.IsZero() {
		return event.FallbackWhen
	}

	datePart := event.FormatDateRange(dateOnly(start), dateOnly(end))
	multiDay := !end.IsZero() && dateOnly(end).After(dateOnly(start))
	if multiDay || !startHasTime {
		return datePart
	}

	if endHasTime {
		return datePart + ", " + event.FormatClockRange(start, end)
	}
	return datePart + ", " + event.FormatClock(start)
}

func buildPrice(raw extract.RawEvent, description string) string {
	if raw.OfferPrice != nil {
		return event.FormatOfferPrice(*raw.OfferPrice)
	}
	if raw.PriceText != "" {
		return raw.PriceText
	}
	if price := event.ScanPrice(description); price != "" {
		return price
	}
	return event.FallbackPrice
}

func buildContact(raw extract.RawEvent) string {
	if raw.Telephone != "" {
		return raw.Telephone
	}
	if raw.Organizer != "" {
		return raw.Organizer
	}
	return event.FallbackContact
}

func buildAddress(raw extract.RawEvent) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{raw.LocationName, raw.Street, raw.Locality} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return event.FallbackAddress
	}
	return strings.Join(parts, ", ")
}

func buildGeo(raw extract.RawEvent, town string) *event.LatLon {
	if raw.Lat != nil && raw.Lon != nil {
		return &event.LatLon{Lat: *raw.Lat, Lon: *raw.Lon}
	}
	return event.Centroid(town)
}

// trimDescription collapses whitespace, truncates at a sentence boundary
// and guarantees terminal punctuation.
func trimDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return event.FallbackSummary
	}
	if len(s) > maxDescription {
		n := maxDescription
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		cut := s[:n]
		if idx := strings.LastIndex(cut, ". "); idx > 0 {
			return cut[:idx+1]
		}
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		return strings.TrimRight(cut, ".,;:") + "."
	}
	if !strings.ContainsAny(s[len(s)-1:], ".!?") {
		return s + "."
	}
	return s
}
