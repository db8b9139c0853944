// Package format renders canonical events into the two-field display cards
// and map points that cross the system boundary.
package format

import (
	"strings"

	"github.com/headlandsdaily/coast-events/internal/event"
)

// Card is what the widget shows for one event: a short header and a single
// concatenated paragraph.
type Card struct {
	Header string        `json:"header"`
	Body   string        `json:"body"`
	Geo    *event.LatLon `json:"geo,omitempty"`
}

// MapPoint is one marker on the widget's map view.
type MapPoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Render builds the display card for an event. The body concatenates the
// date/time string, description, price, contact and address; every field is
// guaranteed non-empty upstream, so the card never carries an empty
// fragment.
func Render(evt *event.Event) Card {
	parts := []string{
		sentence(evt.When),
		sentence(evt.Description),
		sentence(evt.Price),
		sentence(evt.Contact),
		sentence(evt.Address),
	}
	return Card{
		Header: evt.Title,
		Body:   strings.Join(parts, " "),
		Geo:    evt.Geo,
	}
}

// Key is the dedupe identity of a card: two events that render identically
// are the same event to the reader.
func (c Card) Key() string {
	return c.Header + "\x00" + c.Body
}

// MapPoints collects markers for every card that has a coordinate.
func MapPoints(cards []Card) []MapPoint {
	points := make([]MapPoint, 0, len(cards))
	for _, c := range cards {
		if c.Geo == nil {
			continue
		}
		points = append(points, MapPoint{Name: c.Header, Lat: c.Geo.Lat, Lon: c.Geo.Lon})
	}
	return points
}

// sentence guarantees terminal punctuation on one body fragment.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s[len(s)-1:], ".!?") {
		return s
	}
	return s + "."
}
