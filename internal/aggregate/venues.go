package aggregate

import (
	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/format"
)

// fallbackVenues are always-open spots appended when a query returns too
// few real events, so the widget's map view is never empty.
var fallbackVenues = []format.Card{
	{
		Header: "Mendocino Headlands State Park",
		Body:   "Open daily, sunrise to sunset. Bluff trails, sea caves and whale watching around the village. Free. See website for contact info. Mendocino.",
		Geo:    &event.LatLon{Lat: 39.3046, Lon: -123.8065},
	},
	{
		Header: "Point Cabrillo Light Station",
		Body:   "Historic 1909 lighthouse and marine preserve between Mendocino and Fort Bragg. Grounds open daily. Free. See website for contact info. Caspar.",
		Geo:    &event.LatLon{Lat: 39.3487, Lon: -123.8261},
	},
	{
		Header: "Glass Beach",
		Body:   "Sea glass coves at the north end of town, part of MacKerricher State Park. Open daily. Free. See website for contact info. Fort Bragg.",
		Geo:    &event.LatLon{Lat: 39.4527, Lon: -123.8144},
	},
	{
		Header: "Mendocino Art Center",
		Body:   "Galleries and working studios in the village. Open daily. See website for prices. See website for contact info. Mendocino.",
		Geo:    &event.LatLon{Lat: 39.3089, Lon: -123.7989},
	},
}

// appendVenues adds fallback venues after the real results, up to limit.
// Venues already shadowed by an identical header are skipped.
func appendVenues(cards []format.Card, limit int) []format.Card {
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		seen[c.Header] = true
	}
	for _, v := range fallbackVenues {
		if len(cards) >= limit {
			break
		}
		if seen[v.Header] {
			continue
		}
		cards = append(cards, v)
	}
	return cards
}
