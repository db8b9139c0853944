package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredEvents scans every embedded JSON-LD block for schema.org Event
// objects, descending into @graph containers and top-level arrays. Blocks
// that fail to parse are skipped. Appearance order is preserved; the
// normalizer treats the first descriptor as authoritative when a page
// embeds several.
func StructuredEvents(doc *goquery.Document) []RawEvent {
	var events []RawEvent

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return
		}
		var payload interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}
		for _, obj := range collectObjects(payload) {
			if !isEventType(obj["@type"]) {
				continue
			}
			evt := eventFromObject(obj)
			if !evt.IsEmpty() {
				events = append(events, evt)
			}
		}
	})

	return events
}

// collectObjects flattens a decoded JSON-LD payload into its candidate
// objects: the top-level object, every member of a top-level array, and
// everything inside an @graph container.
func collectObjects(payload interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch v := payload.(type) {
	case map[string]interface{}:
		out = append(out, v)
		if graph, ok := v["@graph"]; ok {
			out = append(out, collectObjects(graph)...)
		}
	case []interface{}:
		for _, item := range v {
			out = append(out, collectObjects(item)...)
		}
	}
	return out
}

func isEventType(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "event")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(strings.TrimSpace(s), "event") {
				return true
			}
		}
	}
	return false
}

func eventFromObject(obj map[string]interface{}) RawEvent {
	evt := RawEvent{
		Name:        stringField(obj, "name"),
		StartDate:   stringField(obj, "startDate"),
		EndDate:     stringField(obj, "endDate"),
		Description: stringField(obj, "description"),
		URL:         stringField(obj, "url"),
	}

	fillLocation(&evt, obj["location"])
	fillOrganizer(&evt, obj["organizer"])
	evt.OfferPrice = offerPrice(obj["offers"])

	return evt
}

// stringField reads a field that may be a plain string or a JSON-LD value
// object like {"@value": "..."}.
func stringField(obj map[string]interface{}, key string) string {
	switch v := obj[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		if inner, ok := v["@value"].(string); ok {
			return strings.TrimSpace(inner)
		}
	}
	return ""
}

// fillLocation handles the location field's variants: a bare string, or a
// Place object whose address is itself a string or a PostalAddress.
func fillLocation(evt *RawEvent, value interface{}) {
	switch v := value.(type) {
	case string:
		evt.LocationName = strings.TrimSpace(v)
	case map[string]interface{}:
		evt.LocationName = stringField(v, "name")
		evt.Telephone = stringField(v, "telephone")
		switch addr := v["address"].(type) {
		case string:
			evt.Street = strings.TrimSpace(addr)
		case map[string]interface{}:
			evt.Street = stringField(addr, "streetAddress")
			evt.Locality = stringField(addr, "addressLocality")
		}
		if geo, ok := v["geo"].(map[string]interface{}); ok {
			if lat := floatField(geo, "latitude"); lat != nil {
				evt.Lat = lat
			}
			if lon := floatField(geo, "longitude"); lon != nil {
				evt.Lon = lon
			}
		}
	}
}

func fillOrganizer(evt *RawEvent, value interface{}) {
	switch v := value.(type) {
	case string:
		evt.Organizer = strings.TrimSpace(v)
	case map[string]interface{}:
		evt.Organizer = stringField(v, "name")
		if evt.Telephone == "" {
			evt.Telephone = stringField(v, "telephone")
		}
	case []interface{}:
		if len(v) > 0 {
			fillOrganizer(evt, v[0])
		}
	}
}

// offerPrice reads the price out of an offers field, which may be a single
// Offer object or an array of them. Prices appear both as JSON numbers and
// as strings. A present zero price means free admission, so the result
// distinguishes "no offer" (nil) from "costs nothing".
func offerPrice(value interface{}) *float64 {
	switch v := value.(type) {
	case map[string]interface{}:
		for _, key := range []string{"price", "lowPrice"} {
			if p := floatField(v, key); p != nil {
				return p
			}
		}
	case []interface{}:
		for _, item := range v {
			if p := offerPrice(item); p != nil {
				return p
			}
		}
	}
	return nil
}

func floatField(obj map[string]interface{}, key string) *float64 {
	switch v := obj[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}
