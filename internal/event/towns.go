package event

// LatLon is a geographic coordinate used for map display.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TownAll is the pseudo-slug meaning "no town filter / town unknown".
const TownAll = "all"

// Town describes one recognized municipality.
type Town struct {
	Slug     string
	Name     string
	Centroid LatLon
}

// Towns lists the recognized towns in display priority order. The aggregator
// interleaves results across towns in this order.
var Towns = []Town{
	{Slug: "mendocino", Name: "Mendocino", Centroid: LatLon{Lat: 39.3077, Lon: -123.7995}},
	{Slug: "fort-bragg", Name: "Fort Bragg", Centroid: LatLon{Lat: 39.4457, Lon: -123.8053}},
	{Slug: "caspar", Name: "Caspar", Centroid: LatLon{Lat: 39.3627, Lon: -123.8147}},
	{Slug: "little-river", Name: "Little River", Centroid: LatLon{Lat: 39.2735, Lon: -123.7920}},
	{Slug: "albion", Name: "Albion", Centroid: LatLon{Lat: 39.2274, Lon: -123.7689}},
}

var townBySlug = func() map[string]Town {
	m := make(map[string]Town, len(Towns))
	for _, t := range Towns {
		m[t.Slug] = t
	}
	return m
}()

// TownBySlug returns the town for a slug, if recognized.
func TownBySlug(slug string) (Town, bool) {
	t, ok := townBySlug[slug]
	return t, ok
}

// IsTownSlug reports whether slug names a recognized town or TownAll.
func IsTownSlug(slug string) bool {
	if slug == TownAll {
		return true
	}
	_, ok := townBySlug[slug]
	return ok
}

// Centroid returns the fixed centroid coordinate for a town slug.
// Returns nil for TownAll or an unrecognized slug.
func Centroid(slug string) *LatLon {
	t, ok := townBySlug[slug]
	if !ok {
		return nil
	}
	c := t.Centroid
	return &c
}
