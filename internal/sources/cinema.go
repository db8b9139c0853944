package sources

import (
	"context"
	"strings"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/fetch"
)

// CinemaParser handles the movie theater's now-playing page. Film detail
// pages carry no structured dates, so most records come back dateless with
// the heuristic title and synopsis; the descriptor pins town and the parser
// pins category.
type CinemaParser struct {
	site
}

// NewCinemaParser creates a parser for a cinema listing.
func NewCinemaParser(d Descriptor, client *fetch.Client) *CinemaParser {
	return &CinemaParser{site: site{desc: d, client: client}}
}

// Fetch implements Parser.
func (p *CinemaParser) Fetch(ctx context.Context, q event.Query) ([]*event.Event, error) {
	return p.run(ctx, q, func(href string) bool {
		return strings.Contains(href, "/movie/") || strings.Contains(href, "/film/")
	})
}
