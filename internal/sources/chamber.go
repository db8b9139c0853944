package sources

import (
	"context"
	"strings"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/fetch"
)

// ChamberParser handles the chamber-of-commerce listing template, which
// links member event detail pages under /events/details/.
type ChamberParser struct {
	site
}

// NewChamberParser creates a parser for a chamber-of-commerce source.
func NewChamberParser(d Descriptor, client *fetch.Client) *ChamberParser {
	return &ChamberParser{site: site{desc: d, client: client}}
}

// Fetch implements Parser.
func (p *ChamberParser) Fetch(ctx context.Context, q event.Query) ([]*event.Event, error) {
	return p.run(ctx, q, func(href string) bool {
		return strings.Contains(href, "/events/details/")
	})
}
