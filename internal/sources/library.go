package sources

import (
	"context"
	"strings"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/fetch"
)

// LibraryParser handles the county library branch calendar. The branch
// serves one town, so the descriptor pins every event there rather than
// trusting inference against the county-wide site text.
type LibraryParser struct {
	site
}

// NewLibraryParser creates a parser for a library branch calendar.
func NewLibraryParser(d Descriptor, client *fetch.Client) *LibraryParser {
	return &LibraryParser{site: site{desc: d, client: client}}
}

// Fetch implements Parser.
func (p *LibraryParser) Fetch(ctx context.Context, q event.Query) ([]*event.Event, error) {
	return p.run(ctx, q, func(href string) bool {
		return strings.Contains(href, "/event/") || strings.Contains(href, "/program/")
	})
}
