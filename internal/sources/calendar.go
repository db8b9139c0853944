package sources

import (
	"context"
	"strings"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/fetch"
)

// CalendarParser handles generic event-calendar sites whose listings link
// detail pages under an /event/ path segment.
type CalendarParser struct {
	site
}

// NewCalendarParser creates a parser for a generic calendar source.
func NewCalendarParser(d Descriptor, client *fetch.Client) *CalendarParser {
	return &CalendarParser{site: site{desc: d, client: client}}
}

// Fetch implements Parser.
func (p *CalendarParser) Fetch(ctx context.Context, q event.Query) ([]*event.Event, error) {
	return p.run(ctx, q, func(href string) bool {
		return strings.Contains(href, "/event/")
	})
}
