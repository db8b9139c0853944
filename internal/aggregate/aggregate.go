// Package aggregate runs every source parser concurrently under one
// deadline, tolerates partial failure and shapes the merged results for
// display: deduplicated, date-ranked, balanced across towns and bounded.
package aggregate

import (
	"context"
	"sort"
	"time"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/format"
	"github.com/headlandsdaily/coast-events/internal/logger"
	"github.com/headlandsdaily/coast-events/internal/metrics"
	"github.com/headlandsdaily/coast-events/internal/sources"
)

const (
	// DefaultTimeout is the aggregate deadline; per-fetch deadlines are
	// strictly shorter, the outer handler deadline strictly longer.
	DefaultTimeout = 10 * time.Second
	// minResults is the threshold under which the static venue list is
	// appended so the map view is never empty.
	minResults = 3
)

// Result is the shaped output of one aggregation run.
type Result struct {
	Cards        []format.Card     `json:"cards"`
	Points       []format.MapPoint `json:"map"`
	TimedOut     bool              `json:"timed_out"`
	Supplemented bool              `json:"supplemented"`
}

// Aggregator fans a query out to every parser and merges what comes back.
type Aggregator struct {
	parsers []sources.Parser
	timeout time.Duration
}

// New creates an aggregator. Zero timeout falls back to DefaultTimeout.
func New(parsers []sources.Parser, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{parsers: parsers, timeout: timeout}
}

// parserResult is one parser's settled outcome.
type parserResult struct {
	id     string
	events []*event.Event
	err    error
}

// Run executes the query against all sources. Every parser settles into its
// own result; when the aggregate deadline fires first, only parsers that
// had already finished contribute and TimedOut is set; partial results are
// a signal, not a failure.
func (a *Aggregator) Run(ctx context.Context, q event.Query) Result {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ch := make(chan parserResult, len(a.parsers))
	for _, p := range a.parsers {
		go func(p sources.Parser) {
			events, err := p.Fetch(ctx, q)
			ch <- parserResult{id: p.ID(), events: events, err: err}
		}(p)
	}

	var merged []*event.Event
	timedOut := false

collect:
	for range a.parsers {
		select {
		case r := <-ch:
			if r.err != nil {
				// One bad source must not fail the whole request.
				logger.Warn("source contributed nothing", logger.Fields{
					"source": r.id,
					"reason": r.err.Error(),
				})
				continue
			}
			merged = append(merged, r.events...)
		case <-ctx.Done():
			timedOut = true
			break collect
		}
	}

	cards, distinct := shape(merged, q)
	result := Result{
		Cards:    cards,
		TimedOut: timedOut,
	}
	// Sparseness is judged on distinct surviving events, not the
	// limit-truncated list; a small limit over a full result set is not
	// sparse. The flag is set only when a venue actually went in.
	if distinct < minResults {
		before := len(result.Cards)
		result.Cards = appendVenues(result.Cards, q.Limit)
		result.Supplemented = len(result.Cards) > before
	}
	result.Points = format.MapPoints(result.Cards)

	metrics.ObserveRequest(started, len(result.Cards))
	logger.Info("aggregation finished", logger.Fields{
		"events":    len(merged),
		"returned":  len(result.Cards),
		"timed_out": timedOut,
	})
	return result
}

// renderedEvent pairs an event with its display card so dedupe and
// balancing both work off the same rendering.
type renderedEvent struct {
	evt  *event.Event
	card format.Card
}

// shape applies the display pipeline to merged events: dedupe on the
// rendered header+body, rank by earliest date, balance across towns, bound
// by the limit. It also reports how many distinct events survived dedupe,
// before truncation.
func shape(events []*event.Event, q event.Query) ([]format.Card, int) {
	rendered := dedupe(events)
	distinct := len(rendered)
	rank(rendered)
	if q.Town == event.TownAll {
		rendered = interleave(rendered)
	}
	if len(rendered) > q.Limit {
		rendered = rendered[:q.Limit]
	}
	cards := make([]format.Card, 0, len(rendered))
	for _, r := range rendered {
		cards = append(cards, r.card)
	}
	return cards, distinct
}

// dedupe renders each event once and drops records whose header+body pair
// already appeared.
func dedupe(events []*event.Event) []renderedEvent {
	seen := make(map[string]bool)
	out := make([]renderedEvent, 0, len(events))
	for _, evt := range events {
		card := format.Render(evt)
		key := card.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, renderedEvent{evt: evt, card: card})
	}
	return out
}

// rank sorts by earliest start date; dateless events keep their relative
// order after every dated one.
func rank(rendered []renderedEvent) {
	sort.SliceStable(rendered, func(i, j int) bool {
		a, b := rendered[i].evt, rendered[j].evt
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		if !a.HasDate() {
			return false
		}
		return a.Start.Before(b.Start)
	})
}

// interleave balances an unfiltered-town result round-robin across the
// fixed town priority order so one prolific source cannot crowd out the
// rest. Events with no recognized town fill remaining slots afterwards, in
// ranked order.
func interleave(rendered []renderedEvent) []renderedEvent {
	buckets := make(map[string][]renderedEvent)
	var leftovers []renderedEvent
	for _, r := range rendered {
		if _, ok := event.TownBySlug(r.evt.Town); ok {
			buckets[r.evt.Town] = append(buckets[r.evt.Town], r)
		} else {
			leftovers = append(leftovers, r)
		}
	}

	out := make([]renderedEvent, 0, len(rendered))
	for {
		took := false
		for _, town := range event.Towns {
			if bucket := buckets[town.Slug]; len(bucket) > 0 {
				out = append(out, bucket[0])
				buckets[town.Slug] = bucket[1:]
				took = true
			}
		}
		if !took {
			break
		}
	}
	return append(out, leftovers...)
}
