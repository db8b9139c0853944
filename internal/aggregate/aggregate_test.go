package aggregate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/sources"
)

// stubParser settles with canned events, an error, or blocks until the
// aggregate deadline fires.
type stubParser struct {
	id     string
	events []*event.Event
	err    error
	block  bool
}

func (s *stubParser) ID() string { return s.id }

func (s *stubParser) Fetch(ctx context.Context, q event.Query) ([]*event.Event, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.events, s.err
}

func mkEvent(title, town string, day int) *event.Event {
	evt := &event.Event{
		Title:       title,
		When:        event.FallbackWhen,
		Description: event.FallbackSummary,
		Price:       event.FallbackPrice,
		Contact:     event.FallbackContact,
		Address:     event.FallbackAddress,
		Town:        town,
		Category:    event.CategoryAny,
		SourceID:    "test",
	}
	if day > 0 {
		evt.Start = time.Date(2026, time.March, day, 0, 0, 0, 0, event.LocalZone)
		evt.When = event.FormatDate(evt.Start)
	}
	if geo := event.Centroid(town); geo != nil {
		evt.Geo = geo
	}
	return evt
}

func TestRunMergesAllParsers(t *testing.T) {
	a := New([]sources.Parser{
		&stubParser{id: "a", events: []*event.Event{
			mkEvent("Concert", "caspar", 7),
			mkEvent("Crab Feed", "albion", 8),
		}},
		&stubParser{id: "b", events: []*event.Event{mkEvent("Art Walk", "mendocino", 6)}},
	}, time.Second)

	result := a.Run(context.Background(), event.NewQuery())
	if result.TimedOut {
		t.Error("no parser blocked; TimedOut should be false")
	}
	if len(result.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(result.Cards))
	}
	if result.Supplemented {
		t.Error("three real results should not be supplemented")
	}
	// Ranked by earliest date.
	if result.Cards[0].Header != "Art Walk" {
		t.Errorf("first card = %q, expected the earlier event", result.Cards[0].Header)
	}
}

func TestRunTimeoutRecovery(t *testing.T) {
	a := New([]sources.Parser{
		&stubParser{id: "fast", events: []*event.Event{
			mkEvent("Concert", "caspar", 7),
			mkEvent("Art Walk", "mendocino", 6),
			mkEvent("Crab Feed", "albion", 8),
		}},
		&stubParser{id: "stuck", block: true},
	}, 100*time.Millisecond)

	result := a.Run(context.Background(), event.NewQuery())
	if !result.TimedOut {
		t.Error("expected TimedOut with one parser never resolving")
	}
	if len(result.Cards) == 0 {
		t.Fatal("finished parsers must still contribute")
	}
}

func TestRunSwallowsParserErrors(t *testing.T) {
	a := New([]sources.Parser{
		&stubParser{id: "ok", events: []*event.Event{
			mkEvent("Concert", "caspar", 7),
			mkEvent("Art Walk", "mendocino", 6),
			mkEvent("Crab Feed", "albion", 8),
		}},
		&stubParser{id: "broken", err: errors.New("listing unreachable")},
	}, time.Second)

	result := a.Run(context.Background(), event.NewQuery())
	if result.TimedOut {
		t.Error("an erroring parser is not a timeout")
	}
	if len(result.Cards) != 3 {
		t.Fatalf("expected 3 cards from the healthy parser, got %d", len(result.Cards))
	}
}

func TestRunDeduplicates(t *testing.T) {
	// The same event scraped by two sources renders identically.
	a := New([]sources.Parser{
		&stubParser{id: "a", events: []*event.Event{
			mkEvent("Concert", "caspar", 7),
			mkEvent("Art Walk", "mendocino", 6),
			mkEvent("Crab Feed", "albion", 8),
		}},
		&stubParser{id: "b", events: []*event.Event{mkEvent("Concert", "caspar", 7)}},
	}, time.Second)

	result := a.Run(context.Background(), event.NewQuery())
	count := 0
	for _, c := range result.Cards {
		if c.Header == "Concert" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate renderings must collapse to one, got %d", count)
	}
}

func TestRunTownBalancing(t *testing.T) {
	// Five towns each contribute two qualifying events; with limit 5 the
	// first pass takes at most one per town.
	var events []*event.Event
	for i, town := range []string{"mendocino", "fort-bragg", "caspar", "little-river", "albion"} {
		events = append(events,
			mkEvent(fmt.Sprintf("%s First", town), town, i+1),
			mkEvent(fmt.Sprintf("%s Second", town), town, i+10),
		)
	}
	a := New([]sources.Parser{&stubParser{id: "a", events: events}}, time.Second)

	q := event.NewQuery() // town=all, limit 5
	result := a.Run(context.Background(), q)
	if len(result.Cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(result.Cards))
	}

	townsSeen := make(map[string]int)
	for _, c := range result.Cards {
		for _, town := range []string{"mendocino", "fort-bragg", "caspar", "little-river", "albion"} {
			if len(c.Header) > len(town) && c.Header[:len(town)] == town {
				townsSeen[town]++
			}
		}
	}
	for town, n := range townsSeen {
		if n > 1 {
			t.Errorf("town %s contributed %d events before every town had one", town, n)
		}
	}
	if len(townsSeen) != 5 {
		t.Errorf("expected all 5 towns represented, got %d", len(townsSeen))
	}
}

func TestRunNoBalancingForSingleTown(t *testing.T) {
	a := New([]sources.Parser{&stubParser{id: "a", events: []*event.Event{
		mkEvent("First", "caspar", 1),
		mkEvent("Second", "caspar", 2),
		mkEvent("Third", "caspar", 3),
	}}}, time.Second)

	q := event.NewQuery()
	q.Town = "caspar"
	result := a.Run(context.Background(), q)
	if len(result.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(result.Cards))
	}
	if result.Cards[0].Header != "First" {
		t.Errorf("single-town results keep date order, got %q first", result.Cards[0].Header)
	}
}

func TestRunSupplementsSparseResults(t *testing.T) {
	a := New([]sources.Parser{&stubParser{id: "a", events: []*event.Event{
		mkEvent("Lone Event", "caspar", 7),
	}}}, time.Second)

	result := a.Run(context.Background(), event.NewQuery())
	if !result.Supplemented {
		t.Error("fewer than three results must set Supplemented")
	}
	if len(result.Cards) < minResults {
		t.Errorf("expected venues appended, got %d cards", len(result.Cards))
	}
	if result.Cards[0].Header != "Lone Event" {
		t.Errorf("real results come before venues, got %q first", result.Cards[0].Header)
	}
	if len(result.Points) == 0 {
		t.Error("map must not be empty after supplementing")
	}
}

func TestRunSmallLimitIsNotSparse(t *testing.T) {
	// A small limit over a full result set must not report supplementing.
	var events []*event.Event
	for i := 1; i <= 5; i++ {
		events = append(events, mkEvent(fmt.Sprintf("Event %d", i), "caspar", i))
	}
	a := New([]sources.Parser{&stubParser{id: "a", events: events}}, time.Second)

	q := event.NewQuery()
	q.Limit = 2
	result := a.Run(context.Background(), q)
	if len(result.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(result.Cards))
	}
	if result.Supplemented {
		t.Error("five distinct events behind a limit of 2 is not sparse")
	}
	for _, c := range result.Cards {
		for _, v := range fallbackVenues {
			if c.Header == v.Header {
				t.Errorf("venue %q appended over real results", v.Header)
			}
		}
	}
}

func TestRunSupplementedOnlyWhenVenueAppended(t *testing.T) {
	a := New([]sources.Parser{&stubParser{id: "a", events: []*event.Event{
		mkEvent("Lone Event", "caspar", 7),
	}}}, time.Second)

	q := event.NewQuery()
	q.Limit = 1
	result := a.Run(context.Background(), q)
	if len(result.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(result.Cards))
	}
	if result.Supplemented {
		t.Error("no venue fit under the limit, so the flag must stay false")
	}
}

func TestRunRespectsLimit(t *testing.T) {
	var events []*event.Event
	for i := 1; i <= 9; i++ {
		events = append(events, mkEvent(fmt.Sprintf("Event %d", i), "caspar", i))
	}
	a := New([]sources.Parser{&stubParser{id: "a", events: events}}, time.Second)

	q := event.NewQuery()
	q.Limit = 4
	result := a.Run(context.Background(), q)
	if len(result.Cards) != 4 {
		t.Errorf("expected 4 cards, got %d", len(result.Cards))
	}
	if result.Supplemented {
		t.Error("four real results should not be supplemented")
	}
}

func TestRankDatelessLast(t *testing.T) {
	a := New([]sources.Parser{&stubParser{id: "a", events: []*event.Event{
		mkEvent("No Date A", "caspar", 0),
		mkEvent("Dated", "mendocino", 5),
		mkEvent("No Date B", "albion", 0),
	}}}, time.Second)

	q := event.NewQuery()
	q.Town = event.TownAll
	result := a.Run(context.Background(), q)
	if result.Cards[0].Header != "Dated" {
		t.Errorf("dated events rank first, got %q", result.Cards[0].Header)
	}
}
