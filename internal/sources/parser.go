package sources

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/extract"
	"github.com/headlandsdaily/coast-events/internal/fetch"
	"github.com/headlandsdaily/coast-events/internal/logger"
	"github.com/headlandsdaily/coast-events/internal/metrics"
	"github.com/headlandsdaily/coast-events/internal/normalize"
)

const (
	// maxCandidates caps how many detail links one listing contributes.
	maxCandidates = 12
	// maxInFlight bounds simultaneous detail fetches against one host.
	maxInFlight = 4
)

// Parser turns one source's listing page into filtered canonical events.
// Implementations swallow their own errors per link and degrade; a returned
// error means the listing page itself was unreachable.
type Parser interface {
	ID() string
	Fetch(ctx context.Context, q event.Query) ([]*event.Event, error)
}

// link is one candidate detail page scraped off a listing.
type link struct {
	URL   string
	Title string
}

// site is the machinery shared by every parser shape: fetch the listing,
// collect matching links, then run fetch→extract→normalize per link with
// bounded concurrency.
type site struct {
	desc   Descriptor
	client *fetch.Client
}

func (s *site) ID() string {
	return s.desc.ID
}

// listing fetches and parses the listing page, trying alternate URLs when
// the primary fails.
func (s *site) listing(ctx context.Context) (*goquery.Document, error) {
	urls := append([]string{s.desc.URL}, s.desc.AltURLs...)
	var lastErr error
	for _, u := range urls {
		body, err := s.client.FetchText(ctx, s.desc.ID, u)
		if err != nil {
			lastErr = err
			continue
		}
		doc, err := extract.ParseHTML(u, body)
		if err != nil {
			lastErr = err
			continue
		}
		return doc, nil
	}
	return nil, lastErr
}

// collectLinks gathers candidate detail links whose href satisfies match,
// resolved against the listing URL, deduplicated, order preserved, capped
// at maxCandidates.
func (s *site) collectLinks(doc *goquery.Document, match func(href string) bool) []link {
	base, err := url.Parse(s.desc.URL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []link
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return true
		}
		if !match(href) {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(ref).String()
		if seen[resolved] {
			return true
		}
		seen[resolved] = true
		links = append(links, link{URL: resolved, Title: strings.TrimSpace(sel.Text())})
		return len(links) < maxCandidates
	})
	return links
}

// detailEvents runs the per-link pipeline for every candidate: fetch the
// detail page, extract structured data, fill the gaps heuristically and
// normalize. A link that fails outright but carries a usable listing title
// becomes a fallback record; an unverified title beats silently dropping a
// real event. Discovery order is preserved.
func (s *site) detailEvents(ctx context.Context, links []link) []*event.Event {
	results := make([]*event.Event, len(links))
	sem := make(chan struct{}, maxInFlight)
	var wg sync.WaitGroup

	for i, l := range links {
		wg.Add(1)
		go func(i int, l link) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.detailEvent(ctx, l)
		}(i, l)
	}
	wg.Wait()

	events := make([]*event.Event, 0, len(links))
	for _, evt := range results {
		if evt != nil {
			events = append(events, evt)
		}
	}
	return events
}

// detailEvent processes one candidate link. Returns nil when the candidate
// contributes nothing.
func (s *site) detailEvent(ctx context.Context, l link) *event.Event {
	opts := normalize.Options{
		SourceID: s.desc.ID,
		URL:      l.URL,
		Town:     s.desc.Town,
	}
	if s.desc.Category == "movies" {
		opts.Category = "movies"
	}

	raw, err := s.extractRaw(ctx, l)
	if err != nil {
		logger.Debug("detail page failed", logger.Fields{
			"source": s.desc.ID,
			"url":    l.URL,
			"reason": err.Error(),
		})
		metrics.ParseFailures.WithLabelValues(s.desc.ID).Inc()
		return s.fallbackRecord(l, opts)
	}

	if raw.Name == "" {
		raw.Name = l.Title
	}
	evt, err := normalize.Event(raw, opts)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(s.desc.ID).Inc()
		return nil
	}
	return evt
}

func (s *site) extractRaw(ctx context.Context, l link) (extract.RawEvent, error) {
	body, err := s.client.FetchText(ctx, s.desc.ID, l.URL)
	if err != nil {
		return extract.RawEvent{}, err
	}
	doc, err := extract.ParseHTML(l.URL, body)
	if err != nil {
		return extract.RawEvent{}, err
	}

	var raw extract.RawEvent
	if structured := extract.StructuredEvents(doc); len(structured) > 0 {
		// First block wins when a page embeds several.
		raw = structured[0]
	}
	return extract.Heuristics(doc, raw), nil
}

// fallbackRecord keeps a failed candidate alive when its listing title is
// worth showing: known title, no date, generic text everywhere else.
// Returns nil when the title is empty or a placeholder.
func (s *site) fallbackRecord(l link, opts normalize.Options) *event.Event {
	evt, err := normalize.Event(extract.RawEvent{Name: l.Title, URL: l.URL}, opts)
	if err != nil {
		return nil
	}
	return evt
}

// run is the common Fetch implementation: listing, links, details, filter.
func (s *site) run(ctx context.Context, q event.Query, match func(href string) bool) ([]*event.Event, error) {
	doc, err := s.listing(ctx)
	if err != nil {
		return nil, err
	}
	links := s.collectLinks(doc, match)
	logger.Debug("collected candidates", logger.Fields{
		"source": s.desc.ID,
		"count":  len(links),
	})
	return q.Apply(s.detailEvents(ctx, links)), nil
}
