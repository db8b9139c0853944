package event

import (
	"fmt"
	"time"
)

// Query limits, mirrored by the HTTP layer.
const (
	DefaultLimit = 5
	MaxLimit     = 10
)

// Query represents one request's filtering criteria.
//
// Matching logic:
//   - Town: event town must equal the requested slug (TownAll matches all)
//   - Category: event category must equal the requested tag (CategoryAny
//     matches all)
//   - From/To: the event's date span must overlap the window. An event with
//     no start date is excluded whenever either bound is set, and included
//     otherwise. An unknown date cannot be shown under a date-filtered
//     request without risking a wrong answer.
type Query struct {
	Town     string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
}

// NewQuery returns a query that matches everything, bounded by DefaultLimit.
func NewQuery() Query {
	return Query{Town: TownAll, Category: CategoryAny, Limit: DefaultLimit}
}

// Validate checks the query against the recognized enumerations and bounds.
func (q *Query) Validate() error {
	if !IsTownSlug(q.Town) {
		return fmt.Errorf("unknown town %q", q.Town)
	}
	if !IsCategory(q.Category) {
		return fmt.Errorf("unknown category %q", q.Category)
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return fmt.Errorf("start %s is after end %s", q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return nil
}

// HasDateBound reports whether either window bound is set.
func (q *Query) HasDateBound() bool {
	return q.From != nil || q.To != nil
}

// Matches checks one event against all active criteria.
func (q *Query) Matches(evt *Event) bool {
	if q.Town != TownAll && evt.Town != q.Town {
		return false
	}
	if q.Category != CategoryAny && evt.Category != q.Category {
		return false
	}
	if q.HasDateBound() {
		if !evt.HasDate() {
			return false
		}
		from := time.Time{}
		if q.From != nil {
			from = *q.From
		}
		to := time.Date(9999, 12, 31, 0, 0, 0, 0, LocalZone)
		if q.To != nil {
			to = *q.To
		}
		if !evt.Overlaps(from, to) {
			return false
		}
	}
	return true
}

// Apply filters a list of events down to those matching the query.
func (q *Query) Apply(events []*Event) []*Event {
	filtered := make([]*Event, 0, len(events))
	for _, evt := range events {
		if q.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}
