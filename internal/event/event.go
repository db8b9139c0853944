package event

import (
	"time"
)

// Fallback display text used when a field could not be determined. The
// formatter relies on every textual field being non-empty, so these are the
// values of last resort.
const (
	FallbackTitle   = "Event"
	FallbackWhen    = "See website for date and time."
	FallbackPrice   = "See website for prices."
	FallbackContact = "See website for contact info."
	FallbackAddress = "See website for location."
	FallbackSummary = "See website for details."
)

// CategoryAny is the pseudo-tag meaning "no category filter / unclassified".
const CategoryAny = "any"

// Event is the canonical record every source converges to before formatting.
// Start and End are calendar dates (zero when unknown); End defaults to
// Start. Town is a recognized slug or TownAll; Category is a recognized tag
// or CategoryAny. All display strings are non-empty.
type Event struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
	When        string    `json:"when"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Contact     string    `json:"contact"`
	Address     string    `json:"address"`
	Town        string    `json:"town"`
	Category    string    `json:"category"`
	SourceID    string    `json:"source_id"`
	Geo         *LatLon   `json:"geo,omitempty"`
}

// HasDate reports whether the event carries a usable start date.
func (e *Event) HasDate() bool {
	return !e.Start.IsZero()
}

// EndOrStart returns the end date, defaulting to the start date.
func (e *Event) EndOrStart() time.Time {
	if e.End.IsZero() {
		return e.Start
	}
	return e.End
}

// Overlaps reports whether the event's date span intersects [from, to].
// Events without a start date never overlap any window.
func (e *Event) Overlaps(from, to time.Time) bool {
	if !e.HasDate() {
		return false
	}
	return !e.Start.After(to) && !e.EndOrStart().Before(from)
}
