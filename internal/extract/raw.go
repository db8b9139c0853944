// Package extract turns parsed source pages into loosely-typed raw event
// descriptors, from embedded structured data when present and heuristics
// over the markup when not.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawEvent is whatever a page exposed about one event. Every field is
// optional; consumers default rather than dereference blindly.
type RawEvent struct {
	Name         string
	StartDate    string
	EndDate      string
	Description  string
	LocationName string
	Street       string
	Locality     string
	Telephone    string
	Organizer    string
	URL          string
	OfferPrice   *float64
	PriceText    string
	Lat          *float64
	Lon          *float64
}

// IsEmpty reports whether the descriptor carries nothing usable.
func (r *RawEvent) IsEmpty() bool {
	return r.Name == "" && r.StartDate == "" && r.Description == ""
}

// ParseError reports a document that could not be parsed as HTML.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseHTML parses a page body into a goquery document.
func ParseHTML(url, body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}
	return doc, nil
}
