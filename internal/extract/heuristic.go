package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/headlandsdaily/coast-events/internal/event"
)

// strategy is one pure lookup over a parsed document. Strategies run in
// fixed priority order; the first non-empty result wins.
type strategy func(doc *goquery.Document) string

var titleStrategies = []strategy{
	metaContent(`meta[property="og:title"]`),
	func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find("h1").First().Text())
	},
	func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find("title").First().Text())
	},
}

var descriptionStrategies = []strategy{
	metaContent(`meta[name="description"]`),
	metaContent(`meta[property="og:description"]`),
	func(doc *goquery.Document) string {
		var found string
		doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 60 {
				found = text
				return false
			}
			return true
		})
		return found
	},
}

var startStrategies = []strategy{
	func(doc *goquery.Document) string {
		val, _ := doc.Find("time[datetime]").First().Attr("datetime")
		return strings.TrimSpace(val)
	},
	metaContent(`meta[itemprop="startDate"]`),
	metaContent(`meta[property="event:start_time"]`),
}

func metaContent(selector string) strategy {
	return func(doc *goquery.Document) string {
		val, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(val)
	}
}

func runStrategies(doc *goquery.Document, strategies []strategy) string {
	for _, s := range strategies {
		if result := s(doc); result != "" {
			return result
		}
	}
	return ""
}

// isoDatePattern matches explicit machine-style dates only. Free-text month
// names are deliberately not parsed; inventing a wrong date is worse than
// showing none.
var isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Heuristics fills the blanks in a raw descriptor from page headings, meta
// tags, inline time markers and a conservative text scan. Fields already
// present in raw are left alone.
func Heuristics(doc *goquery.Document, raw RawEvent) RawEvent {
	if raw.Name == "" {
		raw.Name = runStrategies(doc, titleStrategies)
	}
	if raw.Description == "" {
		raw.Description = runStrategies(doc, descriptionStrategies)
	}
	if raw.StartDate == "" {
		raw.StartDate = runStrategies(doc, startStrategies)
	}
	if raw.StartDate == "" {
		raw.StartDate, raw.EndDate = scanDatePair(doc.Text())
	}
	if raw.OfferPrice == nil && raw.PriceText == "" {
		// Structured offers take priority; this only runs without one.
		raw.PriceText = event.ScanPrice(doc.Text())
	}
	return raw
}

// scanDatePair looks for explicit YYYY-MM-DD tokens in page text. The first
// becomes the start; a second, later one becomes the end.
func scanDatePair(text string) (start, end string) {
	matches := isoDatePattern.FindAllString(text, 2)
	if len(matches) == 0 {
		return "", ""
	}
	if _, _, err := event.ParseTimestamp(matches[0]); err != nil {
		return "", ""
	}
	start = matches[0]
	if len(matches) == 2 && matches[1] > matches[0] {
		if _, _, err := event.ParseTimestamp(matches[1]); err == nil {
			end = matches[1]
		}
	}
	return start, end
}
