package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/headlandsdaily/coast-events/internal/aggregate"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes one aggregation result in the specified format.
func WriteOutput(w io.Writer, result *aggregate.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *aggregate.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeText(w io.Writer, result *aggregate.Result) error {
	if len(result.Cards) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, card := range result.Cards {
		fmt.Fprintln(w, card.Header)
		fmt.Fprintf(w, "  %s\n", card.Body)
		if card.Geo != nil {
			fmt.Fprintf(w, "  (%.4f, %.4f)\n", card.Geo.Lat, card.Geo.Lon)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d events", len(result.Cards))
	if result.Supplemented {
		fmt.Fprint(w, " (padded with nearby venues)")
	}
	if result.TimedOut {
		fmt.Fprint(w, " (some sources timed out)")
	}
	fmt.Fprintln(w)
	return nil
}
