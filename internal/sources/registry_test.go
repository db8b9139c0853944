package sources

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/headlandsdaily/coast-events/internal/fetch"
)

func TestDefaultDescriptors(t *testing.T) {
	descriptors := DefaultDescriptors()
	if len(descriptors) != 4 {
		t.Fatalf("expected 4 built-in sources, got %d", len(descriptors))
	}

	seen := make(map[string]bool)
	for _, d := range descriptors {
		if seen[d.ID] {
			t.Errorf("duplicate source ID %q", d.ID)
		}
		seen[d.ID] = true
		if d.URL == "" || d.Shape == "" || d.Category == "" {
			t.Errorf("source %q is incomplete: %+v", d.ID, d)
		}
	}
}

func TestLoadDescriptors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `sources:
  - id: mendofun
    name: MendoFun Calendar
    category: calendar
    shape: calendar
    url: https://mendofun.example.com/events/
  - id: cinema
    name: Coast Cinemas
    category: movies
    shape: cinema
    url: https://coastcinemas.example.com/now-playing
    town: fort-bragg
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	descriptors, err := LoadDescriptors(path)
	if err != nil {
		t.Fatalf("LoadDescriptors failed: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(descriptors))
	}
	if descriptors[1].Town != "fort-bragg" {
		t.Errorf("town = %q", descriptors[1].Town)
	}
}

func TestLoadDescriptorsRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := "sources:\n  - id: broken\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadDescriptors(path); err == nil {
		t.Error("expected error for source missing url and shape")
	}
}

func TestBuild(t *testing.T) {
	client := fetch.NewClient(fetch.NewCache(fetch.DefaultTTL), time.Second)

	parsers, err := Build(DefaultDescriptors(), client)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(parsers) != 4 {
		t.Fatalf("expected 4 parsers, got %d", len(parsers))
	}

	if _, err := Build([]Descriptor{{ID: "x", Shape: "mystery", URL: "https://x"}}, client); err == nil {
		t.Error("expected error for unknown shape")
	}
}
