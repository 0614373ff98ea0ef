package handler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDataset(t *testing.T) *DatasetHandler {
	t.Helper()
	h, err := NewDatasetHandler(filepath.Join(t.TempDir(), "datasets.db"), nil)
	if err != nil {
		t.Fatalf("failed to open dataset index: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

// TestDatasetHandler_AddAndList verifies dataset registration, upsert on
// re-registration, and sorted listing.
func TestDatasetHandler_AddAndList(t *testing.T) {
	h := newTestDataset(t)

	if err := h.AddDataset("vocals", "/data/vocals"); err != nil {
		t.Fatal(err)
	}
	if err := h.AddDataset("ambient", "/data/ambient"); err != nil {
		t.Fatal(err)
	}
	// Re-registering updates the directory without erroring.
	if err := h.AddDataset("vocals", "/data/vocals-v2"); err != nil {
		t.Fatal(err)
	}

	names, err := h.Datasets()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "ambient" || names[1] != "vocals" {
		t.Errorf("datasets = %v", names)
	}
}

// TestDatasetHandler_Samples verifies sample storage, ID assignment, lookup,
// and substring filtering.
func TestDatasetHandler_Samples(t *testing.T) {
	h := newTestDataset(t)
	ctx := context.Background()

	if err := h.AddDataset("vocals", "/data/vocals"); err != nil {
		t.Fatal(err)
	}

	added, err := h.AddSample(ctx, Sample{
		Dataset:   "vocals",
		AudioPath: "/data/vocals/a.wav",
		Caption:   "soft female vocal over piano",
		Notes:     "# Session A\nrecorded in one take",
		Duration:  42.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID == "" {
		t.Fatal("no ID assigned")
	}
	if _, err := h.AddSample(ctx, Sample{
		Dataset:   "vocals",
		AudioPath: "/data/vocals/b.wav",
		Caption:   "aggressive male rap verse",
	}); err != nil {
		t.Fatal(err)
	}

	got, err := h.Sample(added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Caption != added.Caption || got.Duration != 42.5 {
		t.Errorf("sample = %+v", got)
	}

	if _, err := h.Sample("missing"); err == nil {
		t.Error("expected error for unknown sample")
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"vocal", 1},
		{"rap", 1},
		{"saxophone", 0},
	}
	for _, tt := range tests {
		samples, err := h.Samples("vocals", tt.query, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(samples) != tt.want {
			t.Errorf("Samples(%q) = %d results, expected %d", tt.query, len(samples), tt.want)
		}
	}
}

// TestDatasetHandler_SearchFallback verifies search degrades to substring
// matching when no embedding function is configured.
func TestDatasetHandler_SearchFallback(t *testing.T) {
	h := newTestDataset(t)
	ctx := context.Background()

	if err := h.AddDataset("d", "/data/d"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.AddSample(ctx, Sample{Dataset: "d", AudioPath: "x.wav", Caption: "lofi hip hop beat"}); err != nil {
		t.Fatal(err)
	}

	samples, err := h.Search(ctx, "d", "lofi", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Errorf("search = %d results, expected 1", len(samples))
	}
}

// TestRenderNotes verifies markdown notes come back as HTML.
func TestRenderNotes(t *testing.T) {
	html := RenderNotes("# Title\n\nsome *notes*")
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>notes</em>") {
		t.Errorf("rendered notes = %q", html)
	}
}
