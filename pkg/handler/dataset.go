package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/yuin/goldmark"
	_ "modernc.org/sqlite"
)

// Sample is one dataset entry: an audio file with its caption and optional
// markdown notes.
type Sample struct {
	ID        string
	Dataset   string
	AudioPath string
	Caption   string
	Notes     string
	Duration  float64
}

// DatasetHandler indexes training/preview datasets in SQLite. When an
// embedding function is available, captions are also indexed in an in-memory
// chromem collection for semantic search; without one, search falls back to
// substring matching.
type DatasetHandler struct {
	db    *sql.DB
	vec   *chromem.DB
	embed chromem.EmbeddingFunc
}

// NewDatasetHandler opens (creating if needed) the dataset index at dbPath.
// embed may be nil.
func NewDatasetHandler(dbPath string, embed chromem.EmbeddingFunc) (*DatasetHandler, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open dataset index: %w", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS datasets (
	name TEXT PRIMARY KEY,
	dir  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	id         TEXT PRIMARY KEY,
	dataset    TEXT NOT NULL REFERENCES datasets(name),
	audio_path TEXT NOT NULL,
	caption    TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	duration   REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_samples_dataset ON samples(dataset);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create dataset schema: %w", err)
	}
	h := &DatasetHandler{db: db, embed: embed}
	if embed != nil {
		h.vec = chromem.NewDB()
	}
	return h, nil
}

// Close closes the underlying index.
func (h *DatasetHandler) Close() error { return h.db.Close() }

// AddDataset registers a dataset directory under a name.
func (h *DatasetHandler) AddDataset(name, dir string) error {
	_, err := h.db.Exec(`INSERT INTO datasets (name, dir) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET dir = excluded.dir`, name, dir)
	return err
}

// Datasets lists registered dataset names, sorted.
func (h *DatasetHandler) Datasets() ([]string, error) {
	rows, err := h.db.Query(`SELECT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// AddSample stores a sample and, when semantic search is enabled, indexes its
// caption.
func (h *DatasetHandler) AddSample(ctx context.Context, s Sample) (Sample, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := h.db.Exec(`INSERT INTO samples (id, dataset, audio_path, caption, notes, duration)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Dataset, s.AudioPath, s.Caption, s.Notes, s.Duration)
	if err != nil {
		return Sample{}, err
	}
	if h.vec != nil && s.Caption != "" {
		col, err := h.vec.GetOrCreateCollection("dataset-"+s.Dataset, nil, h.embed)
		if err == nil {
			err = col.AddDocument(ctx, chromem.Document{ID: s.ID, Content: s.Caption})
		}
		if err != nil {
			// Search degrades to substring matching; the sample itself is stored.
			log.Printf("[dataset] caption index failed for %s: %v", s.ID, err)
		}
	}
	return s, nil
}

// Sample returns a sample by ID.
func (h *DatasetHandler) Sample(id string) (Sample, error) {
	row := h.db.QueryRow(`SELECT id, dataset, audio_path, caption, notes, duration
		FROM samples WHERE id = ?`, id)
	var s Sample
	err := row.Scan(&s.ID, &s.Dataset, &s.AudioPath, &s.Caption, &s.Notes, &s.Duration)
	if err == sql.ErrNoRows {
		return Sample{}, fmt.Errorf("sample %s not found", id)
	}
	return s, err
}

// Samples lists a dataset's samples, optionally filtered by a caption
// substring.
func (h *DatasetHandler) Samples(dataset, query string, limit int) ([]Sample, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.db.Query(`SELECT id, dataset, audio_path, caption, notes, duration
		FROM samples WHERE dataset = ? AND caption LIKE ? ORDER BY rowid LIMIT ?`,
		dataset, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.ID, &s.Dataset, &s.AudioPath, &s.Caption, &s.Notes, &s.Duration); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Search finds samples matching the query, preferring semantic caption search
// when available.
func (h *DatasetHandler) Search(ctx context.Context, dataset, query string, limit int) ([]Sample, error) {
	if strings.TrimSpace(query) == "" || h.vec == nil {
		return h.Samples(dataset, query, limit)
	}
	col := h.vec.GetCollection("dataset-"+dataset, h.embed)
	if col == nil || col.Count() == 0 {
		return h.Samples(dataset, query, limit)
	}
	n := limit
	if c := col.Count(); n > c {
		n = c
	}
	results, err := col.Query(ctx, query, n, nil, nil)
	if err != nil {
		log.Printf("[dataset] semantic search failed, using substring match: %v", err)
		return h.Samples(dataset, query, limit)
	}
	var samples []Sample
	for _, r := range results {
		s, err := h.Sample(r.ID)
		if err != nil {
			continue
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// RenderNotes converts a sample's markdown notes to HTML for the preview
// panel.
func RenderNotes(markdown string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "<pre>" + markdown + "</pre>"
	}
	return buf.String()
}
