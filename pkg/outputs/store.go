// Package outputs stores generated audio on disk alongside JSON metadata
// sidecars, and prunes stale files on a schedule.
package outputs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Track is one stored generation result.
type Track struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	Lyrics    string    `json:"lyrics,omitempty"`
	Seed      int64     `json:"seed"`
	Duration  float64   `json:"duration"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Store writes tracks under a single directory: <id>.wav plus <id>.json.
type Store struct {
	dir       string
	retention time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

// NewStore creates the output directory if needed. A zero retention disables
// purging.
func NewStore(dir string, retention time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create outputs dir: %w", err)
	}
	return &Store{dir: dir, retention: retention}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Save writes audio bytes and metadata, assigning the track an ID and path.
func (s *Store) Save(audio []byte, t Track) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	t.Path = filepath.Join(s.dir, t.ID+".wav")

	if err := os.WriteFile(t.Path, audio, 0644); err != nil {
		return Track{}, fmt.Errorf("write audio: %w", err)
	}
	meta, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return Track{}, err
	}
	if err := os.WriteFile(filepath.Join(s.dir, t.ID+".json"), meta, 0644); err != nil {
		return Track{}, fmt.Errorf("write metadata: %w", err)
	}
	return t, nil
}

// List returns stored tracks, newest first.
func (s *Store) List() ([]Track, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var tracks []Track
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var t Track
		if err := json.Unmarshal(data, &t); err != nil {
			continue
		}
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].CreatedAt.After(tracks[j].CreatedAt)
	})
	return tracks, nil
}

// Get returns a stored track by ID.
func (s *Store) Get(id string) (Track, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return Track{}, fmt.Errorf("track %s: %w", id, err)
	}
	var t Track
	if err := json.Unmarshal(data, &t); err != nil {
		return Track{}, err
	}
	return t, nil
}

// Purge removes tracks older than the retention window and returns how many
// were deleted.
func (s *Store) Purge() int {
	if s.retention <= 0 {
		return 0
	}
	tracks, err := s.List()
	if err != nil {
		return 0
	}
	cutoff := time.Now().UTC().Add(-s.retention)
	removed := 0
	for _, t := range tracks {
		if t.CreatedAt.After(cutoff) {
			continue
		}
		os.Remove(t.Path)
		if err := os.Remove(filepath.Join(s.dir, t.ID+".json")); err == nil {
			removed++
		}
	}
	return removed
}

// StartPurgeSchedule runs Purge hourly until StopPurgeSchedule is called.
func (s *Store) StartPurgeSchedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil || s.retention <= 0 {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		if n := s.Purge(); n > 0 {
			log.Printf("[outputs] purged %d stale track(s)", n)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// StopPurgeSchedule stops the purge schedule, if running.
func (s *Store) StopPurgeSchedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
