// Package cachestore persists enrichment results between runs as a JSON
// array keyed by cache key. The file is the system's memoization record:
// once an identity is resolved it is served from here forever.
package cachestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/smartshark27/movie-rating-checker/internal/fileutil"
	"github.com/smartshark27/movie-rating-checker/internal/media"
)

// Store holds the enrichment cache for one pipeline run. It is loaded
// once at start, appended to by concurrent resolver tasks, and persisted
// wholesale at the end.
type Store struct {
	path string

	mu      sync.Mutex
	entries []media.EnrichmentResult
	index   map[string]int
}

// Open loads the cache from path. A missing, unreadable or corrupt file
// is not an error: the store starts empty and Save replaces the bad file
// at the end of the run. The cache is an optimization, never a reason to
// abort.
func Open(path string) (*Store, error) {
	store := &Store{
		path:  path,
		index: make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Info("Cache file not found, starting with empty cache", "path", path)
		return store, nil
	}
	if err != nil {
		slog.Warn("Cache file unreadable, starting with empty cache", "path", path, "error", err)
		return store, nil
	}

	if err := json.Unmarshal(data, &store.entries); err != nil {
		slog.Warn("Cache file corrupt, starting with empty cache", "path", path, "error", err)
		store.entries = nil
		return store, nil
	}

	for i, entry := range store.entries {
		if _, seen := store.index[entry.CacheKey]; !seen {
			store.index[entry.CacheKey] = i
		}
	}

	slog.Info("Loaded enrichment cache", "path", path, "entries", len(store.entries))
	return store, nil
}

// Lookup returns the cached result for key, if present. First occurrence
// wins when the file carries duplicates.
func (s *Store) Lookup(key string) (media.EnrichmentResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key]
	if !ok {
		return media.EnrichmentResult{}, false
	}
	return s.entries[i], true
}

// Append records a newly resolved result. Appending an already-present
// key is a no-op: cached results are never mutated.
func (s *Store) Append(result media.EnrichmentResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.index[result.CacheKey]; seen {
		return
	}
	s.index[result.CacheKey] = len(s.entries)
	s.entries = append(s.entries, result)
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Save overwrites the cache file with the full store contents. The write
// is atomic so a crash cannot leave a truncated cache behind.
func (s *Store) Save() error {
	s.mu.Lock()
	entries := s.entries
	if entries == nil {
		entries = []media.EnrichmentResult{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := fileutil.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	slog.Info("Saved enrichment cache", "path", s.path, "entries", len(entries))
	return nil
}
