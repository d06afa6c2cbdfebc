// Package datastore persists the final enriched list to SQLite so the
// results can be queried or served by external tools.
package datastore

import "github.com/smartshark27/movie-rating-checker/internal/media"

// Store defines the interface for local SQLite storage.
type Store interface {
	Connect() error
	InsertMedia(list []media.Enriched) error
	Close() error
}
