package datastore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/smartshark27/movie-rating-checker/internal/media"
)

const mediaSchema = `CREATE TABLE IF NOT EXISTS media (
	media_type TEXT NOT NULL,
	title TEXT NOT NULL,
	year TEXT,
	source_url TEXT,
	tmdb_popularity REAL,
	tmdb_rating REAL,
	tmdb_rating_count INTEGER,
	imdb_id TEXT,
	PRIMARY KEY (media_type, title)
)`

const insertMediaQuery = `INSERT OR REPLACE INTO media (
	media_type, title, year, source_url,
	tmdb_popularity, tmdb_rating, tmdb_rating_count, imdb_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteStore implements the Store interface for local SQLite storage.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{dbPath: dbPath}
}

// Connect opens the SQLite database and ensures the media table exists.
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(mediaSchema); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create media table: %w", err)
	}
	s.db = db
	return nil
}

// InsertMedia writes the enriched list into the media table inside one
// transaction. Existing rows for the same (media_type, title) pair are
// replaced, so repeated runs converge on the latest enrichment.
func (s *SQLiteStore) InsertMedia(list []media.Enriched) error {
	if len(list) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(insertMediaQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range list {
		_, err := stmt.Exec(
			string(item.MediaType),
			item.Title,
			item.Year,
			item.SourceURL,
			item.Popularity,
			item.Rating,
			item.RatingCount,
			item.IMDBID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", item.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
