package output

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smartshark27/movie-rating-checker/internal/fileutil"
	"github.com/smartshark27/movie-rating-checker/internal/media"
)

// noteFrontmatter is the YAML frontmatter written to each markdown note.
type noteFrontmatter struct {
	Title       string  `yaml:"title"`
	MediaType   string  `yaml:"media_type"`
	Year        string  `yaml:"year,omitempty"`
	Rating      float64 `yaml:"tmdb_rating"`
	RatingCount int     `yaml:"tmdb_rating_count"`
	Popularity  float64 `yaml:"tmdb_popularity"`
	IMDBID      string  `yaml:"imdb_id,omitempty"`
	SourceURL   string  `yaml:"source_url,omitempty"`
}

// WriteMarkdown writes one note per title under dir.
func WriteMarkdown(list []media.Enriched, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create markdown directory: %w", err)
	}

	for _, item := range list {
		if err := writeNote(item, dir); err != nil {
			return err
		}
	}

	slog.Info("Saved markdown notes", "dir", dir, "count", len(list))
	return nil
}

func writeNote(item media.Enriched, dir string) error {
	frontmatter, err := yaml.Marshal(noteFrontmatter{
		Title:       item.Title,
		MediaType:   string(item.MediaType),
		Year:        item.Year,
		Rating:      item.Rating,
		RatingCount: item.RatingCount,
		Popularity:  item.Popularity,
		IMDBID:      item.IMDBID,
		SourceURL:   item.SourceURL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal frontmatter for %q: %w", item.Title, err)
	}

	body := fmt.Sprintf("# %s\n\nWatch: %s\n", item.Title, item.SourceURL)
	content := fmt.Sprintf("---\n%s---\n\n%s", frontmatter, body)

	path := fileutil.MarkdownFilePath(item.Title, dir)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write markdown note: %w", err)
	}
	return nil
}
