// Package cmd wires the CLI commands to the aggregation pipeline.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/smartshark27/movie-rating-checker/internal/cachestore"
	"github.com/smartshark27/movie-rating-checker/internal/collector"
	"github.com/smartshark27/movie-rating-checker/internal/config"
	"github.com/smartshark27/movie-rating-checker/internal/datastore"
	"github.com/smartshark27/movie-rating-checker/internal/media"
	"github.com/smartshark27/movie-rating-checker/internal/output"
	"github.com/smartshark27/movie-rating-checker/internal/pipeline"
	"github.com/smartshark27/movie-rating-checker/internal/resolver"
	"github.com/smartshark27/movie-rating-checker/internal/tmdb"
)

// CLI represents the complete command structure for the application
type CLI struct {
	Check   CheckCmd   `cmd:"" help:"Check ratings for media from the given catalogue sources"`
	Sources SourcesCmd `cmd:"" help:"List the available media sources"`
}

// CheckCmd aggregates the given sources, enriches them with TMDB data
// and writes the filtered, sorted list to the output directory.
type CheckCmd struct {
	MediaSources []string `arg:"" name:"media-sources" help:"Media sources to check (see the sources command)"`

	TMDBAPIKey string `name:"tmdb-api-key" help:"TMDB API key (falls back to the TMDB_API_KEY environment variable or config)"`

	SortBy             string  `help:"Sort the final list by this metric" enum:"tmdb-rating,tmdb-rating-count,tmdb-popularity" default:"tmdb-rating"`
	MinRating          float64 `help:"Minimum rating to include a movie" default:"7"`
	MinRatingCount     int     `help:"Minimum number of ratings to include a movie" default:"100"`
	MinShowRating      float64 `help:"Minimum rating for shows (defaults to --min-rating)" default:"-1"`
	MinShowRatingCount int     `help:"Minimum number of ratings for shows (defaults to --min-rating-count)" default:"-1"`

	Concurrency int    `help:"Maximum concurrent TMDB lookups" default:"40"`
	CacheFile   string `help:"Path to the enrichment cache file"`
	CacheErrors bool   `help:"Persist misses caused by lookup errors to the cache (legacy behavior)"`

	OutputDir string `short:"o" help:"Directory for the output files"`
	Markdown  bool   `help:"Write a markdown note per title under the output directory"`

	Datasette   bool   `help:"Write the final list to a SQLite database" default:"false"`
	DatasetteDB string `help:"Path to the SQLite database file" default:"./media.db"`
}

// SourcesCmd lists every registered catalogue source.
type SourcesCmd struct{}

var osExit = os.Exit

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("movie-rating-checker"),
		kong.Description("Aggregate free-to-air streaming catalogues and rank titles by TMDB ratings."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		osExit(1)
	}
}

func initConfig() {
	viper.AutomaticEnv()
	if err := viper.BindEnv("TMDBAPIKey", "TMDB_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("tubi.accesstoken", "TUBI_ACCESS_TOKEN"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			osExit(1)
		}
	}

	config.InitConfig()
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// Run executes the check command.
func (c *CheckCmd) Run() error {
	if len(c.MediaSources) == 0 {
		return fmt.Errorf("at least one media source is required (see the sources command)")
	}

	apiKey := c.TMDBAPIKey
	if apiKey == "" {
		apiKey = config.TMDBAPIKey
	}
	if apiKey == "" {
		return fmt.Errorf("TMDB API key is required (provide via --tmdb-api-key or set the TMDB_API_KEY environment variable)")
	}

	cacheFile := c.CacheFile
	if cacheFile == "" {
		cacheFile = viper.GetString("CacheFile")
	}
	outputDir := c.OutputDir
	if outputDir == "" {
		outputDir = viper.GetString("OutputDir")
	}

	collectors, err := collector.Sources(c.MediaSources, collector.Config{
		TubiAccessToken: config.TubiAccessToken,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()

	records, err := pipeline.Collect(ctx, collectors)
	if err != nil {
		return err
	}
	slog.Info("Collected media records", "count", len(records))

	cache, err := cachestore.Open(cacheFile)
	if err != nil {
		return err
	}

	client := tmdb.NewClient(apiKey)
	r := resolver.New(client, cache,
		resolver.WithConcurrency(c.Concurrency),
		resolver.WithCacheErrors(c.CacheErrors),
	)

	list := pipeline.Aggregate(ctx, records, r, pipeline.Options{
		SortBy:     pipeline.Metric(c.SortBy),
		Thresholds: c.thresholds(),
	})

	// Persist the cache before the output steps so resolved lookups are
	// kept even if a write below fails.
	if err := cache.Save(); err != nil {
		return err
	}

	writer := &output.Writer{
		Dir:          outputDir,
		PreviousFile: viper.GetString("PreviousFile"),
	}
	if err := writer.WriteAll(list); err != nil {
		return err
	}
	if _, err := writer.WriteNewAdditions(list); err != nil {
		return err
	}
	if err := writer.SavePrevious(list); err != nil {
		return err
	}

	if c.Markdown {
		if err := output.WriteMarkdown(list, filepath.Join(outputDir, "notes")); err != nil {
			return err
		}
	}

	if c.Datasette {
		if err := writeDatastore(c.DatasetteDB, list); err != nil {
			return err
		}
	}

	slog.Info("Done", "titles", len(list))
	return nil
}

func (c *CheckCmd) thresholds() pipeline.Thresholds {
	t := pipeline.Thresholds{
		MovieRating:      c.MinRating,
		MovieRatingCount: c.MinRatingCount,
		ShowRating:       c.MinShowRating,
		ShowRatingCount:  c.MinShowRatingCount,
	}
	if t.ShowRating < 0 {
		t.ShowRating = t.MovieRating
	}
	if t.ShowRatingCount < 0 {
		t.ShowRatingCount = t.MovieRatingCount
	}
	return t
}

func writeDatastore(dbPath string, list []media.Enriched) error {
	store := datastore.NewSQLiteStore(dbPath)
	if err := store.Connect(); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.InsertMedia(list); err != nil {
		return err
	}

	slog.Info("Saved media list to SQLite", "path", dbPath, "count", len(list))
	return nil
}

// Run prints the registered source names.
func (s *SourcesCmd) Run() error {
	for _, name := range collector.Names() {
		fmt.Println(name)
	}
	return nil
}
