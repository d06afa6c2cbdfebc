package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshark27/movie-rating-checker/internal/config"
	"github.com/smartshark27/movie-rating-checker/internal/pipeline"
)

func resetCmdState(t *testing.T) {
	origAPIKey := config.TMDBAPIKey
	origToken := config.TubiAccessToken

	t.Cleanup(func() {
		config.TMDBAPIKey = origAPIKey
		config.TubiAccessToken = origToken
		viper.Reset()
	})

	viper.Reset()
	config.TMDBAPIKey = ""
	config.TubiAccessToken = ""
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"movie-rating-checker"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("movie-rating-checker"),
		kong.Description("Aggregate free-to-air streaming catalogues and rank titles by TMDB ratings."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestCheckCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "check", "abc-movies-a-z", "sbs-movies-all",
		"--tmdb-api-key", "test-key",
		"--sort-by", "tmdb-popularity",
		"--min-rating", "6.5",
		"--min-rating-count", "50",
		"--concurrency", "10",
		"-o", "out",
		"--markdown",
	)

	assert.Equal(t, []string{"abc-movies-a-z", "sbs-movies-all"}, cli.Check.MediaSources)
	assert.Equal(t, "test-key", cli.Check.TMDBAPIKey)
	assert.Equal(t, "tmdb-popularity", cli.Check.SortBy)
	assert.InDelta(t, 6.5, cli.Check.MinRating, 0.0001)
	assert.Equal(t, 50, cli.Check.MinRatingCount)
	assert.Equal(t, 10, cli.Check.Concurrency)
	assert.Equal(t, "out", cli.Check.OutputDir)
	assert.True(t, cli.Check.Markdown)
	assert.False(t, cli.Check.Datasette)
}

func TestCheckCommandDefaults(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "check", "abc-movies-a-z")

	assert.Equal(t, "tmdb-rating", cli.Check.SortBy)
	assert.InDelta(t, 7.0, cli.Check.MinRating, 0.0001)
	assert.Equal(t, 100, cli.Check.MinRatingCount)
	assert.Equal(t, 40, cli.Check.Concurrency)
	assert.False(t, cli.Check.CacheErrors)
	assert.Equal(t, "./media.db", cli.Check.DatasetteDB)
}

func TestCheckCommandRejectsUnknownSortMetric(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("movie-rating-checker"))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"check", "abc-movies-a-z", "--sort-by", "imdb-rating"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--sort-by")
}

func TestCheckCommandRequiresAPIKey(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "check", "abc-movies-a-z")
	err := ctx.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TMDB API key is required")
	_ = cli
}

func TestCheckCommandRejectsUnknownSource(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "check", "netflix", "--tmdb-api-key", "test-key")
	err := ctx.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown media source")
	_ = cli
}

func TestShowThresholdsFallBackToMovieValues(t *testing.T) {
	resetCmdState(t)

	c := &CheckCmd{
		MinRating:          6.5,
		MinRatingCount:     200,
		MinShowRating:      -1,
		MinShowRatingCount: -1,
	}

	got := c.thresholds()
	want := pipeline.Thresholds{
		MovieRating:      6.5,
		MovieRatingCount: 200,
		ShowRating:       6.5,
		ShowRatingCount:  200,
	}
	assert.Equal(t, want, got)
}

func TestShowThresholdsKeepExplicitValues(t *testing.T) {
	resetCmdState(t)

	c := &CheckCmd{
		MinRating:          7,
		MinRatingCount:     100,
		MinShowRating:      0,
		MinShowRatingCount: 0,
	}

	got := c.thresholds()
	assert.InDelta(t, 0.0, got.ShowRating, 0.0001)
	assert.Equal(t, 0, got.ShowRatingCount)
}

func TestSourcesCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "sources")
	assert.NotNil(t, cli.Sources)
}
