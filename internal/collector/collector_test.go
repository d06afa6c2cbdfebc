package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesUnknownName(t *testing.T) {
	_, err := Sources([]string{"netflix-top-ten"}, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown media source "netflix-top-ten"`)
}

func TestSourcesPreservesOrder(t *testing.T) {
	collectors, err := Sources([]string{"sbs-movies-all", "abc-movies-a-z"}, Config{})
	require.NoError(t, err)
	require.Len(t, collectors, 2)
	assert.Equal(t, "sbs-movies-all", collectors[0].Name())
	assert.Equal(t, "abc-movies-a-z", collectors[1].Name())
}

func TestSourcesTubiRequiresToken(t *testing.T) {
	_, err := Sources([]string{"tubi-most-popular"}, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tubi access token is required")

	_, err = Sources([]string{"tubi-most-popular"}, Config{TubiAccessToken: "token"})
	assert.NoError(t, err)
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "abc-movies-of-the-week")
	assert.Contains(t, names, "sbs-shows-bingeable-box-sets")
	assert.Contains(t, names, "tenplay-movies")
	assert.Contains(t, names, "tubi-trending-now")
	assert.IsIncreasing(t, names)
}
