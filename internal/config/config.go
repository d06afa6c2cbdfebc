// Package config holds the viper-backed global configuration.
package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// TMDBAPIKey is the API key for TheMovieDB
	TMDBAPIKey string
	// TubiAccessToken authorizes Tubi container API requests
	TubiAccessToken string
)

// InitConfig initializes the global configuration
func InitConfig() {
	viper.SetDefault("OutputDir", "./output/")
	viper.SetDefault("CacheFile", "./cache/tmdb.json")
	viper.SetDefault("PreviousFile", "./cache/previous-media.json")

	TMDBAPIKey = viper.GetString("TMDBAPIKey")
	TubiAccessToken = viper.GetString("tubi.accesstoken")
}
