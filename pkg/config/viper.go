// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so configuration is loaded and available to
// all other packages.
func InitConfig() {
	// Define the name of the config file to look for (without extension).
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/knowmesh/")
	viper.AddConfigPath("$HOME/.knowmesh")

	// Defaults used when a value is not provided in a config file or via
	// environment variables.
	const defaultUA = "KnowledgeMesh/1.0 (+https://github.com/knowmesh/knowmesh)"
	viper.SetDefault("fetch.user_agent", defaultUA)
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("fetch.max_body_bytes", 1_500_000)
	viper.SetDefault("fetch.max_attempts", 3)

	viper.SetDefault("annotate.max_text_runes", 200_000)

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("logging.development", false)

	// Environment variables, e.g. KNOWMESH_FETCH_TIMEOUT=30s.
	viper.SetEnvPrefix("KNOWMESH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults and environment variables
			// are enough to proceed.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
