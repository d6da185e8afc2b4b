package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, upstream market-data endpoints, and pipeline tuning knobs.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	NSE_BASE_URL=https://www.nseindia.com
//	YAHOO_BASE_URL=https://query2.finance.yahoo.com
//	HTTP_TIMEOUT_SECONDS=10
//	MAX_DROP_RATIO=0.5
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Upstream UpstreamConfig // NSE / Yahoo endpoint settings
	Pipeline PipelineConfig // Normalization tuning
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// UpstreamConfig defines the upstream option-chain endpoints.
//
// Fields:
//   - NSEBaseURL: base URL of the NSE site (the option-chain API lives under /api).
//   - YahooBaseURL: base URL of the Yahoo Finance query host.
//   - UserAgent: User-Agent header sent on every upstream request. NSE rejects
//     requests without a browser-like agent.
//   - Timeout: per-request timeout applied to the shared HTTP client.
type UpstreamConfig struct {
	NSEBaseURL   string
	YahooBaseURL string
	UserAgent    string
	Timeout      time.Duration
}

// PipelineConfig holds tuning knobs for the normalize/aggregate pipeline.
//
// Fields:
//   - MaxDropRatio: maximum tolerated fraction of unparseable rows per payload.
//     Above this the whole normalization pass fails instead of proceeding with
//     a silently thinned chain.
//   - TopStrikes: how many of the most active strikes the summary reports.
type PipelineConfig struct {
	MaxDropRatio float64
	TopStrikes   int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("NSE_BASE_URL", "https://www.nseindia.com")
	viper.SetDefault("YAHOO_BASE_URL", "https://query2.finance.yahoo.com")
	viper.SetDefault("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 10)

	viper.SetDefault("MAX_DROP_RATIO", 0.5)
	viper.SetDefault("TOP_STRIKES", 20)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Upstream: UpstreamConfig{
			NSEBaseURL:   viper.GetString("NSE_BASE_URL"),
			YahooBaseURL: viper.GetString("YAHOO_BASE_URL"),
			UserAgent:    viper.GetString("USER_AGENT"),
			Timeout:      time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		},
		Pipeline: PipelineConfig{
			MaxDropRatio: viper.GetFloat64("MAX_DROP_RATIO"),
			TopStrikes:   viper.GetInt("TOP_STRIKES"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Upstream.NSEBaseURL == "" {
		missing = append(missing, "NSE_BASE_URL")
	}
	if AppConfig.Upstream.YahooBaseURL == "" {
		missing = append(missing, "YAHOO_BASE_URL")
	}
	if AppConfig.Upstream.Timeout <= 0 {
		missing = append(missing, "HTTP_TIMEOUT_SECONDS")
	}
	if AppConfig.Pipeline.MaxDropRatio <= 0 || AppConfig.Pipeline.MaxDropRatio > 1 {
		missing = append(missing, "MAX_DROP_RATIO")
	}

	if len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}
