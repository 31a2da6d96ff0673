package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings.
type Config struct {
	// User configurable settings
	YouTubeAPIKey    string
	OpenRouterAPIKey string
	Model            string
	DataDir          string
	MaxMonthlyCost   float64
	WarnAtCost       float64
	MaxRetries       int
	RequestTimeout   time.Duration
	Verbose          bool
	Quiet            bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	CacheDir  string
}

// Default budget and retry settings.
const (
	DefaultModel          = "qwen/qwen-2.5-72b-instruct"
	DefaultMaxMonthlyCost = 10.0
	DefaultWarnAtCost     = 8.0
	DefaultMaxRetries     = 3
	DefaultRequestTimeout = 60 * time.Second
)

// InitConfig initializes Viper and loads configuration.
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "videodistiller")
	dataDir := filepath.Join(xdg.DataHome, "videodistiller")
	cacheDir := filepath.Join(xdg.CacheHome, "videodistiller")

	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("model", DefaultModel)
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("max_monthly_cost", DefaultMaxMonthlyCost)
	v.SetDefault("warn_at_cost", DefaultWarnAtCost)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("VIDEODISTILLER")
	v.AutomaticEnv()

	// API keys come from their conventional env vars as well
	_ = v.BindEnv("youtube_api_key", "YOUTUBE_API_KEY")
	_ = v.BindEnv("openrouter_api_key", "OPENROUTER_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		YouTubeAPIKey:    v.GetString("youtube_api_key"),
		OpenRouterAPIKey: v.GetString("openrouter_api_key"),
		Model:            v.GetString("model"),
		DataDir:          v.GetString("data_dir"),
		MaxMonthlyCost:   v.GetFloat64("max_monthly_cost"),
		WarnAtCost:       v.GetFloat64("warn_at_cost"),
		MaxRetries:       v.GetInt("max_retries"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		Verbose:          v.GetBool("verbose"),
		Quiet:            v.GetBool("quiet"),

		ConfigDir: configDir,
		CacheDir:  cacheDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
