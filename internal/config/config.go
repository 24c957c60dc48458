// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   Server
	Gemini   Gemini
	Lookup   Lookup
	Pipeline Pipeline
}

// Server holds the HTTP listener settings.
type Server struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	LogLevel       string
}

// Gemini holds model credentials and retry tuning.
type Gemini struct {
	APIKey        string
	BackupAPIKeys []string
	Model         string
	MaxAttempts   int
	BaseDelay     time.Duration
}

// Keys returns the primary credential followed by the backups.
func (g Gemini) Keys() []string {
	keys := make([]string, 0, 1+len(g.BackupAPIKeys))
	keys = append(keys, g.APIKey)
	for _, k := range g.BackupAPIKeys {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Lookup holds the product-lookup API settings.
type Lookup struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Pipeline holds per-stage timeouts.
type Pipeline struct {
	SearchTimeout time.Duration
	EnrichTimeout time.Duration
	ScrapeTimeout time.Duration
}

// Load reads configuration from ALTREC_* environment variables, applying
// defaults, and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ALTREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.max_attempts", 3)
	v.SetDefault("gemini.base_delay", "2s")
	v.SetDefault("gemini.backup_api_keys", "")

	v.SetDefault("lookup.base_url", "https://api.scraperapi.com")
	v.SetDefault("lookup.timeout", "15s")
	v.SetDefault("lookup.rps", 5.0)
	v.SetDefault("lookup.burst", 5)

	v.SetDefault("pipeline.search_timeout", "12s")
	v.SetDefault("pipeline.enrich_timeout", "20s")
	v.SetDefault("pipeline.scrape_timeout", "20s")

	cfg := &Config{
		Server: Server{
			Port:           v.GetString("server.port"),
			Environment:    v.GetString("server.environment"),
			AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
			LogLevel:       v.GetString("server.log_level"),
		},
		Gemini: Gemini{
			APIKey:        v.GetString("gemini.api_key"),
			BackupAPIKeys: splitList(v.GetString("gemini.backup_api_keys")),
			Model:         v.GetString("gemini.model"),
			MaxAttempts:   v.GetInt("gemini.max_attempts"),
			BaseDelay:     v.GetDuration("gemini.base_delay"),
		},
		Lookup: Lookup{
			APIKey:  v.GetString("lookup.api_key"),
			BaseURL: v.GetString("lookup.base_url"),
			Timeout: v.GetDuration("lookup.timeout"),
			RPS:     v.GetFloat64("lookup.rps"),
			Burst:   v.GetInt("lookup.burst"),
		},
		Pipeline: Pipeline{
			SearchTimeout: v.GetDuration("pipeline.search_timeout"),
			EnrichTimeout: v.GetDuration("pipeline.enrich_timeout"),
			ScrapeTimeout: v.GetDuration("pipeline.scrape_timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("config: ALTREC_GEMINI_API_KEY is required")
	}
	if c.Gemini.MaxAttempts <= 0 {
		return fmt.Errorf("config: gemini max_attempts must be positive")
	}
	if c.Gemini.BaseDelay <= 0 {
		return fmt.Errorf("config: gemini base_delay must be positive")
	}
	if c.Lookup.APIKey == "" {
		return fmt.Errorf("config: ALTREC_LOOKUP_API_KEY is required")
	}
	if c.Pipeline.SearchTimeout <= 0 || c.Pipeline.EnrichTimeout <= 0 || c.Pipeline.ScrapeTimeout <= 0 {
		return fmt.Errorf("config: pipeline timeouts must be positive")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
