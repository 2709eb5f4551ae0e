package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MimeLyc/sonarr-nudger/internal/rule"
	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
	"github.com/MimeLyc/sonarr-nudger/pkg/log"
)

// Config holds all application configuration
//
// Environment Variables:
// Sonarr Configuration:
// - SONARR_URL: Sonarr base URL, e.g. http://localhost:8989 (required)
// - SONARR_API_KEY: Sonarr API key (required)
// - SONARR_TIMEOUT: HTTP timeout in seconds (default: 30)
// - QUEUE_PAGE_SIZE: records fetched per queue page (default: 100)
//
// Poll Configuration:
// - WAIT_TIME: seconds to wait between queue checks (default: 60)
// - RULES_FILE: YAML file holding the pattern rules (default: /app/config/rules.yaml)
//
// System Configuration:
// - LOG_LEVEL: debug, info, warn or error (default: info)
type Config struct {
	Sonarr SonarrConfig `json:"sonarr"`
	Poll   PollConfig   `json:"poll"`
	System SystemConfig `json:"system"`

	// Rules are compiled from Poll.RulesFile unless supplied with WithRules
	Rules rule.Rules `json:"-"`
}

type SonarrConfig struct {
	URL      string `json:"url"`
	APIKey   string `json:"-"`
	Timeout  int    `json:"timeout"`
	PageSize int    `json:"page_size"`
}

// Client returns the sonarr client configuration.
func (c SonarrConfig) Client() sonarr.Config {
	return sonarr.Config{
		BaseURL:  c.URL,
		APIKey:   c.APIKey,
		Timeout:  time.Duration(c.Timeout) * time.Second,
		PageSize: c.PageSize,
	}
}

type PollConfig struct {
	WaitTime  int    `json:"wait_time"`
	RulesFile string `json:"rules_file"`
}

// Interval is WaitTime as a duration.
func (c PollConfig) Interval() time.Duration {
	return time.Duration(c.WaitTime) * time.Second
}

type SystemConfig struct {
	LogLevel string `json:"log_level"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithRulesFile overrides RULES_FILE.
func WithRulesFile(path string) Option {
	return func(c *Config) {
		if strings.TrimSpace(path) != "" {
			c.Poll.RulesFile = path
		}
	}
}

// WithRules supplies compiled rules directly; the rules file is not read.
func WithRules(rules rule.Rules) Option {
	return func(c *Config) {
		c.Rules = rules
	}
}

const DefaultRulesFile = "/app/config/rules.yaml"

// NewFromEnv creates a new Config instance with values from environment
// variables and options, then loads and validates the rules.
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Sonarr: SonarrConfig{
			URL:      getEnvString("SONARR_URL", ""),
			APIKey:   getEnvString("SONARR_API_KEY", ""),
			Timeout:  getEnvInt("SONARR_TIMEOUT", 30),
			PageSize: getEnvInt("QUEUE_PAGE_SIZE", sonarr.DefaultPageSize),
		},
		Poll: PollConfig{
			WaitTime:  getEnvInt("WAIT_TIME", 60),
			RulesFile: getEnvString("RULES_FILE", DefaultRulesFile),
		},
		System: SystemConfig{
			LogLevel: getEnvString("LOG_LEVEL", "info"),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Rules == nil && config.Poll.RulesFile != "" {
		rules, err := LoadRulesFile(config.Poll.RulesFile)
		switch {
		case err == nil:
			config.Rules = rules
		case os.IsNotExist(err) && config.Poll.RulesFile == DefaultRulesFile:
			// validate reports the missing rules
		case os.IsNotExist(err):
			return nil, fmt.Errorf("rules file %s does not exist", config.Poll.RulesFile)
		default:
			return nil, err
		}
	}

	log.Debug("Config: %v", config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if strings.TrimSpace(c.Sonarr.URL) == "" {
		return fmt.Errorf("SONARR_URL is required")
	}
	if strings.TrimSpace(c.Sonarr.APIKey) == "" {
		return fmt.Errorf("SONARR_API_KEY is required")
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("no pattern rules configured, add some to %s", c.Poll.RulesFile)
	}
	if c.Poll.WaitTime < 1 {
		return fmt.Errorf("WAIT_TIME must be a positive number of seconds")
	}
	if c.Sonarr.Timeout < 1 {
		return fmt.Errorf("SONARR_TIMEOUT must be a positive number of seconds")
	}
	if c.Sonarr.PageSize < 1 {
		return fmt.Errorf("QUEUE_PAGE_SIZE must be positive")
	}
	return nil
}

// String renders the config for logs. The API key is never included.
func (c *Config) String() string {
	key := ""
	if c.Sonarr.APIKey != "" {
		key = "***"
	}
	return fmt.Sprintf("{sonarr: {url: %s, api_key: %s, timeout: %ds, page_size: %d}, poll: {wait_time: %ds, rules_file: %s, rules: %d}, log_level: %s}",
		c.Sonarr.URL, key, c.Sonarr.Timeout, c.Sonarr.PageSize,
		c.Poll.WaitTime, c.Poll.RulesFile, len(c.Rules), c.System.LogLevel)
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
