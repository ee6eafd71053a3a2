package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	SMTP      SMTPConfig      `yaml:"smtp" envconfig:"SMTP"`
	Collector CollectorConfig `yaml:"collector" envconfig:"COLLECTOR"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer" envconfig:"ANALYZER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// SMTPConfig contains the notification transport credentials. When the
// user, password, or recipient is empty the notifier skips dispatch with a
// warning rather than failing the run.
type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"HOST"`
	Port     int    `yaml:"port" envconfig:"PORT"`
	User     string `yaml:"user" envconfig:"USER"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	To       string `yaml:"to" envconfig:"TO"`
}

// Configured reports whether enough is set to attempt a send.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Password != "" && c.To != ""
}

// CollectorConfig contains download behavior configuration
type CollectorConfig struct {
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	RPS       float64       `yaml:"rps" envconfig:"RPS"`
	Burst     int           `yaml:"burst" envconfig:"BURST"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// AnalyzerConfig carries the change-detection and metric policy values.
// They are fixed policy, not runtime-tunable knobs; config injection keeps
// the core testable with varied thresholds.
type AnalyzerConfig struct {
	GGRChangeThreshold float64 `yaml:"ggr_change_threshold" envconfig:"GGR_CHANGE_THRESHOLD"`
	YoYLookbackDays    int     `yaml:"yoy_lookback_days" envconfig:"YOY_LOOKBACK_DAYS"`
}

// Load loads configuration in layers: built-in defaults, then the config
// file, then environment variables (NYG_ prefix), each overriding the last.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("NYG", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration, filling in defaults where a file
// left fields zero.
func (c *Config) validate() error {
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	if c.Analyzer.GGRChangeThreshold <= 0 {
		return fmt.Errorf("GGR change threshold must be positive, got %v", c.Analyzer.GGRChangeThreshold)
	}

	if c.Analyzer.YoYLookbackDays <= 0 {
		return fmt.Errorf("YoY lookback days must be positive, got %d", c.Analyzer.YoYLookbackDays)
	}

	if c.Collector.Timeout <= 0 {
		c.Collector.Timeout = DefaultHTTPTimeout
	}
	if c.Collector.RPS <= 0 {
		c.Collector.RPS = DefaultFetchRPS
	}
	if c.Collector.Burst <= 0 {
		c.Collector.Burst = DefaultFetchBurst
	}
	if c.Collector.UserAgent == "" {
		c.Collector.UserAgent = DefaultUserAgent
	}

	if c.Logging.Format != "json" {
		// Always JSON; text logs do not survive the scheduler's capture
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/monitor.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: "logs/monitor.log",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Collector: CollectorConfig{
			Timeout:   DefaultHTTPTimeout,
			RPS:       DefaultFetchRPS,
			Burst:     DefaultFetchBurst,
			UserAgent: DefaultUserAgent,
		},
		Analyzer: AnalyzerConfig{
			GGRChangeThreshold: DefaultGGRChangeThreshold,
			YoYLookbackDays:    DefaultYoYLookbackDays,
		},
	}
}
