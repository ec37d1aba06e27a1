// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultTimezone        = "Local"
	DefaultRequestInterval = 1 * time.Second
	DefaultWorkers         = 1
	DefaultCSVPath         = "slack_post_summary_with_replies.csv"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config holds the runtime settings for a collection run.
type Config struct {
	// SlackBotToken is the xoxb- token used for every API call.
	SlackBotToken string `mapstructure:"slack_bot_token" validate:"required"`

	// ChannelPrefix restricts collection to channels whose name starts
	// with this prefix. Empty means all channels.
	ChannelPrefix string `mapstructure:"channel_prefix"`

	// OutputChannel is the channel id summaries are posted to.
	OutputChannel string `mapstructure:"output_channel"`

	// Timezone is the IANA name used for timestamp-to-date conversion.
	// "Local" keeps the host timezone, matching earlier reports.
	Timezone string `mapstructure:"timezone"`

	// RequestInterval is the minimum delay between successive API pages.
	RequestInterval time.Duration `mapstructure:"request_interval" validate:"min=0"`

	// Workers bounds the per-channel collection fan-out.
	Workers int `mapstructure:"workers" validate:"min=1,max=16"`

	// CSVPath is where the activity report is written.
	CSVPath string `mapstructure:"csv_path"`

	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`
}

// Load reads configuration from, in order of precedence:
// defaults, the config file at path (optional), then environment
// variables (PULSE_* and SLACK_BOT_TOKEN).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("request_interval", DefaultRequestInterval)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("csv_path", DefaultCSVPath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// The config file is optional; env vars may carry everything.
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PULSE")
	v.AutomaticEnv()
	if err := v.BindEnv("slack_bot_token", "PULSE_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
