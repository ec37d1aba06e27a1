package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SlackBotToken != "xoxb-test" {
		t.Errorf("SlackBotToken = %q", cfg.SlackBotToken)
	}
	if cfg.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, DefaultTimezone)
	}
	if cfg.RequestInterval != DefaultRequestInterval {
		t.Errorf("RequestInterval = %v, want %v", cfg.RequestInterval, DefaultRequestInterval)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.CSVPath != DefaultCSVPath {
		t.Errorf("CSVPath = %q, want %q", cfg.CSVPath, DefaultCSVPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log settings = %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_MissingTokenFails(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("PULSE_SLACK_BOT_TOKEN", "")

	if _, err := Load(""); err == nil {
		t.Fatal("Load() succeeded without a token")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("PULSE_SLACK_BOT_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `slack_bot_token: "xoxb-from-file"
channel_prefix: "team-"
timezone: "UTC"
request_interval: 2s
workers: 4
log_format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SlackBotToken != "xoxb-from-file" {
		t.Errorf("SlackBotToken = %q", cfg.SlackBotToken)
	}
	if cfg.ChannelPrefix != "team-" {
		t.Errorf("ChannelPrefix = %q", cfg.ChannelPrefix)
	}
	if cfg.RequestInterval != 2*time.Second {
		t.Errorf("RequestInterval = %v, want 2s", cfg.RequestInterval)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("slack_bot_token: \"xoxb-from-file\"\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SlackBotToken != "xoxb-from-env" {
		t.Errorf("SlackBotToken = %q, want the env value", cfg.SlackBotToken)
	}
}

func TestLoad_MissingFileTolerated(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SlackBotToken != "xoxb-test" {
		t.Errorf("SlackBotToken = %q", cfg.SlackBotToken)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "workers out of range",
			content: "slack_bot_token: \"xoxb\"\nworkers: 99\n",
		},
		{
			name:    "bad log level",
			content: "slack_bot_token: \"xoxb\"\nlog_level: loud\n",
		},
		{
			name:    "bad log format",
			content: "slack_bot_token: \"xoxb\"\nlog_format: xml\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() accepted an invalid config")
			}
		})
	}
}

func TestLocation(t *testing.T) {
	local := &Config{Timezone: "Local"}
	loc, err := local.Location()
	if err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v; want local", loc, err)
	}

	utc := &Config{Timezone: "UTC"}
	loc, err = utc.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}

	bad := &Config{Timezone: "Not/AZone"}
	if _, err := bad.Location(); err == nil {
		t.Error("Location() accepted an invalid zone")
	}
}
