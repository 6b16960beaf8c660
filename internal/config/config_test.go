package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnv = []string{
	EnvBotToken, EnvChatID, EnvTelegramAPI, EnvSourceURL, EnvLocalPath,
	EnvGitRepo, EnvGitRef, EnvGitPath, EnvStatePath, EnvInterval,
	EnvInspectTimeout, EnvNotifyTimeout, EnvFetchTimeout, EnvHTTPListen, EnvLogLevel,
}

// clearEnv isolates a test from variables set in the surrounding shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		if v, ok := os.LookupEnv(k); ok {
			t.Setenv(k, v)
			os.Unsetenv(k)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Interval() != 60*time.Second {
		t.Errorf("Interval() = %v", cfg.Interval())
	}
	if cfg.Source.LocalPath != "containers.json" || cfg.StatePath != "container_state.json" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.InspectTimeout() != 5*time.Second || cfg.NotifyTimeout() != 5*time.Second || cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("unexpected timeouts: %+v", cfg)
	}
	if cfg.HTTP.Listen != ":3000" {
		t.Errorf("HTTP.Listen = %q", cfg.HTTP.Listen)
	}
	if cfg.NotificationsEnabled() {
		t.Error("notifications enabled without credentials")
	}
}

func TestFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "healthwatch.yaml", `
telegram:
  bot_token: file-token
  chat_id: "42"
source:
  url: https://example.com/containers.json
state_path: /var/lib/healthwatch/state.json
interval_seconds: 30
http:
  listen: ""
`)
	t.Setenv(EnvBotToken, "env-token")
	t.Setenv(EnvInterval, "15")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("BotToken = %q, want env override", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "42" || !cfg.NotificationsEnabled() {
		t.Errorf("ChatID = %q", cfg.Telegram.ChatID)
	}
	if cfg.IntervalSeconds != 15 {
		t.Errorf("IntervalSeconds = %d, want 15", cfg.IntervalSeconds)
	}
	if cfg.StatePath != "/var/lib/healthwatch/state.json" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.HTTP.Listen != "" {
		t.Errorf("HTTP.Listen = %q, want disabled", cfg.HTTP.Listen)
	}
	if cfg.Source.LocalPath != "containers.json" {
		t.Errorf("LocalPath default lost: %q", cfg.Source.LocalPath)
	}
}

func TestJSONConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"telegram": {"bot_token": "t", "chat_id": "1"}, "interval_seconds": 120}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.IntervalSeconds != 120 || !cfg.NotificationsEnabled() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestHTTPListenEnvCanDisable(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHTTPListen, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Listen != "" {
		t.Errorf("HTTP.Listen = %q, want empty", cfg.HTTP.Listen)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr string
	}{
		{name: "non-numeric interval", env: map[string]string{EnvInterval: "soon"}, wantErr: EnvInterval},
		{name: "zero interval", env: map[string]string{EnvInterval: "0"}, wantErr: "interval_seconds"},
		{name: "negative timeout", env: map[string]string{EnvNotifyTimeout: "-1"}, wantErr: "notify_timeout_seconds"},
		{name: "bad source url", env: map[string]string{EnvSourceURL: "ftp://example.com/c.json"}, wantErr: "source.url"},
		{name: "no source", file: "source:\n  local_path: \"\"\n", wantErr: "no container list source"},
		{name: "empty state path", file: "state_path: \"\"\n", wantErr: "state_path"},
		{name: "broken yaml", file: "interval_seconds: [\n", wantErr: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, "config.yaml", tt.file)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "TELEGRAM_BOT_TOKEN=from-dotenv\nCHECK_INTERVAL=90\n")
	t.Setenv(EnvInterval, "45")
	// Registered with t.Setenv so the value loaded below is reverted.
	t.Setenv(EnvBotToken, "")
	os.Unsetenv(EnvBotToken)

	if err := LoadEnvFile(path, true); err != nil {
		t.Fatalf("LoadEnvFile() error: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "from-dotenv" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if cfg.IntervalSeconds != 45 {
		t.Errorf("IntervalSeconds = %d, existing env must win over .env", cfg.IntervalSeconds)
	}

	missing := filepath.Join(t.TempDir(), ".env")
	if err := LoadEnvFile(missing, false); err != nil {
		t.Errorf("optional missing env file: %v", err)
	}
	if err := LoadEnvFile(missing, true); err == nil {
		t.Error("expected error for required missing env file")
	}
}
