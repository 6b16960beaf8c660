// Package config resolves daemon settings.
//
// Values are layered: built-in defaults, then an optional YAML (or JSON)
// config file, then environment variables. A .env file can seed the
// environment beforehand; it never overrides variables that are already set.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load.
const (
	EnvBotToken       = "TELEGRAM_BOT_TOKEN"
	EnvChatID         = "TELEGRAM_CHAT_ID"
	EnvTelegramAPI    = "TELEGRAM_API_URL"
	EnvSourceURL      = "JSON_URL"
	EnvLocalPath      = "LOCAL_JSON_PATH"
	EnvGitRepo        = "GIT_REPO_URL"
	EnvGitRef         = "GIT_REF"
	EnvGitPath        = "GIT_PATH"
	EnvStatePath      = "STATE_FILE"
	EnvInterval       = "CHECK_INTERVAL"
	EnvInspectTimeout = "INSPECT_TIMEOUT"
	EnvNotifyTimeout  = "NOTIFY_TIMEOUT"
	EnvFetchTimeout   = "FETCH_TIMEOUT"
	EnvHTTPListen     = "HTTP_LISTEN"
	EnvLogLevel       = "LOG_LEVEL"
)

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	APIURL   string `yaml:"api_url"`
}

type GitConfig struct {
	Repo string `yaml:"repo"`
	Ref  string `yaml:"ref"`
	Path string `yaml:"path"`
}

type SourceConfig struct {
	LocalPath string    `yaml:"local_path"`
	URL       string    `yaml:"url"`
	Git       GitConfig `yaml:"git"`
}

type HTTPConfig struct {
	// Listen is the status API address; empty disables the server.
	Listen string `yaml:"listen"`
}

// Config holds every recognized option.
type Config struct {
	Telegram              TelegramConfig `yaml:"telegram"`
	Source                SourceConfig   `yaml:"source"`
	StatePath             string         `yaml:"state_path"`
	IntervalSeconds       int            `yaml:"interval_seconds"`
	InspectTimeoutSeconds int            `yaml:"inspect_timeout_seconds"`
	NotifyTimeoutSeconds  int            `yaml:"notify_timeout_seconds"`
	FetchTimeoutSeconds   int            `yaml:"fetch_timeout_seconds"`
	HTTP                  HTTPConfig     `yaml:"http"`
	LogLevel              string         `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{APIURL: "https://api.telegram.org"},
		Source: SourceConfig{
			LocalPath: "containers.json",
			Git:       GitConfig{Path: "containers.json"},
		},
		StatePath:             "container_state.json",
		IntervalSeconds:       60,
		InspectTimeoutSeconds: 5,
		NotifyTimeoutSeconds:  5,
		FetchTimeoutSeconds:   10,
		HTTP:                  HTTPConfig{Listen: ":3000"},
		LogLevel:              "info",
	}
}

// LoadEnvFile loads a .env file into the process environment. A missing
// file is only an error when required is set.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from defaults, the config file at path
// (skipped when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Telegram.BotToken, EnvBotToken)
	setString(&c.Telegram.ChatID, EnvChatID)
	setString(&c.Telegram.APIURL, EnvTelegramAPI)
	setString(&c.Source.URL, EnvSourceURL)
	setString(&c.Source.LocalPath, EnvLocalPath)
	setString(&c.Source.Git.Repo, EnvGitRepo)
	setString(&c.Source.Git.Ref, EnvGitRef)
	setString(&c.Source.Git.Path, EnvGitPath)
	setString(&c.StatePath, EnvStatePath)
	setString(&c.LogLevel, EnvLogLevel)
	// An explicitly empty HTTP_LISTEN disables the status server.
	if v, ok := os.LookupEnv(EnvHTTPListen); ok {
		c.HTTP.Listen = strings.TrimSpace(v)
	}

	for _, f := range []struct {
		dst *int
		env string
	}{
		{&c.IntervalSeconds, EnvInterval},
		{&c.InspectTimeoutSeconds, EnvInspectTimeout},
		{&c.NotifyTimeoutSeconds, EnvNotifyTimeout},
		{&c.FetchTimeoutSeconds, EnvFetchTimeout},
	} {
		if err := setInt(f.dst, f.env); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) error {
	v := strings.TrimSpace(os.Getenv(env))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a whole number of seconds", env, v)
	}
	*dst = n
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"interval_seconds", c.IntervalSeconds},
		{"inspect_timeout_seconds", c.InspectTimeoutSeconds},
		{"notify_timeout_seconds", c.NotifyTimeoutSeconds},
		{"fetch_timeout_seconds", c.FetchTimeoutSeconds},
	} {
		if f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", f.name, f.v)
		}
	}
	if strings.TrimSpace(c.StatePath) == "" {
		return errors.New("state_path must not be empty")
	}
	if c.Source.LocalPath == "" && c.Source.URL == "" && c.Source.Git.Repo == "" {
		return errors.New("no container list source configured: set source.local_path, source.url or source.git.repo")
	}
	if c.Source.URL != "" {
		if err := checkHTTPURL("source.url", c.Source.URL); err != nil {
			return err
		}
	}
	if c.NotificationsEnabled() {
		if err := checkHTTPURL("telegram.api_url", c.Telegram.APIURL); err != nil {
			return err
		}
	}
	return nil
}

func checkHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an http or https URL", name, raw)
	}
	return nil
}

// NotificationsEnabled reports whether Telegram credentials are present.
func (c *Config) NotificationsEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c *Config) InspectTimeout() time.Duration {
	return time.Duration(c.InspectTimeoutSeconds) * time.Second
}

func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
