package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "NEWSBOT_CONFIG"
	databasePathEnv     = "NEWSBOT_DB_PATH"
	feedsEnv            = "NEWSBOT_FEEDS"
	llmURLEnv           = "NEWSBOT_LLM_URL"
	llmModelEnv         = "NEWSBOT_LLM_MODEL"
	twitterAPIKeyEnv    = "NEWSBOT_TWITTER_API_KEY"
	twitterAPISecretEnv = "NEWSBOT_TWITTER_API_SECRET"
	twitterTokenEnv     = "NEWSBOT_TWITTER_ACCESS_TOKEN"
	twitterTokenSecEnv  = "NEWSBOT_TWITTER_ACCESS_SECRET"
	debugModeEnv        = "NEWSBOT_DEBUG"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Feeds    []string       `yaml:"feeds"`
	LLM      LLMConfig      `yaml:"llm"`
	Twitter  TwitterConfig  `yaml:"twitter"`
	Settings SettingsConfig `yaml:"settings"`
	Webapp   WebappConfig   `yaml:"webapp"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes the sqlite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LLMConfig defines how to contact the text-generation endpoint.
type LLMConfig struct {
	URL            string `yaml:"url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the generation deadline, defaulting to 60 seconds.
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TwitterConfig wires the OAuth1 credentials required to post.
type TwitterConfig struct {
	APIKey            string `yaml:"apiKey"`
	APISecret         string `yaml:"apiSecret"`
	AccessToken       string `yaml:"accessToken"`
	AccessTokenSecret string `yaml:"accessTokenSecret"`
}

// SettingsConfig groups pipeline tuning knobs.
type SettingsConfig struct {
	DebugMode          bool `yaml:"debugMode"`
	PostCharLimit      int  `yaml:"postCharLimit"`
	EntriesPerFeed     int  `yaml:"entriesPerFeed"`
	RunIntervalMinutes int  `yaml:"runIntervalMinutes"`
}

// RunInterval resolves the loop period for the run command.
func (s SettingsConfig) RunInterval() time.Duration {
	if s.RunIntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.RunIntervalMinutes) * time.Minute
}

// WebappConfig describes the read-only listing server.
type WebappConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadPath(os.Getenv(configPathEnv))
}

// LoadPath behaves like Load with an explicit config file location.
func LoadPath(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(feedsEnv); v != "" {
		feeds := make([]string, 0)
		for _, url := range strings.Split(v, ",") {
			if url = strings.TrimSpace(url); url != "" {
				feeds = append(feeds, url)
			}
		}
		if len(feeds) > 0 {
			c.Feeds = feeds
		}
	}

	if v := os.Getenv(llmURLEnv); v != "" {
		c.LLM.URL = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(twitterAPIKeyEnv); v != "" {
		c.Twitter.APIKey = v
	}

	if v := os.Getenv(twitterAPISecretEnv); v != "" {
		c.Twitter.APISecret = v
	}

	if v := os.Getenv(twitterTokenEnv); v != "" {
		c.Twitter.AccessToken = v
	}

	if v := os.Getenv(twitterTokenSecEnv); v != "" {
		c.Twitter.AccessTokenSecret = v
	}

	if v := os.Getenv(debugModeEnv); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Settings.DebugMode = parsed
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	if override.LLM.URL != "" {
		base.LLM.URL = override.LLM.URL
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.TimeoutSeconds > 0 {
		base.LLM.TimeoutSeconds = override.LLM.TimeoutSeconds
	}

	if override.Twitter.APIKey != "" {
		base.Twitter.APIKey = override.Twitter.APIKey
	}
	if override.Twitter.APISecret != "" {
		base.Twitter.APISecret = override.Twitter.APISecret
	}
	if override.Twitter.AccessToken != "" {
		base.Twitter.AccessToken = override.Twitter.AccessToken
	}
	if override.Twitter.AccessTokenSecret != "" {
		base.Twitter.AccessTokenSecret = override.Twitter.AccessTokenSecret
	}

	base.Settings.DebugMode = base.Settings.DebugMode || override.Settings.DebugMode
	if override.Settings.PostCharLimit > 0 {
		base.Settings.PostCharLimit = override.Settings.PostCharLimit
	}
	if override.Settings.EntriesPerFeed > 0 {
		base.Settings.EntriesPerFeed = override.Settings.EntriesPerFeed
	}
	if override.Settings.RunIntervalMinutes > 0 {
		base.Settings.RunIntervalMinutes = override.Settings.RunIntervalMinutes
	}

	if override.Webapp.Addr != "" {
		base.Webapp = override.Webapp
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "news_articles.db"},
		Feeds:    []string{},
		LLM: LLMConfig{
			URL:            "http://localhost:11434/api/generate",
			Model:          "qwen3:8b",
			TimeoutSeconds: 60,
		},
		Settings: SettingsConfig{
			DebugMode:          false,
			PostCharLimit:      300,
			EntriesPerFeed:     3,
			RunIntervalMinutes: 30,
		},
		Webapp:  WebappConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info"},
	}
}
