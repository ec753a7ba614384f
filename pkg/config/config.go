package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration, loaded from an optional YAML
// file with environment variable expansion. Credentials and run flags come
// from the CLI/environment and are layered on top by the caller.
type Config struct {
	Feed struct {
		URL     string        `yaml:"url" json:"url" jsonschema:"default=https://github.blog/changelog/feed/,description=Changelog feed URL"`
		Keyword string        `yaml:"keyword" json:"keyword" jsonschema:"default=copilot,description=Keyword an entry must match to be relevant"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=20s,description=Feed fetch timeout"`
	} `yaml:"feed" json:"feed" jsonschema:"description=Feed ingestion configuration"`

	State struct {
		Path string `yaml:"path" json:"path" jsonschema:"default=seen.json,description=Seen-state location; .db/.sqlite selects the SQLite backend"`
	} `yaml:"state" json:"state" jsonschema:"description=Deduplication state configuration"`

	Post struct {
		MaxItems      int    `yaml:"max_items" json:"max_items" jsonschema:"default=5,description=Maximum entries delivered per run"`
		Source        string `yaml:"source" json:"source" jsonschema:"default=GitHub Copilot Changelog,description=Footer source text"`
		FallbackTitle string `yaml:"fallback_title" json:"fallback_title" jsonschema:"default=GitHub Changelog,description=Embed title when the entry has none"`
		FallbackURL   string `yaml:"fallback_url" json:"fallback_url" jsonschema:"default=https://github.blog/changelog/,description=Embed link when the entry has none"`
	} `yaml:"post" json:"post" jsonschema:"description=Delivery configuration"`

	LLM struct {
		GithubModel    string  `yaml:"github_model" json:"github_model" jsonschema:"default=openai/gpt-5-mini,description=Model for the GitHub Models service"`
		GithubEndpoint string  `yaml:"github_endpoint" json:"github_endpoint" jsonschema:"default=https://api.githubcopilot.com/v1,description=GitHub Models chat-completions base URL"`
		OpenAIModel    string  `yaml:"openai_model" json:"openai_model" jsonschema:"default=gpt-4o-mini,description=Model for the OpenAI fallback service"`
		Temperature    float64 `yaml:"temperature" json:"temperature" jsonschema:"default=0.2,description=Generation temperature"`
		MaxSummaryLen  int     `yaml:"max_summary_len" json:"max_summary_len" jsonschema:"default=420,description=Basic summary length cap"`
		MaxTitleLen    int     `yaml:"max_title_len" json:"max_title_len" jsonschema:"default=90,description=Thread title length cap"`
	} `yaml:"llm" json:"llm" jsonschema:"description=Generation service configuration"`

	Extraction struct {
		Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enrich thin entries with extracted page content"`
		Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per entry"`
		MinSummaryLen int           `yaml:"min_summary_len" json:"min_summary_len" jsonschema:"default=80,description=Entries with shorter summaries get enriched"`
	} `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`
}

// Load reads configuration from a YAML file; an empty path returns the
// defaults. Environment variables in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Feed.URL == "" {
		c.Feed.URL = "https://github.blog/changelog/feed/"
	}
	if c.Feed.Keyword == "" {
		c.Feed.Keyword = "copilot"
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 20 * time.Second
	}
	if c.State.Path == "" {
		c.State.Path = "seen.json"
	}
	if c.Post.MaxItems == 0 {
		c.Post.MaxItems = 5
	}
	if c.Post.Source == "" {
		c.Post.Source = "GitHub Copilot Changelog"
	}
	if c.Post.FallbackTitle == "" {
		c.Post.FallbackTitle = "GitHub Changelog"
	}
	if c.Post.FallbackURL == "" {
		c.Post.FallbackURL = "https://github.blog/changelog/"
	}
	if c.LLM.GithubModel == "" {
		c.LLM.GithubModel = "openai/gpt-5-mini"
	}
	if c.LLM.GithubEndpoint == "" {
		c.LLM.GithubEndpoint = "https://api.githubcopilot.com/v1"
	}
	if c.LLM.OpenAIModel == "" {
		c.LLM.OpenAIModel = "gpt-4o-mini"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.MaxSummaryLen == 0 {
		c.LLM.MaxSummaryLen = 420
	}
	if c.LLM.MaxTitleLen == 0 {
		c.LLM.MaxTitleLen = 90
	}
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.MinSummaryLen == 0 {
		c.Extraction.MinSummaryLen = 80
	}
}
