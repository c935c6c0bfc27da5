// Package config loads the comtrans configuration file.
//
// The file is YAML with three sections: translation behavior, the
// translation API endpoint, and optional scan filters. The schema keeps
// the section and key names the tool has always used, so an existing
// config.yaml keeps working:
//
//	translation:
//	  target_language: en
//	  source_language: zh        # or "any"
//	  max_workers: 4
//	openai:
//	  api_key: sk-...
//	  base_url: https://api.openai.com/v1
//	  model_name: gpt-4o-mini
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srctools/comtrans/langdetect"
	"github.com/srctools/comtrans/translate"
)

// DefaultFileName is the config file looked up when --config is not given.
const DefaultFileName = "config.yaml"

// Detector selects the language-detection implementation.
const (
	DetectorHeuristic   = "heuristic"
	DetectorStatistical = "statistical"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level configuration document.
type Config struct {
	Translation Translation `yaml:"translation"`
	OpenAI      OpenAI      `yaml:"openai"`
	Scan        Scan        `yaml:"scan,omitempty"`

	// Warnings collects non-fatal findings from validation (e.g. an
	// unsupported source language that was downgraded to "any").
	Warnings []string `yaml:"-"`
}

// Translation controls what gets translated and how the work is spread.
type Translation struct {
	// TargetLanguage is the language comments are translated into.
	TargetLanguage string `yaml:"target_language"`
	// SourceLanguage restricts translation to comments detected as this
	// language; "any" (or empty) translates everything.
	SourceLanguage string `yaml:"source_language,omitempty"`
	// MaxWorkers is the number of files translated concurrently.
	MaxWorkers int `yaml:"max_workers,omitempty"`
	// RequestDelay is an optional pause between API calls, e.g. "500ms".
	RequestDelay string `yaml:"request_delay,omitempty"`
	// MaxRetries is the retry budget per API call (rate limits, 5xx).
	MaxRetries int `yaml:"max_retries,omitempty"`
	// Detector: "heuristic" (default) or "statistical".
	Detector string `yaml:"detector,omitempty"`
}

// OpenAI configures the translation backend. The section keeps its
// historical name; any OpenAI-compatible endpoint works, and the provider
// field switches to other API formats.
type OpenAI struct {
	// Provider: custom-openai (default), google, groq, ollama, anthropic.
	Provider string `yaml:"provider,omitempty"`
	// APIKey authenticates against the backend. Required except for
	// local providers (ollama).
	APIKey string `yaml:"api_key"`
	// BaseURL is the API base URL; empty uses the provider default.
	BaseURL string `yaml:"base_url,omitempty"`
	// ModelName is the model identifier.
	ModelName string `yaml:"model_name,omitempty"`
	// Timeout is the per-request timeout, e.g. "60s".
	Timeout string `yaml:"timeout,omitempty"`
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`
}

// Scan filters which files under the target path are processed.
type Scan struct {
	// Include admits only matching paths when non-empty (doublestar
	// globs relative to the scan root).
	Include []string `yaml:"include,omitempty"`
	// Exclude rejects matching paths; it wins over Include.
	Exclude []string `yaml:"exclude,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads, parses, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Translation.TargetLanguage == "" {
		c.Translation.TargetLanguage = "en"
	}
	if c.Translation.MaxWorkers <= 0 {
		c.Translation.MaxWorkers = 1
	}
	if c.Translation.MaxRetries <= 0 {
		c.Translation.MaxRetries = 3
	}
	if c.Translation.Detector == "" {
		c.Translation.Detector = DetectorHeuristic
	}
	if c.OpenAI.Provider == "" {
		c.OpenAI.Provider = "custom-openai"
	}
	if c.OpenAI.ModelName == "" {
		c.OpenAI.ModelName = "gpt-4o-mini"
	}
}

func (c *Config) validate() error {
	if src := c.Translation.SourceLanguage; src != "" && !langdetect.Supported(src) {
		c.Warnings = append(c.Warnings,
			fmt.Sprintf("unsupported source language %q, using \"any\"", src))
		c.Translation.SourceLanguage = langdetect.Any
	}

	switch c.Translation.Detector {
	case DetectorHeuristic, DetectorStatistical:
	default:
		return fmt.Errorf("unknown detector %q (want %q or %q)",
			c.Translation.Detector, DetectorHeuristic, DetectorStatistical)
	}

	if c.OpenAI.APIKey == "" && translate.RequiresAPIKey(c.OpenAI.Provider) {
		return fmt.Errorf("API key not found in config (openai.api_key)")
	}

	if _, err := c.RequestDelay(); err != nil {
		return fmt.Errorf("translation.request_delay: %w", err)
	}
	if _, err := c.Timeout(); err != nil {
		return fmt.Errorf("openai.timeout: %w", err)
	}

	return nil
}

// RequestDelay parses the configured inter-request delay (zero if unset).
func (c *Config) RequestDelay() (time.Duration, error) {
	return parseDuration(c.Translation.RequestDelay)
}

// Timeout parses the configured request timeout (zero if unset, letting
// the provider default apply).
func (c *Config) Timeout() (time.Duration, error) {
	return parseDuration(c.OpenAI.Timeout)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
