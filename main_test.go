package main

import (
	"testing"

	"github.com/srctools/comtrans/config"
	"github.com/srctools/comtrans/translate"
)

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"single line untouched", "short comment", 70, "short comment"},
		{"multi line keeps first", "first\nsecond\nthird", 70, "first"},
		{"trims whitespace", "  padded  \nrest", 70, "padded"},
		{"truncates long lines", "abcdefghij", 5, "abcde..."},
		{"zero max means unlimited", "abcdefghij", 0, "abcdefghij"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstLine(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("firstLine(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name                 string
		total, page, size    int
		wantStart, wantEnd   int
	}{
		{"first page full", 25, 0, 10, 0, 10},
		{"middle page full", 25, 1, 10, 10, 20},
		{"last page partial", 25, 2, 10, 20, 25},
		{"page past the end", 25, 3, 10, 25, 25},
		{"fewer items than a page", 3, 0, 10, 0, 3},
		{"empty", 0, 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := pageBounds(tt.total, tt.page, tt.size)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("pageBounds(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.total, tt.page, tt.size, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, want int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total); got != tt.want {
			t.Errorf("pageCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestBuildProvider(t *testing.T) {
	t.Run("config overrides defaults", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenAI.Provider = translate.ProviderCustomOpenAI
		cfg.OpenAI.APIKey = "sk-test"
		cfg.OpenAI.BaseURL = "https://llm.internal/v1"
		cfg.OpenAI.ModelName = "gpt-4o-mini"
		cfg.OpenAI.Timeout = "90s"

		prov, err := buildProvider(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if prov.BaseURL != "https://llm.internal/v1" {
			t.Errorf("BaseURL = %q", prov.BaseURL)
		}
		if prov.Model != "gpt-4o-mini" {
			t.Errorf("Model = %q", prov.Model)
		}
		if prov.Timeout.Seconds() != 90 {
			t.Errorf("Timeout = %v", prov.Timeout)
		}
	})

	t.Run("missing key fails for cloud provider", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenAI.Provider = translate.ProviderGroq
		if _, err := buildProvider(cfg); err == nil {
			t.Error("expected error for missing API key")
		}
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenAI.Provider = translate.ProviderOllama
		cfg.OpenAI.ModelName = "llama3.2"
		prov, err := buildProvider(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if prov.BaseURL != "http://localhost:11434" {
			t.Errorf("BaseURL = %q", prov.BaseURL)
		}
	})

	t.Run("unknown id is openai compatible", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenAI.Provider = "my-gateway"
		cfg.OpenAI.APIKey = "k"
		cfg.OpenAI.BaseURL = "http://gateway:8080/v1"
		prov, err := buildProvider(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if prov.ID != "my-gateway" || prov.BaseURL != "http://gateway:8080/v1" {
			t.Errorf("prov = %+v", prov)
		}
	})
}

func TestBuildOptions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Translation.TargetLanguage = "en"
	cfg.Translation.SourceLanguage = "zh"
	cfg.Translation.MaxWorkers = 4
	cfg.Translation.MaxRetries = 5
	cfg.Translation.RequestDelay = "250ms"
	cfg.Translation.Detector = config.DetectorStatistical

	opts, err := buildOptions(cfg, translate.Provider{ID: translate.ProviderOllama})
	if err != nil {
		t.Fatal(err)
	}
	if opts.TargetLanguage != "en" || opts.SourceLanguage != "zh" {
		t.Errorf("languages = %q/%q", opts.TargetLanguage, opts.SourceLanguage)
	}
	if opts.Workers != 4 || opts.MaxRetries != 5 {
		t.Errorf("workers=%d retries=%d", opts.Workers, opts.MaxRetries)
	}
	if opts.RequestDelay.Milliseconds() != 250 {
		t.Errorf("delay = %v", opts.RequestDelay)
	}
	if !opts.Statistical {
		t.Error("statistical detector not selected")
	}
}
