package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Logging.Format)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("expected default model, got %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", cfg.OpenAI.Temperature)
	}
	if cfg.Allocation.ParserStrategy != "json" {
		t.Errorf("expected json parser strategy, got %s", cfg.Allocation.ParserStrategy)
	}
	if len(cfg.Market.Tickers) == 0 {
		t.Error("expected non-empty default ticker list")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when OPENAI_API_KEY is missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MARKET_TICKERS", "GLD, BTC-USD ,^VIX")
	t.Setenv("PARSER_STRATEGY", "marker")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Logging.Level)
	}
	if len(cfg.Market.Tickers) != 3 || cfg.Market.Tickers[1] != "BTC-USD" {
		t.Errorf("unexpected tickers: %v", cfg.Market.Tickers)
	}
	if cfg.Allocation.ParserStrategy != "marker" {
		t.Errorf("expected marker strategy, got %s", cfg.Allocation.ParserStrategy)
	}
	if cfg.OpenAI.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.OpenAI.Timeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad parser", key: "PARSER_STRATEGY", value: "yaml"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad max articles", key: "NEWS_MAX_ARTICLES", value: "-1"},
		{name: "bad temperature", key: "OPENAI_TEMPERATURE", value: "9"},
		{name: "bad timeout", key: "SERVER_READ_TIMEOUT_SECONDS", value: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "sk-test")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
