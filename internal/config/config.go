package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crisisalpha/crisisalpha/internal/models"
)

// Config represents runtime configuration derived from environment variables.
// Every collaborator receives its slice of this struct explicitly; nothing
// reads the environment after Load returns.
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
	Market     MarketConfig
	News       NewsConfig
	Allocation AllocationConfig
	Auth       AuthConfig
	Audit      AuditConfig
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

// OpenAIConfig configures the completion backend shared by the allocation
// generator and the sentiment classifier.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// MarketConfig configures the market data source.
type MarketConfig struct {
	BaseURL string
	Tickers []string
	Timeout time.Duration
}

// NewsConfig configures the news source.
type NewsConfig struct {
	APIKey      string
	BaseURL     string
	MaxArticles int
	Timeout     time.Duration
}

// AllocationConfig selects pipeline behavior that has more than one admissible
// implementation.
type AllocationConfig struct {
	ParserStrategy string // "json" or "marker"
	TopInsights    int
}

// AuthConfig holds admin authentication settings. When AdminPasswordHash is
// set it takes precedence over AdminPassword and logins are checked against
// the bcrypt hash.
type AuthConfig struct {
	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string
	TokenDuration     time.Duration
}

// AuditConfig holds the optional inference audit log settings. An empty
// DatabaseURL disables recording.
type AuditConfig struct {
	DatabaseURL string
}

const (
	defaultPort            = "8080"
	defaultReadTimeout = 10 * time.Second
	// A request can wait on a full completion, so the write timeout must
	// exceed the completion timeout.
	defaultWriteTimeout    = 90 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	defaultLogFormat = "json"

	defaultModel       = "gpt-4o"
	defaultTemperature = 0.3
	defaultMaxTokens   = 600
	defaultLLMTimeout  = 60 * time.Second

	defaultMarketBaseURL = "https://query1.finance.yahoo.com"
	defaultMarketTimeout = 10 * time.Second

	defaultNewsBaseURL = "https://newsapi.org"
	defaultNewsTimeout = 15 * time.Second
	defaultMaxArticles = 5
	defaultParser      = "json"
	defaultTopInsights = 3

	defaultTokenDuration = 24 * time.Hour
)

// Load reads configuration from environment variables, applying defaults when
// values are not provided.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", getEnv("SERVER_PORT", defaultPort)),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnv("OPENAI_MODEL", defaultModel),
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
			Timeout:     defaultLLMTimeout,
		},
		Market: MarketConfig{
			BaseURL: getEnv("MARKET_BASE_URL", defaultMarketBaseURL),
			Tickers: models.DefaultTickers,
			Timeout: defaultMarketTimeout,
		},
		News: NewsConfig{
			APIKey:      os.Getenv("NEWS_API_KEY"),
			BaseURL:     getEnv("NEWS_BASE_URL", defaultNewsBaseURL),
			MaxArticles: defaultMaxArticles,
			Timeout:     defaultNewsTimeout,
		},
		Allocation: AllocationConfig{
			ParserStrategy: defaultParser,
			TopInsights:    defaultTopInsights,
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("ADMIN_JWT_SECRET", "change-this-secret"),
			AdminPassword:     getEnv("ADMIN_PASSWORD", "admin"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			TokenDuration:     defaultTokenDuration,
		},
		Audit: AuditConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
	}

	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		temp, err := strconv.ParseFloat(v, 32)
		if err != nil || temp < 0 || temp > 2 {
			return Config{}, fmt.Errorf("invalid OPENAI_TEMPERATURE: %q", v)
		}
		cfg.OpenAI.Temperature = float32(temp)
	}

	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid OPENAI_MAX_TOKENS: %q", v)
		}
		cfg.OpenAI.MaxTokens = n
	}

	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OPENAI_TIMEOUT_SECONDS: %w", err)
		}
		cfg.OpenAI.Timeout = d
	}

	if v := os.Getenv("MARKET_TICKERS"); v != "" {
		tickers := make([]string, 0)
		for _, t := range strings.Split(v, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tickers = append(tickers, t)
			}
		}
		if len(tickers) == 0 {
			return Config{}, fmt.Errorf("invalid MARKET_TICKERS: no symbols in %q", v)
		}
		cfg.Market.Tickers = tickers
	}

	if v := os.Getenv("MARKET_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MARKET_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Market.Timeout = d
	}

	if v := os.Getenv("NEWS_MAX_ARTICLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			return Config{}, fmt.Errorf("invalid NEWS_MAX_ARTICLES: %q", v)
		}
		cfg.News.MaxArticles = n
	}

	if v := os.Getenv("NEWS_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NEWS_TIMEOUT_SECONDS: %w", err)
		}
		cfg.News.Timeout = d
	}

	if v := os.Getenv("PARSER_STRATEGY"); v != "" {
		switch v {
		case "json", "marker":
			cfg.Allocation.ParserStrategy = v
		default:
			return Config{}, fmt.Errorf("invalid PARSER_STRATEGY: must be 'json' or 'marker'")
		}
	}

	if v := os.Getenv("TOP_INSIGHTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid TOP_INSIGHTS: %q", v)
		}
		cfg.Allocation.TopInsights = n
	}

	if v := os.Getenv("SERVER_READ_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return cfg, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
