package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/crisisalpha/crisisalpha/internal/config"
	"github.com/crisisalpha/crisisalpha/internal/models"
)

// YahooClient fetches last-traded prices from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewYahooClient creates a market data source backed by Yahoo Finance.
func NewYahooClient(cfg config.MarketConfig, logger *slog.Logger) *YahooClient {
	return &YahooClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// chartResponse mirrors the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns the latest quote per symbol at the requested granularity.
// Symbols that fail individually are omitted from the snapshot; Fetch only
// returns an error when no symbol could be resolved and at least one request
// failed at the transport level.
func (c *YahooClient) Fetch(ctx context.Context, tickers []string, granularity Granularity) (models.MarketSnapshot, error) {
	snapshot := models.MarketSnapshot{}

	var lastErr error
	for _, symbol := range tickers {
		quote, err := c.fetchQuote(ctx, symbol, granularity)
		if err != nil {
			c.logger.Debug("quote fetch failed", "symbol", symbol, "granularity", granularity, "error", err)
			lastErr = err
			continue
		}
		snapshot[symbol] = quote
	}

	if len(snapshot) == 0 && lastErr != nil {
		return snapshot, fmt.Errorf("no quotes resolved: %w", lastErr)
	}

	return snapshot, nil
}

func (c *YahooClient) fetchQuote(ctx context.Context, symbol string, granularity Granularity) (models.Quote, error) {
	interval, dataRange := "1d", "5d"
	if granularity == GranularityIntraday {
		interval, dataRange = "1m", "1d"
	}

	params := url.Values{}
	params.Set("interval", interval)
	params.Set("range", dataRange)

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "crisisalpha/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("chart request for %s: status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return models.Quote{}, fmt.Errorf("read chart body: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.Quote{}, fmt.Errorf("decode chart body: %w", err)
	}

	if parsed.Chart.Error != nil {
		return models.Quote{}, fmt.Errorf("chart error for %s: %s", symbol, parsed.Chart.Error.Description)
	}

	if len(parsed.Chart.Result) == 0 {
		return models.Quote{}, fmt.Errorf("no chart result for %s", symbol)
	}

	result := parsed.Chart.Result[0]

	// Prefer the last non-null close in the series.
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil {
				return models.Quote{Price: *closes[i], Valid: true}, nil
			}
		}
	}

	if result.Meta.RegularMarketPrice > 0 {
		return models.Quote{Price: result.Meta.RegularMarketPrice, Valid: true}, nil
	}

	return models.Quote{}, fmt.Errorf("no usable price for %s", symbol)
}

var _ DataSource = (*YahooClient)(nil)
