package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crisisalpha/crisisalpha/internal/config"
)

// NewsAPIClient searches articles via the NewsAPI "everything" endpoint,
// sorted by relevancy.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewNewsAPIClient creates a news source backed by newsapi.org.
func NewNewsAPIClient(cfg config.NewsConfig, logger *slog.Logger) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type everythingResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"articles"`
}

// Search queries the provider for English articles matching the keywords,
// preserving the provider's relevance ranking.
func (c *NewsAPIClient) Search(ctx context.Context, keywords string, maxResults int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", keywords)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(maxResults))

	reqURL := fmt.Sprintf("%s/v2/everything?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var parsed everythingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, fmt.Errorf("news search failed: status %d, code %q: %s",
			resp.StatusCode, parsed.Code, parsed.Message)
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, Article{
			Title:      a.Title,
			SourceName: a.Source.Name,
			URL:        a.URL,
		})
	}

	c.logger.Debug("news search complete", "keywords", keywords, "results", len(articles))

	return articles, nil
}

var _ Source = (*NewsAPIClient)(nil)
