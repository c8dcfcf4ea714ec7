package sentiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crisisalpha/crisisalpha/internal/models"
	"github.com/crisisalpha/crisisalpha/internal/news"
)

// Monitor turns crisis-relevant news into scored insights.
type Monitor struct {
	source     news.Source
	classifier Classifier
	logger     *slog.Logger
}

// NewMonitor creates a crisis monitor over the given news source and
// classifier.
func NewMonitor(source news.Source, classifier Classifier, logger *slog.Logger) *Monitor {
	return &Monitor{source: source, classifier: classifier, logger: logger}
}

// GatherInsights searches for articles matching the keywords and classifies
// each title. The provider's relevance order is preserved. A classification
// failure excludes that article only; a search failure is returned to the
// caller so it can be distinguished from a genuinely empty result set.
func (m *Monitor) GatherInsights(ctx context.Context, keywords string, maxArticles int) ([]models.NewsInsight, error) {
	articles, err := m.source.Search(ctx, keywords, maxArticles)
	if err != nil {
		return nil, fmt.Errorf("gather insights: %w", err)
	}

	insights := make([]models.NewsInsight, 0, len(articles))
	for _, article := range articles {
		sentiment, err := m.classifier.Classify(ctx, article.Title)
		if err != nil {
			m.logger.Warn("classification failed, excluding article",
				"title", article.Title, "error", err)
			continue
		}

		insights = append(insights, models.NewsInsight{
			Title:      article.Title,
			SourceName: article.SourceName,
			Sentiment:  sentiment.Label,
			Score:      sentiment.Score,
			URL:        article.URL,
		})
	}

	return insights, nil
}

// Sentiment weights for the crisis score reduction.
const (
	weightNegative = 1.0
	weightNeutral  = 0.2
	weightPositive = -0.5
)

// CalculateCrisisScore reduces insights to a single crisis score. The result
// is clamped at 10; an all-positive insight list can legitimately drive it
// below zero, and that lower bound is intentionally left open. Pure function,
// no I/O.
func CalculateCrisisScore(insights []models.NewsInsight) float64 {
	total := 0.0
	for _, insight := range insights {
		switch insight.Sentiment {
		case models.SentimentNegative:
			total += weightNegative * insight.Score
		case models.SentimentNeutral:
			total += weightNeutral * insight.Score
		case models.SentimentPositive:
			total += weightPositive * insight.Score
		}
	}

	if total > 10 {
		return 10
	}
	return total
}
