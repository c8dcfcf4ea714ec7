package sentiment

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/crisisalpha/crisisalpha/internal/models"
	"github.com/crisisalpha/crisisalpha/internal/news"
)

type stubNewsSource struct {
	articles []news.Article
	err      error
}

func (s *stubNewsSource) Search(context.Context, string, int) ([]news.Article, error) {
	return s.articles, s.err
}

type stubClassifier struct {
	results map[string]models.Sentiment
	errFor  string
}

func (s *stubClassifier) Classify(_ context.Context, text string) (models.Sentiment, error) {
	if text == s.errFor {
		return models.Sentiment{}, errors.New("classifier unavailable")
	}
	return s.results[text], nil
}

func TestGatherInsightsPreservesOrder(t *testing.T) {
	source := &stubNewsSource{articles: []news.Article{
		{Title: "first", SourceName: "Reuters", URL: "https://example.com/1"},
		{Title: "second", SourceName: "AP", URL: "https://example.com/2"},
	}}
	classifier := &stubClassifier{results: map[string]models.Sentiment{
		"first":  {Label: models.SentimentNegative, Score: 0.9},
		"second": {Label: models.SentimentPositive, Score: 0.6},
	}}

	monitor := NewMonitor(source, classifier, slog.Default())

	insights, err := monitor.GatherInsights(context.Background(), "crisis", 5)
	if err != nil {
		t.Fatalf("GatherInsights returned error: %v", err)
	}

	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(insights))
	}
	if insights[0].Title != "first" || insights[1].Title != "second" {
		t.Errorf("order not preserved: %+v", insights)
	}
	if insights[0].Sentiment != models.SentimentNegative || insights[0].Score != 0.9 {
		t.Errorf("unexpected first insight: %+v", insights[0])
	}
}

func TestGatherInsightsSkipsFailedClassification(t *testing.T) {
	source := &stubNewsSource{articles: []news.Article{
		{Title: "good"},
		{Title: "bad"},
		{Title: "also good"},
	}}
	classifier := &stubClassifier{
		results: map[string]models.Sentiment{
			"good":      {Label: models.SentimentNeutral, Score: 0.5},
			"also good": {Label: models.SentimentNeutral, Score: 0.5},
		},
		errFor: "bad",
	}

	monitor := NewMonitor(source, classifier, slog.Default())

	insights, err := monitor.GatherInsights(context.Background(), "crisis", 5)
	if err != nil {
		t.Fatalf("single classification failure must not abort the batch: %v", err)
	}
	if len(insights) != 2 {
		t.Errorf("expected failed article excluded, got %d insights", len(insights))
	}
}

func TestGatherInsightsPropagatesSearchFailure(t *testing.T) {
	source := &stubNewsSource{err: errors.New("dns failure")}
	monitor := NewMonitor(source, &stubClassifier{}, slog.Default())

	if _, err := monitor.GatherInsights(context.Background(), "crisis", 5); err == nil {
		t.Fatal("search transport failures must be surfaced, not absorbed")
	}
}

func TestCalculateCrisisScore(t *testing.T) {
	neutral := func(n int, score float64) []models.NewsInsight {
		insights := make([]models.NewsInsight, n)
		for i := range insights {
			insights[i] = models.NewsInsight{Sentiment: models.SentimentNeutral, Score: score}
		}
		return insights
	}

	tests := []struct {
		name     string
		insights []models.NewsInsight
		want     float64
	}{
		{name: "empty list", insights: nil, want: 0},
		{name: "five neutral at full confidence", insights: neutral(5, 1.0), want: 1.0},
		{
			name: "mixed",
			insights: []models.NewsInsight{
				{Sentiment: models.SentimentNegative, Score: 0.8},
				{Sentiment: models.SentimentPositive, Score: 0.4},
			},
			want: 0.8 - 0.2,
		},
		{
			name: "clamped at ten",
			insights: func() []models.NewsInsight {
				insights := make([]models.NewsInsight, 20)
				for i := range insights {
					insights[i] = models.NewsInsight{Sentiment: models.SentimentNegative, Score: 1.0}
				}
				return insights
			}(),
			want: 10,
		},
		{
			name: "all positive can go negative",
			insights: []models.NewsInsight{
				{Sentiment: models.SentimentPositive, Score: 1.0},
				{Sentiment: models.SentimentPositive, Score: 1.0},
			},
			want: -1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCrisisScore(tt.insights)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateCrisisScore = %v, want %v", got, tt.want)
			}
			// Deterministic reduction.
			if again := CalculateCrisisScore(tt.insights); again != got {
				t.Errorf("score not deterministic: %v then %v", got, again)
			}
		})
	}
}
