package report

import (
	"strings"
	"testing"
	"time"

	"github.com/crisisalpha/crisisalpha/internal/models"
)

func TestRenderIncludesAllBuckets(t *testing.T) {
	result := &models.AllocationResult{
		ID:          "req-1",
		Defense:     30,
		Gold:        25,
		ESG:         20,
		Crypto:      15,
		Cash:        10,
		Reasoning:   "Elevated tensions favor hard assets.",
		CrisisScore: 4.2,
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	params := models.CrisisParameters{GeoRisk: 7.5, InflationPct: 6, ElectionRisk: 3, FreeText: "sanctions"}
	insights := []models.NewsInsight{
		{Title: "Conflict widens", SourceName: "Reuters", Sentiment: models.SentimentNegative, Score: 0.9, URL: "https://example.com/a"},
	}

	got := Render(params, result, insights)

	for _, want := range []string{
		"Crisis Allocation Report",
		"Defense stocks:   30.0%",
		"Gold:             25.0%",
		"ESG assets:       20.0%",
		"Cryptocurrency:   15.0%",
		"Cash:             10.0%",
		"Elevated tensions favor hard assets.",
		"News crisis score:    4.2/10",
		"Conflict widens",
		"Sentiment: NEGATIVE (0.90)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRenderWithoutOptionalSections(t *testing.T) {
	result := &models.AllocationResult{Defense: 100, GeneratedAt: time.Now()}

	got := Render(models.CrisisParameters{}, result, nil)

	if strings.Contains(got, "Top Crisis News") {
		t.Error("news section rendered without insights")
	}
	if strings.Contains(got, "Investment Thesis") {
		t.Error("thesis section rendered without reasoning")
	}
	if strings.Contains(got, "Additional factors") {
		t.Error("factors line rendered without free text")
	}
}
