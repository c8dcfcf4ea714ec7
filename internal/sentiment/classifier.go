package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/crisisalpha/crisisalpha/internal/llm"
	"github.com/crisisalpha/crisisalpha/internal/models"
)

// Classifier scores the tone of a short piece of text. Only headlines are
// classified, never article bodies, to bound latency and cost.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}

const classifierSystemPrompt = `You are a financial news sentiment classifier.
Given a single news headline, assess its sentiment from the perspective of
financial market risk.

Respond with ONLY this JSON object and nothing else:
{"label": "NEGATIVE|NEUTRAL|POSITIVE", "score": 0.0}

"score" is your confidence in the label, between 0.0 and 1.0.
NEGATIVE means the headline signals rising risk, conflict, or market stress.
POSITIVE means easing risk or improving conditions. Everything else is NEUTRAL.`

// OpenAIClassifier implements Classifier over a completion backend.
type OpenAIClassifier struct {
	completer llm.Completer
}

// NewOpenAIClassifier creates a headline classifier using the given backend.
func NewOpenAIClassifier(completer llm.Completer) *OpenAIClassifier {
	return &OpenAIClassifier{completer: completer}
}

// Classify labels a single headline.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	raw, err := c.completer.Complete(ctx, llm.Request{
		System:    classifierSystemPrompt,
		User:      text,
		JSONMode:  true,
		Operation: "sentiment",
	})
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("classify headline: %w", err)
	}

	return parseSentiment(raw)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*({.+})\\s*```")

func parseSentiment(raw string) (models.Sentiment, error) {
	jsonStr := raw
	if matches := fenceRe.FindStringSubmatch(raw); len(matches) > 1 {
		jsonStr = matches[1]
	}

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return models.Sentiment{}, fmt.Errorf("parse sentiment response: %w (raw: %.200s)", err, raw)
	}

	label := models.SentimentLabel(strings.ToUpper(strings.TrimSpace(parsed.Label)))
	switch label {
	case models.SentimentNegative, models.SentimentNeutral, models.SentimentPositive:
	default:
		return models.Sentiment{}, fmt.Errorf("unknown sentiment label %q", parsed.Label)
	}

	score := parsed.Score
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	return models.Sentiment{Label: label, Score: score}, nil
}

var _ Classifier = (*OpenAIClassifier)(nil)
