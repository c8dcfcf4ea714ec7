package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/crisisalpha/crisisalpha/internal/llm"
	"github.com/crisisalpha/crisisalpha/internal/models"
)

type stubCompleter struct {
	response string
	err      error
	lastReq  llm.Request
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func TestClassifyParsesLabels(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantLabel models.SentimentLabel
		wantScore float64
	}{
		{
			name:      "plain json",
			response:  `{"label": "NEGATIVE", "score": 0.93}`,
			wantLabel: models.SentimentNegative,
			wantScore: 0.93,
		},
		{
			name:      "fenced json",
			response:  "```json\n{\"label\": \"positive\", \"score\": 0.6}\n```",
			wantLabel: models.SentimentPositive,
			wantScore: 0.6,
		},
		{
			name:      "score clamped",
			response:  `{"label": "NEUTRAL", "score": 1.7}`,
			wantLabel: models.SentimentNeutral,
			wantScore: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &stubCompleter{response: tt.response}
			classifier := NewOpenAIClassifier(completer)

			got, err := classifier.Classify(context.Background(), "some headline")
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}

			if got.Label != tt.wantLabel || got.Score != tt.wantScore {
				t.Errorf("got %+v, want label=%s score=%v", got, tt.wantLabel, tt.wantScore)
			}
			if !completer.lastReq.JSONMode {
				t.Error("classifier should request JSON mode")
			}
		})
	}
}

func TestClassifyRejectsGarbage(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "not json", response: "the sentiment is bad"},
		{name: "unknown label", response: `{"label": "MEH", "score": 0.5}`},
		{name: "transport error", err: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewOpenAIClassifier(&stubCompleter{response: tt.response, err: tt.err})

			if _, err := classifier.Classify(context.Background(), "headline"); err == nil {
				t.Error("expected classification error")
			}
		})
	}
}
