package models

// SentimentLabel classifies the tone of a headline.
type SentimentLabel string

const (
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
	SentimentPositive SentimentLabel = "POSITIVE"
)

// Sentiment is a classified label with the classifier's confidence in [0, 1].
type Sentiment struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// NewsInsight is one scored article. Values are immutable and live only for
// the duration of the request that fetched them.
type NewsInsight struct {
	Title      string         `json:"title"`
	SourceName string         `json:"source"`
	Sentiment  SentimentLabel `json:"sentiment"`
	Score      float64        `json:"score"`
	URL        string         `json:"url"`
}
