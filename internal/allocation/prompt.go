package allocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crisisalpha/crisisalpha/internal/models"
)

const (
	// defaultVolatility stands in for the VIX reading when the snapshot has
	// none, matching a calm-to-normal market.
	defaultVolatility = 20.0

	// maxFreeTextChars bounds the user-supplied factor text inside the prompt.
	maxFreeTextChars = 500
)

// BuildContext merges the crisis parameters, market snapshot, crisis score and
// top insights into a single prompt-ready text block. Pure formatting: no
// network calls, byte-identical output for identical inputs.
func BuildContext(params models.CrisisParameters, snapshot models.MarketSnapshot, score float64, topInsights []models.NewsInsight) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Geopolitical tension: %.1f/10\n", params.GeoRisk)
	fmt.Fprintf(&b, "Inflation rate: %.1f%%\n", params.InflationPct)
	fmt.Fprintf(&b, "Election risk: %.1f/10\n", params.ElectionRisk)
	fmt.Fprintf(&b, "Market volatility (VIX): %.2f\n", snapshot.Volatility(defaultVolatility))

	if text := strings.TrimSpace(params.FreeText); text != "" {
		fmt.Fprintf(&b, "Additional factors: %s\n", truncate(text, maxFreeTextChars))
	}

	b.WriteString("\nCurrent asset performance:\n")
	if len(snapshot) == 0 {
		b.WriteString("(no market data available)\n")
	} else {
		symbols := make([]string, 0, len(snapshot))
		for symbol := range snapshot {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)

		for _, symbol := range symbols {
			quote := snapshot[symbol]
			if quote.Valid {
				fmt.Fprintf(&b, "%s: %.2f\n", symbol, quote.Price)
			} else {
				fmt.Fprintf(&b, "%s: n/a\n", symbol)
			}
		}
	}

	fmt.Fprintf(&b, "\nNews crisis score: %.1f/10\n", score)

	if len(topInsights) > 0 {
		b.WriteString("Top crisis headlines:\n")
		for _, insight := range topInsights {
			fmt.Fprintf(&b, "- [%s %.2f] %s (%s)\n",
				insight.Sentiment, insight.Score, insight.Title, insight.SourceName)
		}
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
