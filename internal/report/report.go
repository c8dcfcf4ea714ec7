// Package report renders a completed allocation as a flat text document for
// download or CLI output.
package report

import (
	"fmt"
	"strings"

	"github.com/crisisalpha/crisisalpha/internal/models"
)

// Render produces the plain-text allocation report.
func Render(params models.CrisisParameters, result *models.AllocationResult, insights []models.NewsInsight) string {
	var b strings.Builder

	b.WriteString("Crisis Allocation Report\n")
	b.WriteString("========================\n\n")

	fmt.Fprintf(&b, "Generated: %s\n", result.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Request:   %s\n\n", result.ID)

	b.WriteString("Scenario\n--------\n")
	fmt.Fprintf(&b, "Geopolitical risk:    %.1f/10\n", params.GeoRisk)
	fmt.Fprintf(&b, "Inflation:            %.1f%%\n", params.InflationPct)
	fmt.Fprintf(&b, "Election uncertainty: %.1f/10\n", params.ElectionRisk)
	fmt.Fprintf(&b, "News crisis score:    %.1f/10\n", result.CrisisScore)
	if text := strings.TrimSpace(params.FreeText); text != "" {
		fmt.Fprintf(&b, "Additional factors:   %s\n", text)
	}

	b.WriteString("\nRecommended Allocation\n----------------------\n")
	fmt.Fprintf(&b, "Defense stocks:  %5.1f%%\n", result.Defense)
	fmt.Fprintf(&b, "Gold:            %5.1f%%\n", result.Gold)
	fmt.Fprintf(&b, "ESG assets:      %5.1f%%\n", result.ESG)
	fmt.Fprintf(&b, "Cryptocurrency:  %5.1f%%\n", result.Crypto)
	fmt.Fprintf(&b, "Cash:            %5.1f%%\n", result.Cash)

	if result.Reasoning != "" {
		b.WriteString("\nInvestment Thesis\n-----------------\n")
		b.WriteString(result.Reasoning)
		b.WriteString("\n")
	}

	if len(insights) > 0 {
		b.WriteString("\nTop Crisis News\n---------------\n")
		for _, insight := range insights {
			fmt.Fprintf(&b, "- %s (%s)\n  Sentiment: %s (%.2f)\n  %s\n",
				insight.Title, insight.SourceName, insight.Sentiment, insight.Score, insight.URL)
		}
	}

	return b.String()
}
