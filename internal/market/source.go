package market

import (
	"context"

	"github.com/crisisalpha/crisisalpha/internal/models"
)

// Granularity selects how fine the price series behind a quote is.
type Granularity string

const (
	// GranularityIntraday asks for one-minute bars over the current session.
	GranularityIntraday Granularity = "intraday"
	// GranularityDaily asks for daily closes.
	GranularityDaily Granularity = "daily"
)

// DataSource is the capability the snapshot builder depends on. A source may
// return a partial snapshot; provider-specific failures for individual symbols
// are swallowed and reported as absence.
type DataSource interface {
	Fetch(ctx context.Context, tickers []string, granularity Granularity) (models.MarketSnapshot, error)
}
