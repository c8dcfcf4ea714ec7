package market

import (
	"context"
	"log/slog"

	"github.com/crisisalpha/crisisalpha/internal/models"
)

// SnapshotBuilder produces point-in-time snapshots for a configured ticker
// set, degrading to an empty snapshot when the provider yields nothing.
type SnapshotBuilder struct {
	source DataSource
	logger *slog.Logger
}

// NewSnapshotBuilder creates a builder over the given data source.
func NewSnapshotBuilder(source DataSource, logger *slog.Logger) *SnapshotBuilder {
	return &SnapshotBuilder{source: source, logger: logger}
}

// Build fetches quotes for the tickers at intraday granularity, falling back
// once to daily closes when the intraday pass yields no data. Transient
// provider errors are treated identically to empty results; both degrade to an
// empty snapshot with a warning, never a nil map and never a pipeline failure.
func (b *SnapshotBuilder) Build(ctx context.Context, tickers []string) models.MarketSnapshot {
	snapshot, err := b.source.Fetch(ctx, tickers, GranularityIntraday)
	if err == nil && len(snapshot) > 0 {
		return snapshot
	}
	if err != nil {
		b.logger.Warn("intraday fetch failed, falling back to daily", "error", err)
	} else {
		b.logger.Warn("intraday fetch returned no data, falling back to daily")
	}

	snapshot, err = b.source.Fetch(ctx, tickers, GranularityDaily)
	if err != nil || len(snapshot) == 0 {
		b.logger.Warn("market snapshot unavailable, continuing without market data",
			"tickers", len(tickers), "error", err)
		return models.MarketSnapshot{}
	}

	return snapshot
}
