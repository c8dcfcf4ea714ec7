package allocation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/crisisalpha/crisisalpha/internal/config"
	"github.com/crisisalpha/crisisalpha/internal/market"
	"github.com/crisisalpha/crisisalpha/internal/metrics"
	"github.com/crisisalpha/crisisalpha/internal/models"
	"github.com/crisisalpha/crisisalpha/internal/sentiment"
)

// defaultKeywords seeds the news search when the request carries no free text.
const defaultKeywords = "geopolitical tension inflation election market volatility"

// Response is one completed allocation request: the result plus the insights
// that informed it, so consumers can display the supporting headlines.
type Response struct {
	Result   *models.AllocationResult `json:"result"`
	Insights []models.NewsInsight     `json:"insights"`
}

// Pipeline runs one allocation request end to end: snapshot and insights are
// gathered concurrently under bounded timeouts, merged into a prompt context,
// and handed to the generator. All state is request-local; nothing is shared
// across concurrent requests and nothing is persisted.
type Pipeline struct {
	snapshots *market.SnapshotBuilder
	monitor   *sentiment.Monitor
	generator *Generator

	tickers       []string
	maxArticles   int
	topInsights   int
	marketTimeout time.Duration
	newsTimeout   time.Duration

	collector *metrics.Collector
	logger    *slog.Logger
}

// NewPipeline wires the pipeline from its collaborators and configuration.
func NewPipeline(
	snapshots *market.SnapshotBuilder,
	monitor *sentiment.Monitor,
	generator *Generator,
	marketCfg config.MarketConfig,
	newsCfg config.NewsConfig,
	allocCfg config.AllocationConfig,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		snapshots:     snapshots,
		monitor:       monitor,
		generator:     generator,
		tickers:       marketCfg.Tickers,
		maxArticles:   newsCfg.MaxArticles,
		topInsights:   allocCfg.TopInsights,
		marketTimeout: marketCfg.Timeout,
		newsTimeout:   newsCfg.Timeout,
		collector:     collector,
		logger:        logger,
	}
}

// Allocate processes a single request synchronously. Market and news failures
// degrade to empty inputs; only generator failures are returned, always as
// one of the typed errors from this package.
func (p *Pipeline) Allocate(ctx context.Context, params models.CrisisParameters) (*Response, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	keywords := strings.TrimSpace(params.FreeText)
	if keywords == "" {
		keywords = defaultKeywords
	}

	var (
		wg       sync.WaitGroup
		snapshot models.MarketSnapshot
		insights []models.NewsInsight
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, p.marketTimeout)
		defer cancel()

		start := time.Now()
		snapshot = p.snapshots.Build(fetchCtx, p.tickers)
		p.collector.ObserveUpstream("market", time.Since(start))
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, p.newsTimeout)
		defer cancel()

		start := time.Now()
		gathered, err := p.monitor.GatherInsights(fetchCtx, keywords, p.maxArticles)
		p.collector.ObserveUpstream("news", time.Since(start))
		if err != nil {
			// Non-fatal: the pipeline proceeds with no insights and a
			// crisis score of zero.
			p.logger.Warn("news aggregation unavailable", "error", err)
			return
		}
		insights = gathered
	}()

	wg.Wait()

	score := sentiment.CalculateCrisisScore(insights)

	top := insights
	if len(top) > p.topInsights {
		top = top[:p.topInsights]
	}

	promptContext := BuildContext(params, snapshot, score, top)

	start := time.Now()
	result, err := p.generator.Generate(ctx, promptContext)
	p.collector.ObserveCompletion(time.Since(start))

	if err != nil {
		p.collector.ObserveAllocation(outcomeFor(err))
		return nil, err
	}

	result.CrisisScore = score
	p.collector.ObserveAllocation("ok")

	p.logger.Info("allocation generated",
		"id", result.ID,
		"crisis_score", score,
		"quotes", len(snapshot),
		"insights", len(insights))

	return &Response{Result: result, Insights: insights}, nil
}

func outcomeFor(err error) string {
	var upstream *UpstreamUnavailableError
	var malformed *MalformedResponseError
	var degenerate *DegenerateAllocationError

	switch {
	case errors.As(err, &upstream):
		return "upstream_unavailable"
	case errors.As(err, &malformed):
		return "malformed_response"
	case errors.As(err, &degenerate):
		return "degenerate"
	default:
		return "error"
	}
}
