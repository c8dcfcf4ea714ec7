package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/crisisalpha/crisisalpha/internal/allocation"
	"github.com/crisisalpha/crisisalpha/internal/audit"
	"github.com/crisisalpha/crisisalpha/internal/config"
	"github.com/crisisalpha/crisisalpha/internal/llm"
	"github.com/crisisalpha/crisisalpha/internal/logging"
	"github.com/crisisalpha/crisisalpha/internal/market"
	"github.com/crisisalpha/crisisalpha/internal/metrics"
	"github.com/crisisalpha/crisisalpha/internal/models"
	"github.com/crisisalpha/crisisalpha/internal/news"
	"github.com/crisisalpha/crisisalpha/internal/report"
	"github.com/crisisalpha/crisisalpha/internal/sentiment"
)

// allocate runs a single scenario through the pipeline and prints the report.
func main() {
	geoRisk := flag.Float64("geo-risk", 5, "geopolitical risk, 0-10")
	inflation := flag.Float64("inflation", 3, "inflation rate percentage, 0-100")
	electionRisk := flag.Float64("election-risk", 0, "election instability, 0-10")
	freeText := flag.String("scenario", "", "free-text scenario description")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall request timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	params := models.CrisisParameters{
		GeoRisk:      *geoRisk,
		InflationPct: *inflation,
		ElectionRisk: *electionRisk,
		FreeText:     *freeText,
	}
	if err := params.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid parameters: %v\n", err)
		os.Exit(2)
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	var recorder audit.Recorder = audit.NopRecorder{}
	if cfg.Audit.DatabaseURL != "" {
		pg, err := audit.OpenPostgres(cfg.Audit.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to open audit database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		recorder = pg
	}

	completer := llm.NewOpenAIClient(cfg.OpenAI, recorder, logger)
	snapshots := market.NewSnapshotBuilder(market.NewYahooClient(cfg.Market, logger), logger)
	monitor := sentiment.NewMonitor(news.NewNewsAPIClient(cfg.News, logger), sentiment.NewOpenAIClassifier(completer), logger)

	generator, err := allocation.NewGenerator(completer, cfg.Allocation.ParserStrategy, collector, logger)
	if err != nil {
		logger.Error("failed to init generator", "error", err)
		os.Exit(1)
	}

	pipeline := allocation.NewPipeline(snapshots, monitor, generator, cfg.Market, cfg.News, cfg.Allocation, collector, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := pipeline.Allocate(ctx, params)
	if err != nil {
		logger.Error("allocation failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(report.Render(params, resp.Result, resp.Insights))
}
