package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/crisisalpha/crisisalpha/internal/allocation"
	"github.com/crisisalpha/crisisalpha/internal/api"
	"github.com/crisisalpha/crisisalpha/internal/audit"
	"github.com/crisisalpha/crisisalpha/internal/config"
	"github.com/crisisalpha/crisisalpha/internal/llm"
	"github.com/crisisalpha/crisisalpha/internal/logging"
	"github.com/crisisalpha/crisisalpha/internal/market"
	"github.com/crisisalpha/crisisalpha/internal/metrics"
	"github.com/crisisalpha/crisisalpha/internal/news"
	"github.com/crisisalpha/crisisalpha/internal/sentiment"
	"github.com/crisisalpha/crisisalpha/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting crisisalpha")

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	// Inference audit log is optional; without DATABASE_URL every record is
	// dropped silently.
	var recorder audit.Recorder = audit.NopRecorder{}
	if cfg.Audit.DatabaseURL != "" {
		pg, err := audit.OpenPostgres(cfg.Audit.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to open audit database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		recorder = pg
		logger.Info("inference audit log enabled")
	} else {
		logger.Info("DATABASE_URL not set, inference audit log disabled")
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

	mux := http.NewServeMux()
	api.SetupRoutes(mux, pipeline, snapshots, recorder, collector, cfg, logger)

	handler := collector.InstrumentHandler(mux)
	srv := server.New(cfg.Server, logger, handler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("crisisalpha started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
