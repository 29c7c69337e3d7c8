package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelzeko/aquahealth/internal/app"
	"github.com/abelzeko/aquahealth/internal/config"
	"github.com/abelzeko/aquahealth/internal/integration/openai"
	"github.com/abelzeko/aquahealth/internal/repository"
	"github.com/abelzeko/aquahealth/internal/usecases"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// insightTimeout bounds one round of insight generation
const insightTimeout = 10 * time.Minute

// jobWrappers keeps a slow run from overlapping the next tick
func jobWrappers() []cron.JobWrapper {
	return []cron.JobWrapper{cron.SkipIfStillRunning(cron.DefaultLogger)}
}

// indexer refreshes the dashboard index and fills in missing Harbor Helper insights
type indexer struct {
	dashboard *usecases.DashboardUseCase
	insights  *usecases.InsightUseCase // nil without an OpenAI key
	batchSize int
}

func newIndexer(cfg *config.Config, logbook repository.LogbookRepository) *indexer {
	ix := &indexer{
		dashboard: usecases.NewDashboardUseCase(logbook, repository.NewCSVLogbookSource(cfg.Logbook.CSVPath)),
		batchSize: cfg.Insights.BatchSize,
	}

	if cfg.OpenAI.APIKey == "" {
		zap.S().Warn("OPENAI_API_KEY is not set, Harbor Helper insights will not be generated")
		return ix
	}
	explainer, err := openai.NewInsightService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	if err != nil {
		zap.S().Warnf("Failed to initialize OpenAI service, skipping insights: %v", err)
		return ix
	}
	ix.insights = usecases.NewInsightUseCase(
		repository.NewCSVInsightRepository(cfg.Insights.Path),
		repository.NewCSVPostRepository(cfg.Feed.Path),
		explainer,
	)
	return ix
}

// run performs one refresh. Failures are logged; the next scheduled run tries again.
func (ix *indexer) run(ctx context.Context) {
	if n, err := ix.dashboard.RefreshIndex(); err != nil {
		zap.S().Errorf("Logbook index refresh failed: %v", err)
	} else {
		zap.S().Infof("Logbook index holds %d entries", n)
	}

	if ix.insights == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, insightTimeout)
	defer cancel()
	if _, err := ix.insights.GenerateMissing(ctx, ix.batchSize); err != nil {
		zap.S().Errorf("Insight generation failed: %v", err)
	}
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml if present)")
	once := flag.Bool("once", false, "run a single refresh and exit")
	flag.Parse()

	cfg, cleanup, err := app.Init(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer cleanup()
	zap.S().Info("Starting AquaHealth Indexer...")

	logbook, err := repository.NewSQLiteLogbookRepository(cfg.Logbook.DBPath)
	if err != nil {
		zap.S().Fatalf("Failed to initialize repository: %v", err)
	}
	defer logbook.Close()

	ix := newIndexer(cfg, logbook)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run immediately on startup
	ix.run(ctx)
	if *once {
		return
	}

	c := cron.New(cron.WithChain(jobWrappers()...))
	_, err = c.AddFunc(cfg.Indexer.Schedule, func() { ix.run(ctx) })
	if err != nil {
		zap.S().Fatalf("Failed to set up cron job: %v", err)
	}

	zap.S().Infof("Indexer has been scheduled to run %s", cfg.Indexer.Schedule)
	c.Start()

	<-ctx.Done()
	zap.S().Info("Stopping indexer...")
	<-c.Stop().Done()
}
