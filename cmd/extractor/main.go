package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/avkuzmin/bizextract/internal/cache/memory"
	"github.com/avkuzmin/bizextract/internal/config"
	"github.com/avkuzmin/bizextract/internal/domain"
	"github.com/avkuzmin/bizextract/internal/export"
	"github.com/avkuzmin/bizextract/internal/extractor"
	"github.com/avkuzmin/bizextract/internal/fetcher"
	"github.com/avkuzmin/bizextract/internal/metrics"
	"github.com/avkuzmin/bizextract/internal/parser"
	"github.com/avkuzmin/bizextract/internal/ratelimit"
	"github.com/avkuzmin/bizextract/internal/repository"
	"github.com/avkuzmin/bizextract/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := config.MustLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("извлечение не выполнено", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	source := newSource(cfg, logger)

	cache := memory.NewWithContext[domain.Enterprise](ctx)
	defer cache.Stop()

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	})
	defer limiter.Stop()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := startMetricsServer(cfg.Metrics.Addr, logger)
		defer srv.Close()
	}

	ext := extractor.New(source, parser.New(logger), cache, limiter, m, logger, extractor.Options{
		Workers:         cfg.Extraction.Workers,
		CacheTTL:        cfg.Cache.TTL,
		ScraperVersion:  cfg.Extraction.ScraperVersion,
		ContinueOnError: cfg.Extraction.ContinueOnError,
		AllowedDomains:  cfg.Rules.AllowedDomains,
		PriceMin:        cfg.Rules.PriceMin,
		PriceMax:        cfg.Rules.PriceMax,
	})

	refs, err := source.List(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		logger.Warn("входных документов нет")
		return nil
	}

	res, err := ext.ExtractBatch(ctx, refs)
	if err != nil {
		return err
	}
	if len(res.Enterprises) == 0 {
		logger.Warn("ни одной карточки не извлечено",
			zap.Int("failed", len(res.Failures)))
		return nil
	}

	unified := export.NewUnified(m, logger,
		export.NewJSON(cfg.Export.Dir, logger),
		export.NewCSV(cfg.Export.Dir, logger),
	)
	name := "enterprises_" + time.Now().Format("20060102_150405")
	paths, err := unified.Export(cfg.Export.Format, res.Enterprises, name)
	if err != nil {
		return err
	}

	if cfg.Database.URL != "" {
		if err := saveToDatabase(ctx, cfg.Database.URL, res.Enterprises, logger); err != nil {
			return err
		}
	}

	logger.Info("готово",
		zap.Int("extracted", len(res.Enterprises)),
		zap.Int("failed", len(res.Failures)),
		zap.Strings("exports", paths))
	return nil
}

// startMetricsServer поднимает фоновый HTTP-эндпоинт /metrics,
// чтобы прогресс пакетного прогона был виден Prometheus.
func startMetricsServer(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("сервер метрик запущен", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("сервер метрик остановлен", zap.Error(err))
		}
	}()
	return srv
}

// newSource выбирает источник: файл со списком URL важнее каталога.
func newSource(cfg *config.Config, logger *zap.Logger) fetcher.Source {
	if cfg.Input.URLsFile != "" {
		return fetcher.NewURLSource(cfg.Input.URLsFile, cfg.Extraction.Timeout, logger)
	}
	return fetcher.NewDirSource(cfg.Input.Dir, logger)
}

func saveToDatabase(ctx context.Context, dbURL string, enterprises []domain.Enterprise, logger *zap.Logger) error {
	db, err := postgres.New(ctx, dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	var repo repository.EnterpriseRepository = postgres.NewEnterpriseRepo(db)
	saved := 0
	for i := range enterprises {
		ent := &enterprises[i]
		sourceURL, _ := ent.Metadata["source_url"].(string)
		if sourceURL == "" {
			logger.Warn("карточка без URL источника, пропускаем",
				zap.String("name", ent.Name))
			continue
		}
		if _, err := repo.Save(ctx, sourceURL, ent); err != nil {
			logger.Error("карточка не сохранена",
				zap.String("source_url", sourceURL),
				zap.Error(err))
			continue
		}
		saved++
	}

	logger.Info("сохранено в базу", zap.Int("saved", saved))
	return nil
}
