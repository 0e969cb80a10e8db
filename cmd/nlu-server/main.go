// cmd/nlu-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"butik-nlu/internal/catalog"
	"butik-nlu/internal/common/config"
	"butik-nlu/internal/common/database"
	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/common/observability"
	"butik-nlu/internal/models"
	"butik-nlu/internal/nlu"
	"butik-nlu/internal/nlu/entity"
	"butik-nlu/internal/nlu/intent"
	"butik-nlu/internal/nlu/morphology"
	"butik-nlu/internal/nlu/normalize"
	"butik-nlu/internal/session"
	"butik-nlu/internal/transport/httpapi"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting nlu-server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Optional Postgres, only needed for the postgres catalog source ---
	var pg *database.PostgresClient
	if cfg.Catalog.Source == "postgres" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres unavailable", zap.Error(err))
		}
		defer pg.Close()
	}

	// --- Catalog ---
	products, facts, err := loadCatalog(ctx, cfg, pg)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.String("source", cfg.Catalog.Source),
	)

	// --- Morphology (always available, compiled in) ---
	reducer := morphology.NewReducer(morphology.NewAnalyzer())
	index := catalog.NewIndex(products, facts, reducer)

	// --- Spelling dictionary, degrade to passthrough on failure ---
	dict := loadDictionary(cfg, log)

	// --- Intent model, degrade to rule-only on failure ---
	model := loadIntentModel(cfg, log)

	// --- Session store ---
	store, err := buildSessionStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("session store init failed", zap.Error(err))
	}
	defer store.Close()

	// --- Pipeline ---
	normalizer := normalize.New(dict,
		normalize.WithMaxDistance(cfg.NLU.SpellMaxEditDistance),
		normalize.WithGuardScore(cfg.NLU.SpellGuardScore),
		normalize.WithLogger(log),
	)
	detectorOpts := []intent.DetectorOption{
		intent.WithOverrideConfidence(cfg.NLU.OverrideConfidence),
		intent.WithOutOfScopeFloor(cfg.NLU.OutOfScopeFloor),
		intent.WithMinOverrideWords(cfg.NLU.MinWordsForOverride),
		intent.WithDetectorLogger(log),
	}
	if model != nil {
		detectorOpts = append(detectorOpts, intent.WithModel(model))
	}
	pipeline := nlu.NewPipeline(
		normalizer,
		reducer,
		intent.NewDetector(detectorOpts...),
		entity.NewResolver(index,
			entity.WithFuzzyThreshold(cfg.NLU.FuzzyMatchThreshold),
			entity.WithResolverLogger(log),
		),
		store,
		nlu.WithObservability(obs),
		nlu.WithLogger(log),
	)

	// --- HTTP surface ---
	api := httpapi.NewServer(pipeline, httpapi.NewResponder(index), httpapi.Health{
		SpellingDictionary: normalizer.Available(),
		Lemmatizer:         reducer.Available(),
		IntentModel:        model != nil,
	}, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Debug server: pprof plus a second metrics mount, kept off the public
	// address.
	if cfg.Server.DebugAddress != "" {
		go func() {
			debugMux := http.NewServeMux()
			debugMux.Handle("/metrics", promhttp.Handler())
			debugMux.Handle("/debug/pprof/", http.DefaultServeMux)
			zapLog.Info("debug server listening", zap.String("address", cfg.Server.DebugAddress))
			if err := http.ListenAndServe(cfg.Server.DebugAddress, debugMux); err != nil {
				zapLog.Warn("debug server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown failed", zap.Error(err))
	}
	zapLog.Info("nlu-server stopped")
}

func loadCatalog(ctx context.Context, cfg *config.Config, pg *database.PostgresClient) ([]models.Product, models.BusinessFacts, error) {
	switch cfg.Catalog.Source {
	case "file":
		return catalog.LoadFile(cfg.Catalog.Path)
	case "postgres":
		return catalog.LoadPostgres(ctx, pg.GetDB())
	default:
		return catalog.LoadEmbedded()
	}
}

func loadDictionary(cfg *config.Config, log logger.Logger) *normalize.Dictionary {
	if cfg.NLU.DictionaryPath == "" {
		return normalize.DefaultDictionary()
	}
	dict, err := normalize.LoadDictionary(cfg.NLU.DictionaryPath)
	if err != nil {
		log.Warn("spelling dictionary unavailable, correction disabled", map[string]interface{}{
			"path":  cfg.NLU.DictionaryPath,
			"error": err.Error(),
		})
		return nil
	}
	log.Info("spelling dictionary loaded", map[string]interface{}{
		"path":  cfg.NLU.DictionaryPath,
		"terms": dict.Size(),
	})
	return dict
}

func loadIntentModel(cfg *config.Config, log logger.Logger) *intent.NaiveBayes {
	if cfg.NLU.ModelPath != "" {
		model, err := intent.LoadModel(cfg.NLU.ModelPath)
		if err == nil {
			log.Info("intent model loaded", map[string]interface{}{"path": cfg.NLU.ModelPath})
			return model
		}
		log.Warn("intent model artifact unusable, training from seed data", map[string]interface{}{
			"path":  cfg.NLU.ModelPath,
			"error": err.Error(),
		})
	}
	model, err := intent.DefaultModel()
	if err != nil {
		log.Warn("seed training failed, intent detection is rule-only", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return model
}

func buildSessionStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (session.Store, error) {
	if cfg.Sessions.Backend != "redis" {
		return session.NewMemoryStore(cfg.Sessions.SessionTTL()), nil
	}

	var rdb *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(rdb.GetClient(), cfg.Sessions.SessionTTL()), nil
}
