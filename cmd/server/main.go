package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/gabohq/backend/config"
	httpDelivery "github.com/gabohq/backend/internal/delivery/http"
	"github.com/gabohq/backend/internal/domain"
	"github.com/gabohq/backend/internal/infrastructure/cache"
	"github.com/gabohq/backend/internal/infrastructure/llm"
	"github.com/gabohq/backend/internal/infrastructure/sqlite"
	"github.com/gabohq/backend/internal/usecase"
)

func main() {
	// A missing .env file is fine; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Server.Environment)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("starting Gabo backend v1.0.0")

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("could not open database")
	}
	defer db.Close()

	catalog := sqlite.NewCatalogStore(db)
	interactions := sqlite.NewInteractionStore(db)

	var answerCache domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not connect to redis")
		}
		defer redisCache.Close()
		answerCache = redisCache
	default:
		answerCache = cache.NewMemoryCache()
	}

	var completion domain.CompletionClient
	if cfg.LLM.APIKey != "" {
		completion = llm.NewClient(llm.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
		}, logger)
		logger.Info().Str("model", cfg.LLM.Model).Msg("completion backend configured")
	} else {
		logger.Warn().Msg("no LLM API key configured, running in catalog-only mode")
	}

	rules := domain.DefaultRules()
	normalizer := usecase.NewNormalizer(rules)
	classifier := usecase.NewIntentClassifier(rules)
	extractor := usecase.NewEntityExtractor(normalizer, rules, cfg.Assistant.PhraseThreshold)
	scorer := usecase.NewConfidenceScorer(normalizer, rules)
	search := usecase.NewSearchService(catalog, normalizer, scorer, usecase.SearchConfig{
		FuzzyThreshold:        cfg.Assistant.FuzzyThreshold,
		ResolveFuzzyThreshold: cfg.Assistant.ResolveFuzzyThreshold,
		ConfidenceGate:        cfg.Assistant.ConfidenceGate,
	}, logger)
	formatter := usecase.NewResponseFormatter(cfg.Assistant.WordBudget)
	conversations := usecase.NewConversationService(interactions, cfg.Assistant.SessionTimeout, logger)

	assistant := usecase.NewAssistantService(
		catalog, completion, answerCache, conversations,
		classifier, normalizer, extractor, search, formatter,
		usecase.AssistantConfig{
			SystemPrompt: cfg.Assistant.SystemPrompt,
			HistoryDepth: cfg.Assistant.HistoryDepth,
			CacheTTL:     cfg.Cache.TTL,
		}, logger,
	)

	if cfg.Monitor.Enabled {
		monitor := usecase.NewStockMonitor(catalog, usecase.NewAlertDeduplicator(), cfg.Monitor.Interval, nil, logger)
		go monitor.Run(context.Background())
		logger.Info().Dur("interval", cfg.Monitor.Interval).Msg("stock monitor started")
	}

	handler := httpDelivery.NewHandler(assistant, search, catalog)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// newLogger builds the process logger: pretty console output in
// development, plain JSON elsewhere.
func newLogger(environment string) zerolog.Logger {
	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
