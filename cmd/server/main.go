package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"altrec/backend/internal/api"
	"altrec/backend/internal/config"
	"altrec/backend/internal/llm"
	"altrec/backend/internal/recommend"
	"altrec/backend/internal/resolve"
	"altrec/backend/internal/search"
)

func main() {
	// Missing .env is fine in containerised deployments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx := context.Background()

	keys := cfg.Gemini.Keys()
	generators := make([]llm.Generator, 0, len(keys))
	for _, key := range keys {
		client, err := llm.NewClient(ctx, llm.Config{APIKey: key, Model: cfg.Gemini.Model})
		if err != nil {
			logger.WithError(err).Fatal("failed to create model client")
		}
		generators = append(generators, client)
	}
	pool, err := llm.NewPool(generators, llm.PoolConfig{
		MaxAttempts: cfg.Gemini.MaxAttempts,
		BaseDelay:   cfg.Gemini.BaseDelay,
		Logger:      logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create credential pool")
	}

	lookup := search.NewClient(search.Config{
		APIKey:  cfg.Lookup.APIKey,
		BaseURL: cfg.Lookup.BaseURL,
		Timeout: cfg.Lookup.Timeout,
		RPS:     cfg.Lookup.RPS,
		Burst:   cfg.Lookup.Burst,
	}, logger)

	resolver := &resolve.Resolver{
		Scraper: lookup,
		Timeout: cfg.Pipeline.ScrapeTimeout,
		Logger:  logger,
	}

	notifier := api.NewProgressNotifier(logger)
	pipeline := &recommend.Pipeline{
		Gen:           pool,
		Search:        lookup,
		Resolver:      resolver,
		Logger:        logger,
		SearchTimeout: cfg.Pipeline.SearchTimeout,
		EnrichTimeout: cfg.Pipeline.EnrichTimeout,
		Progress:      notifier.Broadcast,
	}

	server := api.NewServer(api.Config{
		Environment:    cfg.Server.Environment,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Model:          cfg.Gemini.Model,
		Credentials:    len(keys),
		SearchTimeout:  cfg.Pipeline.SearchTimeout,
	}, pipeline, notifier, logger)

	router, err := server.Router()
	if err != nil {
		logger.WithError(err).Fatal("failed to build router")
	}

	logger.WithFields(logrus.Fields{
		"port":        cfg.Server.Port,
		"environment": cfg.Server.Environment,
		"credentials": len(keys),
	}).Info("starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
