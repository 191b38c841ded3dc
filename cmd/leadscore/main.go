package main

import (
	"github.com/kiruba11k/lead-scoring-llm/internal/config"
	"github.com/kiruba11k/lead-scoring-llm/internal/handlers"
	"github.com/kiruba11k/lead-scoring-llm/internal/linkedin"
	"github.com/kiruba11k/lead-scoring-llm/internal/logging"
	"github.com/kiruba11k/lead-scoring-llm/internal/monitoring"
	"github.com/kiruba11k/lead-scoring-llm/internal/pipeline"
	"github.com/kiruba11k/lead-scoring-llm/internal/provider/apify"
	"github.com/kiruba11k/lead-scoring-llm/internal/scoring"
	"github.com/kiruba11k/lead-scoring-llm/internal/server"
	"github.com/kiruba11k/lead-scoring-llm/internal/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("leadscore")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Leadscore (LinkedIn Lead Scoring API)")

	cfg := config.LoadConfig()

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("leadscore", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("leadscore", version.Version, version.GitCommit)

	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"APIFY_API_KEY": cfg.ApifyAPIKey,
		"GROQ_API_KEY":  cfg.GroqAPIKey,
	}))
	// Overridden provider URLs point at proxies or mocks that accept
	// unauthenticated requests; the public vendor endpoints do not.
	if cfg.ApifyAPIURL != "" {
		healthChecker.AddCheck("apify", monitoring.HTTPServiceHealthCheck("apify", cfg.ApifyAPIURL))
	}
	if cfg.GroqAPIURL != "" {
		healthChecker.AddCheck("groq", monitoring.HTTPServiceHealthCheck("groq", cfg.GroqAPIURL))
	}

	// Scraping provider clients
	apifyClient := apify.NewClient(apify.Config{
		Token:        cfg.ApifyAPIKey,
		BaseURL:      cfg.ApifyAPIURL,
		SyncTimeout:  cfg.SyncTimeout,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
	})
	profiles := linkedin.NewProfileClient(apifyClient, cfg.ProfileActorID, cfg.ProfileFetchMode, cfg.IncludeEmail, logger)
	posts := linkedin.NewPostsClient(apifyClient, cfg.PostsActorID, cfg.IncludeEmail, logger)

	// Scoring provider client
	scorer := scoring.NewScorer(scoring.Config{
		APIKey:  cfg.GroqAPIKey,
		APIURL:  cfg.GroqAPIURL,
		Model:   cfg.GroqModel,
		Timeout: cfg.ScoringTimeout,
	}, logger)

	// Pipeline
	providerCalls, providerDuration, leadScores := metricsCollector.CreatePipelineMetrics()
	runner := pipeline.NewRunner(profiles, posts, scorer, cfg.PostLimit, logger).WithMetrics(&pipeline.Metrics{
		ProviderCalls:        providerCalls,
		ProviderCallDuration: providerDuration,
		LeadScores:           leadScores,
	})
	store := pipeline.NewStore()

	// Setup router with health/metrics and the session API
	router := server.SetupServiceRouter(logger, "leadscore", healthChecker, metricsCollector)
	handlers.NewSessionHandler(runner, store, logger).RegisterRoutes(router)

	serverConfig := server.DefaultConfig("leadscore", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
