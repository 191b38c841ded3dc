package config

import "time"

// Config stores environment configuration for the lead scoring service.
type Config struct {
	Port string

	// Apify scraping provider
	ApifyAPIKey      string
	ApifyAPIURL      string
	ProfileActorID   string
	PostsActorID     string
	ProfileFetchMode string // "run" (submit+poll) or "sync"
	PostLimit        int
	IncludeEmail     bool
	PollInterval     time.Duration
	PollTimeout      time.Duration
	SyncTimeout      time.Duration

	// Groq scoring provider
	GroqAPIKey     string
	GroqAPIURL     string
	GroqModel      string
	ScoringTimeout time.Duration
}

// LoadConfig loads the service configuration from environment variables.
// The two provider credentials are required; a missing key is fatal at
// startup rather than a per-request error.
func LoadConfig() Config {
	return Config{
		Port: GetEnv("PORT", "18080"),

		ApifyAPIKey:      RequireEnv("APIFY_API_KEY"),
		ApifyAPIURL:      GetEnv("APIFY_API_URL", ""),
		ProfileActorID:   GetEnv("APIFY_PROFILE_ACTOR_ID", "apimaestro~linkedin-profile-detail"),
		PostsActorID:     GetEnv("APIFY_POSTS_ACTOR_ID", "apimaestro~linkedin-batch-profile-posts-scraper"),
		ProfileFetchMode: GetEnv("APIFY_PROFILE_FETCH_MODE", "run"),
		PostLimit:        GetEnvInt("POST_LIMIT", 2),
		IncludeEmail:     GetEnvBool("APIFY_INCLUDE_EMAIL", false),
		PollInterval:     GetEnvDuration("APIFY_POLL_INTERVAL", 3*time.Second),
		PollTimeout:      GetEnvDuration("APIFY_POLL_TIMEOUT", 180*time.Second),
		SyncTimeout:      GetEnvDuration("APIFY_SYNC_TIMEOUT", 90*time.Second),

		GroqAPIKey:     RequireEnv("GROQ_API_KEY"),
		GroqAPIURL:     GetEnv("GROQ_API_URL", ""),
		GroqModel:      GetEnv("GROQ_MODEL", "llama-3.1-70b-versatile"),
		ScoringTimeout: GetEnvDuration("GROQ_TIMEOUT", 60*time.Second),
	}
}
