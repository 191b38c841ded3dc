package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/kiruba11k/lead-scoring-llm/internal/linkedin"
	"github.com/kiruba11k/lead-scoring-llm/internal/scoring"
)

var (
	// ErrNotProfileURL marks input that does not contain a profile path.
	ErrNotProfileURL = errors.New("not a linkedin profile url")
	// ErrProfileNotFound marks an extraction where the scraper produced no
	// usable profile record.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoPayload marks a scoring attempt on a session without a completed
	// extraction.
	ErrNoPayload = errors.New("session has no scoring payload")
)

// ProfileFetcher fetches one profile by username.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*linkedin.ProfileRecord, bool)
}

// PostsFetcher fetches the most recent posts of a profile URL. The second
// return value is false when the fetch degraded to an empty result.
type PostsFetcher interface {
	FetchRecentPosts(ctx context.Context, profileURL string, limit int) ([]linkedin.PostRecord, bool)
}

// LeadScorer produces a verdict for a normalized lead payload.
type LeadScorer interface {
	Score(ctx context.Context, payload scoring.ScoringPayload) (*scoring.ScoreResult, error)
}

// Metrics is the optional instrumentation surface of the runner.
type Metrics struct {
	ProviderCalls        *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	LeadScores           *prometheus.CounterVec
}

// Runner drives the two pipeline stages over a session: Extract gathers the
// profile data into a scoring payload, Score turns the payload into a
// verdict. The stages are independent so a failed scoring call can be
// repeated without re-scraping.
type Runner struct {
	profiles  ProfileFetcher
	posts     PostsFetcher
	scorer    LeadScorer
	postLimit int
	logger    logrus.FieldLogger
	metrics   *Metrics
	now       func() time.Time
}

func NewRunner(profiles ProfileFetcher, posts PostsFetcher, scorer LeadScorer, postLimit int, logger logrus.FieldLogger) *Runner {
	return &Runner{
		profiles:  profiles,
		posts:     posts,
		scorer:    scorer,
		postLimit: postLimit,
		logger:    logger,
		now:       time.Now,
	}
}

// WithMetrics attaches pipeline metrics to the runner.
func (r *Runner) WithMetrics(m *Metrics) *Runner {
	r.metrics = m
	return r
}

// Extract resolves the profile URL, scrapes profile and posts, and builds
// the session's scoring payload. Supplying a different URL than the
// session's previous one discards all derived state first, so a session
// never mixes data from two profiles; a failed re-extraction of the same
// URL leaves the previous payload and company untouched. Post scraping is
// best-effort: its failure leaves the payload with an empty post list and
// an unknown activity signal.
func (r *Runner) Extract(ctx context.Context, session *Session, profileURL string, company scoring.CompanyInfo) error {
	username, ok := linkedin.ResolveUsername(profileURL)
	if !ok {
		return ErrNotProfileURL
	}

	// A different URL voids everything derived from the previous one,
	// whether or not the new extraction succeeds.
	session.mu.Lock()
	if session.ProfileURL != profileURL {
		session.reset()
		session.ProfileURL = profileURL
	}
	session.mu.Unlock()

	log := r.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"username":   username,
	})

	profile, found := r.timedProfileFetch(ctx, username)
	if !found {
		log.Warn("Profile extraction produced no record")
		return ErrProfileNotFound
	}

	start := r.now()
	posts, fetched := r.posts.FetchRecentPosts(ctx, profileURL, r.postLimit)
	outcome := "success"
	if !fetched {
		outcome = "failure"
	}
	r.observeProviderCall("posts", outcome, r.now().Sub(start))

	activity := linkedin.ComputeActivityDays(posts, r.now())
	payload := scoring.BuildPayload(profile, activity, posts, company)

	session.mu.Lock()
	session.Profile = profile
	session.Posts = posts
	session.Activity = activity
	session.Company = company
	session.Payload = &payload
	session.Result = nil
	session.mu.Unlock()

	log.WithFields(logrus.Fields{
		"posts":         len(posts),
		"activity_days": activity,
	}).Info("Extraction completed")
	return nil
}

// Score submits the session's payload for classification. A failed call
// leaves the session untouched so the caller can retry scoring without
// repeating extraction.
func (r *Runner) Score(ctx context.Context, session *Session) (*scoring.ScoreResult, error) {
	session.mu.Lock()
	payload := session.Payload
	session.mu.Unlock()
	if payload == nil {
		return nil, ErrNoPayload
	}

	start := r.now()
	result, err := r.scorer.Score(ctx, *payload)
	if err != nil {
		r.observeProviderCall("scoring", "failure", r.now().Sub(start))
		r.logger.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Error("Scoring call failed")
		return nil, err
	}
	r.observeProviderCall("scoring", "success", r.now().Sub(start))

	session.mu.Lock()
	session.Result = result
	session.mu.Unlock()
	if r.metrics != nil && r.metrics.LeadScores != nil {
		r.metrics.LeadScores.WithLabelValues(string(result.Priority)).Inc()
	}

	r.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"priority":   result.Priority,
		"score":      result.Score,
	}).Info("Lead scored")
	return result, nil
}

func (r *Runner) timedProfileFetch(ctx context.Context, username string) (*linkedin.ProfileRecord, bool) {
	start := r.now()
	profile, found := r.profiles.FetchProfile(ctx, username)
	outcome := "success"
	if !found {
		outcome = "failure"
	}
	r.observeProviderCall("profile", outcome, r.now().Sub(start))
	return profile, found
}

func (r *Runner) observeProviderCall(provider, outcome string, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	if r.metrics.ProviderCalls != nil {
		r.metrics.ProviderCalls.WithLabelValues(provider, outcome).Inc()
	}
	if r.metrics.ProviderCallDuration != nil {
		r.metrics.ProviderCallDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}
