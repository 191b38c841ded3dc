package linkedin

import (
	"context"
	"encoding/json"

	"github.com/kiruba11k/lead-scoring-llm/internal/logging"
	"github.com/kiruba11k/lead-scoring-llm/internal/provider/apify"
)

// Profile fetch modes. "run" submits an actor run and polls it to completion;
// "sync" uses the provider's blocking run-and-fetch endpoint. Both normalize
// to the same ProfileRecord.
const (
	FetchModeRun  = "run"
	FetchModeSync = "sync"
)

type profileInput struct {
	Username     string `json:"username"`
	IncludeEmail bool   `json:"includeEmail"`
}

// ProfileClient fetches a single profile record from the scraping provider.
type ProfileClient struct {
	apify        *apify.Client
	actorID      string
	mode         string
	includeEmail bool
	logger       logging.Logger
}

// NewProfileClient creates a profile client over the given Apify client.
func NewProfileClient(client *apify.Client, actorID, mode string, includeEmail bool, logger logging.Logger) *ProfileClient {
	if mode != FetchModeSync {
		mode = FetchModeRun
	}
	return &ProfileClient{
		apify:        client,
		actorID:      actorID,
		mode:         mode,
		includeEmail: includeEmail,
		logger:       logger,
	}
}

// FetchProfile fetches the profile for a resolved username. Every failure
// mode (non-2xx, timeout, failed run, empty result set, malformed first
// item) collapses into a not-found outcome; callers branch on presence
// only. The cause is logged, not returned.
func (c *ProfileClient) FetchProfile(ctx context.Context, username string) (*ProfileRecord, bool) {
	input := profileInput{Username: username, IncludeEmail: c.includeEmail}

	var items apify.Items
	var err error
	switch c.mode {
	case FetchModeSync:
		items, err = c.apify.RunActorSync(ctx, c.actorID, input)
	default:
		items, err = c.runAndFetch(ctx, input)
	}
	if err != nil {
		c.logger.WithError(err).WithField("username", username).Warn("Profile extraction failed")
		return nil, false
	}
	if len(items) == 0 {
		c.logger.WithField("username", username).Warn("Profile extraction returned no items")
		return nil, false
	}

	var profile ProfileRecord
	if err := json.Unmarshal(items[0], &profile); err != nil {
		c.logger.WithError(err).WithField("username", username).Warn("Profile record has unexpected shape")
		return nil, false
	}
	return &profile, true
}

func (c *ProfileClient) runAndFetch(ctx context.Context, input profileInput) (apify.Items, error) {
	run, err := c.apify.StartActorRun(ctx, c.actorID, input)
	if err != nil {
		return nil, err
	}
	if err := c.apify.WaitForRun(ctx, run.ID); err != nil {
		return nil, err
	}
	return c.apify.DatasetItems(ctx, run.DatasetID)
}
