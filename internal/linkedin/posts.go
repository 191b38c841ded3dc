package linkedin

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kiruba11k/lead-scoring-llm/internal/logging"
	"github.com/kiruba11k/lead-scoring-llm/internal/provider/apify"
)

type postsInput struct {
	Usernames    []string `json:"usernames"`
	IncludeEmail bool     `json:"includeEmail"`
}

// PostsClient fetches the most recent posts for a profile.
type PostsClient struct {
	apify        *apify.Client
	actorID      string
	includeEmail bool
	logger       logging.Logger
}

// NewPostsClient creates a posts client over the given Apify client.
func NewPostsClient(client *apify.Client, actorID string, includeEmail bool, logger logging.Logger) *PostsClient {
	return &PostsClient{
		apify:        client,
		actorID:      actorID,
		includeEmail: includeEmail,
		logger:       logger,
	}
}

// FetchRecentPosts fetches up to limit posts for the profile URL, newest
// first. Transport errors, bad statuses and non-list bodies (an error
// envelope can arrive with a 200 status) all degrade to an empty slice;
// activity must stay neutral rather than block the pipeline. The result is
// never nil; the second return value is false when the provider call
// degraded.
func (c *PostsClient) FetchRecentPosts(ctx context.Context, profileURL string, limit int) ([]PostRecord, bool) {
	input := postsInput{
		Usernames:    []string{strings.TrimSpace(profileURL)},
		IncludeEmail: c.includeEmail,
	}

	items, err := c.apify.RunActorSyncList(ctx, c.actorID, input)
	if err != nil {
		c.logger.WithError(err).Warn("Post extraction failed; continuing without activity signal")
		return []PostRecord{}, false
	}

	posts := make([]PostRecord, 0, len(items))
	for _, item := range items {
		var post PostRecord
		// A record that fails to decode still counts, with timestamp 0,
		// so it sorts as oldest rather than dropping silently.
		_ = json.Unmarshal(item, &post)
		posts = append(posts, post)
	}

	return SortRecent(posts, limit), true
}
