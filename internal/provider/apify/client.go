package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL      = "https://api.apify.com/v2"
	defaultTimeout      = 30 * time.Second
	defaultSyncTimeout  = 90 * time.Second
	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 180 * time.Second
)

// Config configures an Apify API client.
type Config struct {
	Token        string
	BaseURL      string
	SyncTimeout  time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Client is an Apify actor-run API client
type Client struct {
	token        string
	baseURL      string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
	syncClient   *http.Client
}

// NewClient creates a new Apify API client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	syncTimeout := cfg.SyncTimeout
	if syncTimeout <= 0 {
		syncTimeout = defaultSyncTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Client{
		token:        cfg.Token,
		baseURL:      baseURL,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		// Synchronous run-and-fetch calls block until the actor finishes,
		// so they get their own, longer timeout.
		syncClient: &http.Client{
			Timeout: syncTimeout,
		},
	}
}

// StartActorRun submits an actor run and returns its run and dataset ids.
func (c *Client) StartActorRun(ctx context.Context, actorID string, input interface{}) (*RunInfo, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/runs", c.baseURL, actorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("apify start run returned %d: %s", resp.StatusCode, snippet)
	}

	var envelope runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse run response: %w", err)
	}
	if envelope.Data.ID == "" || envelope.Data.DefaultDatasetID == "" {
		return nil, fmt.Errorf("apify run response missing run or dataset id")
	}

	return &RunInfo{ID: envelope.Data.ID, DatasetID: envelope.Data.DefaultDatasetID}, nil
}

// RunStatus fetches the current status of an actor run.
func (c *Client) RunStatus(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s", c.baseURL, runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("apify run status returned %d", resp.StatusCode)
	}

	var envelope runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to parse run status: %w", err)
	}
	return envelope.Data.Status, nil
}

// WaitForRun polls the run status at the configured interval until the run
// reaches a terminal status or the poll budget elapses. It returns an error
// for any outcome other than SUCCEEDED.
func (c *Client) WaitForRun(ctx context.Context, runID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	for {
		status, err := c.RunStatus(ctx, runID)
		if err == nil && IsTerminalStatus(status) {
			if status == RunStatusSucceeded {
				return nil
			}
			return fmt.Errorf("apify run %s ended with status %s", runID, status)
		}
		// Transient status fetch failures keep polling until the budget runs out.

		select {
		case <-ctx.Done():
			return fmt.Errorf("apify run %s did not finish: %w", runID, ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

// DatasetItems fetches the items of a dataset. The response must be a JSON
// list; anything else is an error.
func (c *Client) DatasetItems(ctx context.Context, datasetID string) (Items, error) {
	endpoint := fmt.Sprintf("%s/datasets/%s/items", c.baseURL, datasetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apify dataset items returned %d", resp.StatusCode)
	}

	var items Items
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("dataset %s did not return a list: %w", datasetID, err)
	}
	return items, nil
}

// runSync performs the blocking run-and-fetch call and returns the raw
// response body. The endpoint authenticates via a query-string token and
// blocks until the actor finishes or the sync timeout expires.
func (c *Client) runSync(ctx context.Context, actorID string, input interface{}) ([]byte, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, actorID, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.syncClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("apify sync run returned %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return respBody, nil
}

// RunActorSync runs an actor synchronously and returns its dataset items in
// one call. Some actors answer with a single object instead of a one-element
// list; that shape is wrapped into a one-item result set. Callers that must
// reject object bodies use RunActorSyncList.
func (c *Client) RunActorSync(ctx context.Context, actorID string, input interface{}) (Items, error) {
	body, err := c.runSync(ctx, actorID, input)
	if err != nil {
		return nil, err
	}

	var items Items
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var single map[string]json.RawMessage
	if err := json.Unmarshal(body, &single); err == nil {
		return Items{json.RawMessage(body)}, nil
	}

	return nil, fmt.Errorf("sync run for %s did not return a list", actorID)
}

// RunActorSyncList is the strict variant of RunActorSync: the response body
// must be a JSON list, anything else is an error.
func (c *Client) RunActorSyncList(ctx context.Context, actorID string, input interface{}) (Items, error) {
	body, err := c.runSync(ctx, actorID, input)
	if err != nil {
		return nil, err
	}

	var items Items
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("sync run for %s did not return a list: %w", actorID, err)
	}
	return items, nil
}
