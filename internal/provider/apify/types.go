package apify

import "encoding/json"

// Run statuses reported by the actor-runs endpoint. A run is terminal once
// it reaches SUCCEEDED or one of the failure states.
const (
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
	RunStatusTimedOut  = "TIMED_OUT"
	RunStatusAborted   = "ABORTED"
)

// RunInfo identifies a submitted actor run and the dataset its results land in.
type RunInfo struct {
	ID        string
	DatasetID string
}

// runEnvelope is the `{"data": {...}}` wrapper Apify puts around run objects.
type runEnvelope struct {
	Data runData `json:"data"`
}

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

// Items is an ordered dataset result set. Records are loosely typed; callers
// decode the shape they expect.
type Items []json.RawMessage

// IsTerminalStatus reports whether polling should stop at the given status.
func IsTerminalStatus(status string) bool {
	switch status {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut, RunStatusAborted:
		return true
	}
	return false
}
