package scoring

import (
	"fmt"

	"github.com/kiruba11k/lead-scoring-llm/internal/linkedin"
)

// Priority is the lead classification verdict.
type Priority string

const (
	PriorityHot  Priority = "HOT"
	PriorityWarm Priority = "WARM"
	PriorityCool Priority = "COOL"
	PriorityCold Priority = "COLD"
)

// ValidPriority reports whether the provider returned one of the four
// allowed verdicts. Anything else is a contract violation, not a value to
// coerce.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHot, PriorityWarm, PriorityCool, PriorityCold:
		return true
	}
	return false
}

// CompanyInfo is the user-supplied company context. Free text, no
// validation; fields may be empty.
type CompanyInfo struct {
	CompanyName   string `json:"company_name"`
	CompanySize   string `json:"company_size"`
	AnnualRevenue string `json:"annual_revenue"`
	Industry      string `json:"industry"`
}

// Prospect is the flattened profile view inside the scoring payload.
type Prospect struct {
	Name           string                  `json:"name"`
	Headline       string                  `json:"headline"`
	Location       string                  `json:"location"`
	CurrentRole    string                  `json:"current_role"`
	CurrentCompany string                  `json:"current_company"`
	ActivityDays   linkedin.ActivitySignal `json:"activity_days"`
	RecentPosts    []linkedin.PostRecord   `json:"recent_posts"`
}

// ScoringPayload is the normalized record handed to the scoring provider.
// Its JSON shape is a stable contract: the prompt template downstream refers
// to these field names.
type ScoringPayload struct {
	Prospect      Prospect    `json:"prospect"`
	CompanyManual CompanyInfo `json:"company_manual"`
}

// ScoreResult is the provider's parsed verdict.
type ScoreResult struct {
	Priority   Priority               `json:"priority"`
	Score      float64                `json:"score"`
	Confidence float64                `json:"confidence"`
	Reasons    []string               `json:"reasons"`
	KeyFactors map[string]interface{} `json:"key_factors,omitempty"`
	NextSteps  []string               `json:"next_steps,omitempty"`
	RiskFlags  []string               `json:"risk_flags,omitempty"`
}

// ScoringError is the one failure class that propagates to callers: the
// provider call did not produce a usable verdict. Raw carries a response
// snippet for diagnosis.
type ScoringError struct {
	StatusCode int
	Message    string
	Raw        string
}

func (e *ScoringError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scoring failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("scoring failed: %s", e.Message)
}
