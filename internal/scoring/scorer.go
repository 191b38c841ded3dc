package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultGroqAPIURL = "https://api.groq.com/openai/v1"

// Config carries the settings of the chat-completions scoring backend.
type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// Scorer classifies a lead payload through an OpenAI-compatible
// chat-completions endpoint. A single request is made per Score call;
// callers decide whether a failed call is retried.
type Scorer struct {
	client *http.Client
	apiKey string
	apiURL string
	model  string
	logger logrus.FieldLogger
}

func NewScorer(cfg Config, logger logrus.FieldLogger) *Scorer {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultGroqAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Scorer{
		client: &http.Client{Timeout: timeout},
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		model:  cfg.Model,
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// scoredLead mirrors ScoreResult with pointer fields so that missing
// mandatory keys are distinguishable from zero values.
type scoredLead struct {
	Priority   *string                    `json:"priority"`
	Score      float64                    `json:"score"`
	Confidence *float64                   `json:"confidence"`
	Reasons    []string                   `json:"reasons"`
	KeyFactors map[string]json.RawMessage `json:"key_factors"`
	NextSteps  []string                   `json:"next_steps"`
	RiskFlags  []string                   `json:"risk_flags"`
}

// Score sends the payload to the model and parses the structured verdict.
// Every failure mode surfaces as a *ScoringError carrying the upstream
// status code and a snippet of the raw response.
func (s *Scorer) Score(ctx context.Context, payload ScoringPayload) (*ScoreResult, error) {
	leadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, &ScoringError{Message: fmt.Sprintf("marshal lead payload: %v", err)}
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptTemplate, leadJSON)},
		},
		Temperature: 0.2,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ScoringError{Message: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ScoringError{Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ScoringError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		s.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"model":  s.model,
		}).Warn("Scoring provider returned non-success status")
		return nil, &ScoringError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %s", resp.Status),
			Raw:        snippet(raw),
		}
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, &ScoringError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decode response: %v", err),
			Raw:        snippet(raw),
		}
	}
	if len(completion.Choices) == 0 {
		return nil, &ScoringError{
			StatusCode: resp.StatusCode,
			Message:    "response has no choices",
			Raw:        snippet(raw),
		}
	}

	content := completion.Choices[0].Message.Content
	return parseVerdict(content)
}

func parseVerdict(content string) (*ScoreResult, error) {
	obj, ok := extractJSONObject(content)
	if !ok {
		return nil, &ScoringError{
			Message: "no JSON object in model output",
			Raw:     snippet([]byte(content)),
		}
	}

	var lead scoredLead
	if err := json.Unmarshal([]byte(obj), &lead); err != nil {
		return nil, &ScoringError{
			Message: fmt.Sprintf("decode model output: %v", err),
			Raw:     snippet([]byte(content)),
		}
	}
	if lead.Priority == nil || lead.Confidence == nil {
		return nil, &ScoringError{
			Message: "model output missing priority or confidence",
			Raw:     snippet([]byte(content)),
		}
	}
	priority := Priority(strings.ToUpper(strings.TrimSpace(*lead.Priority)))
	if !ValidPriority(priority) {
		return nil, &ScoringError{
			Message: fmt.Sprintf("model returned unknown priority %q", *lead.Priority),
			Raw:     snippet([]byte(content)),
		}
	}

	result := &ScoreResult{
		Priority:   priority,
		Score:      lead.Score,
		Confidence: *lead.Confidence,
		Reasons:    lead.Reasons,
		NextSteps:  lead.NextSteps,
		RiskFlags:  lead.RiskFlags,
	}
	if len(lead.KeyFactors) > 0 {
		result.KeyFactors = make(map[string]interface{}, len(lead.KeyFactors))
		for key, value := range lead.KeyFactors {
			var decoded interface{}
			if err := json.Unmarshal(value, &decoded); err == nil {
				result.KeyFactors[key] = decoded
			} else {
				result.KeyFactors[key] = string(value)
			}
		}
	}
	return result, nil
}

const maxRawSnippet = 512

func snippet(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > maxRawSnippet {
		return text[:maxRawSnippet]
	}
	return text
}
