package pipeline

import (
	"encoding/json"
	"sync"

	"github.com/kiruba11k/lead-scoring-llm/internal/linkedin"
	"github.com/kiruba11k/lead-scoring-llm/internal/scoring"
)

// Session accumulates the pipeline state for one lead. A session is keyed by
// a caller-chosen ID and survives across requests so extraction and scoring
// can run as separate steps. The mutex guards the derived fields: an extract
// on one connection can overlap a snapshot or score on another naming the
// same ID. Pipeline stages mutate under mu, serialization locks it too, so
// a reader never observes a half-committed extraction.
type Session struct {
	ID string

	mu         sync.Mutex
	ProfileURL string
	Company    scoring.CompanyInfo
	Profile    *linkedin.ProfileRecord
	Posts      []linkedin.PostRecord
	Activity   linkedin.ActivitySignal
	Payload    *scoring.ScoringPayload
	Result     *scoring.ScoreResult
}

// MarshalJSON serializes a consistent snapshot of the session. The payload
// and result are replaced wholesale by the pipeline, never mutated in place,
// so holding the lock for the duration of the marshal is enough.
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(struct {
		ID         string                  `json:"id"`
		ProfileURL string                  `json:"profile_url"`
		Company    scoring.CompanyInfo     `json:"company_manual"`
		Activity   linkedin.ActivitySignal `json:"activity_days"`
		Payload    *scoring.ScoringPayload `json:"payload,omitempty"`
		Result     *scoring.ScoreResult    `json:"result,omitempty"`
	}{s.ID, s.ProfileURL, s.Company, s.Activity, s.Payload, s.Result})
}

// reset clears everything derived from a previous profile URL.
// Callers hold mu.
func (s *Session) reset() {
	s.Company = scoring.CompanyInfo{}
	s.Profile = nil
	s.Posts = nil
	s.Activity = linkedin.UnknownActivity()
	s.Payload = nil
	s.Result = nil
}

// Store is an in-memory session registry. Sessions are never evicted; the
// process lifetime bounds them.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session with the given ID, if present.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

// GetOrCreate returns the existing session or registers a fresh one.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if session, ok := st.sessions[id]; ok {
		return session
	}
	session := &Session{ID: id}
	st.sessions[id] = session
	return session
}

// Len reports the number of registered sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
