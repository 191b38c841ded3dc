package linkedin

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ProfileRecord is a single scraped profile as the provider returns it.
// Immutable once fetched; lives only for the duration of one extraction.
type ProfileRecord struct {
	BasicInfo  BasicInfo         `json:"basic_info"`
	Experience []ExperienceEntry `json:"experience"`
}

// BasicInfo carries the profile's identity fields.
type BasicInfo struct {
	FullName       string   `json:"fullname"`
	Headline       string   `json:"headline"`
	Location       Location `json:"location"`
	CurrentCompany string   `json:"current_company"`
}

// Location is the provider's structured location; only the full text is used.
type Location struct {
	Full string `json:"full"`
}

// ExperienceEntry is one position in the profile's experience history.
type ExperienceEntry struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	IsCurrent bool   `json:"is_current"`
}

// PostRecord is a single social post. Only the posting time and a short text
// excerpt matter downstream; everything else the provider sends is dropped.
type PostRecord struct {
	Text     string   `json:"text,omitempty"`
	PostedAt PostTime `json:"posted_at"`
}

// PostTime is the provider's posting-time object: a millisecond epoch
// timestamp plus an optional human-readable relative string.
type PostTime struct {
	Timestamp int64  `json:"timestamp"`
	Relative  string `json:"relative,omitempty"`
}

// UnmarshalJSON tolerates the timestamp arriving as a number or a numeric
// string; anything unparsable becomes 0 so the record sorts as oldest.
func (t *PostTime) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp json.RawMessage `json:"timestamp"`
		Relative  string          `json:"relative"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = PostTime{}
		return nil
	}
	t.Relative = raw.Relative
	t.Timestamp = parseMillis(raw.Timestamp)
	return nil
}

func parseMillis(raw json.RawMessage) int64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// SortRecent orders posts descending by timestamp and truncates to limit.
// Records without a usable timestamp sort last. The operation is idempotent.
func SortRecent(posts []PostRecord, limit int) []PostRecord {
	sorted := make([]PostRecord, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostedAt.Timestamp > sorted[j].PostedAt.Timestamp
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
