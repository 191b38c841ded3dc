package linkedin

import (
	"encoding/json"
	"time"
)

// ActivitySignal is the number of whole days since the most recent post, or
// an explicit unknown. Unknown is neutral: it must never be read as 0 or as
// inactivity by downstream consumers, so it serializes as JSON null.
type ActivitySignal struct {
	Days  int
	Known bool
}

// KnownDays returns a known signal of n days.
func KnownDays(n int) ActivitySignal {
	return ActivitySignal{Days: n, Known: true}
}

// UnknownActivity returns the explicit absence marker.
func UnknownActivity() ActivitySignal {
	return ActivitySignal{}
}

func (s ActivitySignal) MarshalJSON() ([]byte, error) {
	if !s.Known {
		return []byte("null"), nil
	}
	return json.Marshal(s.Days)
}

func (s *ActivitySignal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ActivitySignal{}
		return nil
	}
	var days int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*s = ActivitySignal{Days: days, Known: true}
	return nil
}

// ComputeActivityDays derives the activity signal from a recency-sorted post
// collection. An empty collection, or a first post without a usable
// timestamp, yields unknown. A post timestamped in the future yields 0 days,
// never a negative count. The value is informational only; no scoring
// judgment is applied here.
func ComputeActivityDays(posts []PostRecord, now time.Time) ActivitySignal {
	if len(posts) == 0 {
		return UnknownActivity()
	}

	ts := posts[0].PostedAt.Timestamp
	if ts <= 0 {
		return UnknownActivity()
	}

	days := int(now.Sub(time.UnixMilli(ts)).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return KnownDays(days)
}
