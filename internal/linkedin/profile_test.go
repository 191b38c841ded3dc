package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiruba11k/lead-scoring-llm/internal/logging"
	"github.com/kiruba11k/lead-scoring-llm/internal/provider/apify"
)

const profileItem = `{
	"basic_info": {
		"fullname": "Jane Doe",
		"headline": "VP Sales at Acme",
		"location": {"full": "Austin, Texas"},
		"current_company": "Acme"
	},
	"experience": [
		{"title": "VP Sales", "company": "Acme", "is_current": true},
		{"title": "AE", "company": "Initech", "is_current": false}
	]
}`

func newTestApify(t *testing.T, handler http.HandlerFunc) *apify.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return apify.NewClient(apify.Config{
		Token:        "tok",
		BaseURL:      server.URL,
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  time.Second,
	})
}

func TestFetchProfile_RunMode(t *testing.T) {
	client := newTestApify(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acts/acme~profile/runs":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"RUNNING","defaultDatasetId":"ds-1"}}`))
		case "/actor-runs/run-1":
			_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"SUCCEEDED"}}`))
		case "/datasets/ds-1/items":
			_, _ = w.Write([]byte(`[` + profileItem + `]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	pc := NewProfileClient(client, "acme~profile", FetchModeRun, false, logging.NewLogger())
	profile, ok := pc.FetchProfile(context.Background(), "jdoe")
	if !ok {
		t.Fatal("expected profile to be found")
	}
	if profile.BasicInfo.FullName != "Jane Doe" {
		t.Fatalf("unexpected name %q", profile.BasicInfo.FullName)
	}
	if len(profile.Experience) != 2 || !profile.Experience[0].IsCurrent {
		t.Fatalf("unexpected experience %+v", profile.Experience)
	}
}

func TestFetchProfile_SyncMode(t *testing.T) {
	client := newTestApify(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acts/acme~profile/run-sync-get-dataset-items" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[` + profileItem + `]`))
	})

	pc := NewProfileClient(client, "acme~profile", FetchModeSync, false, logging.NewLogger())
	profile, ok := pc.FetchProfile(context.Background(), "jdoe")
	if !ok {
		t.Fatal("expected profile to be found")
	}
	if profile.BasicInfo.Headline != "VP Sales at Acme" {
		t.Fatalf("unexpected headline %q", profile.BasicInfo.Headline)
	}
}

func TestFetchProfile_SyncModeSingleObject(t *testing.T) {
	client := newTestApify(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(profileItem))
	})

	pc := NewProfileClient(client, "acme~profile", FetchModeSync, false, logging.NewLogger())
	if _, ok := pc.FetchProfile(context.Background(), "jdoe"); !ok {
		t.Fatal("expected single-object response to be accepted")
	}
}

func TestFetchProfile_NotFoundOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"provider error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"failed run", func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/acts/acme~profile/runs":
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"RUNNING","defaultDatasetId":"ds-1"}}`))
			default:
				_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"FAILED"}}`))
			}
		}},
		{"empty dataset", func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/acts/acme~profile/runs":
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"RUNNING","defaultDatasetId":"ds-1"}}`))
			case "/actor-runs/run-1":
				_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"SUCCEEDED"}}`))
			default:
				_, _ = w.Write([]byte(`[]`))
			}
		}},
		{"first item not an object", func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/acts/acme~profile/runs":
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"RUNNING","defaultDatasetId":"ds-1"}}`))
			case "/actor-runs/run-1":
				_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"SUCCEEDED"}}`))
			default:
				_, _ = w.Write([]byte(`["oops"]`))
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestApify(t, tc.handler)
			pc := NewProfileClient(client, "acme~profile", FetchModeRun, false, logging.NewLogger())
			if _, ok := pc.FetchProfile(context.Background(), "jdoe"); ok {
				t.Fatal("expected not-found outcome")
			}
		})
	}
}
