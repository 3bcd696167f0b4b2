package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"rideinsight/internal/analytics"
	"rideinsight/internal/domain"
	"rideinsight/internal/format"
	"rideinsight/internal/insights"
	"rideinsight/internal/modelcall"
)

type fakeAsker struct {
	questions []string
	answer    *insights.Answer
	err       error
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (*insights.Answer, error) {
	f.questions = append(f.questions, question)
	return f.answer, f.err
}

var testNow = time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

func newTestApp(asker Asker) *App {
	app := NewApp(asker, nil, nil)
	app.Now = func() time.Time { return testNow }
	return app
}

func postQuery(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.Query(rr, req)
	return rr
}

func sampleAnswer() *insights.Answer {
	dur := 18
	trips := []domain.Trip{}
	for _, hour := range []int{17, 17, 8} {
		ts := testNow.Add(time.Duration(hour-12) * time.Hour)
		trips = append(trips, domain.Trip{PickupAddress: "West Campus", PickupTime: &ts})
	}
	snap := analytics.Build(trips, nil, domain.AggregateCounts{Count: 1234})
	snap.RideAnalytics.AverageRidersPerTrip = 6.2
	snap.RideAnalytics.AverageTripDuration = &dur
	return &insights.Answer{
		Question:            "What are the peak rideshare hours?",
		Answer:              "Peak is <strong>17:00</strong>.",
		TripsAnalyzed:       3,
		UsersAnalyzed:       100,
		AggregateWindowDays: 30,
		Snapshot:            snap,
		Timestamp:           testNow,
	}
}

func TestQuerySuccessShape(t *testing.T) {
	asker := &fakeAsker{answer: sampleAnswer()}
	rr := postQuery(t, newTestApp(asker), `{"question":"What are the peak rideshare hours?"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var got QueryResp
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	top := "West Campus"
	dur := 18
	want := QueryResp{
		Question: "What are the peak rideshare hours?",
		Answer:   "Peak is <strong>17:00</strong>.",
		Response: "Peak is <strong>17:00</strong>.",
		Metadata: QueryMetadata{
			DataPointsAnalyzed: DataPoints{TripsAnalyzed: 3, UsersAnalyzed: 100, TimeRange: "Last 30 days", TotalTripsInDB: 1234},
			AnalyticsSummary: AnalyticsSummary{
				AverageRidersPerTrip: 6.2,
				AverageTripDuration:  &dur,
				PeakHours:            []string{"17:00", "8:00"},
				TopPickupLocation:    &top,
			},
			Timestamp: "2025-09-10T12:00:00Z",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryAcceptsQueryAlias(t *testing.T) {
	asker := &fakeAsker{answer: sampleAnswer()}
	rr := postQuery(t, newTestApp(asker), `{"query":"  busiest pickup area?  "}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if diff := cmp.Diff([]string{"busiest pickup area?"}, asker.questions); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryBadRequest(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"question":"   "}`, `not json`} {
		asker := &fakeAsker{}
		rr := postQuery(t, newTestApp(asker), body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rr.Code)
		}
		var payload map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload["error"] != "Missing 'question' or 'query' in request body" {
			t.Fatalf("error = %#v", payload["error"])
		}
		if _, ok := payload["example"]; !ok {
			t.Fatal("missing example")
		}
		if len(asker.questions) != 0 {
			t.Fatalf("body %q reached the pipeline", body)
		}
	}
}

func TestQueryInternalErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"retrieval", errors.Join(domain.ErrRetrieval, errors.New("dial tcp: refused")), "Failed to process your question. Please try again."},
		{"configuration", &modelcall.CallError{Attempts: 1, Kind: modelcall.KindConfiguration, Cause: errors.New("API_KEY_INVALID")}, format.MessageConfiguration},
		{"exhausted", &modelcall.CallError{Attempts: 3, Kind: modelcall.KindUnknown, Cause: errors.New("boom")}, format.MessageGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postQuery(t, newTestApp(&fakeAsker{err: tc.err}), `{"question":"q"}`)
			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rr.Code)
			}
			var payload map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := map[string]string{
				"error":     "Internal server error",
				"message":   tc.want,
				"timestamp": "2025-09-10T12:00:00Z",
			}
			if diff := cmp.Diff(want, payload); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
			if strings.Contains(rr.Body.String(), "boom") || strings.Contains(rr.Body.String(), "refused") {
				t.Fatal("internal error text leaked to the client")
			}
		})
	}
}

func TestQueryInvalidQuestionFromService(t *testing.T) {
	rr := postQuery(t, newTestApp(&fakeAsker{err: domain.ErrInvalidQuestion}), `{"question":"q"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestQueryLogsConfigurationFailureDistinctly(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	app := newTestApp(&fakeAsker{err: &modelcall.CallError{Attempts: 1, Kind: modelcall.KindConfiguration, Cause: errors.New("API_KEY_INVALID")}})
	app.Logger = &logger

	postQuery(t, app, `{"question":"q"}`)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" || entry["kind"] != "configuration" {
		t.Fatalf("log entry = %v", entry)
	}
	if msg, _ := entry["message"].(string); !strings.Contains(msg, "operator action required") {
		t.Fatalf("message = %q", msg)
	}
}
