package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rideinsight/internal/analytics"
	"rideinsight/internal/domain"
	"rideinsight/internal/format"
	"rideinsight/internal/infra"
	"rideinsight/internal/insights"
	"rideinsight/internal/middleware"
	"rideinsight/internal/modelcall"
)

const maxQueryBody = 10 << 20

type QueryReq struct {
	Question string `json:"question"`
	Query    string `json:"query"` // older clients
}

func (q QueryReq) text() string {
	if s := strings.TrimSpace(q.Question); s != "" {
		return s
	}
	return strings.TrimSpace(q.Query)
}

type DataPoints struct {
	TripsAnalyzed  int    `json:"tripsAnalyzed"`
	UsersAnalyzed  int    `json:"usersAnalyzed"`
	TimeRange      string `json:"timeRange"`
	TotalTripsInDB int64  `json:"totalTripsInDB"`
}

type AnalyticsSummary struct {
	AverageRidersPerTrip float64  `json:"averageRidersPerTrip"`
	AverageTripDuration  *int     `json:"averageTripDuration"`
	PeakHours            []string `json:"peakHours"`
	TopPickupLocation    *string  `json:"topPickupLocation"`
}

type QueryMetadata struct {
	DataPointsAnalyzed DataPoints       `json:"dataPointsAnalyzed"`
	AnalyticsSummary   AnalyticsSummary `json:"analyticsSummary"`
	Timestamp          string           `json:"timestamp"`
}

type QueryResp struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Response string        `json:"response"`
	Metadata QueryMetadata `json:"metadata"`
}

var exampleQuestion = map[string]string{"question": "What are the peak rideshare hours in Austin?"}

// Query answers POST /query.
func (a *App) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryReq
	if r.Body != nil {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBody))
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			a.badRequest(w)
			return
		}
	}
	question := req.text()
	if question == "" {
		a.badRequest(w)
		return
	}

	log := a.logger().With().Str("request_id", middleware.RequestIDFromContext(r.Context())).Logger()
	ans, err := a.Insights.Ask(r.Context(), question)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			a.badRequest(w)
			return
		}
		a.internalError(w, err, &log)
		return
	}
	log.Info().Int("trips", ans.TripsAnalyzed).Int("users", ans.UsersAnalyzed).Bool("truncated", ans.Truncated).Msg("question answered")

	a.json(w, http.StatusOK, QueryResp{
		Question: ans.Question,
		Answer:   ans.Answer,
		Response: ans.Answer,
		Metadata: QueryMetadata{
			DataPointsAnalyzed: DataPoints{
				TripsAnalyzed:  ans.TripsAnalyzed,
				UsersAnalyzed:  ans.UsersAnalyzed,
				TimeRange:      fmt.Sprintf("Last %d days", ans.AggregateWindowDays),
				TotalTripsInDB: ans.Snapshot.OverallStats.Count,
			},
			AnalyticsSummary: summarize(ans.Snapshot),
			Timestamp:        ans.Timestamp.UTC().Format(time.RFC3339),
		},
	})
}

func summarize(s analytics.Snapshot) AnalyticsSummary {
	out := AnalyticsSummary{
		AverageRidersPerTrip: s.RideAnalytics.AverageRidersPerTrip,
		AverageTripDuration:  s.RideAnalytics.AverageTripDuration,
		PeakHours:            s.PeakHourLabels(),
	}
	if out.PeakHours == nil {
		out.PeakHours = []string{}
	}
	if top := s.TopPickupLocation(); top != "" {
		out.TopPickupLocation = &top
	}
	return out
}

func (a *App) badRequest(w http.ResponseWriter) {
	a.json(w, http.StatusBadRequest, map[string]any{
		"error":   "Missing 'question' or 'query' in request body",
		"example": exampleQuestion,
	})
}

// internalError hides err from the caller. Model failures get the sentence
// matching their kind; everything else gets the generic retry message.
func (a *App) internalError(w http.ResponseWriter, err error, log *infra.Logger) {
	message := "Failed to process your question. Please try again."
	if errors.Is(err, domain.ErrModel) {
		message = format.FailureMessage(err)
	}
	if errors.Is(err, domain.ErrModel) && modelcall.KindOf(err) == modelcall.KindConfiguration {
		log.Error().Err(err).Str("kind", modelcall.KindConfiguration.String()).Msg("query failed: model misconfigured, operator action required")
	} else {
		log.Error().Err(err).Bool("retrieval", errors.Is(err, domain.ErrRetrieval)).Msg("query failed")
	}
	a.json(w, http.StatusInternalServerError, map[string]string{
		"error":     "Internal server error",
		"message":   message,
		"timestamp": a.now().Format(time.RFC3339),
	})
}

var _ Asker = (*insights.Service)(nil)
