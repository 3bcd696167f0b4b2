package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"rideinsight/internal/infra"
	"rideinsight/internal/insights"
)

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, question string) (*insights.Answer, error)
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Insights Asker
	DB       Pinger
	Logger   *infra.Logger
	Now      func() time.Time
}

func NewApp(asker Asker, db Pinger, logger *infra.Logger) *App {
	return &App{Insights: asker, DB: db, Logger: infra.LoggerOrDiscard(logger), Now: time.Now}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *App) logger() *infra.Logger {
	return infra.LoggerOrDiscard(a.Logger)
}
