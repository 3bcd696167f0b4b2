package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings the database so load balancers stop routing when it is gone.
func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		a.json(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.DB.Ping(ctx); err != nil {
		a.logger().Error().Err(err).Msg("readiness ping failed")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Root is the status banner served at /.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"message":   "Fetii AI Analytics Server is running",
		"timestamp": a.now().Format(time.RFC3339),
		"cors":      "enabled",
	})
}
