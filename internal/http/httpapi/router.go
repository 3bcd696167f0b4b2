package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"rideinsight/internal/http/handlers"
	"rideinsight/internal/infra"
	"rideinsight/internal/middleware"
)

// Options carries the router-level policy.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	Logger          *infra.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	logger := *infra.LoggerOrDiscard(opts.Logger)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Country(opts.CountryLookup),
		middleware.Logger(logger),
		middleware.CORS(opts.AllowedOrigins, logger),
	)

	r.Get("/", app.Root)

	// Health
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)

	r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/query", app.Query)

	return r
}
