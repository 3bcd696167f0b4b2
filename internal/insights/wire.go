package insights

import (
	"context"
	"errors"

	"rideinsight/internal/adapter/repo"
	"rideinsight/internal/infra"
	"rideinsight/internal/infra/credentials"
	"rideinsight/internal/modelcall"
	"rideinsight/internal/planner"
	"rideinsight/internal/promptctx"
	"rideinsight/internal/providers/gemini"
)

// Wire builds a Service backed by Postgres and Gemini. A missing API key is
// not fatal: the service starts and every model call reports a configuration
// error.
func Wire(ctx context.Context, cfg *infra.Config, db infra.SQLExecutor, logger *infra.Logger) (*Service, error) {
	logger = infra.LoggerOrDiscard(logger)
	runner := infra.NewSQLRunner(db, *logger)

	apiKey, err := credentials.ResolveGeminiAPIKey(ctx, cfg.GeminiAPIKey, credentials.NewStore(runner))
	if err != nil {
		return nil, err
	}

	var gen modelcall.Generator
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:     apiKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		Generation: cfg.Generation,
		Logger:     logger,
	})
	switch {
	case errors.Is(err, gemini.ErrMissingAPIKey):
		logger.Warn().Msg("gemini api key not configured; model calls will fail")
		gen = gemini.Unavailable{}
	case err != nil:
		return nil, err
	default:
		gen = client
	}

	model := modelcall.New(gen, modelcall.Options{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		BaseDelay:         cfg.Retry.BaseDelay,
		RateLimitCooldown: cfg.Retry.RateLimitCooldown,
		Logger:            logger,
	})

	return NewService(
		planner.Default(),
		repo.NewTripRepository(runner, cfg.Location()),
		promptctx.New(promptctx.Options{MaxTokens: cfg.PromptMaxTokens}),
		model,
		Options{
			UserSampleLimit:     cfg.UserSampleLimit,
			AggregateWindowDays: cfg.AggregateWindow,
			Logger:              logger,
		},
	), nil
}
