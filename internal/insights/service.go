// Package insights runs one question through planning, retrieval, analytics,
// prompt assembly, the model call and formatting.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rideinsight/internal/analytics"
	"rideinsight/internal/domain"
	"rideinsight/internal/format"
	"rideinsight/internal/infra"
	"rideinsight/internal/promptctx"
)

// Planner chooses a FetchPlan for a question.
type Planner interface {
	Plan(question string) domain.FetchPlan
}

// Assembler renders the model prompt.
type Assembler interface {
	Assemble(in promptctx.Input) (promptctx.Prompt, error)
}

// Submitter sends a prompt to the model with whatever resilience it applies.
type Submitter interface {
	Submit(ctx context.Context, prompt string) (string, error)
}

const (
	DefaultUserSampleLimit = 100
	DefaultAggregateWindow = 30
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	UserSampleLimit     int
	AggregateWindowDays int
	Logger              *infra.Logger
	Now                 func() time.Time
}

// Answer is the reply to one question together with what it was built from.
type Answer struct {
	Question            string
	Answer              string
	Plan                domain.FetchPlan
	TripsAnalyzed       int
	UsersAnalyzed       int
	AggregateWindowDays int
	Snapshot            analytics.Snapshot
	PromptTokens        int
	Truncated           bool
	Timestamp           time.Time
}

// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	planner   Planner
	store     domain.RecordStore
	assembler Assembler
	model     Submitter

	userLimit   int
	aggregateWD int
	logger      *infra.Logger
	now         func() time.Time
}

func NewService(planner Planner, store domain.RecordStore, assembler Assembler, model Submitter, opts Options) *Service {
	s := &Service{
		planner:     planner,
		store:       store,
		assembler:   assembler,
		model:       model,
		userLimit:   opts.UserSampleLimit,
		aggregateWD: opts.AggregateWindowDays,
		logger:      infra.LoggerOrDiscard(opts.Logger),
		now:         opts.Now,
	}
	if s.userLimit <= 0 {
		s.userLimit = DefaultUserSampleLimit
	}
	if s.aggregateWD <= 0 {
		s.aggregateWD = DefaultAggregateWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Ask answers question. Errors wrap domain.ErrInvalidQuestion for blank input,
// domain.ErrRetrieval when any of the three reads fails, and match
// domain.ErrModel when the model call gives up.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidQuestion)
	}

	plan := s.planner.Plan(question)
	records, err := s.fetch(ctx, plan)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("emphasis", string(plan.Emphasis)).
		Int("record_limit", plan.Limit()).
		Int("trips", len(records.trips)).
		Int("users", len(records.users)).
		Msg("records retrieved")

	snapshot := analytics.Build(records.trips, records.users, records.overall)
	prompt, err := s.assembler.Assemble(promptctx.Input{
		Question: question,
		Snapshot: snapshot,
		Trips:    records.trips,
		Users:    records.users,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble prompt: %w", err)
	}
	if prompt.Truncated {
		s.logger.Warn().Int("estimated_tokens", prompt.EstimatedTokens).Msg("prompt context truncated")
	}

	raw, err := s.model.Submit(ctx, prompt.Text)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Question:            question,
		Answer:              format.Markup(raw),
		Plan:                plan,
		TripsAnalyzed:       len(records.trips),
		UsersAnalyzed:       len(records.users),
		AggregateWindowDays: s.aggregateWD,
		Snapshot:            snapshot,
		PromptTokens:        prompt.EstimatedTokens,
		Truncated:           prompt.Truncated,
		Timestamp:           s.now().UTC(),
	}, nil
}

type recordSet struct {
	trips   []domain.Trip
	users   []domain.User
	overall domain.AggregateCounts
}

// fetch runs the three independent reads concurrently. The first failure
// cancels the others and no partial result is returned.
func (s *Service) fetch(ctx context.Context, plan domain.FetchPlan) (recordSet, error) {
	var rs recordSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		trips, err := s.store.FetchTrips(gctx, plan)
		if err != nil {
			return fmt.Errorf("fetch trips: %w", err)
		}
		rs.trips = trips
		return nil
	})
	g.Go(func() error {
		users, err := s.store.FetchUsers(gctx, s.userLimit)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		rs.users = users
		return nil
	})
	g.Go(func() error {
		overall, err := s.store.FetchAggregateCounts(gctx, s.aggregateWD)
		if err != nil {
			return fmt.Errorf("fetch aggregate counts: %w", err)
		}
		rs.overall = overall
		return nil
	})
	if err := g.Wait(); err != nil {
		return recordSet{}, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	return rs, nil
}
