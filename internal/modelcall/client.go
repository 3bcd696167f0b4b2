// Package modelcall wraps a text generator with bounded retries, exponential
// backoff, a long cool-down for rate limits and error classification.
package modelcall

import (
	"context"
	"math"
	"strings"
	"time"

	"rideinsight/internal/infra"
)

// Generator produces a completion for a prompt. Implementations make exactly
// one provider request per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const (
	DefaultMaxAttempts       = 3
	DefaultBaseDelay         = time.Second
	DefaultRateLimitCooldown = time.Minute
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	RateLimitCooldown time.Duration

	// Sleep waits between attempts. Tests inject a recorder; the default
	// honours ctx.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *infra.Logger
}

// Client is the resilient front for a Generator. Each Submit is independent;
// nothing is cached between calls.
type Client struct {
	gen               Generator
	maxAttempts       int
	baseDelay         time.Duration
	rateLimitCooldown time.Duration
	sleep             func(ctx context.Context, d time.Duration) error
	logger            *infra.Logger
}

func New(gen Generator, opts Options) *Client {
	c := &Client{
		gen:               gen,
		maxAttempts:       opts.MaxAttempts,
		baseDelay:         opts.BaseDelay,
		rateLimitCooldown: opts.RateLimitCooldown,
		sleep:             opts.Sleep,
		logger:            infra.LoggerOrDiscard(opts.Logger),
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = DefaultBaseDelay
	}
	if c.rateLimitCooldown <= 0 {
		c.rateLimitCooldown = DefaultRateLimitCooldown
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	return c
}

type state int

const (
	stateAttempting state = iota
	stateBackoff
	stateSucceeded
	stateAborted
)

// outcome is the result of a single attempt.
type outcome struct {
	text string
	kind Kind
	err  error
}

func (o outcome) success() bool { return o.err == nil }

// Submit sends prompt until a non-blank completion arrives, a non-retryable
// failure occurs or attempts run out. The returned text is trimmed.
func (c *Client) Submit(ctx context.Context, prompt string) (string, error) {
	var (
		st      = stateAttempting
		attempt = 1
		last    outcome
	)
	for {
		switch st {
		case stateAttempting:
			last = c.attempt(ctx, prompt)
			switch {
			case last.success():
				st = stateSucceeded
			case !last.kind.Retryable() || attempt >= c.maxAttempts:
				st = stateAborted
			default:
				st = stateBackoff
			}
			c.logAttempt(attempt, last)

		case stateBackoff:
			wait := delayFor(attempt, last.kind, c.baseDelay, c.rateLimitCooldown)
			c.logger.Info().Int("attempt", attempt).Dur("wait", wait).Str("kind", last.kind.String()).Msg("model call backing off")
			if err := c.sleep(ctx, wait); err != nil {
				last = outcome{kind: KindCanceled, err: err}
				st = stateAborted
				continue
			}
			attempt++
			st = stateAttempting

		case stateSucceeded:
			return last.text, nil

		case stateAborted:
			return "", &CallError{Attempts: attempt, Kind: last.kind, Cause: last.err}
		}
	}
}

func (c *Client) attempt(ctx context.Context, prompt string) outcome {
	text, err := c.gen.Generate(ctx, prompt)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		return outcome{kind: Classify(err), err: err}
	}
	return outcome{text: text}
}

func (c *Client) logAttempt(attempt int, o outcome) {
	if o.success() {
		c.logger.Info().Int("attempt", attempt).Int("max_attempts", c.maxAttempts).Int("chars", len(o.text)).Msg("model call succeeded")
		return
	}
	if o.kind == KindConfiguration {
		c.logger.Error().Err(o.err).Int("attempt", attempt).Str("kind", o.kind.String()).Msg("model configuration error; operator action required")
		return
	}
	c.logger.Warn().Err(o.err).Int("attempt", attempt).Int("max_attempts", c.maxAttempts).Str("kind", o.kind.String()).Bool("retryable", o.kind.Retryable()).Msg("model call failed")
}

// delayFor is the wait after failed attempt k: base*2^(k-1), or the fixed
// cool-down when the failure was a rate limit.
func delayFor(attempt int, kind Kind, base, cooldown time.Duration) time.Duration {
	if kind == KindRateLimited {
		return cooldown
	}
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
