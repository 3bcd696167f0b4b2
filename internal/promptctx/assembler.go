// Package promptctx renders the model prompt from analytics and a raw record
// sample, and keeps it under a token ceiling by cropping only the sample.
package promptctx

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"rideinsight/internal/analytics"
	"rideinsight/internal/domain"
)

// DefaultSampleSize is how many trips and users are copied verbatim into the prompt.
const DefaultSampleSize = 5

// Options configures an Assembler. Zero values fall back to defaults.
type Options struct {
	MaxTokens  int
	SampleSize int
	Framing    string
	Guidelines string
}

// Input is everything one prompt is built from.
type Input struct {
	Question string
	Snapshot analytics.Snapshot
	Trips    []domain.Trip
	Users    []domain.User
}

// Prompt is the assembled text plus bookkeeping for logs and metadata.
type Prompt struct {
	Text            string
	EstimatedTokens int
	Truncated       bool
}

// Assembler renders prompts. It is safe for concurrent use.
type Assembler struct {
	maxTokens  int
	sampleSize int
	framing    string
	guidelines string
}

func New(opts Options) *Assembler {
	a := &Assembler{
		maxTokens:  opts.MaxTokens,
		sampleSize: opts.SampleSize,
		framing:    strings.TrimSpace(opts.Framing),
		guidelines: strings.TrimSpace(opts.Guidelines),
	}
	if a.maxTokens <= 0 {
		a.maxTokens = DefaultMaxTokens
	}
	if a.sampleSize <= 0 {
		a.sampleSize = DefaultSampleSize
	}
	if a.framing == "" {
		a.framing = strings.TrimSpace(defaultFraming)
	}
	if a.guidelines == "" {
		a.guidelines = strings.TrimSpace(defaultGuidelines)
	}
	return a
}

// MaxTokens reports the configured ceiling.
func (a *Assembler) MaxTokens() int { return a.maxTokens }

// Assemble builds the prompt. Sections appear in a fixed order: framing,
// analytics, raw sample, question, guidelines. When the whole prompt estimates
// above the ceiling only the raw sample is cropped; the question and the
// analytics sections are always emitted in full. The result fits the ceiling
// unless those fixed sections exceed it on their own.
func (a *Assembler) Assemble(in Input) (Prompt, error) {
	summaries, err := a.renderAnalytics(in.Snapshot)
	if err != nil {
		return Prompt{}, err
	}
	sample, err := a.renderSample(in.Trips, in.Users)
	if err != nil {
		return Prompt{}, err
	}

	text := a.render(summaries, sample, in.Question)
	est := EstimateTokens(text)
	if est <= a.maxTokens {
		return Prompt{Text: text, EstimatedTokens: est}, nil
	}

	keep := keepLength(utf8.RuneCountInString(sample), a.maxTokens, est)
	text = a.render(summaries, cropRunes(sample, keep)+TruncationMarker, in.Question)
	if EstimateTokens(text) > a.maxTokens {
		// The fixed sections outweigh the ratio; give the sample whatever room
		// is left under the ceiling, possibly none.
		keep = sampleBudget(a.render(summaries, TruncationMarker, in.Question), a.maxTokens)
		text = a.render(summaries, cropRunes(sample, keep)+TruncationMarker, in.Question)
	}
	return Prompt{Text: text, EstimatedTokens: EstimateTokens(text), Truncated: true}, nil
}

// sampleBudget is how many sample runes fit next to structured without the
// estimate passing maxTokens.
func sampleBudget(structured string, maxTokens int) int {
	return max(0, maxTokens*4-utf8.RuneCountInString(structured))
}

func (a *Assembler) render(summaries, sample, question string) string {
	sb := &strings.Builder{}
	sb.WriteString(a.framing)
	sb.WriteString("\n\n**CURRENT DATA INSIGHTS:**\n")
	sb.WriteString(summaries)
	sb.WriteString("\n**SAMPLE DATA CONTEXT:**\n")
	sb.WriteString(sample)
	fmt.Fprintf(sb, "\n\n**USER QUESTION:** %q\n\n", question)
	sb.WriteString(a.guidelines)
	sb.WriteString("\n")
	return sb.String()
}

func (a *Assembler) renderAnalytics(s analytics.Snapshot) (string, error) {
	sections := []struct {
		title string
		value any
	}{
		{"Time Analytics", s.TimeAnalytics},
		{"Location Analytics", s.LocationAnalytics},
		{"User Demographics", s.UserAnalytics},
		{"Ride Patterns", s.RideAnalytics},
		{"Overall Statistics", s.OverallStats},
	}
	sb := &strings.Builder{}
	for _, sec := range sections {
		raw, err := json.MarshalIndent(sec.value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", strings.ToLower(sec.title), err)
		}
		fmt.Fprintf(sb, "**%s:**\n%s\n\n", sec.title, raw)
	}
	return sb.String(), nil
}

func (a *Assembler) renderSample(trips []domain.Trip, users []domain.User) (string, error) {
	tripJSON, err := json.MarshalIndent(head(trips, a.sampleSize), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode trip sample: %w", err)
	}
	userJSON, err := json.MarshalIndent(head(users, a.sampleSize), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode user sample: %w", err)
	}
	return fmt.Sprintf("Recent Trips Sample: %s\nUser Demographics Sample: %s", tripJSON, userJSON), nil
}

// head returns the first n items, never nil so empty samples encode as [].
func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}
