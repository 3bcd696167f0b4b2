// Package planner turns a free-text question into a FetchPlan using an
// ordered keyword table. The first matching rule wins.
package planner

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rideinsight/internal/domain"
)

// Rule pairs a keyword family with the plan it selects.
type Rule struct {
	Keywords []string
	Plan     domain.FetchPlan
}

// Matches reports whether any keyword occurs in the folded question.
func (r Rule) Matches(folded string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// DefaultRules is evaluated top to bottom.
var DefaultRules = []Rule{
	{
		Keywords: []string{"peak", "hour", "time"},
		Plan:     domain.FetchPlan{RecordLimit: 200, TimeWindowDays: 7, Emphasis: domain.EmphasisTemporal},
	},
	{
		Keywords: []string{"location", "area", "pickup", "drop"},
		Plan:     domain.FetchPlan{RecordLimit: 150, Emphasis: domain.EmphasisSpatial},
	},
	{
		Keywords: []string{"weekend", "weekday", "pattern"},
		Plan:     domain.FetchPlan{RecordLimit: 300, TimeWindowDays: 14, Emphasis: domain.EmphasisWeekly},
	},
}

// DefaultPlan applies when no rule matches.
var DefaultPlan = domain.FetchPlan{RecordLimit: 100, Emphasis: domain.EmphasisDefault}

// Planner holds an immutable rule table.
type Planner struct {
	rules    []Rule
	fallback domain.FetchPlan
}

// New copies rules so later edits to the caller's slice cannot change behaviour.
func New(rules []Rule, fallback domain.FetchPlan) *Planner {
	return &Planner{rules: append([]Rule(nil), rules...), fallback: fallback}
}

// Default returns a planner over DefaultRules and DefaultPlan.
func Default() *Planner {
	return New(DefaultRules, DefaultPlan)
}

// Plan selects the fetch plan for question. It performs no I/O.
func (p *Planner) Plan(question string) domain.FetchPlan {
	folded := cases.Lower(language.Und).String(question)
	for _, rule := range p.rules {
		if rule.Matches(folded) {
			return clamp(rule.Plan)
		}
	}
	return clamp(p.fallback)
}

func clamp(plan domain.FetchPlan) domain.FetchPlan {
	plan.RecordLimit = plan.Limit()
	if plan.TimeWindowDays < 0 {
		plan.TimeWindowDays = 0
	}
	return plan
}
