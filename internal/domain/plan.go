package domain

// Emphasis names the analytics angle a question leans on.
type Emphasis string

const (
	EmphasisDefault  Emphasis = "default"
	EmphasisTemporal Emphasis = "temporal"
	EmphasisSpatial  Emphasis = "spatial"
	EmphasisWeekly   Emphasis = "weekly"
)

// MaxRecordLimit caps how many trips a single question may pull.
const MaxRecordLimit = 300

// FetchPlan says which trips to read for one question. TimeWindowDays of
// zero means no lower bound on pickup time.
type FetchPlan struct {
	RecordLimit    int      `json:"recordLimit"`
	TimeWindowDays int      `json:"timeWindowDays,omitempty"`
	Emphasis       Emphasis `json:"emphasis"`
}

// HasWindow reports whether the plan restricts trips to a trailing window.
func (p FetchPlan) HasWindow() bool {
	return p.TimeWindowDays > 0
}

// Limit returns RecordLimit clamped to [1, MaxRecordLimit].
func (p FetchPlan) Limit() int {
	switch {
	case p.RecordLimit <= 0:
		return 1
	case p.RecordLimit > MaxRecordLimit:
		return MaxRecordLimit
	default:
		return p.RecordLimit
	}
}
