// Package schema has configs, models and constants for all parts of diffeffort.
package schema

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// CategoryRule classifies files into a reporting category.
// Pattern is a regular expression fragment searched for anywhere in the file path.
type CategoryRule struct {
	Pattern string `mapstructure:"pattern" json:"pattern"`
	Label   string `mapstructure:"label" json:"label"`
}

// ChangeCount holds the added and removed line counts of one file diff.
type ChangeCount struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Total returns the sum of added and removed lines.
func (c ChangeCount) Total() int {
	return c.Added + c.Removed
}

// FileChange is one entry of a category breakdown.
type FileChange struct {
	Name string `json:"name"` // base name of Path
	Path string `json:"path"`
	ChangeCount
}

// CategoryTotal is the tally for a single category label.
type CategoryTotal struct {
	Label        string       `json:"label"`
	TotalChanges int          `json:"total_changes"`
	Files        []FileChange `json:"files"`
}

// CategoryTally holds per-category totals in rule-list order.
type CategoryTally struct {
	Categories []CategoryTotal `json:"categories"`
}

// Get returns the tally for label, if any.
func (t CategoryTally) Get(label string) (CategoryTotal, bool) {
	return lo.Find(t.Categories, func(c CategoryTotal) bool { return c.Label == label })
}

// Total returns the change count summed over every category.
// Files matched by several categories are counted once per category.
func (t CategoryTally) Total() int {
	return lo.SumBy(t.Categories, func(c CategoryTotal) int { return c.TotalChanges })
}

// IsZero reports whether no category recorded any change.
func (t CategoryTally) IsZero() bool {
	return t.Total() == 0
}

// CostParameters drive the effort estimation.
type CostParameters struct {
	PerChangeMinutes float64 `json:"per_change_minutes"`
	DecayFactor      float64 `json:"decay_factor"`
	SetupMinutes     float64 `json:"setup_minutes"`
}

// Validate checks the parameter ranges.
func (p CostParameters) Validate() error {
	if p.PerChangeMinutes <= 0 {
		return fmt.Errorf("per-change minutes must be greater than 0 (received %g)", p.PerChangeMinutes)
	}
	if p.DecayFactor <= 0 || p.DecayFactor > 1 {
		return fmt.Errorf("decay factor must be in (0, 1] (received %g)", p.DecayFactor)
	}
	if p.SetupMinutes < 0 {
		return fmt.Errorf("setup minutes cannot be negative (received %g)", p.SetupMinutes)
	}
	return nil
}

// EffortEstimate is the time cost derived from a change count.
type EffortEstimate struct {
	TotalMinutes float64 `json:"total_minutes"`
	HoursPart    int     `json:"hours"`
	MinutesPart  int     `json:"minutes"`
}

// Format renders the estimate the way the text report shows it.
func (e EffortEstimate) Format() string {
	if e.HoursPart > 0 {
		return fmt.Sprintf("%d hours and %d minutes", e.HoursPart, e.MinutesPart)
	}
	return fmt.Sprintf("%d minutes", e.MinutesPart)
}

// DayRepoResult is everything known about one (day, repository) pair.
type DayRepoResult struct {
	Day            time.Time       `json:"day"`
	Repo           string          `json:"repo"`
	Branch         string          `json:"branch,omitempty"`
	StartCommit    string          `json:"start_commit,omitempty"`
	EndCommit      string          `json:"end_commit,omitempty"`
	Status         ReportStatus    `json:"status"`
	CommitMessages []string        `json:"commit_messages,omitempty"`
	Tally          CategoryTally   `json:"tally"`
	TotalChanges   int             `json:"total_changes"`
	Estimate       *EffortEstimate `json:"estimate,omitempty"`
	Diff           string          `json:"-"` // filtered diff, kept for full-diff display
}

// Reported reports whether the pair produced a reportable tally.
func (r DayRepoResult) Reported() bool {
	return r.Status == ReportedStatus
}

// DayString returns the day in YYYY-MM-DD form.
func (r DayRepoResult) DayString() string {
	return r.Day.Format(DayFormat)
}

// DayFormat is the layout used for calendar days.
const DayFormat = "2006-01-02"

// RepoInfo describes a discovered repository.
type RepoInfo struct {
	Path    string   `json:"path"`
	Remotes []string `json:"remotes"`
}

// EstimateResult is the output of a standalone estimate.
type EstimateResult struct {
	Changes    int            `json:"changes"`
	Cost       CostParameters `json:"cost"`
	Estimate   EffortEstimate `json:"estimate"`
	UpperBound *float64       `json:"upper_bound_minutes"` // nil when the cost never levels off
}
