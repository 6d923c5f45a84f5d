package diff

import (
	"path"

	"github.com/huangsam/diffeffort/schema"
)

// AggregateOptions tunes Aggregate.
type AggregateOptions struct {
	// IncludeUnclassified collects changed files matching no rule under
	// schema.UnclassifiedLabel.
	IncludeUnclassified bool
}

// Aggregate builds the per-category tally for a diff blob.
//
// Each rule is applied independently to every file segment, so a file whose
// path satisfies several patterns is counted in each of those categories.
// Rules sharing a label feed the same category. Files without changed lines are
// left out entirely.
func Aggregate(blob string, m *Matcher, opts AggregateOptions) schema.CategoryTally {
	segments := Segments(blob)
	counts := make([]schema.ChangeCount, len(segments))
	for i, seg := range segments {
		counts[i] = Count(seg.Body)
	}

	var tally schema.CategoryTally
	index := make(map[string]int)
	add := func(label string, seg Segment, c schema.ChangeCount) {
		idx, ok := index[label]
		if !ok {
			idx = len(tally.Categories)
			index[label] = idx
			tally.Categories = append(tally.Categories, schema.CategoryTotal{Label: label})
		}
		cat := &tally.Categories[idx]
		cat.Files = append(cat.Files, schema.FileChange{
			Name:        path.Base(seg.Path),
			Path:        seg.Path,
			ChangeCount: c,
		})
		cat.TotalChanges += c.Total()
	}

	for i, rule := range m.rules {
		for j, seg := range segments {
			if counts[j].Total() == 0 || !m.matchesSegment(i, seg) {
				continue
			}
			add(rule.Label, seg, counts[j])
		}
	}

	if opts.IncludeUnclassified {
		for j, seg := range segments {
			if counts[j].Total() > 0 && m.classifySegment(seg) == schema.UnclassifiedLabel {
				add(schema.UnclassifiedLabel, seg, counts[j])
			}
		}
	}

	return tally
}
