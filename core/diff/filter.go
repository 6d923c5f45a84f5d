package diff

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxLineLength drops generated or minified lines from a diff.
const DefaultMaxLineLength = 1000

// FilterOptions controls which parts of a diff reach the aggregator.
type FilterOptions struct {
	MaxLineLength int      // lines of this length or longer are dropped; 0 disables
	ExcludePaths  []string // doublestar patterns; matching file segments are dropped
}

// Filter removes excluded file segments and over-long lines from blob.
// It returns an empty string when nothing but whitespace survives.
func Filter(blob string, opts FilterOptions) string {
	if len(opts.ExcludePaths) > 0 {
		blob = dropExcludedSegments(blob, opts.ExcludePaths)
	}

	if opts.MaxLineLength > 0 {
		lines := strings.Split(blob, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if len(line) < opts.MaxLineLength {
				kept = append(kept, line)
			}
		}
		blob = strings.Join(kept, "\n")
	}

	if strings.TrimSpace(blob) == "" {
		return ""
	}
	return blob
}

// IsExcluded reports whether a file path matches any exclude pattern.
func IsExcluded(filePath string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, filePath); err == nil && ok {
			return true
		}
	}
	return false
}

func dropExcludedSegments(blob string, patterns []string) string {
	segments := Segments(blob)
	if len(segments) == 0 {
		return blob
	}

	var b strings.Builder
	b.Grow(len(blob))
	b.WriteString(blob[:segments[0].Offset])
	for _, seg := range segments {
		if IsExcluded(seg.Path, patterns) || IsExcluded(seg.OldPath, patterns) {
			continue
		}
		b.WriteString(seg.Body)
	}
	return b.String()
}
