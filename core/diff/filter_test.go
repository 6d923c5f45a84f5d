package diff

import (
	"strings"
	"testing"

	"github.com/huangsam/diffeffort/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_LongLinesDropped(t *testing.T) {
	long := strings.Repeat("x", DefaultMaxLineLength)
	blob := fileDiff("app.js", []string{"short", long}, nil)

	filtered := Filter(blob, FilterOptions{MaxLineLength: DefaultMaxLineLength})

	assert.NotContains(t, filtered, long)
	assert.Equal(t, schema.ChangeCount{Added: 1}, Count(filtered))

	// 999 characters plus the marker stays below the limit.
	edge := strings.Repeat("y", DefaultMaxLineLength-2)
	kept := Filter(fileDiff("app.js", []string{edge}, nil), FilterOptions{MaxLineLength: DefaultMaxLineLength})
	assert.Contains(t, kept, edge)
}

func TestFilter_LongLineNeverReachesAggregate(t *testing.T) {
	long := strings.Repeat("z", 2000)
	blob := fileDiff("bundle.js", []string{long}, nil)
	m, err := NewMatcher(schema.DefaultCategoryRules)
	require.NoError(t, err)

	assert.False(t, Aggregate(blob, m, AggregateOptions{}).IsZero())
	assert.True(t, Aggregate(Filter(blob, FilterOptions{MaxLineLength: DefaultMaxLineLength}), m, AggregateOptions{}).IsZero())
}

func TestFilter_ExcludedPaths(t *testing.T) {
	blob := fileDiff("web/dist/app.js", []string{"a"}, nil) +
		fileDiff("dist/main.css", []string{"b"}, nil) +
		fileDiff("src/app.js", []string{"c"}, nil)

	filtered := Filter(blob, FilterOptions{ExcludePaths: []string{"**/dist/**"}})

	segs := Segments(filtered)
	require.Len(t, segs, 1)
	assert.Equal(t, "src/app.js", segs[0].Path)
}

func TestFilter_EmptyResult(t *testing.T) {
	assert.Empty(t, Filter("", FilterOptions{MaxLineLength: 10}))
	assert.Empty(t, Filter(fileDiff("dist/a.js", []string{"a"}, nil), FilterOptions{ExcludePaths: []string{"dist/**"}}))
	assert.Empty(t, Filter(strings.Repeat("q", 50)+"\n", FilterOptions{MaxLineLength: 10}))
}

func TestIsExcluded(t *testing.T) {
	patterns := []string{"**/dist/**", "*.min.js"}
	assert.True(t, IsExcluded("a/b/dist/c.js", patterns))
	assert.True(t, IsExcluded("vendor.min.js", patterns))
	assert.False(t, IsExcluded("src/distance.js", patterns))
}
