package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/huangsam/diffeffort/core/effort"
	"github.com/huangsam/diffeffort/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRepos = []schema.RepoInfo{
	{Path: "/src/widgets", Remotes: []string{"origin https://github.com/acme/widgets.git", "upstream https://github.com/corp/widgets.git"}},
	{Path: "/src/gadgets"},
}

func TestWriteRepos(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVRepos(&buf, sampleRepos))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"path", "remotes"},
			{"/src/widgets", "origin https://github.com/acme/widgets.git|upstream https://github.com/corp/widgets.git"},
			{"/src/gadgets", ""},
		}, records)
	})

	t.Run("text with filter", func(t *testing.T) {
		cfg := testConfig(2)
		cfg.RemoteFilter = "acme"
		var buf bytes.Buffer
		require.NoError(t, writeTextRepos(&buf, sampleRepos, cfg))
		assert.Contains(t, buf.String(), "/src/widgets")
		assert.Contains(t, buf.String(), `Found 2 repositories matching "acme" under /src`)
	})

	t.Run("text without repositories", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTextRepos(&buf, nil, testConfig(2)))
		assert.Equal(t, "Found 0 repositories under /src\n", buf.String())
	})
}

func TestWriteCategories(t *testing.T) {
	t.Run("csv keeps rule order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVCategories(&buf, schema.DefaultCategoryRules))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, len(schema.DefaultCategoryRules)+1)
		assert.Equal(t, []string{"1", `\.php`, "PHP"}, records[1])
		assert.Equal(t, []string{"21", `\.conf`, "Config File"}, records[21])
	})

	t.Run("text", func(t *testing.T) {
		tests := []struct {
			name         string
			unclassified bool
			footer       string
		}{
			{"unclassified skipped", false, "Files matching no rule are not counted"},
			{"unclassified reported", true, `Files matching no rule are reported as "unclassified"`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := testConfig(2)
				cfg.IncludeUnclassified = tt.unclassified
				var buf bytes.Buffer
				require.NoError(t, writeTextCategories(&buf, schema.DefaultCategoryRules, cfg))
				assert.Contains(t, buf.String(), "SASS/SCSS")
				assert.Contains(t, buf.String(), tt.footer)
			})
		}
	})
}

func TestWriteEstimate(t *testing.T) {
	bound := 40.0
	bounded := schema.EstimateResult{
		Changes:    5,
		Cost:       schema.CostParameters{PerChangeMinutes: 3, DecayFactor: 0.9, SetupMinutes: 10},
		Estimate:   effort.FromMinutes(22.2853),
		UpperBound: &bound,
	}
	unbounded := schema.EstimateResult{
		Changes:  3,
		Cost:     schema.CostParameters{PerChangeMinutes: 30, DecayFactor: 1},
		Estimate: effort.FromMinutes(90),
	}

	t.Run("text bounded", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTextEstimate(&buf, bounded, testConfig(2)))
		out := buf.String()
		assert.Contains(t, out, "===== Total Changes: 5 =====")
		assert.Contains(t, out, "Estimated Time: 22 minutes (22.3 minutes)")
		assert.Contains(t, out, "Upper bound: 40.0 minutes")
		assert.Contains(t, out, "Cost model: 3 minutes per change, decay 0.9, setup 10 minutes")
	})

	t.Run("text unbounded", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTextEstimate(&buf, unbounded, testConfig(2)))
		assert.Contains(t, buf.String(), "Estimated Time: 1 hours and 30 minutes")
		assert.Contains(t, buf.String(), "Upper bound: none")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVEstimate(&buf, unbounded, 2))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"3", "30", "1", "0", "90.00", "1", "30", ""}, records[1])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, unbounded))
		var doc map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Nil(t, doc["upper_bound_minutes"])
		assert.Equal(t, float64(3), doc["changes"])

		buf.Reset()
		require.NoError(t, writeJSON(&buf, bounded))
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, 40.0, doc["upper_bound_minutes"])
	})
}
