package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
)

var (
	testDay       = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	testDayBefore = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
)

// testConfig mirrors the defaults a user gets from the CLI.
func testConfig() *contract.Config {
	return &contract.Config{
		RootDir:       ".",
		Days:          []time.Time{testDay},
		Branches:      []string{"develop", "main", "master"},
		Cost:          schema.CostParameters{PerChangeMinutes: 20, DecayFactor: 0.9},
		Categories:    schema.DefaultCategoryRules,
		ExcludePaths:  []string{"**/dist/**"},
		MaxLineLength: 1000,
		Verbosity:     2,
		Workers:       2,
		Precision:     1,
		Output:        schema.TextOut,
	}
}

// fileDiff renders a minimal git diff block for path.
func fileDiff(path string, added, removed []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("index 3b18e51..a0f3c2d 100644\n")
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	fmt.Fprintf(&b, "@@ -1,%d +1,%d @@\n", len(removed)+1, len(added)+1)
	b.WriteString(" unchanged context\n")
	for _, l := range removed {
		b.WriteString("-" + l + "\n")
	}
	for _, l := range added {
		b.WriteString("+" + l + "\n")
	}
	return b.String()
}

// appPHPDiff adds three lines to src/App.php and removes one.
var appPHPDiff = fileDiff("src/App.php", []string{"$a = 1;", "$b = 2;", "$c = 3;"}, []string{"$a = 0;"})
