package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/samber/lo"
)

// jsonReport is the document written by --output json.
type jsonReport struct {
	Days    []string               `json:"days"`
	Results []schema.DayRepoResult `json:"results"`
	Summary ReportSummary          `json:"summary"`
}

// writeJSONReport writes the reported pairs and the grand summary as one JSON document.
func writeJSONReport(w io.Writer, results []schema.DayRepoResult, cfg *contract.Config) error {
	doc := jsonReport{
		Days:    lo.Map(cfg.Days, func(d time.Time, _ int) string { return d.Format(schema.DayFormat) }),
		Results: lo.Filter(results, func(r schema.DayRepoResult, _ int) bool { return r.Reported() }),
		Summary: summarize(results, len(cfg.Days)),
	}
	return writeJSON(w, doc)
}

// writeCSVReport writes one row per category of every reported pair.
func writeCSVReport(w io.Writer, results []schema.DayRepoResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	header := []string{
		"day",
		"repo",
		"branch",
		"category",
		"files",
		"category_changes",
		"total_changes",
		"estimate_minutes",
		"estimate",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			if !r.Reported() {
				continue
			}
			minutes, formatted := "", ""
			if r.Estimate != nil {
				minutes, formatted = fmtFloat(r.Estimate.TotalMinutes), r.Estimate.Format()
			}
			for _, cat := range r.Tally.Categories {
				row := []string{
					r.DayString(),
					r.Repo,
					r.Branch,
					cat.Label,
					strconv.Itoa(len(cat.Files)),
					strconv.Itoa(cat.TotalChanges),
					strconv.Itoa(r.TotalChanges),
					minutes,
					formatted,
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
