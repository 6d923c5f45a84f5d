package outwriter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/huangsam/diffeffort/core/diff"
	"github.com/huangsam/diffeffort/core/effort"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// Verbosity thresholds for the text report.
const (
	verbosityTotals   = 1 // per-pair total and estimate
	verbosityDetail   = 2 // commit messages, category headers, skip notices
	verbosityFiles    = 3 // per-file change lines
	verbosityBanners  = 4 // repository/day banners and the summary table
	verbositySegments = 5 // diff segment of every counted file
)

// ReportSummary aggregates a whole report run.
type ReportSummary struct {
	Days         int                   `json:"days"`
	Repositories int                   `json:"repositories"`
	Pairs        int                   `json:"pairs"`
	Reported     int                   `json:"reported"`
	Failed       int                   `json:"failed"`
	TotalChanges int                   `json:"total_changes"`
	Estimate     schema.EffortEstimate `json:"estimate"`
}

// summarize computes the grand totals of a report. The estimate is the sum of the
// per-pair estimates, so every reported pair carries its own setup cost.
func summarize(results []schema.DayRepoResult, days int) ReportSummary {
	summary := ReportSummary{
		Days:         days,
		Repositories: len(lo.Uniq(lo.Map(results, func(r schema.DayRepoResult, _ int) string { return r.Repo }))),
		Pairs:        len(results),
	}
	minutes := 0.0
	for _, r := range results {
		switch {
		case r.Reported():
			summary.Reported++
			summary.TotalChanges += r.TotalChanges
			if r.Estimate != nil {
				minutes += r.Estimate.TotalMinutes
			}
		case r.Status == schema.FailedStatus:
			summary.Failed++
		}
	}
	summary.Estimate = effort.FromMinutes(minutes)
	return summary
}

// PrintReport outputs the report results, dispatching based on the output format configured.
func PrintReport(results []schema.DayRepoResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONReport(w, results, cfg)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, results, cfg)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextReport(w, results, cfg, duration)
		}, "Wrote report"); err != nil {
			return fmt.Errorf("error writing text output: %w", err)
		}
	}
	return nil
}

// textReport renders results in the human-readable layout.
type textReport struct {
	w        io.Writer
	cfg      *contract.Config
	fmtFloat func(float64) string
}

func (p *textReport) paint(c *color.Color, text string) string {
	return contract.Paint(c, text, p.cfg.UseColors)
}

// writeTextReport writes every pair at the configured verbosity, then the grand summary.
func writeTextReport(w io.Writer, results []schema.DayRepoResult, cfg *contract.Config, duration time.Duration) error {
	p := &textReport{w: w, cfg: cfg, fmtFloat: createFormatter(cfg.Precision)}

	lastRepo := ""
	for _, r := range results {
		if cfg.Verbosity >= verbosityBanners && r.Repo != lastRepo {
			fmt.Fprintf(w, "\n%s\n", p.paint(contract.HeaderColor, fmt.Sprintf("===== Analyzing repository: %s =====", r.Repo)))
		}
		lastRepo = r.Repo

		switch r.Status {
		case schema.ReportedStatus:
			p.writePair(r)
		case schema.NoBranchStatus:
			if cfg.Verbosity >= verbosityDetail {
				fmt.Fprintf(w, "\n%s\n", p.paint(contract.NoticeColor, fmt.Sprintf(
					"[INFO] No %s branch found in %s on %s. Skipping.",
					joinOr(cfg.Branches), r.Repo, r.DayString())))
			}
		}
	}

	if cfg.Verbosity >= verbosityBanners {
		if err := p.writeSummaryTable(results); err != nil {
			return err
		}
	}
	p.writeGrandSummary(summarize(results, len(cfg.Days)), duration)
	return nil
}

// writePair writes one reported (day, repository) pair.
func (p *textReport) writePair(r schema.DayRepoResult) {
	v := p.cfg.Verbosity
	w := p.w

	if v >= verbosityBanners {
		fmt.Fprintf(w, "\n--- %s on %s (%s..%s) ---\n", r.DayString(), r.Branch, shortHash(r.StartCommit), shortHash(r.EndCommit))
	}

	if v >= verbosityDetail && len(r.CommitMessages) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.paint(contract.CategoryColor, "### Commit Messages ###"))
		for _, msg := range r.CommitMessages {
			fmt.Fprintf(w, "- %s\n", msg)
		}
	}

	if v >= verbosityDetail {
		showSegments := v >= verbositySegments || (p.cfg.FullDiff && v >= verbosityFiles)
		for _, cat := range r.Tally.Categories {
			fmt.Fprintf(w, "\n%s\n", p.paint(contract.CategoryColor,
				fmt.Sprintf("### %s Files (%d changes) ###", cat.Label, cat.TotalChanges)))
			if v < verbosityFiles {
				continue
			}
			for _, f := range cat.Files {
				fmt.Fprintf(w, "%s: %d changes\n", f.Name, f.Total())
				if showSegments {
					if seg := diff.ExtractSegment(r.Diff, f.Path); seg != "" {
						fmt.Fprintln(w, strings.TrimRight(seg, "\n"))
					}
				}
			}
		}
	}

	if v >= verbosityTotals {
		fmt.Fprintf(w, "\n%s\n", p.paint(contract.HeaderColor, fmt.Sprintf("===== Total Changes for the Day: %d =====", r.TotalChanges)))
		if r.Estimate != nil {
			fmt.Fprintf(w, "Estimated Time: %s\n", p.paint(contract.EstimateColor, r.Estimate.Format()))
		}
	}
}

// writeSummaryTable writes one row per reported pair.
func (p *textReport) writeSummaryTable(results []schema.DayRepoResult) error {
	reported := lo.Filter(results, func(r schema.DayRepoResult, _ int) bool { return r.Reported() })
	if len(reported) == 0 {
		return nil
	}
	fmt.Fprintln(p.w)

	table := tablewriter.NewWriter(p.w)
	table.Header([]string{"Day", "Repository", "Branch", "Changes", "Minutes", "Estimate"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(p.cfg, 60)
	var data [][]string
	for _, r := range reported {
		row := []string{
			r.DayString(),
			contract.TruncatePath(r.Repo, pathWidth),
			r.Branch,
			humanize.Comma(int64(r.TotalChanges)),
		}
		if r.Estimate != nil {
			row = append(row, p.fmtFloat(r.Estimate.TotalMinutes), r.Estimate.Format())
		} else {
			row = append(row, "", "")
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeGrandSummary writes the totals shown at every verbosity level.
func (p *textReport) writeGrandSummary(s ReportSummary, duration time.Duration) {
	w := p.w
	fmt.Fprintf(w, "\n%s\n", p.paint(contract.HeaderColor, "===== Summary ====="))
	fmt.Fprintf(w, "Reported %d of %d day/repository pairs across %d repositories and %d days\n",
		s.Reported, s.Pairs, s.Repositories, s.Days)
	if s.Failed > 0 {
		fmt.Fprintf(w, "%s\n", p.paint(contract.FailedColor, fmt.Sprintf("%d pairs failed. See the warnings on stderr", s.Failed)))
	}
	fmt.Fprintf(w, "Total changes: %s\n", humanize.Comma(int64(s.TotalChanges)))
	fmt.Fprintf(w, "Estimated Time: %s (%s minutes)\n",
		p.paint(contract.EstimateColor, s.Estimate.Format()), p.fmtFloat(s.Estimate.TotalMinutes))
	fmt.Fprintf(w, "Report completed in %v with %d workers. Cache backend: %s\n",
		duration.Round(time.Millisecond), p.cfg.Workers, p.cfg.CacheBackend)
}

// joinOr lists names as "a, b or c".
func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// shortHash abbreviates a commit hash for display.
func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
