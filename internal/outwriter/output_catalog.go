package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintRepos outputs the discovered repositories.
func PrintRepos(repos []schema.RepoInfo, cfg *contract.Config) error {
	var writer func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		writer = func(w io.Writer) error { return writeJSON(w, repos) }
	case schema.CSVOut:
		writer = func(w io.Writer) error { return writeCSVRepos(w, repos) }
	default:
		writer = func(w io.Writer) error { return writeTextRepos(w, repos, cfg) }
	}
	if err := writeWithFile(cfg.OutputFile, writer, "Wrote repositories"); err != nil {
		return fmt.Errorf("error writing repository list: %w", err)
	}
	return nil
}

func writeCSVRepos(w io.Writer, repos []schema.RepoInfo) error {
	return writeCSVWithHeader(w, []string{"path", "remotes"}, func(cw *csv.Writer) error {
		for _, r := range repos {
			if err := cw.Write([]string{r.Path, strings.Join(r.Remotes, "|")}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTextRepos(w io.Writer, repos []schema.RepoInfo, cfg *contract.Config) error {
	if len(repos) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"#", "Repository", "Remotes"})
		pathWidth := GetMaxTablePathWidth(cfg, 50)
		var data [][]string
		for i, r := range repos {
			remotes := "-"
			if len(r.Remotes) > 0 {
				remotes = strings.Join(r.Remotes, "\n")
			}
			data = append(data, []string{strconv.Itoa(i + 1), contract.TruncatePath(r.Path, pathWidth), remotes})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	filter := ""
	if cfg.RemoteFilter != "" {
		filter = fmt.Sprintf(" matching %q", cfg.RemoteFilter)
	}
	fmt.Fprintf(w, "Found %d repositories%s under %s\n", len(repos), filter, cfg.RootDir)
	return nil
}

// PrintCategories outputs the effective category rules in match order.
func PrintCategories(rules []schema.CategoryRule, cfg *contract.Config) error {
	var writer func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		writer = func(w io.Writer) error { return writeJSON(w, rules) }
	case schema.CSVOut:
		writer = func(w io.Writer) error { return writeCSVCategories(w, rules) }
	default:
		writer = func(w io.Writer) error { return writeTextCategories(w, rules, cfg) }
	}
	if err := writeWithFile(cfg.OutputFile, writer, "Wrote categories"); err != nil {
		return fmt.Errorf("error writing category rules: %w", err)
	}
	return nil
}

func writeCSVCategories(w io.Writer, rules []schema.CategoryRule) error {
	return writeCSVWithHeader(w, []string{"order", "pattern", "label"}, func(cw *csv.Writer) error {
		for i, r := range rules {
			if err := cw.Write([]string{strconv.Itoa(i + 1), r.Pattern, r.Label}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTextCategories(w io.Writer, rules []schema.CategoryRule, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Pattern", "Label"})
	var data [][]string
	for i, r := range rules {
		data = append(data, []string{strconv.Itoa(i + 1), r.Pattern, r.Label})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if cfg.IncludeUnclassified {
		fmt.Fprintf(w, "Files matching no rule are reported as %q\n", schema.UnclassifiedLabel)
	} else {
		fmt.Fprintln(w, "Files matching no rule are not counted")
	}
	return nil
}

// PrintEstimate outputs a standalone effort estimate.
func PrintEstimate(result schema.EstimateResult, cfg *contract.Config) error {
	var writer func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		writer = func(w io.Writer) error { return writeJSON(w, result) }
	case schema.CSVOut:
		writer = func(w io.Writer) error { return writeCSVEstimate(w, result, cfg.Precision) }
	default:
		writer = func(w io.Writer) error { return writeTextEstimate(w, result, cfg) }
	}
	if err := writeWithFile(cfg.OutputFile, writer, "Wrote estimate"); err != nil {
		return fmt.Errorf("error writing estimate: %w", err)
	}
	return nil
}

func writeCSVEstimate(w io.Writer, result schema.EstimateResult, precision int) error {
	fmtFloat := createFormatter(precision)
	header := []string{
		"changes",
		"per_change_minutes",
		"decay_factor",
		"setup_minutes",
		"total_minutes",
		"hours",
		"minutes",
		"upper_bound_minutes",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		bound := ""
		if result.UpperBound != nil {
			bound = fmtFloat(*result.UpperBound)
		}
		return cw.Write([]string{
			strconv.Itoa(result.Changes),
			strconv.FormatFloat(result.Cost.PerChangeMinutes, 'g', -1, 64),
			strconv.FormatFloat(result.Cost.DecayFactor, 'g', -1, 64),
			strconv.FormatFloat(result.Cost.SetupMinutes, 'g', -1, 64),
			fmtFloat(result.Estimate.TotalMinutes),
			strconv.Itoa(result.Estimate.HoursPart),
			strconv.Itoa(result.Estimate.MinutesPart),
			bound,
		})
	})
}

func writeTextEstimate(w io.Writer, result schema.EstimateResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	fmt.Fprintf(w, "%s\n", contract.Paint(contract.HeaderColor, fmt.Sprintf("===== Total Changes: %d =====", result.Changes), cfg.UseColors))
	fmt.Fprintf(w, "Estimated Time: %s (%s minutes)\n",
		contract.Paint(contract.EstimateColor, result.Estimate.Format(), cfg.UseColors), fmtFloat(result.Estimate.TotalMinutes))
	if result.UpperBound != nil {
		fmt.Fprintf(w, "Upper bound: %s minutes for any number of changes\n", fmtFloat(*result.UpperBound))
	} else {
		fmt.Fprintln(w, "Upper bound: none, the decay factor is 1")
	}
	fmt.Fprintf(w, "Cost model: %g minutes per change, decay %g, setup %g minutes\n",
		result.Cost.PerChangeMinutes, result.Cost.DecayFactor, result.Cost.SetupMinutes)
	return nil
}
