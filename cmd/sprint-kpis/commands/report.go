package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"sprint-kpis/internal/console"
	"sprint-kpis/internal/jira"
	"sprint-kpis/internal/stats"

	"github.com/natefinch/atomic"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type reportOptions struct {
	sprints []string
	format  string
	out     string
	open    bool
	asOf    string
	dataset string
}

var reportOpts reportOptions

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the sprint KPI report from the dataset",
	Long: `Computes the full KPI report. Repeat --sprint to build one report per sprint;
the reports are computed in parallel. With --out each report is written to its own file.`,
	Example: `  sprint-kpis report --sprint 35 --format table
  sprint-kpis report --sprint 34 --sprint 35 --out ./reports --open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.OutOrStdout(), reportOpts)
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringArrayVarP(&reportOpts.sprints, "sprint", "s", nil, "current sprint to scope the report to (repeatable; default: policy current sprint)")
	f.StringVarP(&reportOpts.format, "format", "f", "table", "output format: table or json")
	f.StringVarP(&reportOpts.out, "out", "o", "", "directory to write report files to instead of stdout")
	f.BoolVar(&reportOpts.open, "open", false, "open the written report files (default --out: REPORT_DIR)")
	f.StringVar(&reportOpts.asOf, "as-of", "", "reference date YYYY-MM-DD for ticket age (default: today)")
	f.StringVar(&reportOpts.dataset, "dataset", "", "dataset file (default: DATASET_FILE)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(stdout io.Writer, opts reportOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format %q, expected table or json", opts.format)
	}
	if opts.open && opts.out == "" {
		opts.out = cfg.ReportDir
	}

	asOf := time.Now()
	if opts.asOf != "" {
		t, err := time.Parse(time.DateOnly, opts.asOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of %q, expected YYYY-MM-DD", opts.asOf)
		}
		asOf = t
	}

	path := opts.dataset
	if path == "" {
		path = cfg.DatasetFile
	}
	ds, err := jira.LoadDataset(path)
	if err != nil {
		return err
	}

	sprints := uniqueSprints(opts.sprints, cfg.Policy.CurrentSprint)

	if opts.open {
		// Keep stdout clean of the opener's output.
		browser.Stdout = os.Stderr
	}

	// The dataset is only read, so every sprint can be computed concurrently.
	rendered := make([][]byte, len(sprints))
	var g errgroup.Group
	for i, sprint := range sprints {
		g.Go(func() error {
			r := stats.Compute(ds.Tickets, ds.Changelog, stats.Options{
				CurrentSprint: sprint,
				AsOf:          asOf,
				Policy:        cfg.Policy,
			})
			b, err := renderReport(r, opts.format)
			if err != nil {
				return fmt.Errorf("failed to render report for sprint %q: %w", sprint, err)
			}
			rendered[i] = b

			if opts.out == "" {
				return nil
			}
			file := filepath.Join(opts.out, reportFileName(r.CurrentSprint, opts.format))
			return writeReport(file, b, opts.open)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.out != "" {
		return nil
	}
	for _, b := range rendered {
		if _, err := stdout.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// uniqueSprints reduces the requested sprints to their numbers, keeping the first
// occurrence of each. No request means the fallback alone.
func uniqueSprints(raw []string, fallback string) []string {
	if len(raw) == 0 {
		return []string{fallback}
	}
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id := ""
		if strings.TrimSpace(r) != "" {
			id = stats.SprintID(r)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func renderReport(r stats.Report, format string) ([]byte, error) {
	if format == "json" {
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}

	var buf bytes.Buffer
	if err := console.Render(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func reportFileName(sprint, format string) string {
	label := "all"
	if sprint != "" {
		label = "sprint-" + sprint
	}
	ext := "txt"
	if format == "json" {
		ext = "json"
	}
	return fmt.Sprintf("kpi-report-%s.%s", label, ext)
}

func writeReport(path string, data []byte, open bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("Report written")

	if open {
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open report")
		}
	}
	return nil
}
