package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/codeinsight/internal/aggregator"
	"github.com/ppiankov/codeinsight/internal/models"
	"github.com/ppiankov/codeinsight/internal/reporter"
	"github.com/ppiankov/codeinsight/internal/storage"
	"github.com/spf13/cobra"
)

var (
	historyLastN   int
	historyCompare bool
	historyFormat  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show trends across stored runs",
	Long: `History reads the summaries stored by 'run --store' and
'summarize --store' and shows how code size and insight totals moved.

Example:
  codeinsight history
  codeinsight history --last 14
  codeinsight history --compare
  codeinsight history --format json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLastN, "last", "n", 0,
		"number of runs to analyze (default from config)")
	historyCmd.Flags().BoolVarP(&historyCompare, "compare", "c", false,
		"compare latest run with previous")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "",
		"output format: text or json (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	lastN := historyLastN
	if lastN <= 0 {
		lastN = cfg.LastRuns
	}
	format := firstNonEmpty(historyFormat, cfg.Format)
	if format != "text" && format != "json" {
		return &ValidationError{Message: fmt.Sprintf("unsupported format: %s (use text or json)", format)}
	}

	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		logError("Failed to get storage path: %v", err)
		return err
	}

	store := storage.NewLocal(storagePath)
	logVerbose("Loading runs from: %s", storagePath)

	if historyCompare {
		lastN = 2
	}
	runs, err := store.GetLastNRuns(lastN)
	if errors.Is(err, storage.ErrNoRuns) || (err == nil && len(runs) == 0) {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored runs found.")
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'codeinsight summarize <report> --store' to record your first run.")
		return nil
	}
	if err != nil {
		logError("Failed to load runs: %v", err)
		return err
	}

	logVerbose("Analyzing %d run(s)", len(runs))
	analyzer := aggregator.NewTrendAnalyzer()

	if historyCompare {
		if len(runs) < 2 {
			fmt.Fprintln(cmd.OutOrStdout(), "Need at least 2 runs for comparison.")
			return nil
		}
		previous, current := runs[0], runs[1]
		if format == "json" {
			return reporter.NewJSONReporter(cmd.OutOrStdout(), true).
				GenerateSummaryOnly(current, analyzer.CompareRuns(current, previous))
		}
		fmt.Fprint(cmd.OutOrStdout(), analyzer.GenerateComparisonReport(current, previous))
		return nil
	}

	ts := analyzer.AnalyzeLastNRuns(runs)
	if format == "json" {
		return reporter.NewJSONReporter(cmd.OutOrStdout(), true).GenerateHistory(ts)
	}
	return reporter.NewTextReporter(cmd.OutOrStdout()).GenerateHistory(ts, historyInsights(runs))
}

// historyInsights lists insight names across runs, newest run's order first.
func historyInsights(runs []*models.Summary) []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(runs) - 1; i >= 0; i-- {
		for _, is := range runs[i].Insights {
			if !seen[is.Name] {
				seen[is.Name] = true
				names = append(names, is.Name)
			}
		}
	}
	return names
}
