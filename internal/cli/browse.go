package cli

import (
	"github.com/ppiankov/codeinsight/internal/aggregator"
	"github.com/ppiankov/codeinsight/internal/models"
	"github.com/ppiankov/codeinsight/internal/report"
	"github.com/ppiankov/codeinsight/internal/storage"
	"github.com/ppiankov/codeinsight/internal/tui"
	"github.com/spf13/cobra"
)

var (
	browseBase string
	browseExt  string
)

var browseCmd = &cobra.Command{
	Use:   "browse <report>",
	Short: "Explore an augmented report interactively",
	Long: `Browse opens a terminal table of the files in a report with their
line counts, comment ratio and insight columns.

Keys: / search, e filter by extension, s cycle sort, c copy path,
esc clear filters, q quit.

Stored runs, if any, are shown as sparklines in the header.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseBase, "base", "b", "",
		"base path the report was generated for (default from config)")
	browseCmd.Flags().StringVarP(&browseExt, "ext", "e", "",
		"only include files whose path contains this extension")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	basePath := firstNonEmpty(browseBase, cfg.BasePath)

	table, err := report.LoadTable(args[0], basePath)
	if err != nil {
		return err
	}
	for _, w := range table.Warnings {
		logDebug("%s", w)
	}

	summary := aggregator.New().Summarize(table, basePath, browseExt)
	summary.ReportFile = args[0]

	return tui.Run(summary, storedTrend())
}

// storedTrend loads the run history for the header, or nil.
func storedTrend() *models.TrendSummary {
	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		return nil
	}
	runs, err := storage.NewLocal(storagePath).GetLastNRuns(cfg.LastRuns)
	if err != nil {
		logDebug("No run history: %v", err)
		return nil
	}
	return aggregator.NewTrendAnalyzer().AnalyzeLastNRuns(runs)
}
