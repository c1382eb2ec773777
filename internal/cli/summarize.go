package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Summarize command flags
	summarizeBase   string
	summarizeExt    string
	summarizeFormat string
	summarizeOutput string
	summarizeStore  bool
	summarizeFiles  bool
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <report>",
	Short: "Summarize an augmented report",
	Long: `Summarize parses an augmented report and shows:

- Totals of files, lines, code, comments and blanks
- Comment ratio, overall and per extension
- Per insight: total matches, files with matches, density per 1000 code lines
- The files with the most matches per insight
- With --store: the change since the previous stored run

If a .codeinsight-policy.yaml is found in the current directory or a parent,
the summary is checked against it and violations exit with status 1.

Example:
  codeinsight summarize out.txt --base ./src
  codeinsight summarize out.txt --ext .py --format json
  codeinsight summarize out.txt --store`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeBase, "base", "b", "",
		"base path the report was generated for (default from config)")
	summarizeCmd.Flags().StringVarP(&summarizeExt, "ext", "e", "",
		"only include files whose path contains this extension")
	summarizeCmd.Flags().StringVarP(&summarizeFormat, "format", "f", "",
		"output format: text or json (default from config)")
	summarizeCmd.Flags().StringVarP(&summarizeOutput, "output", "o", "",
		"write output to file")
	summarizeCmd.Flags().BoolVar(&summarizeStore, "store", false,
		"persist the summary for trend analysis")
	summarizeCmd.Flags().BoolVar(&summarizeFiles, "files", false,
		"include per-file rows in JSON output")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	return RunPipeline(args[0], firstNonEmpty(summarizeBase, cfg.BasePath), PipelineConfig{
		Format:     firstNonEmpty(summarizeFormat, cfg.Format),
		Output:     summarizeOutput,
		Store:      summarizeStore,
		StorageDir: cfg.StorageDir,
		Ext:        summarizeExt,
		WithFiles:  summarizeFiles,
	})
}
