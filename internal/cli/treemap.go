package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/codeinsight/internal/aggregator"
	"github.com/ppiankov/codeinsight/internal/report"
	"github.com/ppiankov/codeinsight/internal/reporter"
	"github.com/spf13/cobra"
)

var (
	treemapBase   string
	treemapExt    string
	treemapOutput string
)

var treemapCmd = &cobra.Command{
	Use:   "treemap <report>",
	Short: "Export the directory hierarchy of a report as treemap JSON",
	Long: `Treemap builds the directory hierarchy of the files in a report and
writes the parallel arrays a treemap plot consumes: ids, names, parents,
values (log10 of code lines + 1) and colors (comment ratio, range 0 to 0.4),
plus raw line counts and insight totals per node.

Example:
  codeinsight treemap out.txt --base ./src -o treemap.json
  codeinsight treemap out.txt --ext .py`,
	Args: cobra.ExactArgs(1),
	RunE: runTreemap,
}

func init() {
	treemapCmd.Flags().StringVarP(&treemapBase, "base", "b", "",
		"base path the report was generated for (default from config)")
	treemapCmd.Flags().StringVarP(&treemapExt, "ext", "e", "",
		"only include files whose path contains this extension")
	treemapCmd.Flags().StringVarP(&treemapOutput, "output", "o", "",
		"write output to file")
}

func runTreemap(cmd *cobra.Command, args []string) error {
	basePath := firstNonEmpty(treemapBase, cfg.BasePath)

	table, err := report.LoadTable(args[0], basePath)
	if err != nil {
		return err
	}
	for _, w := range table.Warnings {
		logWarn("%s", w)
	}

	files := aggregator.FilterFiles(table.Files, treemapExt)
	if len(files) == 0 {
		logWarn("No files in %s matched", args[0])
	}

	root := aggregator.BuildTree(files, basePath)
	tm := aggregator.Treemap(root, table.Insights)
	logVerbose("Treemap has %d nodes", len(tm.IDs))

	var w io.Writer = cmd.OutOrStdout()
	if treemapOutput != "" {
		f, err := os.Create(treemapOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return reporter.NewJSONReporter(w, true).GenerateTreemap(tm)
}
