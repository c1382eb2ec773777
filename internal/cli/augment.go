package cli

import (
	"fmt"

	"github.com/ppiankov/codeinsight/internal/report"
	"github.com/spf13/cobra"
)

var (
	augmentBase    string
	augmentCatalog string
)

var augmentCmd = &cobra.Command{
	Use:   "augment <report>",
	Short: "Append insight columns to an existing tokei report",
	Long: `Augment rewrites a tokei --files report in place, appending one
right-aligned 13-character column per insight group to the header, to every
file row and to the separator rules.

A report that is missing or not text is left untouched.

Example:
  codeinsight augment out.txt --base ./src
  codeinsight augment out.txt --base ./src --catalog insights.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAugment,
}

func init() {
	augmentCmd.Flags().StringVarP(&augmentBase, "base", "b", "",
		"base path the report was generated for (default from config)")
	augmentCmd.Flags().StringVar(&augmentCatalog, "catalog", "",
		"insight catalog file (YAML or TOML)")
}

func runAugment(cmd *cobra.Command, args []string) error {
	reportPath := args[0]
	basePath := firstNonEmpty(augmentBase, cfg.BasePath)

	catalog, err := loadCatalog(firstNonEmpty(augmentCatalog, cfg.CatalogFile))
	if err != nil {
		return err
	}

	res, err := report.Augment(reportPath, basePath, catalog, augmentOptions(cfg.Workers)...)
	if err != nil {
		return err
	}
	logAugmentResult(reportPath, res)

	if res.Outcome == report.OutcomeNoop {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing to augment\n", reportPath)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d file rows, %d insight column(s)", reportPath, res.DataRows, len(catalog))
	if n := len(res.Skipped); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", %d malformed row(s) left unchanged", n)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
