package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/codeinsight/internal/insight"
	"github.com/spf13/cobra"
)

var (
	countCatalog string
	countFormat  string
)

var countCmd = &cobra.Command{
	Use:   "count <file>...",
	Short: "Count insight matches in individual files",
	Long: `Count scans each file line by line and prints, per insight group, the
number of lines matching any of the group's patterns. Files that cannot be
read as text count as zero.

Example:
  codeinsight count src/app.py src/Main.java
  codeinsight count --format json src/*.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

func init() {
	countCmd.Flags().StringVar(&countCatalog, "catalog", "",
		"insight catalog file (YAML or TOML)")
	countCmd.Flags().StringVarP(&countFormat, "format", "f", "text",
		"output format: text or json")
}

// fileCounts is the count result for one file.
type fileCounts struct {
	Path     string         `json:"path"`
	Readable bool           `json:"readable"`
	Counts   map[string]int `json:"counts"`
}

func runCount(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog(firstNonEmpty(countCatalog, cfg.CatalogFile))
	if err != nil {
		return err
	}

	results := make([]fileCounts, 0, len(args))
	for _, path := range args {
		scans := insight.ScanAll(path, catalog)
		fc := fileCounts{Path: path, Counts: make(map[string]int, len(catalog))}
		for i, g := range catalog {
			fc.Counts[g.Name] = scans[i].Count
			fc.Readable = scans[i].Readable
		}
		if !fc.Readable {
			logDebug("%s is unreadable or not text; counted as zero", path)
		}
		results = append(results, fc)
	}

	out := cmd.OutOrStdout()
	switch countFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		for _, fc := range results {
			fmt.Fprintln(out, fc.Path)
			for _, g := range catalog {
				fmt.Fprintf(out, "  %-16s %d\n", g.Name, fc.Counts[g.Name])
			}
		}
		return nil
	default:
		return &ValidationError{Message: fmt.Sprintf("unsupported format: %s (use text or json)", countFormat)}
	}
}
