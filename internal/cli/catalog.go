package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	catalogFile   string
	catalogFormat string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active insight catalog",
	Long: `Catalog validates and prints the insight groups in effect: the file
named by --catalog or catalog_file, or the built-in catalog.

The output is a valid catalog file, so it can seed a custom one:
  codeinsight catalog > insights.yaml
  codeinsight catalog --format toml > insights.toml`,
	Args: cobra.NoArgs,
	RunE: runCatalogCmd,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFile, "catalog", "",
		"insight catalog file (YAML or TOML)")
	catalogCmd.Flags().StringVarP(&catalogFormat, "format", "f", "yaml",
		"output format: yaml or toml")
}

func runCatalogCmd(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog(firstNonEmpty(catalogFile, cfg.CatalogFile))
	if err != nil {
		return err
	}

	spec := catalog.Spec()

	var data []byte
	switch catalogFormat {
	case "yaml":
		data, err = yaml.Marshal(&spec)
	case "toml":
		data, err = toml.Marshal(&spec)
	default:
		return &ValidationError{Message: fmt.Sprintf("unsupported format: %s (use yaml or toml)", catalogFormat)}
	}
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
