package cli

import (
	"fmt"

	"github.com/ppiankov/codeinsight/internal/config"
	"github.com/spf13/cobra"
)

var (
	initPath  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Init writes a commented sample configuration with every key set to its
default, to $XDG_CONFIG_HOME/codeinsight/codeinsight.yaml when
XDG_CONFIG_HOME is set, otherwise to ./codeinsight.yaml.

Example:
  codeinsight init
  codeinsight init --path ci/codeinsight.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "",
		"where to write the config (default: see above)")
	initCmd.Flags().BoolVar(&initForce, "force", false,
		"overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := firstNonEmpty(initPath, config.ConfigPath())

	if err := config.WriteSample(path, initForce); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	logVerbose("Wrote sample config to %s", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
	return nil
}
