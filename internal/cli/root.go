package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/codeinsight/internal/config"
	"github.com/spf13/cobra"
)

const (
	ExitOK           = 0 // Success
	ExitPolicyFail   = 1 // Policy thresholds not met
	ExitInvalidInput = 2 // Bad catalog, flags or config
	ExitRuntimeError = 3 // I/O, external tool or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	buildVersion = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "codeinsight",
	Short: "codeinsight - insight columns for tokei reports",
	Long: `codeinsight runs tokei over a source tree and appends one column per
insight group to its per-file report. Each column counts the lines of the
file matching any of the group's patterns (by default: log statements).

It provides:
- The count → augment → visualize pipeline
- Summaries, per-extension breakdowns and insight densities
- Run history with trends and policy checks for CI
- A treemap export and an interactive browser

Quick start:
  codeinsight doctor
  codeinsight run ./src
  codeinsight summarize out.txt --base ./src

Other commands:
  codeinsight augment out.txt --base ./src
  codeinsight count src/app.py
  codeinsight browse out.txt --base ./src
  codeinsight history`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("failed to load config: %v", err)}
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		logDebug("Config loaded (base_path=%s, report_file=%s)", cfg.BasePath, cfg.ReportFile)
		return nil
	},
}

// SetVersion records the build version shown by the version command.
func SetVersion(v string) {
	buildVersion = v
}

// Execute runs the root command and exits with the mapped status code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.As(err, new(*PolicyViolationError)) {
			logError("%v", err)
		}
		os.Exit(HandleError(err))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./codeinsight.yaml or ~/.config/codeinsight/codeinsight.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(augmentCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(treemapCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codeinsight %s\n", buildVersion)
		fmt.Fprintln(cmd.OutOrStdout(), "Insight columns for tokei reports")
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	var validationErr *ValidationError
	var policyErr *PolicyViolationError
	switch {
	case errors.As(err, &validationErr):
		return ExitInvalidInput
	case errors.As(err, &policyErr):
		return ExitPolicyFail
	default:
		return ExitRuntimeError
	}
}

// ValidationError represents invalid input: flags, config or catalog.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PolicyViolationError represents a failed policy check.
type PolicyViolationError struct {
	Violations int
	PolicyFile string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("%d policy violation(s) in %s", e.Violations, e.PolicyFile)
}
