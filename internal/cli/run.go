package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ppiankov/codeinsight/internal/discovery"
	"github.com/ppiankov/codeinsight/internal/report"
	"github.com/ppiankov/codeinsight/internal/runner"
	"github.com/spf13/cobra"
)

// External process hooks, replaced in tests.
var (
	execCapture runner.ExecFunc        = runner.ExecCapture
	execStream  runner.StreamFunc      = runner.ExecStream
	lookPath    discovery.LookPathFunc = exec.LookPath
)

var (
	runReport      string
	runCatalog     string
	runFormat      string
	runOutput      string
	runStore       bool
	runSummary     bool
	runNoVisualize bool
	runDryRun      bool
)

var runCmd = &cobra.Command{
	Use:   "run [base-path]",
	Short: "Count, augment and visualize a source tree in one step",
	Long: `Run performs the full pipeline:

  1. Count     - run tokei over the base path, write its report
  2. Augment   - append one insight column per group to the report
  3. Visualize - hand the report to the visualizer (python3 analyze.py)

A counter or visualizer failure aborts the run with a non-zero exit.
Use --summary or --store to print a summary and check the policy file.
Use --dry-run to see what would be executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runReport, "report", "",
		"report file (default from config: out.txt)")
	runCmd.Flags().StringVar(&runCatalog, "catalog", "",
		"insight catalog file (YAML or TOML)")
	runCmd.Flags().StringVar(&runFormat, "format", "",
		"summary format: text or json (default from config)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "",
		"write summary to file")
	runCmd.Flags().BoolVar(&runStore, "store", false,
		"persist the summary for trend analysis")
	runCmd.Flags().BoolVar(&runSummary, "summary", false,
		"print a summary after augmenting")
	runCmd.Flags().BoolVar(&runNoVisualize, "no-visualize", false,
		"skip the visualizer step")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false,
		"show the commands without executing them")
}

func runRun(cmd *cobra.Command, args []string) error {
	basePath := resolveBase(args, "")
	reportPath := firstNonEmpty(runReport, cfg.ReportFile)
	visualize := cfg.Visualizer.Enabled && !runNoVisualize

	catalog, err := loadCatalog(firstNonEmpty(runCatalog, cfg.CatalogFile))
	if err != nil {
		return err
	}

	counter := counterConfig(cfg)
	viz := visualizerConfig(cfg)

	if runDryRun {
		return printRunPlan(counter, viz, basePath, reportPath, visualize)
	}

	r := runner.New(execCapture, execStream)
	ctx := context.Background()

	// Step 1: Count
	logVerbose("Running %s on %s", counter.Binary, basePath)
	res, err := r.Count(ctx, counter, basePath, reportPath)
	if err != nil {
		return fmt.Errorf("line counter failed: %w", err)
	}
	if res.ExitCode != 0 {
		logWarn("%s exited with status %d; keeping its output", counter.Binary, res.ExitCode)
	}
	logVerbose("Wrote %s in %s", reportPath, res.Duration)

	// Step 2: Augment
	augRes, err := report.Augment(reportPath, basePath, catalog, augmentOptions(cfg.Workers)...)
	if err != nil {
		return err
	}
	logAugmentResult(reportPath, augRes)

	// Step 3: Visualize
	if visualize {
		logVerbose("Running visualizer %s", strings.Join(viz.Command, " "))
		vres, err := r.Visualize(ctx, viz, reportPath, basePath)
		if err != nil {
			return fmt.Errorf("visualizer failed: %w", err)
		}
		if vres.ExitCode != 0 {
			logWarn("%s exited with status %d", vres.Binary, vres.ExitCode)
		}
	} else {
		logDebug("Visualizer skipped")
	}

	// Step 4: Summary, storage and policy
	if runSummary || runStore {
		return RunPipeline(reportPath, basePath, PipelineConfig{
			Format:     firstNonEmpty(runFormat, cfg.Format),
			Output:     runOutput,
			Store:      runStore,
			StorageDir: cfg.StorageDir,
		})
	}

	return nil
}

// printRunPlan shows the discovery result and the commands a run would execute.
func printRunPlan(counter runner.CounterConfig, viz runner.VisualizerConfig, basePath, reportPath string, visualize bool) error {
	d := discovery.New(lookPath, os.Stat)
	plan := d.Discover(discovery.RegistryFor(counter.Binary, viz.Command))

	fmt.Println("Dry run: would execute")
	fmt.Printf("  %s %s > %s\n", counter.Binary, strings.Join(counter.Args(basePath), " "), reportPath)
	fmt.Printf("  augment %s (base %s)\n", reportPath, basePath)
	if visualize {
		name, args, err := viz.Args(reportPath, basePath)
		if err != nil {
			return &ValidationError{Message: err.Error()}
		}
		fmt.Printf("  %s %s\n", name, strings.Join(args, " "))
	}

	for _, td := range plan.Tools {
		if td.Tool == discovery.ToolVisualizer && !visualize {
			continue
		}
		if !td.Available {
			fmt.Printf("\nwarning: %s not found in PATH\n", td.Binary)
			continue
		}
		if missing := td.MissingFiles(); len(missing) > 0 {
			fmt.Printf("\nwarning: %s needs %s\n", td.Binary, strings.Join(missing, ", "))
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
