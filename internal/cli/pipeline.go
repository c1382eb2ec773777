package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/ppiankov/codeinsight/internal/aggregator"
	"github.com/ppiankov/codeinsight/internal/config"
	"github.com/ppiankov/codeinsight/internal/insight"
	"github.com/ppiankov/codeinsight/internal/models"
	"github.com/ppiankov/codeinsight/internal/policy"
	"github.com/ppiankov/codeinsight/internal/report"
	"github.com/ppiankov/codeinsight/internal/reporter"
	"github.com/ppiankov/codeinsight/internal/runner"
	"github.com/ppiankov/codeinsight/internal/storage"
	"golang.org/x/term"
)

// PipelineConfig holds options for the shared summary pipeline.
type PipelineConfig struct {
	Format     string
	Output     string
	Store      bool
	StorageDir string
	Ext        string
	WithFiles  bool
}

// RunPipeline summarizes an augmented report and emits the result.
// This is the shared logic between the run and summarize commands:
// parse → summarize → trend → store → output → policy check.
func RunPipeline(reportPath, basePath string, pcfg PipelineConfig) error {
	// Step 1: Parse the report
	table, err := report.LoadTable(reportPath, basePath)
	if err != nil {
		if errors.Is(err, report.ErrNoHeader) {
			return &ValidationError{Message: fmt.Sprintf("%s: %v", reportPath, err)}
		}
		return err
	}
	for _, w := range table.Warnings {
		logWarn("%s", w)
	}

	// Step 2: Summarize
	summary := aggregator.New().Summarize(table, basePath, pcfg.Ext)
	summary.ReportFile = reportPath

	logVerbose("Summarized %d files, %d insight column(s)", summary.Totals.Files, len(summary.Insights))

	// Step 3: Trend against the previous stored run, then store
	var trend *models.Trend
	if pcfg.Store {
		storagePath, err := getStoragePath(pcfg.StorageDir)
		if err != nil {
			logError("Failed to get storage path: %v", err)
			return err
		}

		store := storage.NewLocal(storagePath)

		if previous, err := store.GetLatestRun(); err == nil {
			logVerbose("Found previous run from %s", previous.Timestamp)
			trend = aggregator.NewTrendAnalyzer().CompareRuns(summary, previous)
		} else {
			logDebug("No previous run found: %v", err)
		}

		if err := store.EnsureDirectoryExists(); err != nil {
			logError("Failed to create storage directory: %v", err)
			return err
		}

		if err := store.SaveRun(summary); err != nil {
			logError("Failed to store run: %v", err)
			return err
		}

		logVerbose("Stored run %s in: %s", summary.ID, storagePath)
	}

	// Step 4: Generate output
	if err := generateOutput(summary, trend, pcfg); err != nil {
		logError("Failed to generate output: %v", err)
		return err
	}

	// Step 5: Policy enforcement (if .codeinsight-policy.yaml exists)
	return checkPolicy(summary)
}

// checkPolicy evaluates the nearest policy file, if any, against summary.
func checkPolicy(summary *models.Summary) error {
	policyPath := policy.FindPolicyFile()
	if policyPath == "" {
		return nil
	}
	logVerbose("Found policy file: %s", policyPath)

	pol, err := policy.LoadFromFile(policyPath)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("failed to load policy: %v", err)}
	}
	if pol == nil {
		return nil
	}

	result := pol.Evaluate(summary)
	if !result.Pass {
		for _, v := range result.Violations {
			logError("Policy violation [%s]: %s", v.Rule, v.Message)
		}
		return &PolicyViolationError{
			Violations: len(result.Violations),
			PolicyFile: policyPath,
		}
	}

	logVerbose("Policy check passed")
	return nil
}

// generateOutput writes the summary in the requested format to the
// output file, or stdout when none is given.
func generateOutput(summary *models.Summary, trend *models.Trend, pcfg PipelineConfig) error {
	var writer io.Writer = os.Stdout
	if pcfg.Output != "" {
		f, err := os.Create(pcfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		writer = f
	}

	switch pcfg.Format {
	case "text":
		return reporter.NewTextReporter(writer).Generate(summary, trend)

	case "json":
		jsonReporter := reporter.NewJSONReporter(writer, true)
		if pcfg.WithFiles {
			return jsonReporter.Generate(summary, trend)
		}
		return jsonReporter.GenerateSummaryOnly(summary, trend)

	default:
		return &ValidationError{Message: fmt.Sprintf("unsupported format: %s (use text or json)", pcfg.Format)}
	}
}

// loadCatalog returns the catalog from path, or the built-in one.
func loadCatalog(path string) (insight.Catalog, error) {
	if path == "" {
		return insight.DefaultCatalog(), nil
	}

	catalog, err := insight.LoadCatalog(path)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	logVerbose("Loaded %d insight group(s) from %s", len(catalog), path)
	return catalog, nil
}

// counterConfig converts the config section into the runner's form.
func counterConfig(c *config.Config) runner.CounterConfig {
	return runner.CounterConfig{
		Binary:        c.Counter.Binary,
		MaxLineLength: c.Counter.MaxLineLength,
		Exclude:       c.Counter.Exclude,
		Timeout:       c.Counter.Timeout,
	}
}

// visualizerConfig converts the config section into the runner's form.
func visualizerConfig(c *config.Config) runner.VisualizerConfig {
	return runner.VisualizerConfig{
		Command: c.Visualizer.Command,
		Timeout: c.Visualizer.Timeout,
	}
}

// workerCount resolves the configured worker count; 0 means one per CPU.
func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// augmentOptions builds the rewrite options, with a progress bar when
// stderr is a terminal.
func augmentOptions(workers int) []report.Option {
	opts := []report.Option{report.WithWorkers(workerCount(workers))}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		opts = append(opts, report.WithProgress(progressBar(os.Stderr)))
	}
	return opts
}

// progressBar renders a single-line bar that is redrawn in place.
func progressBar(w io.Writer) report.ProgressFunc {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	return func(done, total int) {
		if total == 0 {
			return
		}
		_, _ = fmt.Fprintf(w, "\r%s %d/%d rows", bar.ViewAs(float64(done)/float64(total)), done, total)
		if done == total {
			_, _ = fmt.Fprintln(w)
		}
	}
}

// logAugmentResult reports what a rewrite did.
func logAugmentResult(path string, res report.Result) {
	if res.Outcome == report.OutcomeNoop {
		logDebug("Report %s is missing or not text; left untouched", path)
		return
	}
	logVerbose("Augmented %s: %d rows, %d data rows", path, res.Rows, res.DataRows)
	for _, s := range res.Skipped {
		logWarn("Skipped malformed data row %d: %q", s.Index, s.Text)
	}
}

// resolveBase picks the base path from args, then the config.
func resolveBase(args []string, flagValue string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if flagValue != "" {
		return flagValue
	}
	return cfg.BasePath
}

// getStoragePath resolves the storage path, expanding ~ and converting to absolute.
func getStoragePath(storageDir string) (string, error) {
	if len(storageDir) >= 2 && storageDir[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		storageDir = filepath.Join(home, storageDir[2:])
	}

	absPath, err := filepath.Abs(storageDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}
