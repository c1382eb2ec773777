package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// ExecFunc is the signature for running a command and capturing stdout.
// It receives the context, binary path, and args. Returns stdout bytes and error.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// StreamFunc runs a command with its output streamed to the given writers.
type StreamFunc func(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error

// CounterConfig describes the line-counter invocation.
// A Timeout of 0 means no deadline.
type CounterConfig struct {
	Binary        string
	MaxLineLength int
	Exclude       []string
	Timeout       time.Duration
}

// DefaultCounterConfig returns the tokei settings the report format relies on.
func DefaultCounterConfig() CounterConfig {
	return CounterConfig{
		Binary:        "tokei",
		MaxLineLength: 1000,
		Exclude:       []string{"*.md", "*.txt"},
	}
}

// Args builds the tokei arguments for a per-file breakdown of basePath.
func (c CounterConfig) Args(basePath string) []string {
	args := []string{basePath, "--files"}
	if c.MaxLineLength > 0 {
		args = append(args, "-c", strconv.Itoa(c.MaxLineLength))
	}
	for _, pattern := range c.Exclude {
		args = append(args, "-e", pattern)
	}
	return args
}

// VisualizerConfig describes the hand-off to the plotting script.
// Command is the program followed by its fixed leading arguments.
type VisualizerConfig struct {
	Command []string
	Timeout time.Duration
}

// DefaultVisualizerConfig runs analyze.py with python3.
func DefaultVisualizerConfig() VisualizerConfig {
	return VisualizerConfig{
		Command: []string{"python3", "analyze.py"},
	}
}

// Args returns the program and its arguments for a report and base path.
func (v VisualizerConfig) Args(reportPath, basePath string) (string, []string, error) {
	if len(v.Command) == 0 || v.Command[0] == "" {
		return "", nil, fmt.Errorf("visualizer command is empty")
	}
	args := append([]string{}, v.Command[1:]...)
	args = append(args, reportPath, basePath)
	return v.Command[0], args, nil
}

// RunResult is the outcome of a single invocation.
type RunResult struct {
	Step       string        `json:"step"`
	Binary     string        `json:"binary"`
	Args       []string      `json:"args"`
	OutputFile string        `json:"output_file,omitempty"`
	Duration   time.Duration `json:"duration"`
	ExitCode   int           `json:"exit_code,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

// Runner invokes the external counter and visualizer.
type Runner struct {
	execFn   ExecFunc
	streamFn StreamFunc
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Runner with the given exec functions.
// Visualizer output goes to os.Stdout and os.Stderr.
func New(execFn ExecFunc, streamFn StreamFunc) *Runner {
	return &Runner{
		execFn:   execFn,
		streamFn: streamFn,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithOutput redirects the visualizer's inherited output.
func (r *Runner) WithOutput(stdout, stderr io.Writer) *Runner {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// withTimeout applies d to ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// exitStatus reports the exit code of a tool that was launched and ran to
// completion on its own. Launch failures and deadline kills are not exits.
func exitStatus(ctx context.Context, err error) (int, bool) {
	var exitErr *exec.ExitError
	if ctx.Err() == nil && errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

// Count runs the line counter against basePath and writes its stdout
// verbatim to reportPath. A non-zero exit is recorded in ExitCode and the
// output is still written; failing to launch or to write is an error.
func (r *Runner) Count(ctx context.Context, cfg CounterConfig, basePath, reportPath string) (RunResult, error) {
	toolCtx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	args := cfg.Args(basePath)
	result := RunResult{Step: "count", Binary: cfg.Binary, Args: args}

	start := time.Now()
	stdout, err := r.execFn(toolCtx, cfg.Binary, args...)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		code, exited := exitStatus(toolCtx, err)
		if !exited {
			return result, fmt.Errorf("failed to execute %s: %w", cfg.Binary, err)
		}
		result.ExitCode = code
	}

	if dir := filepath.Dir(reportPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			result.Error = err.Error()
			return result, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(reportPath, stdout, 0o644); err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("failed to write %s output: %w", cfg.Binary, err)
	}

	result.OutputFile = reportPath
	result.Success = result.ExitCode == 0
	return result, nil
}

// Visualize hands the augmented report to the visualizer with output inherited.
// As with Count, only a launch failure or deadline is an error.
func (r *Runner) Visualize(ctx context.Context, cfg VisualizerConfig, reportPath, basePath string) (RunResult, error) {
	name, args, err := cfg.Args(reportPath, basePath)
	if err != nil {
		return RunResult{Step: "visualize", Error: err.Error()}, err
	}

	toolCtx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	result := RunResult{Step: "visualize", Binary: name, Args: args}

	start := time.Now()
	err = r.streamFn(toolCtx, r.stdout, r.stderr, name, args...)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		code, exited := exitStatus(toolCtx, err)
		if !exited {
			return result, fmt.Errorf("failed to execute %s: %w", name, err)
		}
		result.ExitCode = code
		return result, nil
	}

	result.Success = true
	return result, nil
}

// ExecCapture runs a command and returns its stdout.
func ExecCapture(ctx context.Context, name string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, name, args...)
	c.Stderr = os.Stderr
	return c.Output()
}

// ExecStream runs a command with stdout and stderr attached to the writers.
func ExecStream(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	c := exec.CommandContext(ctx, name, args...)
	c.Stdout = stdout
	c.Stderr = stderr
	return c.Run()
}
