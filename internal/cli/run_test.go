package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ppiankov/codeinsight/internal/config"
	"github.com/ppiankov/codeinsight/internal/runner"
)

const rawReport = `===============================================================================
 Language            Files        Lines         Code     Comments       Blanks
===============================================================================
 Python                  2          130           88           31           11
-------------------------------------------------------------------------------
 src/app.py                         120           80           30           10
 src/util.py                         10            8            1            1
-------------------------------------------------------------------------------
 Total                   2          130           88           31           11
===============================================================================
`

// setupSourceTree creates src/app.py with two log lines and src/util.py
// with none, moves the test there and installs a default config.
func setupSourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testChdir(t, dir)

	if err := os.MkdirAll("src", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	app := "import logging\nlogger.INFO('start')\nx = 1\nlogger.ERROR('fail')\n"
	if err := os.WriteFile(filepath.Join("src", "app.py"), []byte(app), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join("src", "util.py"), []byte("pass\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := config.DefaultConfig()
	c.StorageDir = filepath.Join(dir, ".codeinsight")
	withTestConfig(t, c)
	return dir
}

// stubTools replaces the external process hooks. Each invocation is
// recorded as "name arg1 arg2 ...".
func stubTools(t *testing.T, counterErr, vizErr error) *[]string {
	t.Helper()
	var calls []string

	oldCapture, oldStream := execCapture, execStream
	execCapture = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, name+" "+strings.Join(args, " "))
		if counterErr != nil {
			return nil, counterErr
		}
		return []byte(rawReport), nil
	}
	execStream = func(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return vizErr
	}
	t.Cleanup(func() { execCapture, execStream = oldCapture, oldStream })

	return &calls
}

// setRunFlags sets the run flags for one test.
func setRunFlags(t *testing.T, noVisualize, dryRun, summary bool, catalog string) {
	t.Helper()
	oldNoViz, oldDry, oldSummary, oldCatalog := runNoVisualize, runDryRun, runSummary, runCatalog
	runNoVisualize, runDryRun, runSummary, runCatalog = noVisualize, dryRun, summary, catalog
	t.Cleanup(func() {
		runNoVisualize, runDryRun, runSummary, runCatalog = oldNoViz, oldDry, oldSummary, oldCatalog
	})
}

func TestRunRunFullPipeline(t *testing.T) {
	setupSourceTree(t)
	setRunFlags(t, false, false, false, "")
	calls := stubTools(t, nil, nil)

	if err := runRun(runCmd, []string{"src"}); err != nil {
		t.Fatalf("runRun: %v", err)
	}

	want := []string{
		"tokei src --files -c 1000 -e *.md -e *.txt",
		"python3 analyze.py out.txt src",
	}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %v, want %v", *calls, want)
	}
	for i := range want {
		if (*calls)[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, (*calls)[i], want[i])
		}
	}

	data, err := os.ReadFile("out.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, " Language            Files        Lines         Code     Comments       Blanks         Logs") {
		t.Errorf("header not augmented:\n%s", text)
	}
	if !strings.Contains(text, " src/app.py                         120           80           30           10            2") {
		t.Errorf("app.py row not augmented:\n%s", text)
	}
	if !strings.Contains(text, " src/util.py                         10            8            1            1            0") {
		t.Errorf("util.py row not augmented:\n%s", text)
	}
}

func TestRunRunCounterFailureIsFatal(t *testing.T) {
	setupSourceTree(t)
	setRunFlags(t, false, false, false, "")
	calls := stubTools(t, errors.New("exec: \"tokei\": executable file not found"), nil)

	err := runRun(runCmd, []string{"src"})
	if err == nil {
		t.Fatal("expected error when the counter fails")
	}
	if !strings.Contains(err.Error(), "line counter failed") {
		t.Errorf("error = %v, want line counter failure", err)
	}
	if HandleError(err) != ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", HandleError(err), ExitRuntimeError)
	}
	if len(*calls) != 1 {
		t.Errorf("visualizer should not run after counter failure, calls = %v", *calls)
	}
	if _, err := os.Stat("out.txt"); !os.IsNotExist(err) {
		t.Error("no report should be written when the counter fails")
	}
}

func TestRunRunVisualizerFailureIsFatal(t *testing.T) {
	setupSourceTree(t)
	setRunFlags(t, false, false, false, "")
	stubTools(t, nil, errors.New(`exec: "python3": executable file not found in $PATH`))

	err := runRun(runCmd, []string{"src"})
	if err == nil || !strings.Contains(err.Error(), "visualizer failed") {
		t.Fatalf("error = %v, want visualizer failure", err)
	}

	// The report was still augmented before the visualizer ran.
	data, _ := os.ReadFile("out.txt")
	if !strings.Contains(string(data), "Logs") {
		t.Error("report should be augmented before visualizing")
	}
}

func TestRunRunCounterNonZeroExitKeepsReport(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := setupSourceTree(t)
	setRunFlags(t, true, false, false, "")

	if err := os.WriteFile("raw.txt", []byte(rawReport), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	script := filepath.Join(dir, "tokei.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ncat raw.txt\nexit 2\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg.Counter.Binary = script

	oldCapture := execCapture
	execCapture = runner.ExecCapture
	t.Cleanup(func() { execCapture = oldCapture })

	var err error
	logs := captureStderr(t, func() {
		err = runRun(runCmd, []string{"src"})
	})
	if err != nil {
		t.Fatalf("runRun: %v", err)
	}
	if !strings.Contains(logs, "exited with status 2") {
		t.Errorf("expected a warning about the exit status, got %q", logs)
	}

	data, _ := os.ReadFile("out.txt")
	if !strings.Contains(string(data), " src/app.py                         120           80           30           10            2") {
		t.Errorf("report should be written and augmented:\n%s", data)
	}
}

func TestRunRunNoVisualize(t *testing.T) {
	setupSourceTree(t)
	setRunFlags(t, true, false, false, "")
	calls := stubTools(t, nil, nil)

	if err := runRun(runCmd, []string{"src"}); err != nil {
		t.Fatalf("runRun: %v", err)
	}
	if len(*calls) != 1 || !strings.HasPrefix((*calls)[0], "tokei ") {
		t.Errorf("calls = %v, want only the counter", *calls)
	}
}

func TestRunRunVisualizerDisabledInConfig(t *testing.T) {
	setupSourceTree(t)
	cfg.Visualizer.Enabled = false
	setRunFlags(t, false, false, false, "")
	calls := stubTools(t, nil, nil)

	if err := runRun(runCmd, []string{"src"}); err != nil {
		t.Fatalf("runRun: %v", err)
	}
	if len(*calls) != 1 {
		t.Errorf("calls = %v, want only the counter", *calls)
	}
}

func TestRunRunUsesConfigBasePath(t *testing.T) {
	setupSourceTree(t)
	cfg.BasePath = "src"
	setRunFlags(t, true, false, false, "")
	calls := stubTools(t, nil, nil)

	if err := runRun(runCmd, nil); err != nil {
		t.Fatalf("runRun: %v", err)
	}
	if !strings.HasPrefix((*calls)[0], "tokei src ") {
		t.Errorf("counter call = %q, want base path from config", (*calls)[0])
	}
}

func TestRunRunInvalidCatalog(t *testing.T) {
	setupSourceTree(t)
	_ = os.WriteFile("bad.yaml", []byte("insights: []\n"), 0o644)
	setRunFlags(t, false, false, false, "bad.yaml")
	calls := stubTools(t, nil, nil)

	err := runRun(runCmd, []string{"src"})
	if HandleError(err) != ExitInvalidInput {
		t.Fatalf("exit code = %d, want %d (err=%v)", HandleError(err), ExitInvalidInput, err)
	}
	if len(*calls) != 0 {
		t.Errorf("nothing should run with an invalid catalog, calls = %v", *calls)
	}
}

func TestRunRunCustomCatalog(t *testing.T) {
	setupSourceTree(t)
	catalog := "insights:\n  - name: Imports\n    patterns: ['^import ']\n  - name: Logs\n    patterns: ['logger\\.[A-Z]+']\n"
	_ = os.WriteFile("insights.yaml", []byte(catalog), 0o644)
	setRunFlags(t, true, false, false, "insights.yaml")
	stubTools(t, nil, nil)

	if err := runRun(runCmd, []string{"src"}); err != nil {
		t.Fatalf("runRun: %v", err)
	}

	data, _ := os.ReadFile("out.txt")
	if !strings.Contains(string(data), "Blanks      Imports         Logs") {
		t.Errorf("expected both insight columns in header:\n%s", data)
	}
	if !strings.Contains(string(data), "           10            1            2") {
		t.Errorf("expected Imports=1 Logs=2 for app.py:\n%s", data)
	}
}

func TestRunRunWithSummary(t *testing.T) {
	setupSourceTree(t)
	setRunFlags(t, true, false, true, "")
	stubTools(t, nil, nil)

	var err error
	output := captureStdout(t, func() {
		err = runRun(runCmd, []string{"src"})
	})
	if err != nil {
		t.Fatalf("runRun: %v", err)
	}
	if !strings.Contains(output, "Code Insight Summary") {
		t.Errorf("expected summary output, got %q", output)
	}
	if !strings.Contains(output, "Logs") {
		t.Errorf("expected Logs insight in summary, got %q", output)
	}
}

func TestRunRunDryRun(t *testing.T) {
	setupSourceTree(t)
	setRunFlags(t, false, true, false, "")
	calls := stubTools(t, nil, nil)

	oldLookPath := lookPath
	lookPath = func(file string) (string, error) {
		if file == "tokei" {
			return "/usr/bin/tokei", nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = oldLookPath })

	var err error
	output := captureStdout(t, func() {
		err = runRun(runCmd, []string{"src"})
	})
	if err != nil {
		t.Fatalf("runRun --dry-run: %v", err)
	}
	if len(*calls) != 0 {
		t.Errorf("dry run must not execute anything, calls = %v", *calls)
	}
	if !strings.Contains(output, "tokei src --files -c 1000 -e *.md -e *.txt > out.txt") {
		t.Errorf("dry run output missing counter command: %q", output)
	}
	if !strings.Contains(output, "python3 analyze.py out.txt src") {
		t.Errorf("dry run output missing visualizer command: %q", output)
	}
	if !strings.Contains(output, "warning: python3 not found in PATH") {
		t.Errorf("dry run should warn about python3: %q", output)
	}
	if strings.Contains(output, "warning: tokei") {
		t.Errorf("tokei is available, no warning expected: %q", output)
	}
}

func TestCounterAndVisualizerConfig(t *testing.T) {
	c := config.DefaultConfig()
	c.Counter.Exclude = []string{"*.json"}
	c.Visualizer.Command = []string{"./plot"}

	counter := counterConfig(c)
	if got := strings.Join(counter.Args("src"), " "); got != "src --files -c 1000 -e *.json" {
		t.Errorf("counter args = %q", got)
	}

	viz := visualizerConfig(c)
	name, args, err := viz.Args("out.txt", "src")
	if err != nil || name != "./plot" || strings.Join(args, " ") != "out.txt src" {
		t.Errorf("visualizer = %q %v (%v)", name, args, err)
	}
}
