package reporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/codeinsight/internal/models"
)

var errWrite = errors.New("write failed")

func TestTextReporterGenerate(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	err := r.Generate(sampleSummary(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	expectedFragments := []string{
		"Code Insight Summary",
		"Timestamp: 2026-02-15 10:00:00",
		"Overall Summary",
		"Files:    3",
		"Lines:    2,400",
		"Code:     2,000",
		"Comments: 300 (12.5%)",
		"By Extension:",
		".py",
		noExtension,
		"Insights:",
		"Logs: 42 matches in 2 files (21.00 per 1k code lines)",
		"./src/app.py",
	}

	for _, frag := range expectedFragments {
		if !strings.Contains(output, frag) {
			t.Errorf("expected output to contain %q", frag)
		}
	}
	if strings.Contains(output, "Trend Analysis") {
		t.Error("expected no trend section without a trend")
	}
}

func TestTextReporterGenerateWithFilter(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	summary := sampleSummary()
	summary.Filter = ".py"
	if err := r.Generate(summary, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Filter:    .py") {
		t.Error("expected filter line")
	}
}

func TestTextReporterGenerateNoInsights(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	summary := sampleSummary()
	summary.Insights = nil
	if err := r.Generate(summary, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No insight columns in report.") {
		t.Error("expected no-insight notice")
	}
}

func TestTextReporterGenerateWithTrend(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	trend := &models.Trend{
		ComparedWith: time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
		PreviousCode: 1800,
		CurrentCode:  2000,
		CodeChange:   200,
		Insights: []models.InsightTrend{
			{Name: "Logs", Previous: 50, Current: 42, Change: -8, ChangePercent: -16.0, Direction: "down"},
		},
	}

	err := r.Generate(sampleSummary(), trend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, frag := range []string{
		"Trend Analysis",
		"Code: 1,800 → 2,000 lines (+200)",
		"Logs: 50 → 42 (-16.0%) ↓",
		"Compared With: 2026-02-14 10:00:00",
	} {
		if !strings.Contains(output, frag) {
			t.Errorf("expected output to contain %q, got:\n%s", frag, output)
		}
	}
}

func TestTextReporterGenerateHistory(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	ts := &models.TrendSummary{
		RunsAnalyzed:      3,
		TimeRange:         "Last 2 days",
		CodeSparkline:     []int{1000, 1500, 2000},
		InsightSparklines: map[string][]int{"Logs": {0, 7, 7}},
	}
	if err := r.GenerateHistory(ts, []string{"Logs", "Missing"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, frag := range []string{"Run History (3 runs, Last 2 days)", "▁▄█  2,000", "▁██  7"} {
		if !strings.Contains(output, frag) {
			t.Errorf("expected output to contain %q, got:\n%s", frag, output)
		}
	}
	if strings.Contains(output, "Missing") {
		t.Error("expected unknown insight to be skipped")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
