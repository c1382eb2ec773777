package aggregator

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/codeinsight/internal/models"
)

func runWith(ts time.Time, code int, insights map[string]int) *models.Summary {
	s := &models.Summary{Timestamp: ts, Totals: models.LineTotals{Code: code}}
	for _, name := range []string{"Logs", "TODOs"} {
		if n, ok := insights[name]; ok {
			s.Insights = append(s.Insights, models.InsightStat{Name: name, Total: n})
		}
	}
	return s
}

func TestTrendAnalyzerCompareRuns(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	ts := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		current       int
		previous      int
		previousNil   bool
		wantNil       bool
		direction     string
		changePercent float64
		change        int
	}{
		{
			name:        "no previous",
			current:     3,
			previousNil: true,
			wantNil:     true,
		},
		{
			name:          "fewer matches",
			current:       3,
			previous:      5,
			direction:     DirectionDown,
			changePercent: -40.0,
			change:        -2,
		},
		{
			name:          "more matches",
			current:       6,
			previous:      4,
			direction:     DirectionUp,
			changePercent: 50.0,
			change:        2,
		},
		{
			name:          "unchanged",
			current:       4,
			previous:      4,
			direction:     DirectionFlat,
			changePercent: 0.0,
			change:        0,
		},
		{
			name:          "appeared",
			current:       4,
			previous:      0,
			direction:     DirectionUp,
			changePercent: 100.0,
			change:        4,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			current := runWith(ts.Add(24*time.Hour), 1200, map[string]int{"Logs": tt.current})

			var previous *models.Summary
			if !tt.previousNil {
				previous = runWith(ts, 1000, map[string]int{"Logs": tt.previous})
			}

			trend := analyzer.CompareRuns(current, previous)
			if tt.wantNil {
				if trend != nil {
					t.Fatalf("expected nil trend, got %+v", trend)
				}
				return
			}
			if trend == nil {
				t.Fatalf("expected trend, got nil")
			}
			if trend.CodeChange != 200 {
				t.Fatalf("expected code change 200, got %d", trend.CodeChange)
			}
			if len(trend.Insights) != 1 {
				t.Fatalf("expected 1 insight trend, got %d", len(trend.Insights))
			}
			it := trend.Insights[0]
			if it.Direction != tt.direction {
				t.Fatalf("expected direction %s, got %s", tt.direction, it.Direction)
			}
			if math.Abs(it.ChangePercent-tt.changePercent) > 0.01 {
				t.Fatalf("expected change percent %.2f, got %.2f", tt.changePercent, it.ChangePercent)
			}
			if it.Change != tt.change {
				t.Fatalf("expected change %d, got %d", tt.change, it.Change)
			}
		})
	}
}

func TestCompareRunsInsightOnlyInPrevious(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	ts := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	current := runWith(ts.Add(time.Hour), 10, map[string]int{"Logs": 1})
	previous := runWith(ts, 10, map[string]int{"Logs": 1, "TODOs": 7})

	trend := analyzer.CompareRuns(current, previous)
	if len(trend.Insights) != 2 {
		t.Fatalf("expected 2 insight trends, got %d", len(trend.Insights))
	}
	todos := trend.Insights[1]
	if todos.Name != "TODOs" || todos.Current != 0 || todos.Previous != 7 || todos.Direction != DirectionDown {
		t.Fatalf("unexpected trend for TODOs: %+v", todos)
	}
}

func TestTrendAnalyzerAnalyzeLastNRuns(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	base := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		runs          []*models.Summary
		wantNil       bool
		wantRange     string
		wantCode      []int
		wantInsights  map[string][]int
	}{
		{
			name:    "no runs",
			runs:    nil,
			wantNil: true,
		},
		{
			name:         "single run",
			runs:         []*models.Summary{runWith(base, 100, map[string]int{"Logs": 2})},
			wantRange:    "Single run",
			wantCode:     []int{100},
			wantInsights: map[string][]int{"Logs": {2}},
		},
		{
			name: "multiple runs",
			runs: []*models.Summary{
				runWith(base, 100, map[string]int{"Logs": 2}),
				runWith(base.Add(24*time.Hour), 150, map[string]int{"Logs": 3, "TODOs": 1}),
				runWith(base.Add(48*time.Hour), 120, map[string]int{"Logs": 1, "TODOs": 4}),
			},
			wantRange: "Last 2 days",
			wantCode:  []int{100, 150, 120},
			wantInsights: map[string][]int{
				"Logs":  {2, 3, 1},
				"TODOs": {0, 1, 4},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			summary := analyzer.AnalyzeLastNRuns(tt.runs)
			if tt.wantNil {
				if summary != nil {
					t.Fatalf("expected nil summary, got %+v", summary)
				}
				return
			}
			if summary == nil {
				t.Fatalf("expected summary, got nil")
			}
			if summary.TimeRange != tt.wantRange {
				t.Fatalf("expected time range %q, got %q", tt.wantRange, summary.TimeRange)
			}
			if !equalInts(summary.CodeSparkline, tt.wantCode) {
				t.Fatalf("expected code sparkline %v, got %v", tt.wantCode, summary.CodeSparkline)
			}
			if len(summary.InsightSparklines) != len(tt.wantInsights) {
				t.Fatalf("expected %d insight sparklines, got %d", len(tt.wantInsights), len(summary.InsightSparklines))
			}
			for name, want := range tt.wantInsights {
				if got := summary.InsightSparklines[name]; !equalInts(got, want) {
					t.Fatalf("expected %s sparkline %v, got %v", name, want, got)
				}
			}
		})
	}
}

func TestTrendAnalyzerGenerateComparisonReport(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	base := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		current        *models.Summary
		previous       *models.Summary
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:     "no previous",
			current:  runWith(base, 10, nil),
			previous: nil,
			wantContains: []string{
				"No previous run to compare with",
			},
		},
		{
			name:     "changed insights",
			current:  runWith(base.Add(24*time.Hour), 1500, map[string]int{"Logs": 3, "TODOs": 2}),
			previous: runWith(base, 1000, map[string]int{"Logs": 1, "TODOs": 2}),
			wantContains: []string{
				"Comparison: " + formatDate(base.Add(24*time.Hour)) + " vs " + formatDate(base),
				"Code lines: 1000 → 1500 (+500)",
				"Logs: 1 → 3 (+2, 200.0%) ↑",
			},
			wantNotContain: []string{
				"TODOs:",
			},
		},
		{
			name:     "fewer matches",
			current:  runWith(base.Add(24*time.Hour), 900, map[string]int{"Logs": 1}),
			previous: runWith(base, 1000, map[string]int{"Logs": 4}),
			wantContains: []string{
				"Code lines: 1000 → 900 (-100)",
				"Logs: 4 → 1 (-3, -75.0%) ↓",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			report := analyzer.GenerateComparisonReport(tt.current, tt.previous)
			for _, expected := range tt.wantContains {
				if !strings.Contains(report, expected) {
					t.Fatalf("expected report to contain %q, got %q", expected, report)
				}
			}
			for _, unexpected := range tt.wantNotContain {
				if strings.Contains(report, unexpected) {
					t.Fatalf("expected report to not contain %q, got %q", unexpected, report)
				}
			}
		})
	}
}

func TestGetTrendIndicator(t *testing.T) {
	tests := []struct {
		direction string
		expected  string
	}{
		{DirectionDown, "↓"},
		{DirectionUp, "↑"},
		{DirectionFlat, "→"},
		{"unknown", "?"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.direction, func(t *testing.T) {
			if got := GetTrendIndicator(tt.direction); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   string
	}{
		{"empty", nil, ""},
		{"constant", []int{5, 5, 5}, "▁▁▁"},
		{"rising", []int{0, 7}, "▁█"},
		{"middle", []int{0, 1, 7}, "▁▂█"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
