package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/codeinsight/internal/models"
)

// Trend directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// TrendAnalyzer analyzes trends across multiple runs
type TrendAnalyzer struct{}

// NewTrendAnalyzer creates a new trend analyzer
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{}
}

// CompareRuns compares current summary with previous one
func (t *TrendAnalyzer) CompareRuns(current, previous *models.Summary) *models.Trend {
	if previous == nil {
		return nil
	}

	trend := &models.Trend{
		ComparedWith: previous.Timestamp,
		PreviousCode: previous.Totals.Code,
		CurrentCode:  current.Totals.Code,
		CodeChange:   current.Totals.Code - previous.Totals.Code,
		Insights:     []models.InsightTrend{},
	}

	for _, name := range insightNames(current, previous) {
		prev := insightTotal(previous, name)
		curr := insightTotal(current, name)
		trend.Insights = append(trend.Insights, newInsightTrend(name, prev, curr))
	}

	return trend
}

func newInsightTrend(name string, previous, current int) models.InsightTrend {
	change := current - previous

	changePercent := 0.0
	if previous > 0 {
		changePercent = float64(change) / float64(previous) * 100.0
	} else if current > 0 {
		// New insight appeared
		changePercent = 100.0
	}

	direction := DirectionFlat
	if change > 0 {
		direction = DirectionUp
	} else if change < 0 {
		direction = DirectionDown
	}

	return models.InsightTrend{
		Name:          name,
		Previous:      previous,
		Current:       current,
		Change:        change,
		ChangePercent: changePercent,
		Direction:     direction,
	}
}

// AnalyzeLastNRuns analyzes trends across last N runs, oldest first
func (t *TrendAnalyzer) AnalyzeLastNRuns(runs []*models.Summary) *models.TrendSummary {
	if len(runs) == 0 {
		return nil
	}

	summary := &models.TrendSummary{
		RunsAnalyzed:      len(runs),
		InsightSparklines: make(map[string][]int),
	}

	// Determine time range
	if len(runs) > 1 {
		earliest := runs[0].Timestamp
		latest := runs[len(runs)-1].Timestamp
		days := int(latest.Sub(earliest).Hours() / 24)
		summary.TimeRange = fmt.Sprintf("Last %d days", days)
	} else {
		summary.TimeRange = "Single run"
	}

	summary.CodeSparkline = make([]int, len(runs))
	for i, run := range runs {
		summary.CodeSparkline[i] = run.Totals.Code
	}

	for _, name := range insightNames(runs...) {
		line := make([]int, len(runs))
		for i, run := range runs {
			line[i] = insightTotal(run, name)
		}
		summary.InsightSparklines[name] = line
	}

	return summary
}

// GenerateComparisonReport creates a detailed comparison between two runs
func (t *TrendAnalyzer) GenerateComparisonReport(current, previous *models.Summary) string {
	if previous == nil {
		return "No previous run to compare with"
	}

	trend := t.CompareRuns(current, previous)

	var b strings.Builder
	fmt.Fprintf(&b, "Comparison: %s vs %s\n\n",
		formatDate(current.Timestamp),
		formatDate(previous.Timestamp))

	fmt.Fprintf(&b, "Code lines: %d → %d (%s)\n",
		trend.PreviousCode, trend.CurrentCode, signed(trend.CodeChange))

	for _, it := range trend.Insights {
		if it.Change == 0 {
			continue // Skip unchanged insights
		}
		fmt.Fprintf(&b, "%s: %d → %d (%s, %.1f%%) %s\n",
			it.Name, it.Previous, it.Current, signed(it.Change), it.ChangePercent,
			GetTrendIndicator(it.Direction))
	}

	return b.String()
}

// insightNames returns every insight name present in the given runs,
// in first-seen order.
func insightNames(runs ...*models.Summary) []string {
	seen := map[string]bool{}
	var names []string
	for _, run := range runs {
		if run == nil {
			continue
		}
		for _, is := range run.Insights {
			if !seen[is.Name] {
				seen[is.Name] = true
				names = append(names, is.Name)
			}
		}
	}
	return names
}

func insightTotal(s *models.Summary, name string) int {
	is, _ := s.Insight(name)
	return is.Total
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// formatDate formats a timestamp for display
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// GetTrendIndicator returns a visual indicator for trend direction
func GetTrendIndicator(direction string) string {
	switch direction {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	case DirectionFlat:
		return "→"
	default:
		return "?"
	}
}

// Sparkline renders values as a row of block characters.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = (v - lo) * (len(blocks) - 1) / (hi - lo)
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}
