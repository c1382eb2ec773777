package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/codeinsight/internal/aggregator"
	"github.com/ppiankov/codeinsight/internal/models"
	"github.com/ppiankov/codeinsight/internal/reporter"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 5

// renderHeader produces the header string from summary data.
func renderHeader(summary *models.Summary, trend *models.TrendSummary, width int) string {
	var b strings.Builder

	// Line 1: title and comment ratio
	ratioText := ratioStyle(summary.CommentRatio).Render(
		fmt.Sprintf("%.1f%% comments", summary.CommentRatio*100),
	)
	b.WriteString(fmt.Sprintf("Code Insight  %s  %s", summary.BasePath, ratioText))
	if summary.Filter != "" {
		b.WriteString(fmt.Sprintf("  [%s]", summary.Filter))
	}
	b.WriteString("\n")

	// Line 2: totals
	b.WriteString(fmt.Sprintf("Files: %s  Code: %s  Comments: %s  Blanks: %s",
		reporter.FormatCount(summary.Totals.Files),
		reporter.FormatCount(summary.Totals.Code),
		reporter.FormatCount(summary.Totals.Comments),
		reporter.FormatCount(summary.Totals.Blanks)))
	b.WriteString("\n")

	// Line 3: insight totals
	parts := make([]string, 0, len(summary.Insights))
	for _, is := range summary.Insights {
		label := fmt.Sprintf("%s:%d (%.1f/kloc)", is.Name, is.Total, is.Density)
		parts = append(parts, styleInsight.Render(label))
	}
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, "  "))
	}
	b.WriteString("\n")

	// Line 4: sparkline
	if trend != nil && len(trend.CodeSparkline) > 0 {
		b.WriteString("Code trend: ")
		b.WriteString(renderSparkline(trend.CodeSparkline))
	}

	return styleHeader.Width(width).Render(b.String())
}

// renderSparkline converts an int slice to a sparkline with its endpoints.
func renderSparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	return fmt.Sprintf("%s [%d→%d]", aggregator.Sparkline(values), values[0], values[len(values)-1])
}
