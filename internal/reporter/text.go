package reporter

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ppiankov/codeinsight/internal/aggregator"
	"github.com/ppiankov/codeinsight/internal/models"
)

// noExtension labels files without an extension.
const noExtension = "(none)"

// TextReporter generates human-readable text reports
type TextReporter struct {
	writer  io.Writer
	printer *message.Printer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer:  writer,
		printer: message.NewPrinter(language.English),
	}
}

// Generate creates a text report from a summary. trend may be nil.
func (r *TextReporter) Generate(summary *models.Summary, trend *models.Trend) error {
	// Header
	r.printHeader()
	r.printf("Timestamp: %s\n", formatTimestamp(summary.Timestamp))
	r.printf("Base Path: %s\n", summary.BasePath)
	if summary.Filter != "" {
		r.printf("Filter:    %s\n", summary.Filter)
	}
	r.printf("\n")

	r.printOverallSummary(summary)
	r.printExtensions(summary.Extensions)
	r.printInsights(summary.Insights)

	// Trend summary if available
	if trend != nil {
		r.printf("\n")
		r.printTrendInfo(trend)
	}

	return nil
}

// GenerateHistory prints the sparklines of several stored runs.
func (r *TextReporter) GenerateHistory(ts *models.TrendSummary, insights []string) error {
	r.printf("Run History (%d runs, %s):\n", ts.RunsAnalyzed, ts.TimeRange)
	r.printf("--------------------------------------------------\n")
	r.printf("  %-12s %s  %d\n", "Code", aggregator.Sparkline(ts.CodeSparkline), last(ts.CodeSparkline))
	for _, name := range insights {
		line, ok := ts.InsightSparklines[name]
		if !ok {
			continue
		}
		r.printf("  %-12s %s  %d\n", name, aggregator.Sparkline(line), last(line))
	}
	return nil
}

// printHeader prints the report header
func (r *TextReporter) printHeader() {
	r.printf("╔════════════════════════════════════════════╗\n")
	r.printf("║          Code Insight Summary              ║\n")
	r.printf("╚════════════════════════════════════════════╝\n\n")
}

// printOverallSummary prints the overall summary section
func (r *TextReporter) printOverallSummary(s *models.Summary) {
	r.printf("Overall Summary:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Files:    %d\n", s.Totals.Files)
	r.printf("  Lines:    %d\n", s.Totals.Lines)
	r.printf("  Code:     %d\n", s.Totals.Code)
	r.printf("  Comments: %d (%.1f%%)\n", s.Totals.Comments, s.CommentRatio*100)
	r.printf("  Blanks:   %d\n", s.Totals.Blanks)
	r.printf("\n")
}

// printExtensions prints the per-extension table
func (r *TextReporter) printExtensions(exts []models.ExtensionStat) {
	if len(exts) == 0 {
		return
	}
	r.printf("By Extension:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  %-10s %6s %10s %10s %9s\n", "Ext", "Files", "Code", "Comments", "Comment%")
	for _, es := range exts {
		ext := es.Extension
		if ext == "" {
			ext = noExtension
		}
		r.printf("  %-10s %6d %10d %10d %8.1f%%\n",
			ext, es.Totals.Files, es.Totals.Code, es.Totals.Comments, es.Totals.CommentRatio()*100)
	}
	r.printf("\n")
}

// printInsights prints one block per insight column
func (r *TextReporter) printInsights(insights []models.InsightStat) {
	if len(insights) == 0 {
		r.printf("No insight columns in report.\n")
		return
	}
	r.printf("Insights:\n")
	r.printf("--------------------------------------------------\n")
	for _, is := range insights {
		r.printf("  %s: %d matches in %d files (%.2f per 1k code lines)\n",
			is.Name, is.Total, is.FilesWithMatches, is.Density)
		for _, fc := range is.TopFiles {
			r.printf("    %6d  %s\n", fc.Count, fc.Path)
		}
	}
}

// printTrendInfo prints trend information
func (r *TextReporter) printTrendInfo(trend *models.Trend) {
	r.printf("Trend Analysis:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Code: %d → %d lines (%s%d)\n", trend.PreviousCode, trend.CurrentCode, plus(trend.CodeChange), trend.CodeChange)
	for _, it := range trend.Insights {
		r.printf("  %s: %d → %d (%.1f%%) %s\n",
			it.Name, it.Previous, it.Current, it.ChangePercent,
			aggregator.GetTrendIndicator(it.Direction))
	}
	r.printf("  Compared With: %s\n", formatTimestamp(trend.ComparedWith))
}

// printf writes through the English message printer so counts get
// thousands separators.
func (r *TextReporter) printf(format string, args ...interface{}) {
	r.printer.Fprintf(r.writer, format, args...)
}

func plus(n int) string {
	if n > 0 {
		return "+"
	}
	return ""
}

func last(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// formatTimestamp formats a timestamp for display
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
