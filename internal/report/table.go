package report

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ppiankov/codeinsight/internal/models"
)

// tokeiColumns is the number of labels tokei prints in its header row:
// Language, Files, Lines, Code, Comments, Blanks.
const tokeiColumns = 6

// lineMetrics is the number of numeric columns on a tokei file row.
const lineMetrics = 4

// ErrNoHeader is returned for text too short to contain a header row.
var ErrNoHeader = errors.New("report has no header row")

// Table is the parsed form of a (possibly augmented) report.
type Table struct {
	Columns  []string          `json:"columns"`
	Insights []string          `json:"insights"`
	Files    []models.FileStat `json:"files"`
	Warnings []string          `json:"warnings,omitempty"`
}

// LoadTable reads and parses the report at path.
func LoadTable(path, basePath string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return ParseTable(string(data), basePath)
}

// ParseTable extracts the header labels and per-file rows of a report.
// Insight columns are the fixed-width fields appended after tokei's own
// labels; how many there are is read off the data rows, so a name that
// fills its whole field is still found.
func ParseTable(text, basePath string) (*Table, error) {
	lines := strings.Split(text, "\n")
	if len(lines) <= HeaderIndex {
		return nil, ErrNoHeader
	}

	var rows []Row
	for i, line := range lines {
		if row := Classify(i, line, basePath); row.Kind == KindData {
			rows = append(rows, row)
		}
	}

	t := &Table{}
	t.Columns, t.Insights = splitHeader(lines[HeaderIndex], insightCount(rows))

	for _, row := range rows {
		if row.Malformed {
			t.Warnings = append(t.Warnings, fmt.Sprintf("line %d: no file path", row.Index+1))
			continue
		}

		stat, err := parseFileRow(row, t.Insights)
		if err != nil {
			t.Warnings = append(t.Warnings, fmt.Sprintf("line %d: %v", row.Index+1, err))
			continue
		}
		t.Files = append(t.Files, stat)
	}

	return t, nil
}

// insightCount returns the number of insight columns on the first data row
// that is entirely numeric, or -1 when no row says.
func insightCount(rows []Row) int {
	for _, row := range rows {
		if row.Malformed {
			continue
		}
		values, ok := numericFields(row.Text)
		if ok && len(values) >= lineMetrics {
			return len(values) - lineMetrics
		}
	}
	return -1
}

// splitHeader separates tokei's labels from the n insight labels. Each
// insight label occupies exactly FieldWidth cells at the end of the line.
// With n unknown, or a header too narrow for n fields, labels are split on
// whitespace runs and everything after tokei's six is an insight.
func splitHeader(header string, n int) ([]string, []string) {
	tail := n * FieldWidth
	width := runewidth.StringWidth(header)
	if n < 0 || width < tail {
		columns := nonEmpty(Fields(strings.TrimSpace(header)))
		if len(columns) > tokeiColumns {
			return columns, columns[tokeiColumns:]
		}
		return columns, nil
	}

	head, rest := splitAtCell(header, width-tail)
	columns := nonEmpty(Fields(strings.TrimSpace(head)))

	var insights []string
	for i := 0; i < n; i++ {
		var field string
		field, rest = splitAtCell(rest, FieldWidth)
		insights = append(insights, strings.TrimSpace(field))
	}

	return append(columns, insights...), insights
}

// splitAtCell splits s after the given number of display cells.
func splitAtCell(s string, cells int) (string, string) {
	used := 0
	for i, r := range s {
		if used >= cells {
			return s[:i], s[i:]
		}
		used += runewidth.RuneWidth(r)
	}
	return s, ""
}

// numericFields returns the values after the path column of a data row and
// whether all of them are integers.
func numericFields(text string) ([]string, bool) {
	parts := fieldSplitter.Split(text, 2)
	if len(parts) < 2 {
		return nil, false
	}
	values := strings.Fields(parts[1])
	for _, v := range values {
		if _, err := strconv.Atoi(v); err != nil {
			return values, false
		}
	}
	return values, true
}

// parseFileRow reads the trailing numeric columns of a data row. The last
// len(insights) values are insight counts, the four before them are
// lines, code, comments and blanks.
func parseFileRow(row Row, insights []string) (models.FileStat, error) {
	values, _ := numericFields(row.Text)

	need := lineMetrics + len(insights)
	if len(values) < need {
		return models.FileStat{}, fmt.Errorf("expected %d numeric columns, got %d", need, len(values))
	}
	values = values[len(values)-need:]

	nums := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.FileStat{}, fmt.Errorf("column %d: %q is not a number", i+2, v)
		}
		nums[i] = n
	}
	stat := models.FileStat{
		Path:     row.Path,
		Lines:    nums[0],
		Code:     nums[1],
		Comments: nums[2],
		Blanks:   nums[3],
	}
	if len(insights) > 0 {
		stat.Insights = make(map[string]int, len(insights))
		for i, name := range insights {
			stat.Insights[name] = nums[lineMetrics+i]
		}
	}
	return stat, nil
}

func nonEmpty(fields []string) []string {
	out := fields[:0:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
