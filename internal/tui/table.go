package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ppiankov/codeinsight/internal/models"
	"github.com/ppiankov/codeinsight/internal/report"
)

const pathColumnWidth = 40

// tableColumns returns the fixed columns followed by one per insight.
func tableColumns(insights []string) []table.Column {
	cols := []table.Column{
		{Title: "Path", Width: pathColumnWidth},
		{Title: "Code", Width: 8},
		{Title: "Comments", Width: 9},
		{Title: "Cmt%", Width: 6},
	}
	for _, name := range insights {
		cols = append(cols, table.Column{Title: truncate(name, report.FieldWidth), Width: report.FieldWidth})
	}
	return cols
}

// buildRows converts file stats to table rows.
func buildRows(files []models.FileStat, insights []string) []table.Row {
	rows := make([]table.Row, 0, len(files))
	for _, f := range files {
		row := table.Row{
			truncate(f.Path, pathColumnWidth),
			fmt.Sprintf("%d", f.Code),
			fmt.Sprintf("%d", f.Comments),
			fmt.Sprintf("%.1f", f.CommentRatio()*100),
		}
		for _, name := range insights {
			row = append(row, fmt.Sprintf("%d", f.Insights[name]))
		}
		rows = append(rows, row)
	}
	return rows
}

// truncate shortens s to maxLen display cells, keeping its end so file
// names stay visible.
func truncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return tail(s, maxLen)
	}
	return ellipsis + tail(s, maxLen-len(ellipsis))
}

// tail returns the longest suffix of s at most width cells wide.
func tail(s string, width int) string {
	runes := []rune(s)
	used := 0
	i := len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if used+w > width {
			break
		}
		used += w
		i--
	}
	return string(runes[i:])
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
