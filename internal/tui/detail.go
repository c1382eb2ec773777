package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/codeinsight/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 5

// renderDetail produces the detail view for a selected file.
func renderDetail(file *models.FileStat, insights []string, width int) string {
	if file == nil {
		return styleDetailPanel.Width(width).Render("No file selected")
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", file.Path))
	ratio := ratioStyle(file.CommentRatio()).Render(fmt.Sprintf("%.1f%%", file.CommentRatio()*100))
	b.WriteString(fmt.Sprintf("Lines: %d  Code: %d  Comments: %d (%s)  Blanks: %d\n",
		file.Lines, file.Code, file.Comments, ratio, file.Blanks))

	parts := make([]string, 0, len(insights))
	for _, name := range insights {
		parts = append(parts, fmt.Sprintf("%s: %d", name, file.Insights[name]))
	}
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, "  "))
	}

	return styleDetailPanel.Width(width).Render(b.String())
}
