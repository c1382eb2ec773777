// Package report reads the per-file table produced by tokei and rewrites it
// with one extra right-aligned column per insight group.
package report

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// FieldWidth matches tokei's default column width.
	FieldWidth = 13

	// HeaderIndex is the line holding the column labels.
	HeaderIndex = 1

	// MinRuleLength is the shortest run of '=' or '-' treated as a rule.
	MinRuleLength = 10
)

var (
	equalsRule = strings.Repeat("=", MinRuleLength)
	dashesRule = strings.Repeat("-", MinRuleLength)

	equalsField = strings.Repeat("=", FieldWidth)
	dashesField = strings.Repeat("-", FieldWidth)
)

// formatField right-aligns s in a FieldWidth-cell field. Text wider than the
// field keeps its rightmost FieldWidth cells.
func formatField(s string) string {
	w := runewidth.StringWidth(s)
	if w > FieldWidth {
		s = rightmostCells(s, FieldWidth)
		w = runewidth.StringWidth(s)
	}
	return strings.Repeat(" ", FieldWidth-w) + s
}

func formatCount(n int) string {
	return formatField(strconv.Itoa(n))
}

// rightmostCells returns the longest suffix of s that fits in width cells.
func rightmostCells(s string, width int) string {
	runes := []rune(s)
	cells := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if cells+rw > width {
			break
		}
		cells += rw
		i--
	}
	return string(runes[i:])
}
