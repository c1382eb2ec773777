package report

import (
	"regexp"
	"strings"
)

// Kind classifies a report line.
type Kind int

const (
	KindOther Kind = iota
	KindHeader
	KindData
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindData:
		return "data"
	case KindSeparator:
		return "separator"
	default:
		return "other"
	}
}

// fieldSplitter separates the path column from the numeric columns.
var fieldSplitter = regexp.MustCompile(`\s{2,}`)

// Row is one classified line of the report.
type Row struct {
	Index int
	Text  string
	Kind  Kind

	// Path is set for data rows.
	Path string
	// Malformed marks a data row whose path could not be extracted.
	Malformed bool

	// Equals and Dashes are set for separator rows.
	Equals bool
	Dashes bool
}

// Classify decides what a line is from its index and text alone.
func Classify(index int, text, basePath string) Row {
	row := Row{Index: index, Text: text}

	switch {
	case index == HeaderIndex:
		row.Kind = KindHeader
	case strings.HasPrefix(text, " "+basePath):
		row.Kind = KindData
		row.Path, row.Malformed = extractPath(text)
	default:
		row.Equals = strings.Contains(text, equalsRule)
		row.Dashes = strings.Contains(text, dashesRule)
		if row.Equals || row.Dashes {
			row.Kind = KindSeparator
		}
	}

	return row
}

// extractPath returns the first whitespace-run-separated field with its
// single leading space removed.
func extractPath(text string) (string, bool) {
	first := fieldSplitter.Split(text, 2)[0]
	path, ok := strings.CutPrefix(first, " ")
	if !ok || path == "" {
		return "", true
	}
	return path, false
}

// Fields splits a line on runs of two or more whitespace characters.
func Fields(text string) []string {
	return fieldSplitter.Split(text, -1)
}
