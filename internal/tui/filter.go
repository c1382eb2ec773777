package tui

import (
	"sort"
	"strings"

	"github.com/ppiankov/codeinsight/internal/models"
)

// filterState holds current active filters.
type filterState struct {
	Ext        string
	SearchText string
}

// sortField enumerates columns that can be sorted. Values from
// sortByInsight onward select insight columns by offset.
type sortField int

const (
	sortByCode sortField = iota
	sortByPath
	sortByCommentRatio
	sortByInsight
)

// applyFilters returns files matching all active filters.
func applyFilters(files []models.FileStat, f filterState) []models.FileStat {
	result := make([]models.FileStat, 0, len(files))
	searchLower := strings.ToLower(f.SearchText)

	for _, file := range files {
		if f.Ext != "" && extLabel(file.Ext()) != f.Ext {
			continue
		}
		if searchLower != "" && !strings.Contains(strings.ToLower(file.Path), searchLower) {
			continue
		}
		result = append(result, file)
	}
	return result
}

// sortFiles sorts a slice of files in place by the given field.
func sortFiles(files []models.FileStat, field sortField, insights []string) {
	sort.SliceStable(files, func(i, j int) bool {
		switch {
		case field == sortByCode:
			return files[i].Code > files[j].Code
		case field == sortByPath:
			return files[i].Path < files[j].Path
		case field == sortByCommentRatio:
			return files[i].CommentRatio() < files[j].CommentRatio()
		case int(field-sortByInsight) < len(insights):
			name := insights[field-sortByInsight]
			return files[i].Insights[name] > files[j].Insights[name]
		default:
			return false
		}
	})
}

// sortFieldCount is the number of sortable columns for the given insights.
func sortFieldCount(insights []string) int {
	return int(sortByInsight) + len(insights)
}

// uniqueExts returns deduplicated, sorted extension labels.
func uniqueExts(files []models.FileStat) []string {
	seen := make(map[string]bool)
	var exts []string
	for _, file := range files {
		label := extLabel(file.Ext())
		if !seen[label] {
			seen[label] = true
			exts = append(exts, label)
		}
	}
	sort.Strings(exts)
	return exts
}

func extLabel(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField, insights []string) string {
	switch {
	case f == sortByCode:
		return "code"
	case f == sortByPath:
		return "path"
	case f == sortByCommentRatio:
		return "comment ratio"
	case f >= sortByInsight && int(f-sortByInsight) < len(insights):
		return insights[f-sortByInsight]
	default:
		return "unknown"
	}
}
