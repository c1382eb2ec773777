package aggregator

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/codeinsight/internal/models"
	"github.com/ppiankov/codeinsight/internal/report"
)

// DefaultTopFiles is how many files are listed per insight.
const DefaultTopFiles = 5

// Aggregator turns a parsed report into a Summary
type Aggregator struct {
	TopFiles int
	now      func() time.Time
}

// New creates a new aggregator
func New() *Aggregator {
	return &Aggregator{
		TopFiles: DefaultTopFiles,
		now:      time.Now,
	}
}

// Summarize aggregates the files of table. When ext is non-empty only
// files whose path contains ext are included.
func (a *Aggregator) Summarize(table *report.Table, basePath, ext string) *models.Summary {
	summary := &models.Summary{
		Timestamp:  a.now().UTC(),
		BasePath:   basePath,
		Filter:     ext,
		Insights:   []models.InsightStat{},
		Extensions: []models.ExtensionStat{},
	}

	files := FilterFiles(table.Files, ext)
	summary.Files = files

	byExt := make(map[string]*models.ExtensionStat)
	for _, f := range files {
		summary.Totals.Add(f)

		key := f.Ext()
		es, ok := byExt[key]
		if !ok {
			es = &models.ExtensionStat{Extension: key}
			byExt[key] = es
		}
		es.Totals.Add(f)
		for name, n := range f.Insights {
			if es.Insights == nil {
				es.Insights = make(map[string]int)
			}
			es.Insights[name] += n
		}
	}
	summary.CommentRatio = summary.Totals.CommentRatio()

	for _, es := range byExt {
		summary.Extensions = append(summary.Extensions, *es)
	}
	sort.Slice(summary.Extensions, func(i, j int) bool {
		ei, ej := summary.Extensions[i], summary.Extensions[j]
		if ei.Totals.Code != ej.Totals.Code {
			return ei.Totals.Code > ej.Totals.Code
		}
		return ei.Extension < ej.Extension
	})

	for _, name := range table.Insights {
		summary.Insights = append(summary.Insights, a.insightStat(name, files, summary.Totals.Code))
	}

	return summary
}

// insightStat totals one insight column
func (a *Aggregator) insightStat(name string, files []models.FileStat, code int) models.InsightStat {
	stat := models.InsightStat{Name: name}
	var hits []models.FileCount

	for _, f := range files {
		n := f.Insights[name]
		if n == 0 {
			continue
		}
		stat.Total += n
		stat.FilesWithMatches++
		hits = append(hits, models.FileCount{Path: f.Path, Count: n})
	}
	stat.Density = Density(stat.Total, code)

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Count != hits[j].Count {
			return hits[i].Count > hits[j].Count
		}
		return hits[i].Path < hits[j].Path
	})
	if a.TopFiles > 0 && len(hits) > a.TopFiles {
		hits = hits[:a.TopFiles]
	}
	stat.TopFiles = hits

	return stat
}

// Density is matches per 1000 lines of code.
func Density(matches, code int) float64 {
	return models.Ratio(matches, code) * 1000
}

// FilterFiles keeps files whose path contains ext. An empty ext keeps all.
func FilterFiles(files []models.FileStat, ext string) []models.FileStat {
	if ext == "" {
		return files
	}
	out := make([]models.FileStat, 0, len(files))
	for _, f := range files {
		if strings.Contains(f.Path, ext) {
			out = append(out, f)
		}
	}
	return out
}

// relativeParts splits path below basePath into its components.
func relativeParts(path, basePath string) []string {
	rel := path
	base := strings.TrimSuffix(basePath, "/")
	if base != "" && strings.HasPrefix(path, base+"/") {
		rel = path[len(base)+1:]
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")

	var parts []string
	for _, p := range strings.Split(rel, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
