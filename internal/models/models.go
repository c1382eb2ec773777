package models

import (
	"path/filepath"
	"time"
)

// FileStat is one data row of a report: tokei's counts plus insight counts.
type FileStat struct {
	Path     string         `json:"path"`
	Lines    int            `json:"lines"`
	Code     int            `json:"code"`
	Comments int            `json:"comments"`
	Blanks   int            `json:"blanks"`
	Insights map[string]int `json:"insights,omitempty"`
}

// Ext returns the file extension including the dot, or "" if none.
func (f FileStat) Ext() string {
	return filepath.Ext(f.Path)
}

// CommentRatio is comments / (code + comments + blanks).
func (f FileStat) CommentRatio() float64 {
	return Ratio(f.Comments, f.Code+f.Comments+f.Blanks)
}

// LineTotals accumulates line counts across files.
type LineTotals struct {
	Files    int `json:"files"`
	Lines    int `json:"lines"`
	Code     int `json:"code"`
	Comments int `json:"comments"`
	Blanks   int `json:"blanks"`
}

// Add folds one file into the totals.
func (t *LineTotals) Add(f FileStat) {
	t.Files++
	t.Lines += f.Lines
	t.Code += f.Code
	t.Comments += f.Comments
	t.Blanks += f.Blanks
}

// CommentRatio is comments / (code + comments + blanks).
func (t LineTotals) CommentRatio() float64 {
	return Ratio(t.Comments, t.Code+t.Comments+t.Blanks)
}

// FileCount pairs a path with an insight count.
type FileCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// InsightStat aggregates one insight column across files.
type InsightStat struct {
	Name             string      `json:"name"`
	Total            int         `json:"total"`
	FilesWithMatches int         `json:"files_with_matches"`
	Density          float64     `json:"density_per_kloc"`
	TopFiles         []FileCount `json:"top_files,omitempty"`
}

// ExtensionStat aggregates files sharing an extension.
type ExtensionStat struct {
	Extension string         `json:"extension"`
	Totals    LineTotals     `json:"totals"`
	Insights  map[string]int `json:"insights,omitempty"`
}

// Summary is the aggregated view of one augmented report.
type Summary struct {
	ID           string          `json:"id,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	BasePath     string          `json:"base_path"`
	ReportFile   string          `json:"report_file,omitempty"`
	Filter       string          `json:"filter,omitempty"`
	Totals       LineTotals      `json:"totals"`
	CommentRatio float64         `json:"comment_ratio"`
	Insights     []InsightStat   `json:"insights"`
	Extensions   []ExtensionStat `json:"extensions"`
	Files        []FileStat      `json:"files,omitempty"`
}

// Insight returns the named insight stat.
func (s *Summary) Insight(name string) (InsightStat, bool) {
	for _, is := range s.Insights {
		if is.Name == name {
			return is, true
		}
	}
	return InsightStat{}, false
}

// TreeNode is a directory or file in the source hierarchy.
type TreeNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Parent   string         `json:"parent"`
	Code     int            `json:"code"`
	Comments int            `json:"comments"`
	Blanks   int            `json:"blanks"`
	Insights map[string]int `json:"insights,omitempty"`
	Children []*TreeNode    `json:"children,omitempty"`
}

// IsLeaf reports whether the node is a file.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Treemap holds the parallel arrays a treemap plot consumes.
type Treemap struct {
	IDs        []string         `json:"ids"`
	Names      []string         `json:"names"`
	Parents    []string         `json:"parents"`
	Values     []float64        `json:"values"`
	Colors     []float64        `json:"colors"`
	RangeColor [2]float64       `json:"range_color"`
	Code       []int            `json:"code"`
	Comments   []int            `json:"comments"`
	Blanks     []int            `json:"blanks"`
	Insights   map[string][]int `json:"insights,omitempty"`
}

// Trend compares the latest summary against a previous one.
type Trend struct {
	ComparedWith time.Time      `json:"compared_with"`
	PreviousCode int            `json:"previous_code"`
	CurrentCode  int            `json:"current_code"`
	CodeChange   int            `json:"code_change"`
	Insights     []InsightTrend `json:"insights"`
}

// InsightTrend is the change of one insight between two runs.
type InsightTrend struct {
	Name          string  `json:"name"`
	Previous      int     `json:"previous"`
	Current       int     `json:"current"`
	Change        int     `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Direction     string  `json:"direction"` // up, down, flat
}

// TrendSummary describes several stored runs.
type TrendSummary struct {
	RunsAnalyzed      int              `json:"runs_analyzed"`
	TimeRange         string           `json:"time_range"`
	CodeSparkline     []int            `json:"code_sparkline"`
	InsightSparklines map[string][]int `json:"insight_sparklines"`
}

// Ratio returns part/whole, or 0 when whole is 0.
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
