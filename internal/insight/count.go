package insight

import (
	"os"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of scanning one file for one group.
// Unreadable files are not errors: they report Readable=false and Count=0.
type Result struct {
	Count    int  `json:"count"`
	Readable bool `json:"readable"`
}

// CountMatches returns the number of lines in path matching at least one
// pattern in g. Missing, unreadable or non-UTF-8 files count as zero.
func CountMatches(path string, g *Group) int {
	return Scan(path, g).Count
}

// Scan counts matching lines in path for g and records whether the file
// could be read as text.
func Scan(path string, g *Group) Result {
	lines, ok := readLines(path)
	if !ok {
		return Result{}
	}
	return Result{Count: countLines(lines, g), Readable: true}
}

// ScanAll reads path once and counts every group of the catalog, in order.
func ScanAll(path string, catalog Catalog) []Result {
	results := make([]Result, len(catalog))
	lines, ok := readLines(path)
	if !ok {
		return results
	}
	for i, g := range catalog {
		results[i] = Result{Count: countLines(lines, g), Readable: true}
	}
	return results
}

// CountText counts matching lines of already loaded content.
func CountText(content string, g *Group) int {
	return countLines(strings.Split(content, "\n"), g)
}

func countLines(lines []string, g *Group) int {
	n := 0
	for _, line := range lines {
		if g.Match(line) {
			n++
		}
	}
	return n
}

// readLines splits on '\n' only; carriage returns stay part of the line.
func readLines(path string) ([]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if !utf8.Valid(data) {
		return nil, false
	}
	return strings.Split(string(data), "\n"), true
}
