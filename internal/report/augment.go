package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ppiankov/codeinsight/internal/insight"
	"github.com/sourcegraph/conc/iter"
)

// Outcome says whether Augment rewrote the report.
type Outcome int

const (
	// OutcomeNoop means the report could not be read and nothing was written.
	OutcomeNoop Outcome = iota
	// OutcomeWritten means the augmented report replaced the original.
	OutcomeWritten
)

func (o Outcome) String() string {
	if o == OutcomeWritten {
		return "written"
	}
	return "noop"
}

// ProgressFunc receives the number of rows processed so far.
type ProgressFunc func(done, total int)

// SkippedRow is a data row left untouched because its path was unusable.
type SkippedRow struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Result summarizes one augmentation.
type Result struct {
	Outcome  Outcome      `json:"outcome"`
	Rows     int          `json:"rows"`
	DataRows int          `json:"data_rows"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
}

type options struct {
	workers  int
	progress ProgressFunc
}

// Option configures AugmentLines and Augment.
type Option func(*options)

// WithWorkers sets how many rows are counted concurrently. Values below 1
// mean one worker. Output order never depends on this.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress installs a progress callback. Calls are serialized.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// AugmentLines returns lines with one column per group appended to the
// header, data and separator rows. The input slice is not modified.
func AugmentLines(lines []string, basePath string, catalog insight.Catalog, opts ...Option) ([]string, Result) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	rows := make([]Row, len(lines))
	for i, line := range lines {
		rows[i] = Classify(i, line, basePath)
	}

	var (
		mu   sync.Mutex
		done int
	)
	tick := func() {
		if o.progress == nil {
			return
		}
		mu.Lock()
		done++
		o.progress(done, len(rows))
		mu.Unlock()
	}

	mapper := iter.Mapper[Row, string]{MaxGoroutines: o.workers}
	out := mapper.Map(rows, func(row *Row) string {
		defer tick()
		return augmentRow(*row, catalog)
	})

	res := Result{Rows: len(rows)}
	for _, row := range rows {
		if row.Kind != KindData {
			continue
		}
		res.DataRows++
		if row.Malformed {
			res.Skipped = append(res.Skipped, SkippedRow{Index: row.Index, Text: row.Text})
		}
	}

	return out, res
}

// augmentRow builds the rewritten text of a single row.
func augmentRow(row Row, catalog insight.Catalog) string {
	var b strings.Builder
	b.WriteString(row.Text)

	switch row.Kind {
	case KindHeader:
		for _, g := range catalog {
			b.WriteString(formatField(g.Name))
		}
	case KindData:
		if row.Malformed {
			break
		}
		for _, res := range insight.ScanAll(row.Path, catalog) {
			b.WriteString(formatCount(res.Count))
		}
	case KindSeparator:
		if row.Equals {
			b.WriteString(equalsField)
		}
		if row.Dashes {
			b.WriteString(dashesField)
		}
	}

	return b.String()
}

// Augment rewrites the report at path in place. A report that cannot be
// read as text is left alone and reported as OutcomeNoop without error.
func Augment(path, basePath string, catalog insight.Catalog, opts ...Option) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(data) {
		return Result{Outcome: OutcomeNoop}, nil
	}

	lines := strings.Split(string(data), "\n")
	augmented, res := AugmentLines(lines, basePath, catalog, opts...)

	if err := writeFileAtomic(path, []byte(strings.Join(augmented, "\n"))); err != nil {
		return res, fmt.Errorf("write augmented report: %w", err)
	}

	res.Outcome = OutcomeWritten
	return res, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path, keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
