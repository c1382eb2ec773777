package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/codeinsight/internal/models"
)

// JSONReporter generates machine-readable JSON reports
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes the summary, with the trend when one is given.
func (r *JSONReporter) Generate(summary *models.Summary, trend *models.Trend) error {
	out := struct {
		*models.Summary
		Trend *models.Trend `json:"trend,omitempty"`
	}{
		Summary: summary,
		Trend:   trend,
	}
	return r.encode(out)
}

// GenerateSummaryOnly writes the summary without the per-file rows
func (r *JSONReporter) GenerateSummaryOnly(summary *models.Summary, trend *models.Trend) error {
	trimmed := *summary
	trimmed.Files = nil
	return r.Generate(&trimmed, trend)
}

// GenerateTreemap writes the treemap arrays
func (r *JSONReporter) GenerateTreemap(tm *models.Treemap) error {
	return r.encode(tm)
}

// GenerateHistory writes the trend summary of stored runs
func (r *JSONReporter) GenerateHistory(ts *models.TrendSummary) error {
	return r.encode(ts)
}

func (r *JSONReporter) encode(v interface{}) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}
