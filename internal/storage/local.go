package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/codeinsight/internal/models"
)

const runSuffix = "-summary.json"

// ErrNoRuns is returned when the history is empty.
var ErrNoRuns = errors.New("no runs found")

// LocalStorage implements Storage interface using local filesystem
type LocalStorage struct {
	baseDir string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocal creates a new local storage instance
func NewLocal(baseDir string) *LocalStorage {
	return &LocalStorage{
		baseDir: baseDir,
	}
}

// SaveRun stores a summary to disk. Per-file rows are not persisted;
// history only needs the aggregates.
func (s *LocalStorage) SaveRun(summary *models.Summary) error {
	// Create runs directory
	runsDir := filepath.Join(s.baseDir, "runs")
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}

	record := *summary
	record.Files = nil

	// Generate filename with timestamp
	filename := s.formatTimestamp(summary.Timestamp) + runSuffix
	path := filepath.Join(runsDir, filename)

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(&record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadRun loads a summary from a specific timestamp
func (s *LocalStorage) LoadRun(timestamp time.Time) (*models.Summary, error) {
	filename := s.formatTimestamp(timestamp) + runSuffix
	path := filepath.Join(s.baseDir, "runs", filename)

	return s.loadRunFromFile(path)
}

// GetLatestRun retrieves the most recent summary
func (s *LocalStorage) GetLatestRun() (*models.Summary, error) {
	timestamps, err := s.ListRuns()
	if err != nil {
		return nil, err
	}

	if len(timestamps) == 0 {
		return nil, ErrNoRuns
	}

	// Get the latest timestamp
	latest := timestamps[len(timestamps)-1]
	return s.LoadRun(latest)
}

// GetLastNRuns retrieves the last N summaries
func (s *LocalStorage) GetLastNRuns(n int) ([]*models.Summary, error) {
	timestamps, err := s.ListRuns()
	if err != nil {
		return nil, err
	}

	if len(timestamps) == 0 {
		return nil, ErrNoRuns
	}

	// Get the last N timestamps
	start := len(timestamps) - n
	if start < 0 {
		start = 0
	}

	selectedTimestamps := timestamps[start:]
	runs := make([]*models.Summary, 0, len(selectedTimestamps))

	for _, timestamp := range selectedTimestamps {
		run, err := s.LoadRun(timestamp)
		if err != nil {
			// Skip runs that fail to load but continue with others
			continue
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// ListRuns returns all available run timestamps sorted chronologically
func (s *LocalStorage) ListRuns() ([]time.Time, error) {
	runsDir := filepath.Join(s.baseDir, "runs")

	// Check if directory exists
	if _, err := os.Stat(runsDir); os.IsNotExist(err) {
		return []time.Time{}, nil
	}

	// Read directory
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var timestamps []time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Only process summary files
		if !strings.HasSuffix(entry.Name(), runSuffix) {
			continue
		}

		// Parse timestamp from filename
		// Format: 2006-01-02T15-04-05-summary.json
		timestampStr := strings.TrimSuffix(entry.Name(), runSuffix)
		timestamp, err := s.parseTimestamp(timestampStr)
		if err != nil {
			// Skip files with invalid timestamp format
			continue
		}

		timestamps = append(timestamps, timestamp)
	}

	// Sort chronologically
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	return timestamps, nil
}

// loadRunFromFile loads a summary from a file path
func (s *LocalStorage) loadRunFromFile(path string) (*models.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var summary models.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}

// formatTimestamp converts a time.Time to filename-safe format
func (s *LocalStorage) formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15-04-05")
}

// parseTimestamp converts filename format back to time.Time
func (s *LocalStorage) parseTimestamp(str string) (time.Time, error) {
	return time.Parse("2006-01-02T15-04-05", str)
}

// GetStoragePath returns the full path to the storage directory
func (s *LocalStorage) GetStoragePath() string {
	return s.baseDir
}

// EnsureDirectoryExists creates the storage directory if it doesn't exist
func (s *LocalStorage) EnsureDirectoryExists() error {
	return os.MkdirAll(filepath.Join(s.baseDir, "runs"), 0755)
}
