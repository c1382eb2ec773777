package storage

import (
	"time"

	"github.com/ppiankov/codeinsight/internal/models"
)

// Storage defines the interface for persisting run summaries
type Storage interface {
	// SaveRun stores a summary, assigning it an ID when it has none
	SaveRun(summary *models.Summary) error

	// LoadRun loads a summary from a specific timestamp
	LoadRun(timestamp time.Time) (*models.Summary, error)

	// GetLatestRun retrieves the most recent summary
	GetLatestRun() (*models.Summary, error)

	// GetLastNRuns retrieves the last N summaries, oldest first
	GetLastNRuns(n int) ([]*models.Summary, error)

	// ListRuns returns all available run timestamps
	ListRuns() ([]time.Time, error)
}
