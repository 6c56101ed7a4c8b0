package repositories

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bekzodm/qrkod-bot/models"
)

// ErrLogNotFound is returned by ReadAll when no activity has been
// recorded yet.
var ErrLogNotFound = errors.New("activity log not found")

// ActivityLogRepository interface defines the process-wide append-only
// activity record. One timestamped line per event, single growing file,
// never rotated here.
type ActivityLogRepository interface {
	// Append records one event line with the current timestamp.
	Append(event string) error

	// ReadAll returns the full log text, or ErrLogNotFound when the file
	// does not exist.
	ReadAll() (string, error)
}

// activityLogRepository implements ActivityLogRepository interface
type activityLogRepository struct {
	path string
	mu   sync.Mutex
}

// NewActivityLogRepository creates a new activity log repository backed by
// the given file path.
func NewActivityLogRepository(path string) ActivityLogRepository {
	return &activityLogRepository{path: path}
}

// Append writes one timestamped event line
func (r *activityLogRepository) Append(event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open activity log: %w", err)
	}
	defer f.Close()

	line := models.FormatTimestamp(time.Now().UTC()) + " - " + event + "\n"
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// ReadAll returns the entire log content
func (r *activityLogRepository) ReadAll() (string, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return "", ErrLogNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read activity log: %w", err)
	}
	return string(data), nil
}
