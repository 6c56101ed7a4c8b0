package repositories

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// AllowListRepository interface defines allow-list persistence operations.
// The persisted form is a flat text file with one integer identity per line.
type AllowListRepository interface {
	// Load reads the persisted set. When no file exists it returns a
	// singleton set containing only the configured super-admin identity.
	// A malformed line is an error: the process must never silently admit
	// an invalid identity.
	Load() (map[int64]struct{}, error)

	// Save overwrites the persisted set. The write is all-or-nothing: a
	// concurrent Load never observes a partially written file.
	Save(users map[int64]struct{}) error
}

// allowListRepository implements AllowListRepository interface
type allowListRepository struct {
	path         string
	superAdminID int64
}

// NewAllowListRepository creates a new allow-list repository backed by the
// given file path.
func NewAllowListRepository(path string, superAdminID int64) AllowListRepository {
	return &allowListRepository{path: path, superAdminID: superAdminID}
}

// Load reads the allow list from disk
func (r *allowListRepository) Load() (map[int64]struct{}, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[int64]struct{}{r.superAdminID: {}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read allow list: %w", err)
	}

	users := make(map[int64]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed allow list entry %q: %w", line, err)
		}
		users[id] = struct{}{}
	}
	return users, nil
}

// Save writes the allow list to disk via a temp file and rename, so a
// reload racing the write sees either the old set or the new one.
func (r *allowListRepository) Save(users map[int64]struct{}) error {
	ids := make([]int64, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteByte('\n')
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write allow list: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit allow list: %w", err)
	}
	return nil
}
