package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bekzodm/qrkod-bot/repositories"
)

// ErrNotPermitted marks an administrative call by a non-admin identity.
// Callers must not reply to the invoker: probers get no confirmation
// that an admin surface exists.
var ErrNotPermitted = errors.New("not permitted")

// ErrNotInList is returned by Revoke when the target identity is not in
// the allow list, so the caller can report "not found" instead of
// "removed".
var ErrNotInList = errors.New("id not in allow list")

// AccessService interface defines allow-list business logic. It owns the
// in-memory mirror of the persisted set; every mutation is flushed to the
// repository before the call returns.
type AccessService interface {
	// IsAllowed reports whether the sender may submit codes.
	IsAllowed(id int64) bool

	// IsAdmin reports whether the sender is the super-admin identity.
	IsAdmin(id int64) bool

	// Grant adds id to the allow list. Only the super admin may call it;
	// any other actor gets ErrNotPermitted. Granting a present id is a
	// successful no-op.
	Grant(actorID, id int64) error

	// Revoke removes id from the allow list. Only the super admin may
	// call it. Revoking an absent id returns ErrNotInList.
	Revoke(actorID, id int64) error

	// Count returns the current size of the allow list.
	Count() int

	// List returns all authorized ids in ascending order.
	List() []int64
}

// accessService implements AccessService interface
type accessService struct {
	repo         repositories.AllowListRepository
	superAdminID int64

	mu    sync.RWMutex
	users map[int64]struct{}
}

// NewAccessService creates a new access service and loads the persisted
// allow list into its in-memory mirror.
func NewAccessService(repo repositories.AllowListRepository, superAdminID int64) (AccessService, error) {
	users, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load allow list: %w", err)
	}
	return &accessService{
		repo:         repo,
		superAdminID: superAdminID,
		users:        users,
	}, nil
}

// IsAllowed checks membership in the in-memory mirror
func (s *accessService) IsAllowed(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// IsAdmin checks the sender against the configured super admin
func (s *accessService) IsAdmin(id int64) bool {
	return id == s.superAdminID
}

// Grant adds an id and flushes the set to disk
func (s *accessService) Grant(actorID, id int64) error {
	if !s.IsAdmin(actorID) {
		return ErrNotPermitted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; ok {
		return nil
	}
	s.users[id] = struct{}{}
	if err := s.repo.Save(s.users); err != nil {
		// Keep memory and disk agreeing: an unflushed grant is no grant.
		delete(s.users, id)
		return fmt.Errorf("failed to persist grant: %w", err)
	}
	return nil
}

// Revoke removes an id and flushes the set to disk
func (s *accessService) Revoke(actorID, id int64) error {
	if !s.IsAdmin(actorID) {
		return ErrNotPermitted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotInList
	}
	delete(s.users, id)
	if err := s.repo.Save(s.users); err != nil {
		s.users[id] = struct{}{}
		return fmt.Errorf("failed to persist revoke: %w", err)
	}
	return nil
}

// Count returns the number of authorized ids
func (s *accessService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// List returns the authorized ids, sorted for stable output
func (s *accessService) List() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
