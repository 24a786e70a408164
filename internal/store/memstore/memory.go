// Package memstore is an in-memory store.Store for tests. It keeps the
// sqlite store's semantics without touching disk.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	abbrs      map[int64]*domain.Abbreviation
	groups     map[int64]*domain.Group
	exceptions map[int64]*domain.Exception
}

var _ store.Store = (*Store)(nil)

// New creates an empty store; the first assigned id is 1.
func New() *Store {
	return &Store{
		nextID:     1,
		abbrs:      make(map[int64]*domain.Abbreviation),
		groups:     make(map[int64]*domain.Group),
		exceptions: make(map[int64]*domain.Exception),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// ─────────────────────────────────────────────────────────────────
// Abbreviations
// ─────────────────────────────────────────────────────────────────

func (s *Store) LoadAllAbbreviations(ctx context.Context) ([]*domain.Abbreviation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Abbreviation, 0, len(s.abbrs))
	for _, a := range s.abbrs {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetAbbreviation(ctx context.Context, id int64) (*domain.Abbreviation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.abbrs[id]
	if !ok {
		return nil, fmt.Errorf("abbreviation %d: %w", id, domain.ErrNotFound)
	}
	return a.Clone(), nil
}

func (s *Store) AbbreviationsByName(ctx context.Context, name string) ([]*domain.Abbreviation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Abbreviation
	for _, a := range s.abbrs {
		if a.Name == name {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateAbbreviation(ctx context.Context, a *domain.Abbreviation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.allocID()
	s.abbrs[a.ID] = a.Clone()
	return nil
}

func (s *Store) UpdateAbbreviation(ctx context.Context, a *domain.Abbreviation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.abbrs[a.ID]; !ok {
		return fmt.Errorf("abbreviation %d: %w", a.ID, domain.ErrNotFound)
	}
	s.abbrs[a.ID] = a.Clone()
	return nil
}

func (s *Store) DeleteAbbreviation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.abbrs, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────

func (s *Store) LoadAllGroups(ctx context.Context) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %d: %w", id, domain.ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.allocID()
	s.groups[g.ID] = g.Clone()
	return nil
}

func (s *Store) UpdateGroup(ctx context.Context, g *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ID]; !ok {
		return fmt.Errorf("group %d: %w", g.ID, domain.ErrNotFound)
	}
	s.groups[g.ID] = g.Clone()
	return nil
}

// DeleteGroup drops the group and strips it from every stored entity,
// mirroring the link-row cleanup of the sqlite store.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.abbrs {
		a.RemoveGroup(id)
	}
	for _, e := range s.exceptions {
		e.RemoveGroup(id)
	}
	delete(s.groups, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Exceptions
// ─────────────────────────────────────────────────────────────────

func (s *Store) LoadAllExceptions(ctx context.Context) ([]*domain.Exception, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Exception, 0, len(s.exceptions))
	for _, e := range s.exceptions {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetException(ctx context.Context, id int64) (*domain.Exception, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exceptions[id]
	if !ok {
		return nil, fmt.Errorf("exception %d: %w", id, domain.ErrNotFound)
	}
	return e.Clone(), nil
}

func (s *Store) ExceptionByName(ctx context.Context, name string) (*domain.Exception, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.Exception
	for _, e := range s.exceptions {
		if e.Name == name && (found == nil || e.ID < found.ID) {
			found = e
		}
	}
	if found == nil {
		return nil, fmt.Errorf("exception %q: %w", name, domain.ErrNotFound)
	}
	return found.Clone(), nil
}

func (s *Store) CreateException(ctx context.Context, e *domain.Exception) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.allocID()
	s.exceptions[e.ID] = e.Clone()
	return nil
}

func (s *Store) UpdateException(ctx context.Context, e *domain.Exception) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exceptions[e.ID]; !ok {
		return fmt.Errorf("exception %d: %w", e.ID, domain.ErrNotFound)
	}
	s.exceptions[e.ID] = e.Clone()
	return nil
}

func (s *Store) DeleteException(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.exceptions, id)
	return nil
}
