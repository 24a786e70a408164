package glossary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
)

// AbbreviationManager owns the lifecycle of abbreviations.
type AbbreviationManager struct {
	repo   store.AbbreviationRepository
	index  *index.MemoryIndex
	log    logger.Logger
	writes *sync.Mutex
}

func NewAbbreviationManager(repo store.AbbreviationRepository, idx *index.MemoryIndex, log logger.Logger) *AbbreviationManager {
	return &AbbreviationManager{repo: repo, index: idx, log: log, writes: &sync.Mutex{}}
}

// load replaces the cached abbreviations with the store content.
func (m *AbbreviationManager) load(ctx context.Context) error {
	list, err := m.repo.LoadAllAbbreviations(ctx)
	if err != nil {
		return fmt.Errorf("load abbreviations: %w", err)
	}
	m.index.ReplaceAbbreviations(list)
	m.log.Debug("abbreviations loaded", logger.Int("count", len(list)))
	return nil
}

// Get returns a copy of the abbreviation; absence is reported by ok=false.
func (m *AbbreviationManager) Get(id int64) (*domain.Abbreviation, bool) {
	return m.index.GetAbbreviation(id)
}

// ByName returns every abbreviation sharing the exact name, ordered by id.
func (m *AbbreviationManager) ByName(name string) []*domain.Abbreviation {
	return m.index.AbbreviationsByName(domain.NormalizeName(name))
}

// Exists reports whether the (name, description) pair is already in the glossary.
func (m *AbbreviationManager) Exists(name, description string) bool {
	_, ok := m.find(domain.AbbreviationKey{Name: domain.NormalizeName(name), Description: strings.TrimSpace(description)})
	return ok
}

// All returns every abbreviation sorted by name, then description, then id.
func (m *AbbreviationManager) All() []*domain.Abbreviation {
	list := m.index.AllAbbreviations()
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		if list[i].Description != list[j].Description {
			return list[i].Description < list[j].Description
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Create validates and persists a new abbreviation.
//
// A pair that already exists is not created: the existing entity is returned
// together with domain.ErrDuplicate.
func (m *AbbreviationManager) Create(ctx context.Context, name, description, comment string, disabled bool, groupIDs []int64) (*domain.Abbreviation, error) {
	m.writes.Lock()
	defer m.writes.Unlock()

	a := domain.NewAbbreviation(name, strings.TrimSpace(description), comment, disabled, groupIDs)
	if err := m.validate(a); err != nil {
		m.log.Debug("abbreviation rejected", logger.String("name", a.Name), logger.Error(err))
		return nil, err
	}
	if existing, ok := m.find(a.Key()); ok {
		m.log.Info("abbreviation already exists",
			logger.String("name", a.Name),
			logger.String("description", a.Description))
		return existing, fmt.Errorf("abbreviation %q - %q: %w", a.Name, a.Description, domain.ErrDuplicate)
	}

	if err := m.repo.CreateAbbreviation(ctx, a); err != nil {
		return nil, fmt.Errorf("create abbreviation %q: %w", a.Name, err)
	}
	m.index.PutAbbreviation(a)
	m.log.Info("abbreviation created", logger.Int64("id", a.ID), logger.String("name", a.Name))
	return a.Clone(), nil
}

// Save persists changes made to an already saved abbreviation.
func (m *AbbreviationManager) Save(ctx context.Context, a *domain.Abbreviation) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	if !a.Saved() {
		return fmt.Errorf("abbreviation %q was never created: %w", a.Name, domain.ErrInvalidInput)
	}
	if _, ok := m.index.GetAbbreviation(a.ID); !ok {
		return fmt.Errorf("abbreviation %d: %w", a.ID, domain.ErrNotFound)
	}

	a.Name = domain.NormalizeName(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	a.SetGroups(a.GroupIDs)
	if err := m.validate(a); err != nil {
		return err
	}
	if other, ok := m.find(a.Key()); ok && other.ID != a.ID {
		return fmt.Errorf("abbreviation %q - %q: %w", a.Name, a.Description, domain.ErrDuplicate)
	}

	if err := m.persist(ctx, a); err != nil {
		return err
	}
	m.log.Info("abbreviation saved", logger.Int64("id", a.ID), logger.String("name", a.Name))
	return nil
}

// Delete removes the abbreviation and its group links; groups are untouched.
func (m *AbbreviationManager) Delete(ctx context.Context, id int64) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	a, ok := m.index.GetAbbreviation(id)
	if !ok {
		return fmt.Errorf("abbreviation %d: %w", id, domain.ErrNotFound)
	}
	if err := m.repo.DeleteAbbreviation(ctx, id); err != nil {
		return fmt.Errorf("delete abbreviation %d: %w", id, err)
	}
	m.index.DeleteAbbreviation(id)
	m.log.Info("abbreviation deleted", logger.Int64("id", id), logger.String("name", a.Name))
	return nil
}

// persist writes an update and refreshes the single cached entry. The caller
// holds the write lock.
func (m *AbbreviationManager) persist(ctx context.Context, a *domain.Abbreviation) error {
	if err := m.repo.UpdateAbbreviation(ctx, a); err != nil {
		return fmt.Errorf("update abbreviation %d: %w", a.ID, err)
	}
	m.index.PutAbbreviation(a)
	return nil
}

func (m *AbbreviationManager) validate(a *domain.Abbreviation) error {
	if err := validateName("abbreviation", a.Name); err != nil {
		return err
	}
	if utf8.RuneCountInString(a.Description) < MinDescriptionLength {
		return fmt.Errorf("description of %q must have at least %d characters: %w", a.Name, MinDescriptionLength, domain.ErrInvalidInput)
	}
	return validateGroupRefs(m.index, a.GroupIDs)
}

func (m *AbbreviationManager) find(key domain.AbbreviationKey) (*domain.Abbreviation, bool) {
	for _, a := range m.index.AbbreviationsByName(key.Name) {
		if a.Key() == key {
			return a, true
		}
	}
	return nil, false
}
