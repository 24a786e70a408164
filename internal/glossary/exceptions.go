package glossary

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
)

// ExceptionManager owns the lifecycle of "not an abbreviation" terms.
type ExceptionManager struct {
	repo   store.ExceptionRepository
	index  *index.MemoryIndex
	log    logger.Logger
	writes *sync.Mutex
}

func NewExceptionManager(repo store.ExceptionRepository, idx *index.MemoryIndex, log logger.Logger) *ExceptionManager {
	return &ExceptionManager{repo: repo, index: idx, log: log, writes: &sync.Mutex{}}
}

func (m *ExceptionManager) load(ctx context.Context) error {
	list, err := m.repo.LoadAllExceptions(ctx)
	if err != nil {
		return fmt.Errorf("load exceptions: %w", err)
	}
	m.index.ReplaceExceptions(list)
	m.log.Debug("exceptions loaded", logger.Int("count", len(list)))
	return nil
}

func (m *ExceptionManager) Get(id int64) (*domain.Exception, bool) {
	return m.index.GetException(id)
}

func (m *ExceptionManager) ByName(name string) (*domain.Exception, bool) {
	return m.index.ExceptionByName(domain.NormalizeName(name))
}

// All returns every exception sorted by name.
func (m *ExceptionManager) All() []*domain.Exception {
	list := m.index.AllExceptions()
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Create validates and persists a new exception. An existing name returns the
// existing entity with domain.ErrDuplicate.
func (m *ExceptionManager) Create(ctx context.Context, name, comment string, disabled bool, groupIDs []int64) (*domain.Exception, error) {
	m.writes.Lock()
	defer m.writes.Unlock()

	e := domain.NewException(name, comment, disabled, groupIDs)
	if err := m.validate(e); err != nil {
		return nil, err
	}
	if existing, ok := m.index.ExceptionByName(e.Name); ok {
		m.log.Info("exception already exists", logger.String("name", e.Name))
		return existing, fmt.Errorf("exception %q: %w", e.Name, domain.ErrDuplicate)
	}

	if err := m.repo.CreateException(ctx, e); err != nil {
		return nil, fmt.Errorf("create exception %q: %w", e.Name, err)
	}
	m.index.PutException(e)
	m.log.Info("exception created", logger.Int64("id", e.ID), logger.String("name", e.Name))
	return e.Clone(), nil
}

func (m *ExceptionManager) Save(ctx context.Context, e *domain.Exception) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	if !e.Saved() {
		return fmt.Errorf("exception %q was never created: %w", e.Name, domain.ErrInvalidInput)
	}
	if _, ok := m.index.GetException(e.ID); !ok {
		return fmt.Errorf("exception %d: %w", e.ID, domain.ErrNotFound)
	}

	e.Name = domain.NormalizeName(e.Name)
	e.SetGroups(e.GroupIDs)
	if err := m.validate(e); err != nil {
		return err
	}
	if other, ok := m.index.ExceptionByName(e.Name); ok && other.ID != e.ID {
		return fmt.Errorf("exception %q: %w", e.Name, domain.ErrDuplicate)
	}

	if err := m.persist(ctx, e); err != nil {
		return err
	}
	m.log.Info("exception saved", logger.Int64("id", e.ID), logger.String("name", e.Name))
	return nil
}

func (m *ExceptionManager) Delete(ctx context.Context, id int64) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	e, ok := m.index.GetException(id)
	if !ok {
		return fmt.Errorf("exception %d: %w", id, domain.ErrNotFound)
	}
	if err := m.repo.DeleteException(ctx, id); err != nil {
		return fmt.Errorf("delete exception %d: %w", id, err)
	}
	m.index.DeleteException(id)
	m.log.Info("exception deleted", logger.Int64("id", id), logger.String("name", e.Name))
	return nil
}

func (m *ExceptionManager) persist(ctx context.Context, e *domain.Exception) error {
	if err := m.repo.UpdateException(ctx, e); err != nil {
		return fmt.Errorf("update exception %d: %w", e.ID, err)
	}
	m.index.PutException(e)
	return nil
}

func (m *ExceptionManager) validate(e *domain.Exception) error {
	if err := validateName("exception", e.Name); err != nil {
		return err
	}
	return validateGroupRefs(m.index, e.GroupIDs)
}
