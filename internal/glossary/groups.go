package glossary

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
)

// GroupReferrers answers "who points at this group". The in-memory index
// satisfies it.
type GroupReferrers interface {
	AbbreviationsInGroup(groupID int64) []*domain.Abbreviation
	ExceptionsInGroup(groupID int64) []*domain.Exception
}

// ReferenceWriter re-persists an entity after one of its group references was removed.
type ReferenceWriter interface {
	SaveAbbreviation(ctx context.Context, a *domain.Abbreviation) error
	SaveException(ctx context.Context, e *domain.Exception) error
}

// GroupManager owns the lifecycle of groups and the delete cascade.
type GroupManager struct {
	repo   store.GroupRepository
	index  *index.MemoryIndex
	refs   GroupReferrers
	writer ReferenceWriter
	log    logger.Logger
	writes *sync.Mutex
}

func NewGroupManager(repo store.GroupRepository, idx *index.MemoryIndex, refs GroupReferrers, writer ReferenceWriter, log logger.Logger) *GroupManager {
	return &GroupManager{repo: repo, index: idx, refs: refs, writer: writer, log: log, writes: &sync.Mutex{}}
}

func (m *GroupManager) load(ctx context.Context) error {
	list, err := m.repo.LoadAllGroups(ctx)
	if err != nil {
		return fmt.Errorf("load groups: %w", err)
	}
	m.index.ReplaceGroups(list)
	m.log.Debug("groups loaded", logger.Int("count", len(list)))
	return nil
}

func (m *GroupManager) Get(id int64) (*domain.Group, bool) {
	return m.index.GetGroup(id)
}

func (m *GroupManager) ByName(name string) (*domain.Group, bool) {
	return m.index.GroupByName(domain.NormalizeName(name))
}

// All returns every group sorted by name.
func (m *GroupManager) All() []*domain.Group {
	list := m.index.AllGroups()
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Create validates and persists a group. An existing name returns the
// existing group with domain.ErrDuplicate.
func (m *GroupManager) Create(ctx context.Context, name, comment string, disabled bool) (*domain.Group, error) {
	m.writes.Lock()
	defer m.writes.Unlock()

	g := domain.NewGroup(name, comment, disabled)
	if err := validateName("group", g.Name); err != nil {
		return nil, err
	}
	if existing, ok := m.index.GroupByName(g.Name); ok {
		m.log.Info("group already exists", logger.String("name", g.Name))
		return existing, fmt.Errorf("group %q: %w", g.Name, domain.ErrDuplicate)
	}

	if err := m.repo.CreateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("create group %q: %w", g.Name, err)
	}
	m.index.PutGroup(g)
	m.log.Info("group created", logger.Int64("id", g.ID), logger.String("name", g.Name))
	return g.Clone(), nil
}

func (m *GroupManager) Save(ctx context.Context, g *domain.Group) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	if !g.Saved() {
		return fmt.Errorf("group %q was never created: %w", g.Name, domain.ErrInvalidInput)
	}
	if _, ok := m.index.GetGroup(g.ID); !ok {
		return fmt.Errorf("group %d: %w", g.ID, domain.ErrNotFound)
	}

	g.Name = domain.NormalizeName(g.Name)
	if err := validateName("group", g.Name); err != nil {
		return err
	}
	if other, ok := m.index.GroupByName(g.Name); ok && other.ID != g.ID {
		return fmt.Errorf("group %q: %w", g.Name, domain.ErrDuplicate)
	}

	if err := m.repo.UpdateGroup(ctx, g); err != nil {
		return fmt.Errorf("update group %d: %w", g.ID, err)
	}
	m.index.PutGroup(g)
	m.log.Info("group saved", logger.Int64("id", g.ID), logger.String("name", g.Name), logger.Bool("disabled", g.Disabled))
	return nil
}

// Delete retracts the group from every abbreviation and exception that
// references it, re-persisting each of them, then removes the group itself.
// This scans every referrer once per call, which is fine at glossary scale.
func (m *GroupManager) Delete(ctx context.Context, id int64) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	g, ok := m.index.GetGroup(id)
	if !ok {
		return fmt.Errorf("group %d: %w", id, domain.ErrNotFound)
	}

	abbrs := m.refs.AbbreviationsInGroup(id)
	for _, a := range abbrs {
		a.RemoveGroup(id)
		if err := m.writer.SaveAbbreviation(ctx, a); err != nil {
			return fmt.Errorf("retract group %d from abbreviation %d: %w", id, a.ID, err)
		}
	}
	excs := m.refs.ExceptionsInGroup(id)
	for _, e := range excs {
		e.RemoveGroup(id)
		if err := m.writer.SaveException(ctx, e); err != nil {
			return fmt.Errorf("retract group %d from exception %d: %w", id, e.ID, err)
		}
	}

	if err := m.repo.DeleteGroup(ctx, id); err != nil {
		return fmt.Errorf("delete group %d: %w", id, err)
	}
	m.index.DeleteGroup(id)
	m.log.Info("group deleted",
		logger.Int64("id", id),
		logger.String("name", g.Name),
		logger.Int("abbreviations", len(abbrs)),
		logger.Int("exceptions", len(excs)))
	return nil
}

// IDsByNames maps group names to ids. Blank names are skipped; any unknown
// name fails the whole call with domain.ErrNotFound.
func (m *GroupManager) IDsByNames(names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	var missing []string
	for _, name := range names {
		name = domain.NormalizeName(name)
		if name == "" {
			continue
		}
		g, ok := m.index.GroupByName(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		ids = append(ids, g.ID)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("groups %s: %w", strings.Join(missing, ", "), domain.ErrNotFound)
	}
	return ids, nil
}

// Resolve maps a mixed list of group ids and names to ids. A numeric entry
// that is a known id wins over a group that happens to carry that name.
func (m *GroupManager) Resolve(refs []string) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	var names []string
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
			if _, ok := m.index.GetGroup(id); ok {
				ids = append(ids, id)
				continue
			}
		}
		names = append(names, ref)
	}
	byName, err := m.IDsByNames(names)
	if err != nil {
		return nil, err
	}
	return append(ids, byName...), nil
}

// SplitNames splits a comma-separated list as typed in the edit form ("a, b,c").
func SplitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
