package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

// MemoryIndex is the in-memory cache of the glossary (id -> entity).
//
// It is filled by an explicit bulk load (Replace*) and afterwards updated one
// entry at a time by the managers on create, update and delete. Entities are
// copied on the way in and on the way out, so callers can mutate what they get
// without touching cached state. Every mutation bumps Revision.
type MemoryIndex struct {
	mu            sync.RWMutex
	abbreviations map[int64]*domain.Abbreviation // ID -> Abbreviation
	abbrsByName   map[string]map[int64]struct{}  // Name -> IDs
	groups        map[int64]*domain.Group        // ID -> Group
	exceptions    map[int64]*domain.Exception    // ID -> Exception
	exceptionIDs  map[string]int64               // Name -> ID
	revision      uint64                         // incremented on any mutation
	lastReload    time.Time                      // timestamp of last bulk load

	fpMu       sync.Mutex
	fp         string // content hash, valid while fpRevision == revision
	fpRevision uint64
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		abbreviations: make(map[int64]*domain.Abbreviation),
		abbrsByName:   make(map[string]map[int64]struct{}),
		groups:        make(map[int64]*domain.Group),
		exceptions:    make(map[int64]*domain.Exception),
		exceptionIDs:  make(map[string]int64),
	}
}

// Revision returns a counter that changes whenever cached content changes.
// It is local to this index and restarts with the process; use Fingerprint
// to compare glossary content across processes.
func (idx *MemoryIndex) Revision() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.revision
}

// GetLastReload returns the timestamp of the last bulk load
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Abbreviations
// ─────────────────────────────────────────────────────────────────

// ReplaceAbbreviations replaces all cached abbreviations
func (idx *MemoryIndex) ReplaceAbbreviations(abbrs []*domain.Abbreviation) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.abbreviations = make(map[int64]*domain.Abbreviation, len(abbrs))
	idx.abbrsByName = make(map[string]map[int64]struct{}, len(abbrs))
	for _, a := range abbrs {
		idx.putAbbreviationLocked(a.Clone())
	}
	idx.revision++
	idx.lastReload = time.Now()
}

// GetAbbreviation retrieves an abbreviation by ID
func (idx *MemoryIndex) GetAbbreviation(id int64) (*domain.Abbreviation, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	a, ok := idx.abbreviations[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// AbbreviationsByName returns every description variant registered under name, ordered by ID.
func (idx *MemoryIndex) AbbreviationsByName(name string) []*domain.Abbreviation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ids := idx.abbrsByName[name]
	out := make([]*domain.Abbreviation, 0, len(ids))
	for id := range ids {
		out = append(out, idx.abbreviations[id].Clone())
	}
	sortAbbreviations(out)
	return out
}

// AbbreviationsInGroup returns the abbreviations referencing a group, ordered by ID.
func (idx *MemoryIndex) AbbreviationsInGroup(groupID int64) []*domain.Abbreviation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []*domain.Abbreviation
	for _, a := range idx.abbreviations {
		if a.HasGroup(groupID) {
			out = append(out, a.Clone())
		}
	}
	sortAbbreviations(out)
	return out
}

// AllAbbreviations returns all abbreviations ordered by ID
func (idx *MemoryIndex) AllAbbreviations() []*domain.Abbreviation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Abbreviation, 0, len(idx.abbreviations))
	for _, a := range idx.abbreviations {
		out = append(out, a.Clone())
	}
	sortAbbreviations(out)
	return out
}

// PutAbbreviation adds or updates a single abbreviation
func (idx *MemoryIndex) PutAbbreviation(a *domain.Abbreviation) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.deleteAbbreviationLocked(a.ID)
	idx.putAbbreviationLocked(a.Clone())
	idx.revision++
}

// DeleteAbbreviation removes an abbreviation from the index
func (idx *MemoryIndex) DeleteAbbreviation(id int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.deleteAbbreviationLocked(id)
	idx.revision++
}

// AbbreviationCount returns the number of cached abbreviations
func (idx *MemoryIndex) AbbreviationCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.abbreviations)
}

func (idx *MemoryIndex) putAbbreviationLocked(a *domain.Abbreviation) {
	idx.abbreviations[a.ID] = a
	ids, ok := idx.abbrsByName[a.Name]
	if !ok {
		ids = make(map[int64]struct{}, 1)
		idx.abbrsByName[a.Name] = ids
	}
	ids[a.ID] = struct{}{}
}

func (idx *MemoryIndex) deleteAbbreviationLocked(id int64) {
	old, ok := idx.abbreviations[id]
	if !ok {
		return
	}
	delete(idx.abbreviations, id)
	if ids, ok := idx.abbrsByName[old.Name]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(idx.abbrsByName, old.Name)
		}
	}
}

// ─────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────

// ReplaceGroups replaces all cached groups
func (idx *MemoryIndex) ReplaceGroups(groups []*domain.Group) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.groups = make(map[int64]*domain.Group, len(groups))
	for _, g := range groups {
		idx.groups[g.ID] = g.Clone()
	}
	idx.revision++
	idx.lastReload = time.Now()
}

// GetGroup retrieves a group by ID. Its signature matches domain.GroupResolver.
func (idx *MemoryIndex) GetGroup(id int64) (*domain.Group, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	g, ok := idx.groups[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// GroupByName retrieves a group by its exact name
func (idx *MemoryIndex) GroupByName(name string) (*domain.Group, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, g := range idx.groups {
		if g.Name == name {
			return g.Clone(), true
		}
	}
	return nil, false
}

// AllGroups returns all groups ordered by ID
func (idx *MemoryIndex) AllGroups() []*domain.Group {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Group, 0, len(idx.groups))
	for _, g := range idx.groups {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PutGroup adds or updates a single group
func (idx *MemoryIndex) PutGroup(g *domain.Group) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.groups[g.ID] = g.Clone()
	idx.revision++
}

// DeleteGroup removes a group from the index
func (idx *MemoryIndex) DeleteGroup(id int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.groups, id)
	idx.revision++
}

// GroupCount returns the number of cached groups
func (idx *MemoryIndex) GroupCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.groups)
}

// ─────────────────────────────────────────────────────────────────
// Exceptions
// ─────────────────────────────────────────────────────────────────

// ReplaceExceptions replaces all cached exceptions
func (idx *MemoryIndex) ReplaceExceptions(exceptions []*domain.Exception) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.exceptions = make(map[int64]*domain.Exception, len(exceptions))
	idx.exceptionIDs = make(map[string]int64, len(exceptions))
	for _, e := range exceptions {
		idx.exceptions[e.ID] = e.Clone()
		idx.exceptionIDs[e.Name] = e.ID
	}
	idx.revision++
	idx.lastReload = time.Now()
}

// GetException retrieves an exception by ID
func (idx *MemoryIndex) GetException(id int64) (*domain.Exception, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.exceptions[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// ExceptionByName retrieves an exception by its exact name
func (idx *MemoryIndex) ExceptionByName(name string) (*domain.Exception, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	id, ok := idx.exceptionIDs[name]
	if !ok {
		return nil, false
	}
	return idx.exceptions[id].Clone(), true
}

// ExceptionsInGroup returns the exceptions referencing a group, ordered by ID.
func (idx *MemoryIndex) ExceptionsInGroup(groupID int64) []*domain.Exception {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []*domain.Exception
	for _, e := range idx.exceptions {
		if e.HasGroup(groupID) {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllExceptions returns all exceptions ordered by ID
func (idx *MemoryIndex) AllExceptions() []*domain.Exception {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Exception, 0, len(idx.exceptions))
	for _, e := range idx.exceptions {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PutException adds or updates a single exception
func (idx *MemoryIndex) PutException(e *domain.Exception) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.exceptions[e.ID]; ok && idx.exceptionIDs[old.Name] == e.ID {
		delete(idx.exceptionIDs, old.Name)
	}
	idx.exceptions[e.ID] = e.Clone()
	idx.exceptionIDs[e.Name] = e.ID
	idx.revision++
}

// DeleteException removes an exception from the index
func (idx *MemoryIndex) DeleteException(id int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.exceptions[id]; ok {
		if idx.exceptionIDs[old.Name] == id {
			delete(idx.exceptionIDs, old.Name)
		}
		delete(idx.exceptions, id)
	}
	idx.revision++
}

// ExceptionCount returns the number of cached exceptions
func (idx *MemoryIndex) ExceptionCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.exceptions)
}

func sortAbbreviations(list []*domain.Abbreviation) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
