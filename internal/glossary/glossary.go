// Package glossary holds the managers that own the create/save/delete flow of
// abbreviations, groups and exceptions.
//
// Managers validate and detect duplicates, write through the store, then update
// exactly the affected entry of the shared index. The index is the read path for
// everything else (scanner, HTTP listings).
package glossary

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
)

const (
	MinNameLength        = 2
	MinDescriptionLength = 3
)

// Glossary is the composition of the three managers over one store and one index.
type Glossary struct {
	Abbreviations *AbbreviationManager
	Groups        *GroupManager
	Exceptions    *ExceptionManager

	index  *index.MemoryIndex
	writes *sync.Mutex
}

// New wires the managers. The group manager gets only the index (as
// GroupReferrers) and a writer that re-saves entities; it never holds the
// other managers.
func New(st store.Store, idx *index.MemoryIndex, log logger.Logger) *Glossary {
	abbrs := NewAbbreviationManager(st, idx, log)
	excs := NewExceptionManager(st, idx, log)
	groups := NewGroupManager(st, idx, idx, referenceWriter{abbrs: abbrs, exceptions: excs}, log)

	// One lock for every write, so that a bulk load cannot interleave with
	// a manager mutation and overwrite it with an older snapshot.
	writes := &sync.Mutex{}
	abbrs.writes, excs.writes, groups.writes = writes, writes, writes

	return &Glossary{
		Abbreviations: abbrs,
		Groups:        groups,
		Exceptions:    excs,
		index:         idx,
		writes:        writes,
	}
}

// LoadAll fills the index from the store. Groups go first so that entity
// group references resolve as soon as they are visible. Manager writes wait
// until the load is done.
func (g *Glossary) LoadAll(ctx context.Context) error {
	g.writes.Lock()
	defer g.writes.Unlock()

	if err := g.Groups.load(ctx); err != nil {
		return err
	}
	if err := g.Abbreviations.load(ctx); err != nil {
		return err
	}
	return g.Exceptions.load(ctx)
}

// Index exposes the read-only view used by the scanner.
func (g *Glossary) Index() *index.MemoryIndex { return g.index }

// Revision changes whenever any cached entity changes.
func (g *Glossary) Revision() uint64 { return g.index.Revision() }

// Fingerprint identifies the glossary content independently of the process.
func (g *Glossary) Fingerprint() string { return g.index.Fingerprint() }

// referenceWriter re-persists entities touched by a group cascade.
type referenceWriter struct {
	abbrs      *AbbreviationManager
	exceptions *ExceptionManager
}

func (w referenceWriter) SaveAbbreviation(ctx context.Context, a *domain.Abbreviation) error {
	return w.abbrs.persist(ctx, a)
}

func (w referenceWriter) SaveException(ctx context.Context, e *domain.Exception) error {
	return w.exceptions.persist(ctx, e)
}

func validateName(kind, name string) error {
	if utf8.RuneCountInString(name) < MinNameLength {
		return fmt.Errorf("%s name %q must have at least %d characters: %w", kind, name, MinNameLength, domain.ErrInvalidInput)
	}
	return nil
}

// validateGroupRefs rejects ids that do not resolve to a known group.
func validateGroupRefs(idx *index.MemoryIndex, ids []int64) error {
	for _, id := range ids {
		if _, ok := idx.GetGroup(id); !ok {
			return fmt.Errorf("group %d does not exist: %w", id, domain.ErrInvalidInput)
		}
	}
	return nil
}
