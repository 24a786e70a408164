// Package store defines the persistence contracts of the glossary.
//
// Repositories only move rows. Validation and duplicate detection live in the
// glossary managers; a repository error means the backing store failed.
package store

import (
	"context"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

// AbbreviationRepository persists abbreviations and their group links.
type AbbreviationRepository interface {
	LoadAllAbbreviations(ctx context.Context) ([]*domain.Abbreviation, error)
	// GetAbbreviation returns domain.ErrNotFound when the id is unknown.
	GetAbbreviation(ctx context.Context, id int64) (*domain.Abbreviation, error)
	// AbbreviationsByName returns every row with that exact name; name is not unique.
	AbbreviationsByName(ctx context.Context, name string) ([]*domain.Abbreviation, error)
	// CreateAbbreviation inserts the row and its links, then sets a.ID.
	CreateAbbreviation(ctx context.Context, a *domain.Abbreviation) error
	// UpdateAbbreviation rewrites the row and replaces its links.
	UpdateAbbreviation(ctx context.Context, a *domain.Abbreviation) error
	DeleteAbbreviation(ctx context.Context, id int64) error
}

// GroupRepository persists groups.
type GroupRepository interface {
	LoadAllGroups(ctx context.Context) ([]*domain.Group, error)
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	CreateGroup(ctx context.Context, g *domain.Group) error
	// UpdateGroup rewrites the group row only, never its links.
	UpdateGroup(ctx context.Context, g *domain.Group) error
	// DeleteGroup removes the group row and any link rows still pointing at it.
	DeleteGroup(ctx context.Context, id int64) error
}

// ExceptionRepository persists "not an abbreviation" terms and their group links.
type ExceptionRepository interface {
	LoadAllExceptions(ctx context.Context) ([]*domain.Exception, error)
	GetException(ctx context.Context, id int64) (*domain.Exception, error)
	ExceptionByName(ctx context.Context, name string) (*domain.Exception, error)
	CreateException(ctx context.Context, e *domain.Exception) error
	UpdateException(ctx context.Context, e *domain.Exception) error
	DeleteException(ctx context.Context, id int64) error
}

// Store is the full backing store handle owned by the application.
type Store interface {
	AbbreviationRepository
	GroupRepository
	ExceptionRepository

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	Close() error
}
