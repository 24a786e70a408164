package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
)

// Result counts what one Apply did
type Result struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Rejected int `json:"rejected"`
}

// Mapper creates seed entities through the glossary managers
type Mapper struct {
	glossary *glossary.Glossary
	log      logger.Logger
}

// NewMapper creates a new mapper instance
func NewMapper(g *glossary.Glossary, log logger.Logger) *Mapper {
	return &Mapper{glossary: g, log: log}
}

// Apply creates every declared entity that does not exist yet. Groups go
// first so abbreviations and exceptions can reference them by name. Entries
// that fail validation or name an unknown group are logged and skipped; a
// store failure stops the run.
func (m *Mapper) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result

	for _, ge := range f.Groups {
		_, err := m.glossary.Groups.Create(ctx, ge.Name, ge.Comment, ge.Disabled)
		if err := m.count(&res, "group", ge.Name, err); err != nil {
			return res, err
		}
	}

	for _, ae := range f.Abbreviations {
		groupIDs, err := m.glossary.Groups.IDsByNames(ae.Groups)
		if err != nil {
			m.reject(&res, "abbreviation", ae.Name, err)
			continue
		}
		descs := ae.allDescriptions()
		if len(descs) == 0 {
			m.reject(&res, "abbreviation", ae.Name, fmt.Errorf("no description: %w", domain.ErrInvalidInput))
			continue
		}
		for _, d := range descs {
			_, err := m.glossary.Abbreviations.Create(ctx, ae.Name, d, ae.Comment, ae.Disabled, groupIDs)
			if err := m.count(&res, "abbreviation", ae.Name, err); err != nil {
				return res, err
			}
		}
	}

	for _, ee := range f.Exceptions {
		groupIDs, err := m.glossary.Groups.IDsByNames(ee.Groups)
		if err != nil {
			m.reject(&res, "exception", ee.Name, err)
			continue
		}
		_, err = m.glossary.Exceptions.Create(ctx, ee.Name, ee.Comment, ee.Disabled, groupIDs)
		if err := m.count(&res, "exception", ee.Name, err); err != nil {
			return res, err
		}
	}

	return res, nil
}

// count classifies a create outcome; only unexpected errors are returned.
func (m *Mapper) count(res *Result, kind, name string, err error) error {
	switch {
	case err == nil:
		res.Created++
	case errors.Is(err, domain.ErrDuplicate):
		res.Existing++
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		m.reject(res, kind, name, err)
	default:
		return fmt.Errorf("seed %s %q: %w", kind, name, err)
	}
	return nil
}

func (m *Mapper) reject(res *Result, kind, name string, err error) {
	res.Rejected++
	m.log.Warn("seed entry skipped",
		logger.String("kind", kind),
		logger.String("name", name),
		logger.Error(err))
}
