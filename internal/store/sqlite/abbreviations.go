package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

const (
	abbrLinkTable  = "abbr_group"
	abbrLinkParent = "abbr_id"
)

// LoadAllAbbreviations reads every abbreviation with its group links
func (s *Store) LoadAllAbbreviations(ctx context.Context) ([]*domain.Abbreviation, error) {
	links, err := loadLinks(ctx, s.db, abbrLinkTable, abbrLinkParent)
	if err != nil {
		return nil, fmt.Errorf("load abbr links: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, descr, comment, disabled FROM abbrs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load abbrs: %w", err)
	}
	defer rows.Close()

	var out []*domain.Abbreviation
	for rows.Next() {
		a, err := scanAbbreviation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan abbr: %w", err)
		}
		a.GroupIDs = links[a.ID]
		if a.GroupIDs == nil {
			a.GroupIDs = []int64{}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAbbreviation reads one abbreviation by id
func (s *Store) GetAbbreviation(ctx context.Context, id int64) (*domain.Abbreviation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, descr, comment, disabled FROM abbrs WHERE id=?`, id)
	a, err := scanAbbreviation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("abbreviation %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get abbr %d: %w", id, err)
	}
	if a.GroupIDs, err = linksOf(ctx, s.db, abbrLinkTable, abbrLinkParent, id); err != nil {
		return nil, fmt.Errorf("get abbr %d links: %w", id, err)
	}
	return a, nil
}

// AbbreviationsByName reads every abbreviation with the exact name
func (s *Store) AbbreviationsByName(ctx context.Context, name string) ([]*domain.Abbreviation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, descr, comment, disabled FROM abbrs WHERE name=? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("query abbrs by name: %w", err)
	}

	var out []*domain.Abbreviation
	for rows.Next() {
		a, err := scanAbbreviation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan abbr: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, a := range out {
		if a.GroupIDs, err = linksOf(ctx, s.db, abbrLinkTable, abbrLinkParent, a.ID); err != nil {
			return nil, fmt.Errorf("abbr %d links: %w", a.ID, err)
		}
	}
	return out, nil
}

// CreateAbbreviation inserts a new row and its links and assigns the id
func (s *Store) CreateAbbreviation(ctx context.Context, a *domain.Abbreviation) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO abbrs (name, descr, comment, disabled) VALUES (?, ?, ?, ?)`,
			a.Name, a.Description, a.Comment, boolToInt(a.Disabled))
		if err != nil {
			return fmt.Errorf("insert abbr: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("abbr id: %w", err)
		}
		if err := replaceLinks(ctx, tx, abbrLinkTable, abbrLinkParent, id, a.GroupIDs); err != nil {
			return fmt.Errorf("insert abbr links: %w", err)
		}
		a.ID = id
		return nil
	})
}

// UpdateAbbreviation rewrites an existing row and its links
func (s *Store) UpdateAbbreviation(ctx context.Context, a *domain.Abbreviation) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE abbrs SET name=?, descr=?, comment=?, disabled=? WHERE id=?`,
			a.Name, a.Description, a.Comment, boolToInt(a.Disabled), a.ID)
		if err != nil {
			return fmt.Errorf("update abbr %d: %w", a.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("abbreviation %d: %w", a.ID, domain.ErrNotFound)
		}
		if err := replaceLinks(ctx, tx, abbrLinkTable, abbrLinkParent, a.ID, a.GroupIDs); err != nil {
			return fmt.Errorf("replace abbr %d links: %w", a.ID, err)
		}
		return nil
	})
}

// DeleteAbbreviation removes the row and its links; groups are untouched
func (s *Store) DeleteAbbreviation(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM abbr_group WHERE abbr_id=?`, id); err != nil {
			return fmt.Errorf("delete abbr %d links: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM abbrs WHERE id=?`, id); err != nil {
			return fmt.Errorf("delete abbr %d: %w", id, err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAbbreviation(r rowScanner) (*domain.Abbreviation, error) {
	var (
		a        domain.Abbreviation
		disabled int
	)
	if err := r.Scan(&a.ID, &a.Name, &a.Description, &a.Comment, &disabled); err != nil {
		return nil, err
	}
	a.Disabled = disabled == 1
	a.GroupIDs = []int64{}
	return &a, nil
}
