package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

const (
	exceptionLinkTable  = "not_an_abbr_group"
	exceptionLinkParent = "not_an_abbr_id"
)

// LoadAllExceptions reads every exception with its group links
func (s *Store) LoadAllExceptions(ctx context.Context) ([]*domain.Exception, error) {
	links, err := loadLinks(ctx, s.db, exceptionLinkTable, exceptionLinkParent)
	if err != nil {
		return nil, fmt.Errorf("load exception links: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, comment, disabled FROM not_an_abbrs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load exceptions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Exception
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exception: %w", err)
		}
		if ids, ok := links[e.ID]; ok {
			e.GroupIDs = ids
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetException reads one exception by id
func (s *Store) GetException(ctx context.Context, id int64) (*domain.Exception, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, comment, disabled FROM not_an_abbrs WHERE id=?`, id)
	e, err := scanException(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exception %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exception %d: %w", id, err)
	}
	if e.GroupIDs, err = linksOf(ctx, s.db, exceptionLinkTable, exceptionLinkParent, id); err != nil {
		return nil, fmt.Errorf("get exception %d links: %w", id, err)
	}
	return e, nil
}

// ExceptionByName reads the exception with the exact name
func (s *Store) ExceptionByName(ctx context.Context, name string) (*domain.Exception, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, comment, disabled FROM not_an_abbrs WHERE name=? ORDER BY id LIMIT 1`, name)
	e, err := scanException(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exception %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exception %q: %w", name, err)
	}
	if e.GroupIDs, err = linksOf(ctx, s.db, exceptionLinkTable, exceptionLinkParent, e.ID); err != nil {
		return nil, fmt.Errorf("get exception %d links: %w", e.ID, err)
	}
	return e, nil
}

// CreateException inserts a new row and its links and assigns the id
func (s *Store) CreateException(ctx context.Context, e *domain.Exception) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO not_an_abbrs (name, comment, disabled) VALUES (?, ?, ?)`,
			e.Name, e.Comment, boolToInt(e.Disabled))
		if err != nil {
			return fmt.Errorf("insert exception: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("exception id: %w", err)
		}
		if err := replaceLinks(ctx, tx, exceptionLinkTable, exceptionLinkParent, id, e.GroupIDs); err != nil {
			return fmt.Errorf("insert exception links: %w", err)
		}
		e.ID = id
		return nil
	})
}

// UpdateException rewrites an existing row and its links
func (s *Store) UpdateException(ctx context.Context, e *domain.Exception) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE not_an_abbrs SET name=?, comment=?, disabled=? WHERE id=?`,
			e.Name, e.Comment, boolToInt(e.Disabled), e.ID)
		if err != nil {
			return fmt.Errorf("update exception %d: %w", e.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("exception %d: %w", e.ID, domain.ErrNotFound)
		}
		if err := replaceLinks(ctx, tx, exceptionLinkTable, exceptionLinkParent, e.ID, e.GroupIDs); err != nil {
			return fmt.Errorf("replace exception %d links: %w", e.ID, err)
		}
		return nil
	})
}

// DeleteException removes the row and its links
func (s *Store) DeleteException(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM not_an_abbr_group WHERE not_an_abbr_id=?`, id); err != nil {
			return fmt.Errorf("delete exception %d links: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM not_an_abbrs WHERE id=?`, id); err != nil {
			return fmt.Errorf("delete exception %d: %w", id, err)
		}
		return nil
	})
}

func scanException(r rowScanner) (*domain.Exception, error) {
	var (
		e        domain.Exception
		disabled int
	)
	if err := r.Scan(&e.ID, &e.Name, &e.Comment, &disabled); err != nil {
		return nil, err
	}
	e.Disabled = disabled == 1
	e.GroupIDs = []int64{}
	return &e, nil
}
