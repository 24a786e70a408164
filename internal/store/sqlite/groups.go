package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

// LoadAllGroups reads every group
func (s *Store) LoadAllGroups(ctx context.Context) ([]*domain.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, comment, disabled FROM "groups" ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	defer rows.Close()

	var out []*domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGroup reads one group by id
func (s *Store) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, comment, disabled FROM "groups" WHERE id=?`, id)
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}
	return g, nil
}

// CreateGroup inserts a group and assigns the id
func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO "groups" (name, comment, disabled) VALUES (?, ?, ?)`,
		g.Name, g.Comment, boolToInt(g.Disabled))
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("group id: %w", err)
	}
	g.ID = id
	return nil
}

// UpdateGroup rewrites the group row; links are not touched
func (s *Store) UpdateGroup(ctx context.Context, g *domain.Group) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE "groups" SET name=?, comment=?, disabled=? WHERE id=?`,
		g.Name, g.Comment, boolToInt(g.Disabled), g.ID)
	if err != nil {
		return fmt.Errorf("update group %d: %w", g.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %d: %w", g.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes the group and every link row that still references it
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM abbr_group WHERE group_id=?`,
			`DELETE FROM not_an_abbr_group WHERE group_id=?`,
			`DELETE FROM "groups" WHERE id=?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("delete group %d: %w", id, err)
			}
		}
		return nil
	})
}

func scanGroup(r rowScanner) (*domain.Group, error) {
	var (
		g        domain.Group
		disabled int
	)
	if err := r.Scan(&g.ID, &g.Name, &g.Comment, &disabled); err != nil {
		return nil, err
	}
	g.Disabled = disabled == 1
	return &g, nil
}
