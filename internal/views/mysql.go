package views

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/itnihongo/kaiwa/internal/database"
)

// MySQLStore keeps one row per lesson id in lesson_views.
type MySQLStore struct {
	db *sqlx.DB
}

type viewRow struct {
	ID    string `db:"id"`
	Views int64  `db:"views"`
}

func NewMySQLStore(db *sqlx.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Get(ctx context.Context, id string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT views FROM lesson_views WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("db.GetContext() > %w", err)
	}
	return count, nil
}

func (s *MySQLStore) All(ctx context.Context) (map[string]int64, error) {
	var rows []viewRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, views FROM lesson_views ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext() > %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Views
	}
	return counts, nil
}

func (s *MySQLStore) Increment(ctx context.Context, id string) (int64, error) {
	var count int64
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lesson_views (id, views) VALUES (?, 1) ON DUPLICATE KEY UPDATE views = views + 1",
			id,
		); err != nil {
			return fmt.Errorf("tx.ExecContext() > %w", err)
		}
		if err := tx.GetContext(ctx, &count, "SELECT views FROM lesson_views WHERE id = ?", id); err != nil {
			return fmt.Errorf("tx.GetContext() > %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *MySQLStore) Set(ctx context.Context, id string, count int64) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO lesson_views (id, views) VALUES (?, ?) ON DUPLICATE KEY UPDATE views = VALUES(views)",
		id, count,
	); err != nil {
		return fmt.Errorf("db.ExecContext() > %w", err)
	}
	return nil
}
