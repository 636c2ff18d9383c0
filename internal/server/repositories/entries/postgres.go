// Package entries provides the PostgreSQL-backed authoritative store for
// diary entries.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkova/glucolog/internal/common"
	"github.com/avolkova/glucolog/internal/dbx"
	"github.com/avolkova/glucolog/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new entry and returns it with the assigned id.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO entries (id, user_id, date, time, sugar, insulin, type, food)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Date, entry.Time, entry.Sugar, entry.Insulin, entry.Type, entry.Food)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// Get returns one entry owned by userID, common.ErrorNotFound for a
// missing or foreign row.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Entry, error) {
	query := `
		SELECT id, user_id, date, time, sugar, insulin, type, food FROM entries
		WHERE id = $1 AND user_id = $2
	`
	item := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&item.ID, &item.UserID,
		&item.Date, &item.Time, &item.Sugar, &item.Insulin, &item.Type, &item.Food)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Update applies a partial patch to an entry owned by userID. A patch with
// no set fields is a no-op. Updating a missing or foreign row returns
// common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, userID, id string, patch models.EntryPatch) error {
	sets := make([]string, 0, 5)
	args := []any{id, userID}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Time != nil {
		addSet("time", *patch.Time)
	}
	if patch.Sugar != nil {
		addSet("sugar", *patch.Sugar)
	}
	if patch.Insulin != nil {
		addSet("insulin", *patch.Insulin)
	}
	if patch.Type != nil {
		addSet("type", *patch.Type)
	}
	if patch.Food != nil {
		addSet("food", *patch.Food)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE entries SET %s WHERE id = $1 AND user_id = $2`, strings.Join(sets, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes an entry owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListByUser returns all of a user's entries ordered by date descending,
// ties broken by time descending (most recent first). Date and time are
// opaque ISO strings, so string ordering is chronological ordering.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `
		SELECT id, user_id, date, time, sugar, insulin, type, food FROM entries
		WHERE user_id = $1
		ORDER BY date DESC, time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		item := &models.Entry{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Date, &item.Time,
			&item.Sugar, &item.Insulin, &item.Type, &item.Food); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
