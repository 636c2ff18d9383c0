package entries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, date, time, sugar, insulin, type, food`

func scanEntries(rows *sql.Rows) ([]*models.Entry, error) {
	var result []*models.Entry
	for rows.Next() {
		item := &models.Entry{}
		if err := rows.Scan(&item.ID, &item.Date, &item.Time, &item.Sugar, &item.Insulin, &item.Type, &item.Food); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists the cached collection, most recent day and time first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Entry, error) {
	query := `SELECT ` + selectColumns + ` FROM entries ORDER BY date DESC, time DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetForDay lists the cached records of a single day, latest time first.
func (r *SQLiteRepository) GetForDay(ctx context.Context, date string) ([]*models.Entry, error) {
	query := `SELECT ` + selectColumns + ` FROM entries WHERE date = ? ORDER BY time DESC`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ReplaceAll overwrites the whole cached collection. Run it inside a
// transaction (dbx.WithTx) so readers never observe the empty state.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, entries []*models.Entry) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	query := `INSERT INTO entries (id, date, time, sugar, insulin, type, food) VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		if _, err := r.db.ExecContext(ctx, query, e.ID, e.Date, e.Time, e.Sugar, e.Insulin, e.Type, e.Food); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}
	return nil
}

// Clear drops the cached collection.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}
