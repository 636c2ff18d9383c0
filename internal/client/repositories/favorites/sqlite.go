package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/common"
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

// GetAll lists the cached favorites, most recently saved first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Favorite, error) {
	query := `SELECT id, code, name, image, carbs, info FROM favorites ORDER BY rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select favorites: %w", err)
	}
	defer rows.Close()

	var result []*models.Favorite
	for rows.Next() {
		item := &models.Favorite{}
		if err := rows.Scan(&item.ID, &item.Code, &item.Name, &item.Image, &item.Carbs, &item.Info); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Find looks up a favorite by its canonical (code, info) key. Absence is
// common.ErrorNotFound.
func (r *SQLiteRepository) Find(ctx context.Context, code, info string) (*models.Favorite, error) {
	query := `SELECT id, code, name, image, carbs, info FROM favorites WHERE code = ? AND info = ?`
	row := r.db.QueryRowContext(ctx, query, code, info)

	item := &models.Favorite{}
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Image, &item.Carbs, &item.Info)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select favorite: %w", err)
	}
	return item, nil
}

// Insert stores a favorite; a duplicate (code, info) is a silent no-op.
func (r *SQLiteRepository) Insert(ctx context.Context, favorite *models.Favorite) error {
	query := `
		INSERT INTO favorites (id, code, name, image, carbs, info) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (code, info) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		favorite.ID, favorite.Code, favorite.Name, favorite.Image, favorite.Carbs, favorite.Info)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// DeleteByKey removes a favorite by its canonical key.
func (r *SQLiteRepository) DeleteByKey(ctx context.Context, code, info string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE code = ? AND info = ?`, code, info)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ReplaceAll overwrites the whole cached collection. The favorites arrive
// newest-first from the server, so they are inserted in reverse to keep
// rowid order aligned with recency.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, favorites []*models.Favorite) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}

	query := `INSERT INTO favorites (id, code, name, image, carbs, info) VALUES (?, ?, ?, ?, ?, ?)`
	for i := len(favorites) - 1; i >= 0; i-- {
		f := favorites[i]
		if _, err := r.db.ExecContext(ctx, query, f.ID, f.Code, f.Name, f.Image, f.Carbs, f.Info); err != nil {
			return fmt.Errorf("failed to insert favorite: %w", err)
		}
	}
	return nil
}

// Clear drops the cached collection.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}
