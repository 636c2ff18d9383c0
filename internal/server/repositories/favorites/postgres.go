// Package favorites provides the PostgreSQL-backed authoritative store
// for saved food-lookup results.
package favorites

import (
	"context"
	"fmt"

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

// Insert stores a favorite. A duplicate (user_id, code, info) is silently
// skipped and the favorite is returned unchanged with an empty id.
func (r *PostgresRepository) Insert(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error) {
	if favorite.ID == "" {
		favorite.ID = uuid.NewString()
	}

	query := `
		INSERT INTO favorites (id, user_id, code, name, image, carbs, info)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, code, info) DO NOTHING
		RETURNING inserted_at
	`
	rows, err := r.db.QueryContext(ctx, query,
		favorite.ID, favorite.UserID, favorite.Code, favorite.Name, favorite.Image, favorite.Carbs, favorite.Info)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		// duplicate; no row inserted
		favorite.ID = ""
		return favorite, rows.Err()
	}
	if err := rows.Scan(&favorite.InsertedAt); err != nil {
		return nil, err
	}
	return favorite, rows.Err()
}

// Delete removes a favorite owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM favorites WHERE id = $1 AND user_id = $2`

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

// ListByUser returns a user's favorites, most recently saved first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	query := `
		SELECT id, user_id, code, name, image, carbs, info, inserted_at FROM favorites
		WHERE user_id = $1
		ORDER BY inserted_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select favorites: %w", err)
	}
	defer rows.Close()

	var result []*models.Favorite
	for rows.Next() {
		item := &models.Favorite{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Code, &item.Name,
			&item.Image, &item.Carbs, &item.Info, &item.InsertedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
