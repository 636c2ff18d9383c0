// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh tokens used in the server's authentication flow. Tokens are
// looked up by hash; the opaque token itself never touches storage.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

// Create inserts a refresh token hash for userID expiring at now+validity.
func (r *PostgresRepository) Create(ctx context.Context, userID string, tokenHash []byte, validity time.Duration) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, tokenHash, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the row for the given token hash, or common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, tokenHash []byte) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	token := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Delete removes a refresh token by hash. Deleting a missing token is not
// an error; rotation races resolve in favor of whoever got here first.
func (r *PostgresRepository) Delete(ctx context.Context, tokenHash []byte) error {
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1`
	if _, err := r.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteForUser wipes all refresh tokens of a user (sign-out everywhere).
func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
