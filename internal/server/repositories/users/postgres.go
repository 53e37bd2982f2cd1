package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkazmirchuk/authgate/internal/common"
	"github.com/vkazmirchuk/authgate/internal/dbx"
	"github.com/vkazmirchuk/authgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByEmail fetches the account record for an already-normalized
// (lowercase) email. Callers own the normalization.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, name, image, password_hash, status, role, onboarding_completed, created_at
		 FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	var name, image sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &name, &image, &user.PasswordHash,
		&user.Status, &user.Role, &user.OnboardingCompleted, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Name = name.String
	user.Image = image.String

	return user, nil
}
