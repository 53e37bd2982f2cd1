// Package users provides lookup access to stored account records.
package users

import (
	"context"

	"github.com/vkazmirchuk/authgate/internal/server/models"
)

// Repository looks up user records by their normalized identifier.
// Implementations return common.ErrorNotFound when no record matches.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
