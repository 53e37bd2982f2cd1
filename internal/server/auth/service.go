package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/vkazmirchuk/authgate/internal/common"
	"github.com/vkazmirchuk/authgate/internal/logging"
	"github.com/vkazmirchuk/authgate/internal/server/models"
	"github.com/vkazmirchuk/authgate/internal/server/repositories/users"
)

// Internal rejection reasons. These reach the audit log only, never the
// caller: to the requester every failed login is the same failed login.
const (
	reasonMissingCredentials = "missing_credentials"
	reasonUnknownIdentifier  = "unknown_identifier"
	reasonNoPasswordLogin    = "no_password_login"
	reasonWrongPassword      = "wrong_password"
	reasonAccountNotActive   = "account_not_active"
	reasonStoreError         = "store_error"
)

// Service decides, per login attempt, whether the presented credentials
// identify a usable account.
type Service struct {
	repo   users.Repository
	logger logging.Logger
}

func NewService(repo users.Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With("module", "auth"),
	}
}

// Authenticate runs the ordered credential pipeline: shape check, lookup,
// password verification, status gate. Cheap checks run before the lookup and
// the bcrypt compare; the order is load-bearing. On success it returns the
// identity projection; on any failure it returns common.ErrorUnauthorized
// after logging the specific reason.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, s.reject(ctx, email, reasonMissingCredentials, nil)
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(ctx, normalized, reasonUnknownIdentifier, nil)
		}
		return nil, s.reject(ctx, normalized, reasonStoreError, err)
	}

	if !user.PasswordHash.Valid || user.PasswordHash.String == "" {
		return nil, s.reject(ctx, normalized, reasonNoPasswordLogin, nil)
	}

	if !checkPassword(user.PasswordHash.String, password) {
		return nil, s.reject(ctx, normalized, reasonWrongPassword, nil)
	}

	if user.Status != models.UserStatusActive {
		s.logger.Warn(ctx, "login rejected",
			"reason", reasonAccountNotActive,
			"identifier", normalized,
			"status", string(user.Status))
		return nil, common.ErrorUnauthorized
	}

	return identityFromUser(user), nil
}

// reject logs the internal reason and returns the uniform rejection error.
func (s *Service) reject(ctx context.Context, identifier, reason string, err error) error {
	if err != nil {
		s.logger.Error(ctx, "login rejected",
			"reason", reason,
			"identifier", identifier,
			"error", err)
	} else {
		s.logger.Warn(ctx, "login rejected",
			"reason", reason,
			"identifier", identifier)
	}
	return common.ErrorUnauthorized
}
