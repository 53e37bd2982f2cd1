// Package auth implements the login-time authentication decision: credential
// shape checks, account lookup, password verification, and account-status
// gating. Every failure collapses to one uniform rejection; the reason is an
// operator-facing log concern only.
package auth

import "github.com/vkazmirchuk/authgate/internal/server/models"

// Identity is the projection of a user record handed out after a successful
// login. It never carries the password hash.
type Identity struct {
	ID                  string
	Name                string
	Email               string
	Role                models.UserRole
	Image               string
	OnboardingCompleted bool
}

func identityFromUser(u *models.User) *Identity {
	return &Identity{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		Image:               u.Image,
		OnboardingCompleted: u.OnboardingCompleted,
	}
}
