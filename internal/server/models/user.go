// Package models holds the persistent records owned by the datastore.
package models

import (
	"database/sql"
	"time"
)

// UserStatus gates login. Only active accounts may authenticate.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusPending   UserStatus = "PENDING"
)

// UserRole is an authorization level carried through to the session.
// The auth pipeline treats it as opaque.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// User is the stored account record. Email is unique and persisted in
// lowercase form. PasswordHash is null for accounts without password-based
// login (e.g. provisioned externally).
type User struct {
	ID                  string
	Email               string
	Name                string
	Image               string
	PasswordHash        sql.NullString
	Status              UserStatus
	Role                UserRole
	OnboardingCompleted bool
	CreatedAt           time.Time
}
