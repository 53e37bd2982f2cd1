package session

import "time"

// SessionUser is the externally visible user slice of a session. Fields a
// token never carried stay empty instead of failing the projection.
type SessionUser struct {
	ID                  string `json:"id,omitempty"`
	Role                string `json:"role,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// Session is the request-scoped view rebuilt from the token on every request
// that needs one. It carries no datastore state.
type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// SessionFor projects the current claims into the session view. No datastore
// access happens here: the session replays exactly what was enriched into the
// token at login.
func SessionFor(claims *Claims) *Session {
	s := &Session{
		User: SessionUser{
			ID:                  claims.UserID,
			Role:                claims.Role,
			OnboardingCompleted: claims.OnboardingCompleted,
		},
	}
	if claims.ExpiresAt != nil {
		s.Expires = claims.ExpiresAt.Time
	}
	return s
}
