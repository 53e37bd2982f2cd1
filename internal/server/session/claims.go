// Package session carries identity and authorization attributes from login
// time into every subsequent request, via a signed JWT the caller transports
// (typically in a cookie). Enrichment is one-directional: identity flows into
// the token at login; afterwards the token only replays what it was given.
package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/vkazmirchuk/authgate/internal/server/auth"
)

// Claims is the token payload. The custom fields mirror what the session view
// needs; tokens minted before a schema change may lack some of them, which is
// tolerated downstream.
type Claims struct {
	jwt.RegisteredClaims
	UserID              string `json:"uid,omitempty"`
	Role                string `json:"role,omitempty"`
	OnboardingCompleted bool   `json:"onboarding_completed,omitempty"`
}

// Enrich copies the identity's session-relevant fields into the claims. With
// no identity (an ordinary request reusing an existing token) the claims pass
// through unchanged.
func Enrich(claims *Claims, identity *auth.Identity) *Claims {
	if identity == nil {
		return claims
	}
	claims.UserID = identity.ID
	claims.Role = string(identity.Role)
	claims.OnboardingCompleted = identity.OnboardingCompleted
	return claims
}
