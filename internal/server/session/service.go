package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vkazmirchuk/authgate/internal/common"
	"github.com/vkazmirchuk/authgate/internal/server/auth"
)

// Service mints and verifies session tokens (HS256, shared secret).
type Service struct {
	secret []byte
	maxAge time.Duration
}

func NewService(secret string, maxAge time.Duration) *Service {
	return &Service{secret: []byte(secret), maxAge: maxAge}
}

// Issue mints a signed token for a freshly authenticated identity. The token
// expires after the configured max age, forcing re-authentication.
func (s *Service) Issue(identity *auth.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
	}
	Enrich(claims, identity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a token string and returns its claims. Expired tokens map to
// common.ErrTokenExpired; anything else malformed or forged maps to
// common.ErrInvalidToken.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// MaxAge reports the configured token lifetime, used by the transport layer
// to bound the session cookie.
func (s *Service) MaxAge() time.Duration {
	return s.maxAge
}
