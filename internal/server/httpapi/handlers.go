package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vkazmirchuk/authgate/internal/common"
	"github.com/vkazmirchuk/authgate/internal/server/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name,omitempty"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	Image               string `json:"image,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// handleLogin accepts a credential pair and answers with the identity
// projection plus a session cookie, or a uniform 401. The response never
// distinguishes why a login failed.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	defer r.Body.Close()

	identity, err := s.auth.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.sessions.Issue(identity)
	if err != nil {
		s.logger.Error(r.Context(), "token issue error", "error", err)
		errorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, identityResponse{
		ID:                  identity.ID,
		Name:                identity.Name,
		Email:               identity.Email,
		Role:                string(identity.Role),
		Image:               identity.Image,
		OnboardingCompleted: identity.OnboardingCompleted,
	})
}

// handleSession rebuilds the session view from the cookie-carried token.
// Absent, expired, and invalid tokens all answer 401; the client is expected
// to redirect to its login surface.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(s.cookieName)
	if err != nil || c.Value == "" {
		errorJSON(w, http.StatusUnauthorized, "no session")
		return
	}

	claims, err := s.sessions.Parse(c.Value)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			s.clearSessionCookie(w)
			errorJSON(w, http.StatusUnauthorized, "session expired")
			return
		}
		s.clearSessionCookie(w)
		errorJSON(w, http.StatusUnauthorized, "invalid session")
		return
	}

	writeJSON(w, http.StatusOK, session.SessionFor(claims))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// handleHealthz reports store reachability, retrying per the resilience
// policy before declaring the store unavailable.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.store.EnsureConnection(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- cookie helpers ---

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
		Expires:  time.Now().Add(s.sessions.MaxAge()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
		MaxAge:   -1,
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
