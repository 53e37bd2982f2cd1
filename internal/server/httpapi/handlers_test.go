package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vkazmirchuk/authgate/internal/common"
	"github.com/vkazmirchuk/authgate/internal/logging"
	"github.com/vkazmirchuk/authgate/internal/server/auth"
	"github.com/vkazmirchuk/authgate/internal/server/config"
	"github.com/vkazmirchuk/authgate/internal/server/models"
	"github.com/vkazmirchuk/authgate/internal/server/repositories/users"
	"github.com/vkazmirchuk/authgate/internal/server/session"
)

// --- fakes ---

type fakeUsersRepo struct {
	out *models.User
	err error
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeStore struct {
	healthy bool
}

func (f *fakeStore) EnsureConnection(ctx context.Context) bool { return f.healthy }
func (f *fakeStore) RunMigrations(ctx context.Context) error   { return nil }
func (f *fakeStore) Users() users.Repository                   { return nil }
func (f *fakeStore) Conn() *sql.DB                             { return nil }
func (f *fakeStore) Close(ctx context.Context) error           { return nil }

// --- helpers ---

func newTestServer(t *testing.T, repo users.Repository, store *fakeStore, maxAge time.Duration) *Server {
	t.Helper()

	cfg := &config.Config{
		Addr:        ":0",
		Environment: config.EnvDevelopment,
		CORSOrigin:  "http://localhost:3000",
		CookieName:  "authgate_session",
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return NewServer(cfg,
		logger,
		auth.NewService(repo, logger),
		session.NewService("test-secret", maxAge),
		store)
}

func storedUser(t *testing.T, password string) *models.User {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:                  "u-1",
		Email:               "alice@example.com",
		Name:                "Alice",
		PasswordHash:        sql.NullString{String: string(h), Valid: true},
		Status:              models.UserStatusActive,
		Role:                models.UserRoleUser,
		OnboardingCompleted: true,
	}
}

func doLogin(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestLogin_SuccessSetsCookieAndReturnsIdentity(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{out: storedUser(t, "correct-horse")}, &fakeStore{}, time.Hour)
	h := srv.Handler()

	rec := doLogin(t, h, `{"email":"Alice@Example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got identityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, got.ID, "u-1")
	assert.Equal(t, got.Email, "alice@example.com")
	assert.Equal(t, got.Role, "USER")
	assert.True(t, got.OnboardingCompleted)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookies[0].Name, "authgate_session")
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogin_ThenSessionRoundTrip(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{out: storedUser(t, "correct-horse")}, &fakeStore{}, time.Hour)
	h := srv.Handler()

	rec := doLogin(t, h, `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)

	require.Equal(t, http.StatusOK, rec2.Code)
	var s session.Session
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &s))
	assert.Equal(t, s.User.ID, "u-1")
	assert.Equal(t, s.User.Role, "USER")
	assert.True(t, s.User.OnboardingCompleted)
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	unknownSrv := newTestServer(t, &fakeUsersRepo{err: common.ErrorNotFound}, &fakeStore{}, time.Hour)
	wrongSrv := newTestServer(t, &fakeUsersRepo{out: storedUser(t, "right-password")}, &fakeStore{}, time.Hour)

	recUnknown := doLogin(t, unknownSrv.Handler(), `{"email":"ghost@example.com","password":"x"}`)
	recWrong := doLogin(t, wrongSrv.Handler(), `{"email":"alice@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, recUnknown.Body.String(), recWrong.Body.String())
}

func TestLogin_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{}, &fakeStore{}, time.Hour)

	rec := doLogin(t, srv.Handler(), `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession_NoCookie(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{}, &fakeStore{}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_ExpiredToken(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{out: storedUser(t, "correct-horse")}, &fakeStore{}, -1*time.Second)
	h := srv.Handler()

	rec := doLogin(t, h, `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)

	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "session expired")
}

func TestSession_GarbageToken(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{}, &fakeStore{}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "authgate_session", Value: "not.a.jwt"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	srv := newTestServer(t, &fakeUsersRepo{}, &fakeStore{}, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookies[0].Name, "authgate_session")
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestHealthz(t *testing.T) {
	healthy := newTestServer(t, &fakeUsersRepo{}, &fakeStore{healthy: true}, time.Hour)
	degraded := newTestServer(t, &fakeUsersRepo{}, &fakeStore{healthy: false}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	rec := httptest.NewRecorder()
	healthy.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec2 := httptest.NewRecorder()
	degraded.Handler().ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec2.Code)
}
