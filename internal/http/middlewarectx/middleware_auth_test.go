package middlewarectx_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/lib/jwt"
	"github.com/dkovalevv/webshop/internal/models"
	"github.com/dkovalevv/webshop/internal/session"
)

// sessionsMock отдаёт заранее заданные сессии по ключу роль:пользователь.
type sessionsMock struct {
	sessions map[string]*session.Session
}

func (m *sessionsMock) Get(_ context.Context, role, username string) (*session.Session, error) {
	return m.sessions[role+":"+username], nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test_secret", 15*time.Minute, time.Hour)
	logger := newNoopLogger()

	accessToken, err := maker.GenerateToken("testuser", "user", "uid-1")
	require.NoError(t, err)
	refreshToken, err := maker.GenerateRefreshToken("testuser", "user", "uid-1")
	require.NoError(t, err)
	staleToken, err := maker.GenerateToken("stale", "user", "uid-2")
	require.NoError(t, err)

	sessions := &sessionsMock{sessions: map[string]*session.Session{
		"user:testuser": {Role: "user", Username: "testuser", AccessToken: accessToken},
	}}

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Equal(t, "testuser", r.Context().Value(middlewarectx.User))
		assert.Equal(t, "user", r.Context().Value(middlewarectx.Role))
		assert.Equal(t, "uid-1", r.Context().Value(middlewarectx.UserUID))
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.JWTMiddleware(maker, sessions, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantLoginBody  bool
		wantCalled     bool
	}{
		{
			name:           "нет заголовка Authorization",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantLoginBody:  true,
		},
		{
			name:           "анонимная форма заголовка",
			authHeader:     session.AnonymousHeader,
			wantStatusCode: http.StatusUnauthorized,
			wantLoginBody:  true,
		},
		{
			name:           "мусор вместо токена",
			authHeader:     "Bearer not.a.token",
			wantStatusCode: http.StatusUnauthorized,
			wantLoginBody:  true,
		},
		{
			name:           "refresh-токен вместо access",
			authHeader:     "Bearer " + refreshToken,
			wantStatusCode: http.StatusUnauthorized,
			wantLoginBody:  true,
		},
		{
			name:           "валидный токен без живой сессии",
			authHeader:     "Bearer " + staleToken,
			wantStatusCode: http.StatusUnauthorized,
			wantLoginBody:  true,
		},
		{
			name:           "валидный токен и сессия",
			authHeader:     "Bearer " + accessToken,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantLoginBody {
				assert.Contains(t, rec.Body.String(), `"status":"login"`)
			}
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	logger := newNoopLogger()

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.AdminOnlyMiddleware(logger)(nextHandler)

	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "роль administrator",
			role:           models.RoleAdministrator,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "роль user",
			role:           models.RoleUser,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "роль отсутствует в контексте",
			role:           nil,
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.role))
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
