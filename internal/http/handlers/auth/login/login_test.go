package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auth "github.com/dkovalevv/webshop/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if res := args.Get(0); res != nil {
		return res.(*auth.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход возвращает пару токенов и роль",
			body: `{"username":"ivan","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivan", "secret123").Return(&auth.TokenPair{
					AccessToken:  "access-token",
					RefreshToken: "refresh-token",
					Role:         "user",
					Username:     "ivan",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"refresh_token":"refresh-token"`,
		},
		{
			name:           "некорректный JSON",
			body:           `not-json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "короткий пароль не проходит валидацию",
			body:           `{"username":"ivan","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"error"`,
		},
		{
			name: "неверные учетные данные",
			body: `{"username":"ivan","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivan", "wrongpass").
					Return(nil, auth.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name: "внутренняя ошибка сервиса",
			body: `{"username":"ivan","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivan", "secret123").
					Return(nil, errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to login"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
