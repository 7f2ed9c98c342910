// Package middlewarectx содержит HTTP middleware аутентификации и авторизации.
//
// JWTMiddleware проверяет наличие и валидность access-токена в заголовке
// Authorization и наличие живой сессии в хранилище; при успехе кладёт в
// контекст имя пользователя, роль и UID. Любой сбой проверки отвечает
// статусом login и HTTP 401 — клиент сбрасывает сессию и уходит на страницу
// входа своей роли.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/jwt"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
)

// TokenParser описывает интерфейс разбора access-токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// SessionReader описывает чтение сохранённой сессии роли.
type SessionReader interface {
	Get(ctx context.Context, role, username string) (*session.Session, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет access-токен
// в заголовке Authorization и сверяет его с сохранённой сессией.
func JWTMiddleware(parser TokenParser, sessions SessionReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				log.Error("missing or anonymous authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Login())
				return
			}

			claims, err := parser.ParseToken(token)
			if err != nil || claims.TokenType != jwt.TypeAccess {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Login())
				return
			}

			sess, err := sessions.Get(r.Context(), claims.Role, claims.Username)
			if err != nil {
				log.Error("failed to read session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Login())
				return
			}
			if sess == nil || sess.AccessToken != token {
				log.Error("no live session for token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Login())
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
