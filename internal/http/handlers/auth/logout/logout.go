// Package logout реализует HTTP-обработчик выхода: сбрасывает сессию
// роли текущего пользователя. Сессия другой роли того же клиента
// остаётся нетронутой. Повторный выход не ошибка.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, role, username string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход из аккаунта
// @Description Сбрасывает сессию роли текущего пользователя.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Сессия сброшена"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, _ := r.Context().Value(middlewarectx.User).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if username == "" || role == "" {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Login())
		return
	}

	if err := h.service.Logout(r.Context(), role, username); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to logout"))
		return
	}

	log.Info("logout success", slog.String("username", username), slog.String("role", role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": username,
	}))
}
