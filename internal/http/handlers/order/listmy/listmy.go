// Package listmy реализует HTTP-обработчик списка заказов текущего
// пользователя.
package listmy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	order "github.com/dkovalevv/webshop/internal/services/order"
)

// Handler обрабатывает запросы списка заказов пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения заказов пользователя.
type Service interface {
	ListOrdersByUser(ctx context.Context, userUID string) ([]*order.OrderView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заказы текущего пользователя
// @Description Возвращает заказы пользователя с суммами, новые первыми.
// @Tags Orders
// @Produce  json
// @Success 200 {object} map[string]any "Список заказов"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.listmy"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Login())
		return
	}

	orders, err := h.service.ListOrdersByUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list orders"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"orders": orders,
	}))
}
