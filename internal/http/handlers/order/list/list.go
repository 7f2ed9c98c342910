// Package list реализует HTTP-обработчик административного списка всех
// заказов магазина с суммами и допустимыми переходами статуса.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	order "github.com/dkovalevv/webshop/internal/services/order"
)

// Handler обрабатывает запросы списка всех заказов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения заказов.
type Service interface {
	ListOrders(ctx context.Context) ([]*order.OrderView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все заказы магазина
// @Description Возвращает все заказы с суммами и допустимыми переходами статуса.
// @Tags Orders
// @Produce  json
// @Success 200 {object} map[string]any "Список заказов"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orders, err := h.service.ListOrders(r.Context())
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
