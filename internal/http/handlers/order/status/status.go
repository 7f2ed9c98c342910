// Package status реализует HTTP-обработчик смены статуса заказа.
// Переход проверяется по графу статусов и сроку возврата; недопустимый
// переход отклоняется. Доступен только администратору.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
	order "github.com/dkovalevv/webshop/internal/services/order"
)

// Handler обрабатывает запросы смены статуса заказа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены статуса.
type Service interface {
	ChangeStatus(ctx context.Context, id int, newStatus models.OrderStatus) (*order.OrderView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить статус заказа
// @Description Переводит заказ в новый статус, если переход допустим.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param id path int true "ID заказа"
// @Param request body models.DummyOrderStatus true "Новый статус"
// @Success 200 {object} map[string]any "Заказ с новым статусом"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход статуса"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/orders/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid order id"))
		return
	}

	var req models.DummyOrderStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	view, err := h.service.ChangeStatus(r.Context(), id, models.OrderStatus(req.NewStatus))
	if err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			log.Info("invalid status transition",
				slog.Int("order_id", id), slog.String("new_status", req.NewStatus))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("status transition not allowed"))
			return
		}
		log.Error("failed to change order status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not change order status"))
		return
	}

	log.Info("order status changed",
		slog.Int("order_id", id), slog.String("new_status", req.NewStatus))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order":       view.Order,
		"total":       view.Total,
		"allowedNext": view.AllowedNext,
	}))
}
