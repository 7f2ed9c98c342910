// Package makeorder реализует HTTP-обработчик оформления заказа
// по активной корзине пользователя. После оформления корзина перестаёт
// быть активной, следующее чтение корзины вернёт новую пустую.
package makeorder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
	cart "github.com/dkovalevv/webshop/internal/services/cart"
)

// Handler обрабатывает запросы оформления заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	MakeOrder(ctx context.Context, userUID string) (*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Оформляет заказ по активной корзине. Пустая корзина — ошибка.
// @Tags Cart
// @Produce  json
// @Success 200 {object} map[string]any "Созданный заказ"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Корзина пуста"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /cart/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.makeorder"

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

	order, err := h.service.MakeOrder(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			log.Info("attempt to order empty cart")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("cart is empty"))
			return
		}
		log.Error("failed to make order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not make order"))
		return
	}

	log.Info("order created", slog.Int("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": order,
	}))
}
