// Package read реализует HTTP-обработчик чтения активной корзины
// текущего пользователя вместе с итоговой суммой.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	cart "github.com/dkovalevv/webshop/internal/services/cart"
)

// Handler обрабатывает запросы чтения корзины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения корзины.
type Service interface {
	GetCart(ctx context.Context, userUID string) (*cart.CartView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Активная корзина
// @Description Возвращает активную корзину пользователя с итоговой суммой.
// @Tags Cart
// @Produce  json
// @Success 200 {object} map[string]any "Корзина"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.read"

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

	view, err := h.service.GetCart(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read cart"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart":  view.Cart,
		"total": view.Total,
	}))
}
