// Package patch реализует HTTP-обработчик изменения корзины: одно
// изменение выставляет количество одного артикула, ноль удаляет позицию.
// Ответ всегда содержит авторитетное состояние корзины с сервера —
// клиент заменяет им своё локальное состояние целиком.
package patch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
	cart "github.com/dkovalevv/webshop/internal/services/cart"
)

// Handler обрабатывает запросы изменения корзины.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения корзины.
type Service interface {
	SetQuantity(ctx context.Context, userUID string, patch models.DummyCartPatch) (*cart.CartView, error)
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
// @Summary Изменить количество артикула в корзине
// @Description Выставляет количество артикула; ноль удаляет позицию. Возвращает корзину целиком.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Param request body models.DummyCartPatch true "Артикул и новое количество"
// @Success 200 {object} map[string]any "Обновлённая корзина"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /cart [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.patch"

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

	var req models.DummyCartPatch
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

	view, err := h.service.SetQuantity(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to update cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update cart"))
		return
	}

	log.Info("cart updated",
		slog.Int("article_id", req.ArticleID),
		slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cart":  view.Cart,
		"total": view.Total,
	}))
}
