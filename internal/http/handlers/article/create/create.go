// Package create реализует HTTP-обработчик создания артикула.
// Переданная цена становится первой записью истории цен.
// Доступен только администратору.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
)

// Handler обрабатывает запросы создания артикула.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания артикула.
type Service interface {
	CreateArticle(ctx context.Context, req models.DummyArticle) (int, error)
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
// @Summary Создать артикул
// @Description Добавляет артикул с первой записью истории цен и характеристиками.
// @Tags Articles
// @Accept  json
// @Produce  json
// @Param request body models.DummyArticle true "Данные артикула"
// @Success 200 {object} map[string]any "Артикул создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/articles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyArticle
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

	id, err := h.service.CreateArticle(r.Context(), req)
	if err != nil {
		log.Error("failed to create article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create article"))
		return
	}

	log.Info("article created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"article_id": id,
	}))
}
