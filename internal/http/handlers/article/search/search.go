// Package search реализует HTTP-обработчик поиска артикулов категории
// по ключевым словам, диапазону текущей цены и значениям характеристик.
package search

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

// Handler обрабатывает запросы поиска артикулов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики поиска.
type Service interface {
	SearchArticles(ctx context.Context, filter models.ArticleSearchFilter) ([]*models.Article, error)
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
// @Summary Поиск артикулов
// @Description Ищет видимые артикулы категории по фильтру.
// @Tags Articles
// @Accept  json
// @Produce  json
// @Param request body models.ArticleSearchFilter true "Фильтр поиска"
// @Success 200 {object} map[string]any "Найденные артикулы"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /articles/search [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var filter models.ArticleSearchFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(filter); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	articles, err := h.service.SearchArticles(r.Context(), filter)
	if err != nil {
		log.Error("failed to search articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not search articles"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles": articles,
	}))
}
