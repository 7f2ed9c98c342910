// Package list реализует HTTP-обработчик списка артикулов категории.
// Скрытые артикулы в список не попадают.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
)

// Handler обрабатывает запросы списка артикулов категории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения артикулов.
type Service interface {
	ListArticlesByCategory(ctx context.Context, categoryID int) ([]*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Артикулы категории
// @Description Возвращает видимые артикулы категории с историей цен и фотографиями.
// @Tags Articles
// @Produce  json
// @Param id path int true "ID категории"
// @Success 200 {object} map[string]any "Список артикулов"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /categories/{id}/articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categoryID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid category id"))
		return
	}

	articles, err := h.service.ListArticlesByCategory(r.Context(), categoryID)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list articles"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles": articles,
	}))
}
