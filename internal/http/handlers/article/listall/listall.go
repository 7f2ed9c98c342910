// Package listall реализует HTTP-обработчик административного списка всех
// артикулов, включая скрытые, с пагинацией через query-параметры limit и offset.
package listall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler обрабатывает запросы полного списка артикулов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения всех артикулов.
type Service interface {
	ListAllArticles(ctx context.Context, limit, offset int) ([]*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все артикулы каталога
// @Description Возвращает все артикулы, включая скрытые, с пагинацией.
// @Tags Articles
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список артикулов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	articles, err := h.service.ListAllArticles(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list articles"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles": articles,
		"limit":    limit,
		"offset":   offset,
	}))
}
