// Package read реализует HTTP-обработчик чтения артикула по ID вместе
// с категорией, историей цен, фотографиями и характеристиками.
package read

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

// Handler обрабатывает запросы чтения артикула.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения артикула.
type Service interface {
	ReadArticle(ctx context.Context, id int) (*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Артикул по ID
// @Description Возвращает артикул с историей цен, фотографиями и характеристиками.
// @Tags Articles
// @Produce  json
// @Param id path int true "ID артикула"
// @Success 200 {object} map[string]any "Артикул"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /articles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid article id"))
		return
	}

	article, err := h.service.ReadArticle(r.Context(), id)
	if err != nil {
		log.Error("failed to read article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read article"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
