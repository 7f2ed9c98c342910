// Package remove реализует HTTP-обработчик удаления фотографии артикула.
// Вместе с привязкой удаляется файл с диска. Доступен только администратору.
package remove

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
)

// Handler обрабатывает запросы удаления фотографии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления фотографии.
type Service interface {
	RemovePhoto(ctx context.Context, articleID, photoID int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить фотографию артикула
// @Description Отвязывает фотографию от артикула и удаляет файл.
// @Tags Photos
// @Produce  json
// @Param id path int true "ID артикула"
// @Param photoId path int true "ID фотографии"
// @Success 200 {object} map[string]any "Фотография удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/articles/{id}/photos/{photoId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.photo.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	articleID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode article id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid article id"))
		return
	}
	photoID, err := strconv.Atoi(chi.URLParam(r, "photoId"))
	if err != nil {
		log.Error("failed to decode photo id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid photo id"))
		return
	}

	if err := h.service.RemovePhoto(r.Context(), articleID, photoID); err != nil {
		log.Error("failed to remove photo", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove photo"))
		return
	}

	log.Info("photo removed", slog.Int("article_id", articleID), slog.Int("photo_id", photoID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"photo_id": photoID,
	}))
}
