// Package upload реализует HTTP-обработчик загрузки фотографии артикула
// через multipart/form-data. Доступен только администратору.
package upload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/lib/sl"
)

// maxUploadSize ограничивает размер загружаемого файла.
const maxUploadSize = 10 << 20

// Handler обрабатывает запросы загрузки фотографий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики загрузки фотографии.
type Service interface {
	AddPhoto(ctx context.Context, articleID int, filename string, data io.Reader) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузить фотографию артикула
// @Description Принимает файл в поле photo формы multipart/form-data.
// @Tags Photos
// @Accept  mpfd
// @Produce  json
// @Param id path int true "ID артикула"
// @Param photo formData file true "Файл фотографии"
// @Success 200 {object} map[string]any "Фотография загружена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/articles/{id}/photos [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.photo.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	articleID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid article id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("photo")
	if err != nil {
		log.Error("failed to read form file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing photo file"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	id, err := h.service.AddPhoto(r.Context(), articleID, header.Filename, file)
	if err != nil {
		log.Error("failed to add photo", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add photo"))
		return
	}

	log.Info("photo uploaded", slog.Int("article_id", articleID), slog.Int("photo_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"photo_id": id,
	}))
}
