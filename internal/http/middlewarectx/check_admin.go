package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dkovalevv/webshop/internal/http/response"
	"github.com/dkovalevv/webshop/internal/models"
)

// AdminOnlyMiddleware пропускает дальше только запросы с ролью administrator.
// Ставится после JWTMiddleware, который кладёт роль в контекст.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminOnlyMiddleware"

			role, ok := r.Context().Value(Role).(string)
			if !ok || role != models.RoleAdministrator {
				log.Error("administrator role required",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", role),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("administrator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
