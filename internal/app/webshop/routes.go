// Package webshop предоставляет маршруты приложения магазина.
package webshop

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	articlecreate "github.com/dkovalevv/webshop/internal/http/handlers/article/create"
	articlelist "github.com/dkovalevv/webshop/internal/http/handlers/article/list"
	articlelistall "github.com/dkovalevv/webshop/internal/http/handlers/article/listall"
	articleread "github.com/dkovalevv/webshop/internal/http/handlers/article/read"
	articlesearch "github.com/dkovalevv/webshop/internal/http/handlers/article/search"
	articleupdate "github.com/dkovalevv/webshop/internal/http/handlers/article/update"
	"github.com/dkovalevv/webshop/internal/http/handlers/auth/login"
	"github.com/dkovalevv/webshop/internal/http/handlers/auth/logout"
	"github.com/dkovalevv/webshop/internal/http/handlers/auth/refresh"
	"github.com/dkovalevv/webshop/internal/http/handlers/auth/register"
	cartmakeorder "github.com/dkovalevv/webshop/internal/http/handlers/cart/makeorder"
	cartpatch "github.com/dkovalevv/webshop/internal/http/handlers/cart/patch"
	cartread "github.com/dkovalevv/webshop/internal/http/handlers/cart/read"
	categorycreate "github.com/dkovalevv/webshop/internal/http/handlers/category/create"
	categorylist "github.com/dkovalevv/webshop/internal/http/handlers/category/list"
	categoryread "github.com/dkovalevv/webshop/internal/http/handlers/category/read"
	categoryupdate "github.com/dkovalevv/webshop/internal/http/handlers/category/update"
	featurecreate "github.com/dkovalevv/webshop/internal/http/handlers/feature/create"
	featurelist "github.com/dkovalevv/webshop/internal/http/handlers/feature/list"
	featureupdate "github.com/dkovalevv/webshop/internal/http/handlers/feature/update"
	"github.com/dkovalevv/webshop/internal/http/handlers/health"
	orderlist "github.com/dkovalevv/webshop/internal/http/handlers/order/list"
	orderlistmy "github.com/dkovalevv/webshop/internal/http/handlers/order/listmy"
	orderstatus "github.com/dkovalevv/webshop/internal/http/handlers/order/status"
	photoremove "github.com/dkovalevv/webshop/internal/http/handlers/photo/remove"
	photoupload "github.com/dkovalevv/webshop/internal/http/handlers/photo/upload"
	"github.com/dkovalevv/webshop/internal/http/middlewarectx"
	"github.com/dkovalevv/webshop/internal/lib/jwt"
	"github.com/dkovalevv/webshop/internal/metrics"
	"github.com/dkovalevv/webshop/internal/session"
	authservice "github.com/dkovalevv/webshop/internal/services/auth"
	cartservice "github.com/dkovalevv/webshop/internal/services/cart"
	catalogservice "github.com/dkovalevv/webshop/internal/services/catalog"
	orderservice "github.com/dkovalevv/webshop/internal/services/order"
)

// Services объединяет зависимости маршрутов приложения.
type Services struct {
	Auth     *authservice.AuthService
	Catalog  *catalogservice.CatalogService
	Cart     *cartservice.CartService
	Order    *orderservice.OrderService
	JWT      jwt.Maker
	Sessions *session.Store
	Metrics  *metrics.Collector
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services, photoDir string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		s.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, s.Auth).ServeHTTP)

		// Открытый каталог
		r.Get("/categories", categorylist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/categories/{id}", categoryread.New(logger, s.Catalog).ServeHTTP)
		r.Get("/categories/{id}/articles", articlelist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/categories/{id}/features", featurelist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/articles/{id}", articleread.New(logger, s.Catalog).ServeHTTP)
		r.Post("/articles/search", articlesearch.New(logger, s.Catalog).ServeHTTP)

		// Группа аутентифицированных пользователей
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWT, s.Sessions, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Get("/cart", cartread.New(logger, s.Cart).ServeHTTP)
			r.Patch("/cart", cartpatch.New(logger, s.Cart).ServeHTTP)
			r.Post("/cart/order", cartmakeorder.New(logger, s.Cart).ServeHTTP)
			r.Get("/orders", orderlistmy.New(logger, s.Order).ServeHTTP)
		})

		// Группа администратора
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWT, s.Sessions, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/categories", categorycreate.New(logger, s.Catalog).ServeHTTP)
			r.Put("/categories/{id}", categoryupdate.New(logger, s.Catalog).ServeHTTP)

			r.Get("/articles", articlelistall.New(logger, s.Catalog).ServeHTTP)
			r.Post("/articles", articlecreate.New(logger, s.Catalog).ServeHTTP)
			r.Put("/articles/{id}", articleupdate.New(logger, s.Catalog).ServeHTTP)
			r.Post("/articles/{id}/photos", photoupload.New(logger, s.Catalog).ServeHTTP)
			r.Delete("/articles/{id}/photos/{photoId}", photoremove.New(logger, s.Catalog).ServeHTTP)

			r.Post("/features", featurecreate.New(logger, s.Catalog).ServeHTTP)
			r.Put("/features/{id}", featureupdate.New(logger, s.Catalog).ServeHTTP)

			r.Get("/orders", orderlist.New(logger, s.Order).ServeHTTP)
			r.Put("/orders/{id}/status", orderstatus.New(logger, s.Order).ServeHTTP)
		})
	})

	// Файлы фотографий артикулов
	r.Handle("/photos/*", http.StripPrefix("/photos/", http.FileServer(http.Dir(photoDir))))

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
