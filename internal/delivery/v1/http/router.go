package http

import (
	_ "github.com/DRSN-tech/product-catalog/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/internal/view"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, renderer *view.Renderer) {
	r.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // ссылка на JSON
	))

	pageHandler := NewPageHandler(prUC, renderer, r.logger)
	registerPageRoutes(r.router, pageHandler)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger)
		registerProductRoutes(v1, prHandler)
	})
}

func registerPageRoutes(router chi.Router, pageHandler *PageHandler) {
	router.Get("/", pageHandler.index)
	router.Get("/products", pageHandler.list)
	router.Post("/products", pageHandler.save)
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.submitProduct)
	})
}
