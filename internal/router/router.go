package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/handler"
	"github.com/mxrcochxvez/lexiillc-ecommerce/internal/middleware"
	"github.com/mxrcochxvez/lexiillc-ecommerce/pkg/logger"
)

// Config holds the configuration for creating a router.
type Config struct {
	Log             *logger.Logger
	Handler         *handler.Handler
	ProductsHandler *handler.ProductsHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery(cfg.Log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.ProductsHandler != nil {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", cfg.ProductsHandler.List)
				r.Get("/meta", cfg.ProductsHandler.Meta)
				r.Get("/{id}", cfg.ProductsHandler.Get)
			})
			r.Get("/inventory/raw", cfg.ProductsHandler.Raw)
		}
	})

	return r
}
