package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/futig/pdfqa/internal/api/docs"
	"github.com/futig/pdfqa/internal/api/middleware"
	"github.com/futig/pdfqa/internal/api/qa"
	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(cfg config.MockServerConfig, qaHandler *qa.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(corsHandler(cfg.AllowedOrigins).Handler) // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	if base := basePath(cfg.BasePath); base != "" {
		r.Route(base, func(r chi.Router) {
			qa.RegisterRoutes(r, qaHandler)
		})
	} else {
		qa.RegisterRoutes(r, qaHandler)
	}

	return r
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-Id",
		},
		ExposedHeaders: []string{
			"X-Request-Id",
		},
		MaxAge: 300,
	})
}

// basePath normalises the prefix to "/api" form; "" means the root.
func basePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
