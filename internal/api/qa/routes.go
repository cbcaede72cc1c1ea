package qa

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the upload and ask endpoints
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/upload", h.Upload)
	r.Post("/ask", h.Ask)
}
