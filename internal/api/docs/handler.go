package docs

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const docPath = "/docs/swagger.yaml"

//go:embed swagger.yaml
var openAPIDoc []byte

// uiHandler serves Swagger UI pointed at the embedded document.
func uiHandler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(docPath),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

func docHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPIDoc)
}

// RegisterRoutes mounts the UI under /docs and the raw YAML next to it.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(docPath, docHandler)
	r.Get("/docs/*", uiHandler())
}
