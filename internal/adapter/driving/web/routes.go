package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the page, the action routes and the embedded
// static assets on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Page)

	mux.HandleFunc("POST /app/analyze", requireCSRF(h.Analyze))
	mux.HandleFunc("POST /app/reset", requireCSRF(h.Reset))
	mux.HandleFunc("POST /app/settings/open", requireCSRF(h.OpenSettings))
	mux.HandleFunc("POST /app/settings/close", requireCSRF(h.CloseSettings))
	mux.HandleFunc("POST /app/settings/save", requireCSRF(h.SaveSettings))
	mux.HandleFunc("POST /app/settings/test/{provider}", requireCSRF(h.TestConnection))
}
