// Package httphandler implements the JSON driving adapter: health probing and
// a read-only snapshot of the controllers' view state.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/gencheck/internal/application"
)

const (
	healthPath = "/api/v1/health"
	viewsPath  = "/api/v1/views"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	exec     application.Executor
	panel    *application.CredentialPanel
	workflow *application.AnalysisWorkflow
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	exec application.Executor,
	panel *application.CredentialPanel,
	workflow *application.AnalysisWorkflow,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		exec:     exec,
		panel:    panel,
		workflow: workflow,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET "+healthPath, h.Health)
	mux.HandleFunc("GET "+viewsPath, h.Views)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Views returns the current view state of both controllers.
func (h *Handler) Views(w http.ResponseWriter, r *http.Request) {
	var (
		panel application.PanelView
		wf    application.WorkflowView
	)
	if err := h.exec.Do(r.Context(), func() {
		panel = h.panel.View()
		wf = h.workflow.View()
	}); err != nil {
		h.logger.Error("failed to read view state", "error", err)
		writeError(w, http.StatusServiceUnavailable, "view state unavailable")
		return
	}

	writeJSON(w, http.StatusOK, toViewsResponse(panel, wf))
}
