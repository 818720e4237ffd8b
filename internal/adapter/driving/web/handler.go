// Package web implements the browser driving adapter. Every user action is a
// form POST that is delivered to the controllers on the event loop, followed
// by a redirect back to the page, which renders the controllers' view state.
package web

import (
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/gencheck/internal/adapter/driving/web/components"
	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// Handler is the web GUI driving adapter.
type Handler struct {
	exec     application.Executor
	panel    *application.CredentialPanel
	workflow *application.AnalysisWorkflow
	logger   *slog.Logger
}

// NewHandler creates a Handler. Controller methods are only ever invoked
// through exec.
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

// Page renders the full page from the current view state of both controllers.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	token := ensureCSRFToken(w, r)

	var (
		panel application.PanelView
		wf    application.WorkflowView
	)
	if err := h.exec.Do(r.Context(), func() {
		panel = h.panel.View()
		wf = h.workflow.View()
	}); err != nil {
		h.logger.Error("failed to read view state", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	page := components.Page(toPageViewModel(panel, wf, token))
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Analyze records the submitted date and submits it.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	date := r.FormValue("join_date")
	h.act(w, r, func() {
		h.workflow.SetJoinDate(date)
		h.workflow.Submit()
	})
}

// Reset returns the workflow to an empty input form.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.workflow.Reset)
}

// OpenSettings reveals the credential panel.
func (h *Handler) OpenSettings(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.panel.Open)
}

// CloseSettings hides the credential panel.
func (h *Handler) CloseSettings(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.panel.Close)
}

// SaveSettings records the submitted keys and saves them.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFromForm(r)
	h.act(w, r, func() {
		h.panel.SetFields(creds)
		h.panel.Save()
	})
}

// TestConnection records the submitted keys and tests the provider in the path.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	provider, err := model.ParseProvider(r.PathValue("provider"))
	if err != nil {
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}

	creds := credentialsFromForm(r)
	h.act(w, r, func() {
		h.panel.SetFields(creds)
		h.panel.TestConnection(provider)
	})
}

// act runs fn on the event loop and redirects back to the page.
func (h *Handler) act(w http.ResponseWriter, r *http.Request, fn func()) {
	if err := h.exec.Do(r.Context(), fn); err != nil {
		h.logger.Error("failed to deliver action", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// credentialsFromForm reads one field per provider. Absent fields are empty.
func credentialsFromForm(r *http.Request) model.CredentialSet {
	creds := make(model.CredentialSet, len(model.Providers()))
	for _, p := range model.Providers() {
		creds[p] = r.FormValue(string(p))
	}
	return creds
}
