package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// StatusResponse is the JSON representation of a status region.
type StatusResponse struct {
	Visible  bool   `json:"visible"`
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

// PanelResponse is the JSON representation of the credential panel. Keys are
// reported as configured or not; their values never leave the process.
type PanelResponse struct {
	Visible    bool            `json:"visible"`
	Configured map[string]bool `json:"configured"`
	Status     StatusResponse  `json:"status"`
}

// ResultResponse is the JSON representation of a displayed analysis result.
type ResultResponse struct {
	Generation     int    `json:"generation"`
	GenerationName string `json:"generation_name"`
	Headline       string `json:"headline"`
	Markdown       bool   `json:"markdown"`
}

// WorkflowResponse is the JSON representation of the analysis workflow.
type WorkflowResponse struct {
	Mode     string          `json:"mode"`
	JoinDate string          `json:"join_date"`
	Error    StatusResponse  `json:"error"`
	Result   *ResultResponse `json:"result,omitempty"`
}

// ViewsResponse is the JSON representation of both controllers' view state.
type ViewsResponse struct {
	Settings PanelResponse    `json:"settings"`
	Analysis WorkflowResponse `json:"analysis"`
}

func toStatusResponse(s application.StatusView) StatusResponse {
	severity := string(s.Message.Severity)
	if severity == "" {
		severity = "neutral"
	}
	return StatusResponse{
		Visible:  s.Visible,
		Text:     s.Message.Text,
		Severity: severity,
	}
}

func toViewsResponse(panel application.PanelView, wf application.WorkflowView) ViewsResponse {
	configured := make(map[string]bool, len(model.Providers()))
	for _, p := range model.Providers() {
		configured[string(p)] = panel.Fields[p] != ""
	}

	resp := ViewsResponse{
		Settings: PanelResponse{
			Visible:    panel.Visible,
			Configured: configured,
			Status:     toStatusResponse(panel.Status),
		},
		Analysis: WorkflowResponse{
			Mode:     wf.Mode.String(),
			JoinDate: wf.JoinDate,
			Error:    toStatusResponse(wf.Error),
		},
	}
	if wf.Result != nil {
		resp.Analysis.Result = &ResultResponse{
			Generation:     wf.Result.Result.Generation,
			GenerationName: wf.Result.Result.GenerationName,
			Headline:       wf.Result.Headline,
			Markdown:       wf.Result.Explanation.Markdown,
		}
	}
	return resp
}
