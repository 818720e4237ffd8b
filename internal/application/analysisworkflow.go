package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// DefaultErrorHideDelay is how long the error banner stays visible.
const DefaultErrorHideDelay = 3 * time.Second

// Mode is the main view configuration of the analysis workflow.
type Mode int

const (
	// ModeInput shows the date form. Error recovery also lands here.
	ModeInput Mode = iota
	// ModeLoading shows only the loading indicator.
	ModeLoading
	// ModeResult shows the generation result.
	ModeResult
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeLoading:
		return "loading"
	case ModeResult:
		return "result"
	default:
		return "unknown"
	}
}

// ResultView is the render state of a received analysis result.
type ResultView struct {
	Result      model.AnalysisResult
	Headline    string
	Explanation RenderedExplanation
}

// WorkflowView is the render state of the analysis workflow. Exactly one of
// the input form, loading indicator and result is visible; the error banner
// is independent of the mode.
type WorkflowView struct {
	Mode          Mode
	JoinDate      string
	FocusJoinDate bool
	ScrollSeq     int // incremented whenever the surface should scroll to the top
	Error         StatusView
	Result        *ResultView // non-nil only in ModeResult
}

// InputVisible reports whether the date form is shown.
func (v WorkflowView) InputVisible() bool { return v.Mode == ModeInput }

// LoadingVisible reports whether the loading indicator is shown.
func (v WorkflowView) LoadingVisible() bool { return v.Mode == ModeLoading }

// ResultVisible reports whether the result is shown.
func (v WorkflowView) ResultVisible() bool { return v.Mode == ModeResult }

// AnalysisWorkflow controls the date input, the single classification call
// and the rendering of its result. All methods must run on the scheduler's loop.
type AnalysisWorkflow struct {
	api      driven.AnalysisAPI
	sched    Scheduler
	renderer ExplanationRenderer
	logger   *slog.Logger

	mode      Mode
	joinDate  string
	focus     bool
	scrollSeq int
	result    *ResultView
	banner    *StatusRegion
}

// NewAnalysisWorkflow creates a workflow in ModeInput. The error banner hides
// itself errorHide after it was last shown.
func NewAnalysisWorkflow(
	api driven.AnalysisAPI,
	sched Scheduler,
	renderer ExplanationRenderer,
	errorHide time.Duration,
	logger *slog.Logger,
) *AnalysisWorkflow {
	return &AnalysisWorkflow{
		api:      api,
		sched:    sched,
		renderer: renderer,
		logger:   logger,
		mode:     ModeInput,
		banner:   NewStatusRegion(sched, errorHide),
	}
}

// SetJoinDate records the content of the date field.
func (w *AnalysisWorkflow) SetJoinDate(date string) {
	w.joinDate = date
	w.focus = false
}

// HandleKey handles a key press on the date field. Enter submits.
func (w *AnalysisWorkflow) HandleKey(key string) {
	if key == "Enter" {
		w.Submit()
	}
}

// Submit validates the date and issues exactly one analysis request. An empty
// date shows a local error and focuses the field without any request.
// Submitting while a request is in flight is ignored.
func (w *AnalysisWorkflow) Submit() {
	if w.mode == ModeLoading {
		w.logger.Debug("ignoring submit while analysis is in flight")
		return
	}

	req := model.AnalysisRequest{JoinDate: w.joinDate}
	if err := req.Validate(); err != nil {
		w.banner.Show(msgJoinDateRequired, model.SeverityError)
		w.focus = true
		return
	}

	w.focus = false
	w.result = nil
	w.mode = ModeLoading

	w.sched.Go(func() func() {
		res, err := w.api.Analyze(context.Background(), req)
		return func() { w.settle(res, err) }
	})
}

func (w *AnalysisWorkflow) settle(res model.AnalysisResult, err error) {
	defer func() {
		// The loading indicator never survives a settled request.
		if w.mode == ModeLoading {
			w.mode = ModeInput
		}
	}()

	if err != nil {
		w.logger.Warn("analysis failed", "error", err)
		w.banner.Show(describeFailure(err, msgAnalysisFailed, msgAnalysisTransport), model.SeverityError)
		w.mode = ModeInput
		return
	}

	w.result = &ResultView{
		Result:      res,
		Headline:    res.Headline(),
		Explanation: w.renderer.Render(res.Explanation),
	}
	w.mode = ModeResult
	w.scrollSeq++
}

// Reset returns from the result to an empty input form.
func (w *AnalysisWorkflow) Reset() {
	if w.mode == ModeLoading {
		w.logger.Debug("ignoring reset while analysis is in flight")
		return
	}

	w.result = nil
	w.mode = ModeInput
	w.joinDate = ""
	w.focus = false
	w.scrollSeq++
}

// View returns a copy of the current render state.
func (w *AnalysisWorkflow) View() WorkflowView {
	v := WorkflowView{
		Mode:          w.mode,
		JoinDate:      w.joinDate,
		FocusJoinDate: w.focus,
		ScrollSeq:     w.scrollSeq,
		Error:         w.banner.View(),
	}
	if w.result != nil {
		r := *w.result
		v.Result = &r
	}
	return v
}
