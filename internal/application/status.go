package application

import (
	"time"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// StatusView is the render state of a status region.
type StatusView struct {
	Visible bool
	Message model.StatusMessage
	// HideAfter is the auto-hide delay of a visible message, zero when the
	// message stays until cleared.
	HideAfter time.Duration
}

// StatusRegion holds a single severity-tagged message. Each Show replaces the
// previous message. With a non-zero autoHide the region hides itself that long
// after the latest Show.
type StatusRegion struct {
	visible  bool
	message  model.StatusMessage
	autoHide time.Duration
	hide     *ScopedTimer
}

// NewStatusRegion creates a hidden region. autoHide of zero keeps messages
// until Clear is called.
func NewStatusRegion(sched Scheduler, autoHide time.Duration) *StatusRegion {
	return &StatusRegion{
		autoHide: autoHide,
		hide:     NewScopedTimer(sched),
	}
}

// Show displays text with the given severity, replacing any prior message.
func (r *StatusRegion) Show(text string, severity model.Severity) {
	r.message = model.StatusMessage{Text: text, Severity: severity}
	r.visible = true

	if r.autoHide > 0 {
		r.hide.Reset(r.autoHide, r.Clear)
	}
}

// Clear hides the region and drops the message.
func (r *StatusRegion) Clear() {
	r.hide.Stop()
	r.visible = false
	r.message = model.StatusMessage{}
}

// View returns the current render state.
func (r *StatusRegion) View() StatusView {
	v := StatusView{Visible: r.visible, Message: r.message}
	if r.visible {
		v.HideAfter = r.autoHide
	}
	return v
}
