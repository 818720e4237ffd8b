package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// DefaultSaveCloseDelay is how long a successful save stays on screen before
// the panel closes itself.
const DefaultSaveCloseDelay = 1 * time.Second

// PanelView is the render state of the credential settings panel.
type PanelView struct {
	Visible bool
	Fields  model.CredentialSet // always holds every provider
	Status  StatusView
	// Pending is set while a request is in flight or the auto-close timer
	// is running, i.e. while the view will change without user input.
	Pending bool
}

// CredentialPanel controls the settings panel: loading, editing, saving and
// testing provider keys. All methods must run on the scheduler's loop.
//
// Each Open starts a new panel session. Results of fetches, saves and tests
// started in an earlier session, or arriving after Close, are dropped so they
// cannot write into a form they no longer belong to.
type CredentialPanel struct {
	api        driven.CredentialAPI
	sched      Scheduler
	closeDelay time.Duration
	logger     *slog.Logger

	visible   bool
	fields    model.CredentialSet
	status    *StatusRegion
	autoClose *ScopedTimer
	session   uint64
	inFlight  int
}

// NewCredentialPanel creates a hidden panel with empty fields.
func NewCredentialPanel(api driven.CredentialAPI, sched Scheduler, closeDelay time.Duration, logger *slog.Logger) *CredentialPanel {
	return &CredentialPanel{
		api:        api,
		sched:      sched,
		closeDelay: closeDelay,
		logger:     logger,
		fields:     model.CredentialSet{}.Complete(),
		status:     NewStatusRegion(sched, 0),
		autoClose:  NewScopedTimer(sched),
	}
}

// Open reveals the panel and loads the stored credentials in the background.
// Fields without a stored value keep their current content. A failed fetch
// is logged only; the panel stays usable.
func (p *CredentialPanel) Open() {
	p.session++
	p.visible = true
	session := p.session

	p.inFlight++
	p.sched.Go(func() func() {
		creds, err := p.api.FetchCredentials(context.Background())
		return func() {
			p.inFlight--
			if err != nil {
				p.logger.Error("failed to load credentials", "error", err)
				return
			}
			if !p.current(session) {
				p.logger.Debug("dropping credentials loaded for a closed panel")
				return
			}
			for _, prov := range model.Providers() {
				if v := creds[prov]; v != "" {
					p.fields[prov] = v
				}
			}
		}
	})
}

// Close hides the panel and clears its status. Requests in flight are not
// canceled.
func (p *CredentialPanel) Close() {
	p.visible = false
	p.autoClose.Stop()
	p.status.Clear()
}

// SetField records a user edit of a provider key.
func (p *CredentialPanel) SetField(provider model.Provider, value string) {
	p.fields[provider] = value
}

// SetFields records edits of every provider key at once. Providers missing
// from creds become empty.
func (p *CredentialPanel) SetFields(creds model.CredentialSet) {
	p.fields = creds.Complete()
}

// Save submits all three keys, empty ones included, in one request. On success
// the panel closes itself after the close delay; on failure it stays open.
func (p *CredentialPanel) Save() {
	creds := p.fields.Complete()
	session := p.session

	p.inFlight++
	p.sched.Go(func() func() {
		err := p.api.SaveCredentials(context.Background(), creds)
		return func() { p.saveSettled(session, err) }
	})
}

func (p *CredentialPanel) saveSettled(session uint64, err error) {
	p.inFlight--
	if err != nil {
		p.logger.Warn("saving credentials failed", "error", err)
	}
	if !p.current(session) {
		p.logger.Debug("dropping save result for a closed panel")
		return
	}

	if err != nil {
		p.status.Show(describeFailure(err, msgSaveFailed, msgServerUnreachable), model.SeverityError)
		return
	}

	p.status.Show(msgSaveSucceeded, model.SeveritySuccess)
	p.autoClose.Reset(p.closeDelay, func() {
		if p.current(session) {
			p.Close()
		}
	})
}

// TestConnection checks the key currently entered for provider. An empty key
// fails locally without a request; any other value, whitespace included, is
// sent as typed.
func (p *CredentialPanel) TestConnection(provider model.Provider) {
	key := p.fields[provider]
	if key == "" {
		p.status.Show(msgKeyRequired, model.SeverityError)
		return
	}

	p.status.Show(msgTesting(provider), model.SeverityNeutral)

	session := p.session
	check := model.ConnectivityCheck{Provider: provider, Key: key}
	p.inFlight++
	p.sched.Go(func() func() {
		err := p.api.TestConnection(context.Background(), check)
		return func() { p.testSettled(session, provider, err) }
	})
}

func (p *CredentialPanel) testSettled(session uint64, provider model.Provider, err error) {
	p.inFlight--
	if err != nil {
		p.logger.Info("connection test failed", "provider", provider, "error", err)
	}
	if !p.current(session) {
		p.logger.Debug("dropping connection test result for a closed panel", "provider", provider)
		return
	}

	if err == nil {
		p.status.Show(msgTestSucceeded(provider), model.SeveritySuccess)
		return
	}

	msg, rejected := rejectionMessage(err)
	if !rejected {
		p.status.Show(msgTestTransport, model.SeverityError)
		return
	}
	if msg == "" {
		msg = msgTestUnknownError
	}
	p.status.Show(msgTestRejected(provider, msg), model.SeverityError)
}

// View returns a copy of the current render state.
func (p *CredentialPanel) View() PanelView {
	return PanelView{
		Visible: p.visible,
		Fields:  p.fields.Complete(),
		Status:  p.status.View(),
		Pending: p.inFlight > 0 || p.autoClose.Pending(),
	}
}

// current reports whether a result from session still belongs to the open panel.
func (p *CredentialPanel) current(session uint64) bool {
	return p.visible && session == p.session
}
