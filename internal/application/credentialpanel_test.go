package application_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/application/apptest"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

func newPanel(api *mockCredentialAPI) (*application.CredentialPanel, *apptest.Scheduler) {
	sched := apptest.New()
	return application.NewCredentialPanel(api, sched, application.DefaultSaveCloseDelay, discardLogger()), sched
}

func TestCredentialPanel_OpenPopulatesOnlyStoredFields(t *testing.T) {
	api := &mockCredentialAPI{fetched: model.CredentialSet{model.ProviderOpenAI: "sk-stored"}}
	panel, sched := newPanel(api)
	panel.SetField(model.ProviderGoogle, "typed-before-load")

	panel.Open()
	assert.True(t, panel.View().Visible)
	assert.Equal(t, 1, sched.InFlight())

	sched.Flush()
	assert.Equal(t, 1, api.fetches)

	fields := panel.View().Fields
	assert.Equal(t, "typed-before-load", fields[model.ProviderGoogle], "missing stored value must not clear the field")
	assert.Equal(t, "sk-stored", fields[model.ProviderOpenAI])
	assert.Equal(t, "", fields[model.ProviderAnthropic])
}

func TestCredentialPanel_OpenFetchFailureIsSilent(t *testing.T) {
	api := &mockCredentialAPI{fetchErr: fmt.Errorf("boom: %w", driven.ErrTransport)}
	panel, sched := newPanel(api)

	panel.Open()
	sched.Flush()

	view := panel.View()
	assert.True(t, view.Visible)
	assert.False(t, view.Status.Visible)
	assert.Equal(t, model.CredentialSet{}.Complete(), view.Fields)
}

func TestCredentialPanel_CloseHidesAndClearsStatus(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, _ := newPanel(api)
	panel.Open()
	panel.TestConnection(model.ProviderGoogle) // empty key: local error
	require.True(t, panel.View().Status.Visible)

	panel.Close()

	view := panel.View()
	assert.False(t, view.Visible)
	assert.False(t, view.Status.Visible)
	assert.Equal(t, "", view.Status.Message.Text)
}

func TestCredentialPanel_SaveSendsAllThreeEvenWhenUnchanged(t *testing.T) {
	api := &mockCredentialAPI{fetched: model.CredentialSet{
		model.ProviderGoogle:    "g",
		model.ProviderOpenAI:    "o",
		model.ProviderAnthropic: "a",
	}}
	panel, sched := newPanel(api)
	panel.Open()
	sched.Flush()

	panel.Save()
	sched.Flush()

	require.Len(t, api.saves, 1)
	assert.Equal(t, model.CredentialSet{
		model.ProviderGoogle:    "g",
		model.ProviderOpenAI:    "o",
		model.ProviderAnthropic: "a",
	}, api.saves[0])
}

func TestCredentialPanel_SaveSuccessAutoClosesAfterDelay(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	sched.Flush()

	panel.Save()
	sched.Flush()

	view := panel.View()
	assert.True(t, view.Visible)
	assert.Equal(t, model.StatusMessage{Text: "성공적으로 저장되었습니다.", Severity: model.SeveritySuccess}, view.Status.Message)

	sched.Advance(999 * time.Millisecond)
	assert.True(t, panel.View().Visible)

	sched.Advance(time.Millisecond)
	view = panel.View()
	assert.False(t, view.Visible)
	assert.False(t, view.Status.Visible)
}

// Scenario C.
func TestCredentialPanel_SaveRejectionKeepsPanelOpen(t *testing.T) {
	api := &mockCredentialAPI{saveErr: &driven.RejectionError{StatusCode: 400, Message: "invalid key"}}
	panel, sched := newPanel(api)
	panel.Open()
	sched.Flush()
	panel.SetFields(model.CredentialSet{
		model.ProviderGoogle:    "",
		model.ProviderOpenAI:    "sk-x",
		model.ProviderAnthropic: "",
	})

	panel.Save()
	sched.Flush()

	require.Len(t, api.saves, 1)
	assert.Len(t, api.saves[0], 3)
	assert.Equal(t, "", api.saves[0][model.ProviderGoogle])
	assert.Equal(t, "sk-x", api.saves[0][model.ProviderOpenAI])
	assert.Equal(t, "", api.saves[0][model.ProviderAnthropic])

	view := panel.View()
	assert.True(t, view.Visible)
	assert.Equal(t, model.StatusMessage{Text: "invalid key", Severity: model.SeverityError}, view.Status.Message)

	sched.Advance(5 * time.Second)
	assert.True(t, panel.View().Visible, "failed save must not auto-close")
}

func TestCredentialPanel_SaveRejectionWithoutMessageUsesFallback(t *testing.T) {
	api := &mockCredentialAPI{saveErr: &driven.RejectionError{StatusCode: 500}}
	panel, sched := newPanel(api)
	panel.Open()

	panel.Save()
	sched.Flush()

	assert.Equal(t, "저장 중 오류가 발생했습니다.", panel.View().Status.Message.Text)
}

func TestCredentialPanel_SaveTransportFailure(t *testing.T) {
	api := &mockCredentialAPI{saveErr: fmt.Errorf("dial: %w", driven.ErrTransport)}
	panel, sched := newPanel(api)
	panel.Open()

	panel.Save()
	sched.Flush()

	assert.Equal(t, "서버 연결 실패", panel.View().Status.Message.Text)
}

func TestCredentialPanel_TestConnectionEmptyKeyNeverCallsNetwork(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	sched.Flush()

	panel.TestConnection(model.ProviderOpenAI)

	assert.Equal(t, 0, sched.InFlight())
	sched.Flush()
	assert.Empty(t, api.tests)
	assert.Equal(t, model.StatusMessage{Text: "키를 입력해주세요.", Severity: model.SeverityError}, panel.View().Status.Message)
}

func TestCredentialPanel_TestConnectionShowsProgressThenSuccess(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetField(model.ProviderGoogle, "AIza-key")

	panel.TestConnection(model.ProviderGoogle)

	assert.Equal(t, model.StatusMessage{Text: "google 연결 테스트 중...", Severity: model.SeverityNeutral}, panel.View().Status.Message)

	sched.Flush()

	require.Len(t, api.tests, 1)
	assert.Equal(t, model.ConnectivityCheck{Provider: model.ProviderGoogle, Key: "AIza-key"}, api.tests[0])
	assert.Equal(t, model.StatusMessage{Text: "google 연결 성공! ✨", Severity: model.SeveritySuccess}, panel.View().Status.Message)
}

func TestCredentialPanel_TestConnectionRejectionNamesProvider(t *testing.T) {
	api := &mockCredentialAPI{testErr: &driven.RejectionError{StatusCode: 401, Message: "unauthorized"}}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetField(model.ProviderOpenAI, "sk-bad")

	panel.TestConnection(model.ProviderOpenAI)
	sched.Flush()

	assert.Equal(t, model.StatusMessage{Text: "openai 연결 실패: unauthorized", Severity: model.SeverityError}, panel.View().Status.Message)
}

// Scenario D.
func TestCredentialPanel_TestConnectionTransportFailureUsesGenericMessage(t *testing.T) {
	api := &mockCredentialAPI{testErr: fmt.Errorf("connection reset: %w", driven.ErrTransport)}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetField(model.ProviderAnthropic, "sk-ant")

	panel.TestConnection(model.ProviderAnthropic)
	sched.Flush()

	msg := panel.View().Status.Message
	assert.Equal(t, "연결 테스트 중 오류 발생", msg.Text)
	assert.NotContains(t, msg.Text, "연결 실패:")
	assert.Equal(t, model.SeverityError, msg.Severity)
}

func TestCredentialPanel_TestDoesNotAlterFields(t *testing.T) {
	api := &mockCredentialAPI{testErr: &driven.RejectionError{StatusCode: 400, Message: "nope"}}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetFields(model.CredentialSet{model.ProviderGoogle: "g", model.ProviderOpenAI: "o", model.ProviderAnthropic: "a"})

	panel.TestConnection(model.ProviderOpenAI)
	sched.Flush()

	assert.Equal(t, model.CredentialSet{model.ProviderGoogle: "g", model.ProviderOpenAI: "o", model.ProviderAnthropic: "a"}, panel.View().Fields)
}

func TestCredentialPanel_LateResultAfterCloseIsDropped(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetField(model.ProviderGoogle, "g")
	panel.TestConnection(model.ProviderGoogle)

	panel.Close()
	sched.Flush()

	require.Len(t, api.tests, 1, "close must not cancel the request")
	assert.False(t, panel.View().Status.Visible)

	panel.Open()
	sched.Flush()
	assert.False(t, panel.View().Status.Visible, "result from the previous session must not leak into the reopened panel")
}

func TestCredentialPanel_StaleAutoCloseDoesNotCloseReopenedPanel(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	panel.Save()
	sched.Flush()

	sched.Advance(500 * time.Millisecond)
	panel.Close()
	panel.Open()
	sched.Flush()

	sched.Advance(2 * time.Second)
	assert.True(t, panel.View().Visible)
}

func TestCredentialPanel_OperationsAreIndependent(t *testing.T) {
	api := &mockCredentialAPI{saveErr: &driven.RejectionError{StatusCode: 500, Message: "disk full"}}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetField(model.ProviderGoogle, "g")

	panel.Save()
	panel.TestConnection(model.ProviderGoogle)
	sched.Flush()

	assert.Len(t, api.saves, 1)
	assert.Len(t, api.tests, 1)
	view := panel.View()
	assert.True(t, view.Visible)
	assert.Equal(t, "g", view.Fields[model.ProviderGoogle])
	// Test settled last, so its message replaced the save failure.
	assert.Equal(t, "google 연결 성공! ✨", view.Status.Message.Text)
}

func TestCredentialPanel_TestConnectionSendsWhitespaceKeyAsTyped(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	panel.SetField(model.ProviderOpenAI, "  ")

	panel.TestConnection(model.ProviderOpenAI)
	sched.Flush()

	require.Len(t, api.tests, 1)
	assert.Equal(t, "  ", api.tests[0].Key)
}

func TestCredentialPanel_PendingTracksRequestsAndAutoClose(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)

	panel.Open()
	assert.True(t, panel.View().Pending, "fetch in flight")
	sched.Flush()
	assert.False(t, panel.View().Pending)

	panel.SetField(model.ProviderOpenAI, "sk-x")
	panel.TestConnection(model.ProviderOpenAI)
	assert.True(t, panel.View().Pending, "test in flight")
	sched.Flush()

	view := panel.View()
	assert.True(t, view.Status.Visible)
	assert.False(t, view.Pending, "a settled test leaves nothing pending")

	panel.Save()
	sched.Flush()
	assert.True(t, panel.View().Pending, "auto-close waiting")

	sched.Advance(application.DefaultSaveCloseDelay)
	assert.False(t, panel.View().Pending)
}

func TestCredentialPanel_ResultsSettleOneAtATime(t *testing.T) {
	api := &mockCredentialAPI{}
	panel, sched := newPanel(api)
	panel.Open()
	require.True(t, sched.Step())

	panel.SetField(model.ProviderGoogle, "g")
	panel.TestConnection(model.ProviderGoogle)
	panel.Save()

	require.True(t, sched.Step())
	view := panel.View()
	assert.Equal(t, "google 연결 성공! ✨", view.Status.Message.Text)
	assert.True(t, view.Pending, "save still in flight")

	require.True(t, sched.Step())
	assert.Equal(t, "성공적으로 저장되었습니다.", panel.View().Status.Message.Text)
	assert.False(t, sched.Step())
}
