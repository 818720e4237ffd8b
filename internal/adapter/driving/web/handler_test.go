package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/gencheck/internal/adapter/driving/web"
	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/application/apptest"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockCredentialAPI struct {
	fetched model.CredentialSet
	saveErr error
	saves   []model.CredentialSet
	tests   []model.ConnectivityCheck
}

func (m *mockCredentialAPI) FetchCredentials(_ context.Context) (model.CredentialSet, error) {
	return m.fetched, nil
}

func (m *mockCredentialAPI) SaveCredentials(_ context.Context, creds model.CredentialSet) error {
	m.saves = append(m.saves, creds)
	return m.saveErr
}

func (m *mockCredentialAPI) TestConnection(_ context.Context, check model.ConnectivityCheck) error {
	m.tests = append(m.tests, check)
	return nil
}

type mockAnalysisAPI struct {
	result   model.AnalysisResult
	requests []model.AnalysisRequest
}

func (m *mockAnalysisAPI) Analyze(_ context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	m.requests = append(m.requests, req)
	return m.result, nil
}

const testToken = "test-csrf-token"

type fixture struct {
	server *httptest.Server
	sched  *apptest.Scheduler
	creds  *mockCredentialAPI
	api    *mockAnalysisAPI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	sched := apptest.New()
	creds := &mockCredentialAPI{}
	api := &mockAnalysisAPI{}

	panel := application.NewCredentialPanel(creds, sched, application.DefaultSaveCloseDelay, logger)
	renderer := application.NewExplanationRenderer(web.NewMarkdownRenderer(), logger)
	workflow := application.NewAnalysisWorkflow(api, sched, renderer, application.DefaultErrorHideDelay, logger)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, web.NewHandler(sched, panel, workflow, logger))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &fixture{server: server, sched: sched, creds: creds, api: api}
}

func (f *fixture) client() *http.Client {
	c := f.server.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

// post submits a form with a valid CSRF token and returns the status code.
func (f *fixture) post(t *testing.T, path string, form url.Values) int {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", testToken)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "gencheck_csrf", Value: testToken})

	resp, err := f.client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

// page fetches and returns the rendered page.
func (f *fixture) page(t *testing.T) string {
	t.Helper()
	resp, err := f.client().Get(f.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPage_InitialState(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client().Get(f.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	assert.NotEmpty(t, resp.Cookies())
	assert.Contains(t, html, `<section id="input" class="input-section">`)
	assert.Contains(t, html, `<section id="loading" class="loading" hidden>`)
	assert.Contains(t, html, `<section id="result" hidden>`)
	assert.Contains(t, html, `<div id="settingsModal" class="settings-modal" hidden>`)
	assert.NotContains(t, html, `http-equiv="refresh"`)
}

func TestAction_RejectsMissingCSRF(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client().PostForm(f.server.URL+"/app/analyze", url.Values{"join_date": {"2015-03-01"}})
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, f.sched.InFlight())
}

func TestAnalyze_EmptyDateShowsLocalError(t *testing.T) {
	f := newFixture(t)

	status := f.post(t, "/app/analyze", url.Values{"join_date": {""}})
	require.Equal(t, http.StatusSeeOther, status)

	html := f.page(t)
	assert.Contains(t, html, "가입일을 입력해주세요.")
	assert.Contains(t, html, " autofocus>")
	assert.Equal(t, 0, f.sched.InFlight())
	assert.Empty(t, f.api.requests)
}

func TestAnalyze_LoadingThenResult(t *testing.T) {
	f := newFixture(t)
	f.api.result = model.AnalysisResult{
		Generation:     2,
		GenerationName: "2세대",
		Explanation:    "## 📊 진단\n- **표준화** 실손",
	}

	f.post(t, "/app/analyze", url.Values{"join_date": {"2015-03-01"}})

	html := f.page(t)
	assert.Contains(t, html, `<section id="loading" class="loading">`)
	assert.Contains(t, html, `<section id="input" class="input-section" hidden>`)
	assert.Contains(t, html, `http-equiv="refresh"`)

	f.sched.Flush()

	html = f.page(t)
	assert.Contains(t, html, `<section id="result">`)
	assert.Contains(t, html, "<h2>2세대 실손</h2><p>2세대</p>")
	assert.Contains(t, html, "<strong>표준화</strong>")
	assert.Contains(t, html, `<section id="loading" class="loading" hidden>`)
	require.Len(t, f.api.requests, 1)
	assert.Equal(t, "2015-03-01", f.api.requests[0].JoinDate)
}

func TestReset_ReturnsToEmptyInput(t *testing.T) {
	f := newFixture(t)
	f.api.result = model.AnalysisResult{Generation: 3, GenerationName: "3세대"}
	f.post(t, "/app/analyze", url.Values{"join_date": {"2018-01-01"}})
	f.sched.Flush()

	f.post(t, "/app/reset", nil)

	html := f.page(t)
	assert.Contains(t, html, `<section id="input" class="input-section">`)
	assert.Contains(t, html, `name="join_date" value=""`)
	assert.Contains(t, html, `<section id="result" hidden>`)
}

func TestSettings_SaveRejectionKeepsPanelOpen(t *testing.T) {
	f := newFixture(t)
	f.creds.saveErr = &driven.RejectionError{StatusCode: 400, Message: "invalid key"}

	f.post(t, "/app/settings/open", nil)
	f.sched.Flush()
	f.post(t, "/app/settings/save", url.Values{"google": {""}, "openai": {"sk-x"}, "anthropic": {""}})
	f.sched.Flush()

	require.Len(t, f.creds.saves, 1)
	assert.Equal(t, model.CredentialSet{
		model.ProviderGoogle:    "",
		model.ProviderOpenAI:    "sk-x",
		model.ProviderAnthropic: "",
	}, f.creds.saves[0])

	html := f.page(t)
	assert.Contains(t, html, `<div id="settingsModal" class="settings-modal">`)
	assert.Contains(t, html, `<div id="testStatus" class="test-status" data-severity="error">invalid key</div>`)
}

func TestSettings_TestConnectionUsesSubmittedKey(t *testing.T) {
	f := newFixture(t)
	f.post(t, "/app/settings/open", nil)

	f.post(t, "/app/settings/test/anthropic", url.Values{"anthropic": {"sk-ant"}})
	html := f.page(t)
	assert.Contains(t, html, "anthropic 연결 테스트 중...")

	f.sched.Flush()

	require.Len(t, f.creds.tests, 1)
	assert.Equal(t, model.ConnectivityCheck{Provider: model.ProviderAnthropic, Key: "sk-ant"}, f.creds.tests[0])
	assert.Contains(t, f.page(t), "anthropic 연결 성공!")
}

func TestSettings_UnknownProvider(t *testing.T) {
	f := newFixture(t)

	status := f.post(t, "/app/settings/test/mistral", nil)

	assert.Equal(t, http.StatusNotFound, status)
}

func TestSettings_FieldValuesAreEscaped(t *testing.T) {
	f := newFixture(t)
	f.post(t, "/app/settings/open", nil)
	f.post(t, "/app/settings/save", url.Values{"openai": {`"><script>x</script>`}})

	html := f.page(t)
	assert.NotContains(t, html, "<script>x</script>")
}

func TestStatic_ServesStylesheet(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client().Get(f.server.URL + "/static/app.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = f.client().Get(f.server.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPage_SettledConnectionTestStopsRefreshing(t *testing.T) {
	f := newFixture(t)
	f.post(t, "/app/settings/open", nil)
	f.sched.Flush()

	f.post(t, "/app/settings/test/anthropic", url.Values{"anthropic": {"sk-ant"}})
	assert.Contains(t, f.page(t), `http-equiv="refresh"`, "test in flight")

	f.sched.Flush()
	f.sched.Advance(10 * time.Minute)

	html := f.page(t)
	assert.Contains(t, html, "anthropic 연결 성공! ✨")
	assert.NotContains(t, html, `http-equiv="refresh"`)
}

func TestPage_RefreshesUntilSaveAutoClose(t *testing.T) {
	f := newFixture(t)
	f.post(t, "/app/settings/open", nil)
	f.sched.Flush()

	f.post(t, "/app/settings/save", url.Values{"google": {"g"}})
	f.sched.Flush()

	html := f.page(t)
	assert.Contains(t, html, "성공적으로 저장되었습니다.")
	assert.Contains(t, html, `http-equiv="refresh"`)

	f.sched.Advance(application.DefaultSaveCloseDelay)

	html = f.page(t)
	assert.Contains(t, html, `<div id="settingsModal" class="settings-modal" hidden>`)
	assert.NotContains(t, html, `http-equiv="refresh"`)
}

func TestPage_ErrorBannerHidesInBrowser(t *testing.T) {
	f := newFixture(t)

	f.post(t, "/app/analyze", url.Values{"join_date": {""}})

	html := f.page(t)
	assert.Contains(t, html, `<div id="error" class="error-banner" role="alert" data-hide-after="3000">가입일을 입력해주세요.</div>`)
	assert.Contains(t, html, `<script src="/static/app.js" defer></script>`)
	assert.NotContains(t, html, `http-equiv="refresh"`)

	f.sched.Advance(application.DefaultErrorHideDelay)

	html = f.page(t)
	assert.Contains(t, html, `<div id="error" class="error-banner" role="alert" hidden></div>`)
}

func TestPage_MarkdownExplanationIsNotMarkedPlain(t *testing.T) {
	f := newFixture(t)
	f.api.result = model.AnalysisResult{Generation: 1, GenerationName: "1세대", Explanation: "<b>x</b>"}
	f.post(t, "/app/analyze", url.Values{"join_date": {"2005-01-01"}})
	f.sched.Flush()

	html := f.page(t)
	assert.Contains(t, html, `<div id="explanationContent" class="explanation">`)
	assert.NotContains(t, html, "data-plain")
	assert.Contains(t, html, "<b>x</b>")
}
