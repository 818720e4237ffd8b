package application_test

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// --- Mock implementations ---

type mockCredentialAPI struct {
	fetched  model.CredentialSet
	fetchErr error
	saveErr  error
	testErr  error
	saves    []model.CredentialSet
	tests    []model.ConnectivityCheck
	fetches  int
}

func (m *mockCredentialAPI) FetchCredentials(_ context.Context) (model.CredentialSet, error) {
	m.fetches++
	return m.fetched, m.fetchErr
}

func (m *mockCredentialAPI) SaveCredentials(_ context.Context, creds model.CredentialSet) error {
	m.saves = append(m.saves, creds)
	return m.saveErr
}

func (m *mockCredentialAPI) TestConnection(_ context.Context, check model.ConnectivityCheck) error {
	m.tests = append(m.tests, check)
	return m.testErr
}

type mockAnalysisAPI struct {
	result   model.AnalysisResult
	err      error
	requests []model.AnalysisRequest
}

func (m *mockAnalysisAPI) Analyze(_ context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

type mockMarkdown struct{}

func (mockMarkdown) Render(src string) string { return "<p>" + src + "</p>" }

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
