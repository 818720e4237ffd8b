package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// ErrTransport marks failures where no usable response was received: the
// request could not be sent, the connection broke, or a success body could
// not be decoded. Adapters wrap it with %w.
var ErrTransport = errors.New("transport failure")

// RejectionError is returned when the backend answered with a non-2xx status.
// Message holds the server-provided error text and may be empty.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request: status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend rejected request: status %d: %s", e.StatusCode, e.Message)
}

// CredentialAPI defines the driven port for the remote credential endpoints.
type CredentialAPI interface {
	// FetchCredentials returns the stored credentials. Providers with no
	// stored value are omitted.
	FetchCredentials(ctx context.Context) (model.CredentialSet, error)

	// SaveCredentials submits all providers in a single request, including
	// empty values.
	SaveCredentials(ctx context.Context, creds model.CredentialSet) error

	// TestConnection asks the backend to validate a candidate key.
	TestConnection(ctx context.Context, check model.ConnectivityCheck) error
}

// AnalysisAPI defines the driven port for the remote classification endpoint.
type AnalysisAPI interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error)
}
