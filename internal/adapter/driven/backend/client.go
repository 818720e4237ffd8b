// Package backend implements the CredentialAPI and AnalysisAPI ports against
// the remote JSON service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.CredentialAPI = (*Client)(nil)
	_ driven.AnalysisAPI   = (*Client)(nil)
)

const (
	pathGetKeys        = "/api/get-keys"
	pathSaveKeys       = "/api/save-keys"
	pathTestConnection = "/api/test-connection"
	pathAnalyze        = "/api/analyze-insurance"

	// maxErrorBody bounds how much of a rejection body is read.
	maxErrorBody = 64 << 10
)

// Client talks to the remote service over JSON/HTTP. Success and failure are
// decided by the response status code, never by body shape.
type Client struct {
	http    *http.Client
	baseURL *url.URL
}

// NewClient creates a Client for baseURL using httpClient. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: u}, nil
}

// FetchCredentials retrieves the stored provider keys. Unknown providers in
// the response are ignored and empty values are dropped.
func (c *Client) FetchCredentials(ctx context.Context) (model.CredentialSet, error) {
	var raw map[string]string
	if err := c.do(ctx, http.MethodGet, pathGetKeys, nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch credentials: %w", err)
	}

	creds := make(model.CredentialSet, len(raw))
	for k, v := range raw {
		p, err := model.ParseProvider(k)
		if err != nil || v == "" {
			continue
		}
		creds[p] = v
	}
	return creds, nil
}

// SaveCredentials posts every provider key, including empty ones.
func (c *Client) SaveCredentials(ctx context.Context, creds model.CredentialSet) error {
	body := make(map[string]string, len(model.Providers()))
	for p, v := range creds.Complete() {
		body[string(p)] = v
	}

	if err := c.do(ctx, http.MethodPost, pathSaveKeys, body, nil); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// TestConnection asks the backend to verify a single provider key.
func (c *Client) TestConnection(ctx context.Context, check model.ConnectivityCheck) error {
	body := testConnectionRequest{Provider: string(check.Provider), Key: check.Key}
	if err := c.do(ctx, http.MethodPost, pathTestConnection, body, nil); err != nil {
		return fmt.Errorf("test connection %s: %w", check.Provider, err)
	}
	return nil
}

// Analyze requests the generation classification for a join date.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	var resp analyzeResponse
	if err := c.do(ctx, http.MethodPost, pathAnalyze, analyzeRequest{JoinDate: req.JoinDate}, &resp); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze %q: %w", req.JoinDate, err)
	}

	return model.AnalysisResult{
		Generation:     resp.Generation,
		GenerationName: resp.GenerationName,
		Explanation:    resp.Explanation,
	}, nil
}

// do performs one exchange. in is encoded as the JSON body when non-nil; out
// receives the decoded success body when non-nil. Non-2xx statuses become a
// *driven.RejectionError; everything else that prevents a usable response
// wraps driven.ErrTransport.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", driven.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejection(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", driven.ErrTransport, err)
	}
	return nil
}

// rejection builds a RejectionError from a non-2xx response. A body that is
// not an error object yields an empty message so callers show their fallback.
func rejection(resp *http.Response) error {
	rej := &driven.RejectionError{StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&er); err == nil {
		rej.Message = er.Error
	}
	return rej
}
