package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transport sends profile requests to the marketplace API. The session
// never talks HTTP directly, so tests inject their own implementation.
type Transport interface {
	// FetchProfile reads the current profile from the read endpoint.
	FetchProfile(ctx context.Context) (status int, body []byte, err error)
	// SubmitProfile sends an assembled multipart submission.
	SubmitProfile(ctx context.Context, contentType string, body io.Reader) (status int, respBody []byte, err error)
	// ChangePassword sends a password-change request.
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (status int, respBody []byte, err error)
}

// HTTPTransport talks to the real marketplace API over HTTP with bearer
// token auth. A single client with a request timeout is shared by all
// calls; in-flight requests are cancelled through the context.
type HTTPTransport struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for the given API base URL.
func NewHTTPTransport(baseURL, token string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchProfile implements Transport.
func (t *HTTPTransport) FetchProfile(ctx context.Context) (int, []byte, error) {
	return t.do(ctx, http.MethodGet, "/users/me/profile", "", nil)
}

// SubmitProfile implements Transport.
func (t *HTTPTransport) SubmitProfile(ctx context.Context, contentType string, body io.Reader) (int, []byte, error) {
	return t.do(ctx, http.MethodPut, "/users/me/profile", contentType, body)
}

// ChangePassword implements Transport.
func (t *HTTPTransport) ChangePassword(ctx context.Context, oldPassword, newPassword string) (int, []byte, error) {
	payload, err := json.Marshal(map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("transport: encode password change: %w", err)
	}
	return t.do(ctx, http.MethodPost, "/users/me/password", "application/json", bytes.NewReader(payload))
}

func (t *HTTPTransport) do(ctx context.Context, method, path, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("transport: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("transport: read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
