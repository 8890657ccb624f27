// Package transport exchanges widget messages with the remote chat backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/chat-widget/internal"
)

const (
	// DefaultEndpoint is the production chat backend the widget talks to
	DefaultEndpoint = "https://testdeploysalesmanai2-production.up.railway.app/chat"
	// DefaultTimeout bounds a single exchange
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
)

// Request is the JSON body posted to the backend
type Request struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// HTTPTransport posts one message per request and reads back the reply
type HTTPTransport struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for endpoint. A zero timeout leaves
// requests bounded only by ctx.
func NewHTTPTransport(endpoint string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the URL requests are posted to
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Send posts {user_id, message} and returns the reply field verbatim.
// Every failure is reported as *internal.TransportError.
func (t *HTTPTransport) Send(ctx context.Context, identity, text string) (string, error) {
	reply, err := t.send(ctx, identity, text)
	if err != nil {
		return "", &internal.TransportError{Endpoint: t.endpoint, Err: err}
	}
	return reply, nil
}

func (t *HTTPTransport) send(ctx context.Context, identity, text string) (string, error) {
	body, err := json.Marshal(Request{UserID: identity, Message: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return "", unwrapURLError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	reply, err := ParseReply(data)
	if err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("server returned %s: %w", resp.Status, err)
		}
		return "", err
	}
	return reply, nil
}

// ParseReply extracts the string "reply" field from a response body
func ParseReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("invalid JSON response")
	}
	reply := gjson.GetBytes(body, "reply")
	if !reply.Exists() {
		return "", errors.New("response has no reply field")
	}
	if reply.Type != gjson.String {
		return "", fmt.Errorf("reply field is %s, not a string", reply.Type)
	}
	return reply.String(), nil
}

// Probe checks that the endpoint answers HTTP at all and returns its status
func (t *HTTPTransport) Probe(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, unwrapURLError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.StatusCode, nil
}

// unwrapURLError drops the `Post "<url>":` prefix; the endpoint is recorded separately
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
