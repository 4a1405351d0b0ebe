package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxErrorBody bounds how much of an upstream error body is read.
const maxErrorBody = 64 << 10

// Doer is the subset of *http.Client the clients need.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Request describes one JSON call.
type Request struct {
	Method  string
	URL     string
	Header  http.Header
	Body    any
	RawBody io.Reader // used instead of Body when set
}

// DoJSON performs req and decodes a 2xx response into out (when non-nil).
// Non-2xx responses become an *Error whose Message is the upstream
// "message" or "error" field when present.
func DoJSON(ctx context.Context, client Doer, integration string, req Request, out any) error {
	var body io.Reader = req.RawBody
	if body == nil && req.Body != nil {
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return NewError(CategoryInternal, integration, "encode request", err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return NewError(CategoryInternal, integration, "build request", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return TransportError(integration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := upstreamMessage(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{
			Category:    CategoryForStatus(resp.StatusCode),
			Integration: integration,
			Message:     msg,
			StatusCode:  resp.StatusCode,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewError(CategoryBadData, integration, "decode response", err)
	}
	return nil
}

// TransportError classifies a failure that produced no HTTP response.
func TransportError(integration string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewError(CategoryTimeout, integration, "request timed out", err)
	}
	return NewError(CategoryUnavailable, integration, "request failed", err)
}

func upstreamMessage(raw []byte) string {
	var payload struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	for _, v := range []any{payload.Message, payload.Error} {
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case map[string]any:
			if m, ok := t["message"].(string); ok && m != "" {
				return m
			}
		}
	}
	return ""
}

// IsStatus reports whether err carries the given upstream status code.
func IsStatus(err error, status int) bool {
	ie, ok := AsError(err)
	return ok && ie.StatusCode == status
}

// Errorf is shorthand for an internal error with a formatted message.
func Errorf(integration, format string, args ...any) *Error {
	return NewError(CategoryInternal, integration, fmt.Sprintf(format, args...), nil)
}
