package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aymane70/taskman/internal/logger"
)

// DefaultBaseURL is used when no server is configured
const DefaultBaseURL = "http://localhost:8080"

// Client talks to the task/auth API. Authorized requests carry the session
// token returned by the token source as a bearer credential; a response
// that rejects the credential fires the unauthorized handler exactly once
// per request so the session guard can force a logout.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    func() string
	onUnauthorized func()
}

// NewClient creates a client for the given server URL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetTokenSource installs the function the client calls to read the
// current session token before each request.
func (c *Client) SetTokenSource(fn func() string) {
	c.tokenSource = fn
}

// SetUnauthorizedHandler installs the callback fired when an authorized
// request is rejected with an invalid or expired credential.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the server's response wrapper: {success, message, data}
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do issues a request and decodes the enveloped response into out.
// Auth endpoints are public; a 401 from them means bad credentials, not a
// dead session, so the unauthorized handler only fires for the rest.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "could not encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "could not build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed",
			logger.F("method", method),
			logger.F("url", u),
			logger.F("error", err))
		return &Error{Kind: KindNetwork, Message: "could not reach server", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.Debug("HTTP response",
		logger.F("method", method),
		logger.F("url", u),
		logger.F("status", resp.StatusCode),
		logger.F("duration", time.Since(start).String()))

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 400 {
		return &Error{Kind: KindServer, Message: "malformed server response", Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, path, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindServer, Message: "malformed server response", Status: resp.StatusCode, Err: err}
		}
	}
	return nil
}

// mapError converts an HTTP failure into the error taxonomy
func (c *Client) mapError(status int, path, message string) error {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	kind := KindServer
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if strings.HasPrefix(path, "/api/auth/") {
			kind = KindAuthentication
		} else {
			kind = KindAuthorization
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 400 && status < 500:
		kind = KindValidation
	}

	return &Error{Kind: kind, Message: message, Status: status}
}
