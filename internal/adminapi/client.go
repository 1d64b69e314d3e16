// Package adminapi is a thin client for the organization admin REST API.
// It exposes typed wrappers for the endpoints the CLI consumes and a
// structured error type for non-2xx responses.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production admin API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1/organization"

// Client talks to the organization admin API. All calls are issued
// sequentially; the limiter keeps batch operations under the endpoint's
// request-rate ceiling.
type Client struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *slog.Logger
}

// NewClient creates a client for the given base URL and admin key.
func NewClient(baseURL, adminKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AdminKey:   adminKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Limiter:    rate.NewLimiter(rate.Limit(5), 5),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// APIError is a structured error returned for non-2xx responses.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.HTTPStatus, e.Message)
}

// IsNotFound reports whether err is an APIError with HTTP status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound
}

// Do executes a request against the admin API. Query params and JSON body
// are optional. The caller owns the response body.
func (c *Client) Do(method, path string, q url.Values, body interface{}) (*http.Response, error) {
	reqURL := c.BaseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AdminKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.AdminKey)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	if c.Limiter != nil {
		if err := c.Limiter.Wait(context.Background()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	c.Logger.Debug("api request", "method", method, "url", reqURL, "request_id", requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	c.Logger.Debug("api response", "status", resp.StatusCode, "method", method, "url", reqURL, "request_id", requestID)
	return resp, nil
}

// CheckError returns an *APIError when the response status is not 2xx.
// The body is consumed in that case.
func CheckError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(resp.Body)

	// The admin API wraps failures in {"error": {"message","type","code"}}.
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Error.Message != "" {
		return &APIError{
			HTTPStatus: resp.StatusCode,
			Code:       wrapped.Error.Code,
			Message:    wrapped.Error.Message,
		}
	}
	return &APIError{
		HTTPStatus: resp.StatusCode,
		Message:    strings.TrimSpace(string(data)),
	}
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// doJSON issues a request, checks the status, and decodes the body into out
// when out is non-nil.
func (c *Client) doJSON(method, path string, q url.Values, body, out interface{}) error {
	resp, err := c.Do(method, path, q, body)
	if err != nil {
		return err
	}
	if err := CheckError(resp); err != nil {
		return err
	}
	data, err := ReadBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
