package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 10 * time.Second

// Client talks to the distributor backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// option is a function that configures the Client.
type option func(*Client)

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MustNewClient creates a client from the api.* configuration.
func MustNewClient() *Client {
	baseURL := viper.GetString("api.base_url")
	if baseURL == "" {
		panic("api.base_url is not configured")
	}

	opts := []option{WithToken(os.Getenv("ORDERDESK_API_TOKEN"))}
	if seconds := viper.GetInt("api.timeout_seconds"); seconds > 0 {
		opts = append(opts, WithTimeout(time.Duration(seconds)*time.Second))
	}

	c := NewClient(baseURL, opts...)
	slog.Info("Backend API client configured", "base_url", c.baseURL, "timeout", c.httpClient.Timeout)

	return c
}

// WithHTTPClient replaces the underlying HTTP client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithHTTPClient(httpClient *http.Client) option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sets the service token used when the request context carries none.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithToken(token string) option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTimeout(timeout time.Duration) option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func (c *Client) bearer(ctx context.Context) string {
	if token, ok := TokenFromContext(ctx); ok {
		return token
	}

	return c.token
}

// do performs a single request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Message: FallbackMessage,
			err:     fmt.Errorf("error calling %s %s: %w", method, path, err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    FallbackMessage,
			err:        fmt.Errorf("failed to read %s %s response: %w", method, path, err),
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := newAPIError(resp.StatusCode, raw)
		slog.WarnContext(ctx, "Backend API returned an error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)

		return nil, apiErr
	}

	return raw, nil
}

// getList fetches a list endpoint. A body that is not a JSON array is
// treated as an empty list.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return decodeList[T](ctx, path, raw), nil
}

func decodeList[T any](ctx context.Context, path string, raw []byte) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		slog.WarnContext(ctx, "Backend API returned a non-array list, treating as empty", "path", path)

		return []T{}
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		slog.WarnContext(ctx, "Backend API returned a malformed list, treating as empty",
			"path", path,
			"error", err,
		)

		return []T{}
	}

	return items
}

// getObject fetches or writes a single resource and decodes the response into out.
func (c *Client) getObject(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{
			Message: FallbackMessage,
			err:     fmt.Errorf("failed to decode %s %s response: %w", method, path, err),
		}
	}

	return nil
}
