// Package transport talks to the records backend over HTTP.
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
	"strings"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/typeahead"
	"github.com/akyairhashvil/cadlookup/internal/util"
	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Notify receives failures worth showing to the user. Cancelled
	// requests are not reported.
	Notify func(error)
}

// Client implements typeahead.Transport against the backend API.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	notify     func(error)
}

var _ typeahead.Transport = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrMissingBase
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("transport: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.RequestTimeout
	}
	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		timeout:    timeout,
		httpClient: httpClient,
		notify:     cfg.Notify,
	}, nil
}

// SetNotify replaces the failure hook.
func (c *Client) SetNotify(fn func(error)) {
	c.notify = fn
}

// Do runs a search request. GET requests carry the body as query
// parameters. Failures are returned but never passed to the notify hook:
// a failed search only means no suggestions.
func (c *Client) Do(ctx context.Context, req typeahead.Request) ([]byte, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}
	path := req.Path
	var body any = req.Body
	if method == http.MethodGet {
		path = withQuery(path, req.Body)
		body = nil
	}
	return c.doRequest(ctx, method, path, body)
}

// Post sends a JSON body to a non-search endpoint.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.send(ctx, http.MethodPost, path, body)
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	out, err := c.doRequest(ctx, method, path, body)
	if err != nil && !errors.Is(err, context.Canceled) {
		util.LogError("transport", err)
		if c.notify != nil {
			c.notify(err)
		}
	}
	return out, err
}

func (c *Client) doRequest(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("transport: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.url(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("transport: create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("transport: read response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &StatusError{
			Method:  method,
			Path:    path,
			Status:  response.StatusCode,
			Message: errorMessage(responseBody),
		}
	}
	if len(bytes.TrimSpace(responseBody)) > 0 && !gjson.ValidBytes(responseBody) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotJSON, method, path)
	}
	return responseBody, nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// errorMessage extracts the backend's error text from a failure body.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, field := range []string{"message", "error", "errors.0.message"} {
		if v := gjson.GetBytes(body, field); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func withQuery(path string, params map[string]any) string {
	if len(params) == 0 {
		return path
	}
	base, rawQuery, _ := strings.Cut(path, "?")
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	for k, v := range params {
		values.Set(k, fmt.Sprint(v))
	}
	return base + "?" + values.Encode()
}
