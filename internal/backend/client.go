// Package backend is the HTTP client for the platform's backend API. All
// persistence and authentication live behind that API; this package only
// issues requests and decodes its response envelope.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.example.com/api/v1".
	BaseURL string
	// Timeout bounds every request; zero uses DefaultTimeout.
	Timeout time.Duration
	// UserAgent is sent with every request when not empty.
	UserAgent string
	// SessionCookie names the cookie carrying the backend session. When set,
	// only that cookie is forwarded; otherwise every cookie is.
	SessionCookie string
}

// DefaultOptions returns options for a local backend.
func DefaultOptions() Options {
	return Options{
		BaseURL:   "http://localhost:3001/api/v1",
		Timeout:   DefaultTimeout,
		UserAgent: "brr-admin",
	}
}

// Envelope is the body shape every backend endpoint answers with.
type Envelope struct {
	Data       jsoniter.RawMessage `json:"data"`
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Pagination jsoniter.RawMessage `json:"pagination"`
	Timestamp  string              `json:"timestamp"`
	Path       string              `json:"path"`
}

// DecodeData unmarshals the data field into v. An absent or null data field
// leaves v unchanged.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// Client talks to the backend API.
type Client struct {
	rc            *resty.Client
	baseURL       string
	sessionCookie string
}

// NewClient validates opts and returns a Client. Requests are never retried.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend base url %q has no host", base)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{rc: rc, baseURL: base, sessionCookie: opts.SessionCookie}, nil
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string { return c.baseURL }

// request starts a request carrying the session from ctx.
func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.rc.R().SetContext(ctx)
	if s, ok := SessionFrom(ctx); ok {
		r.SetCookies(s.cookies(c.sessionCookie))
		if s.RequestID != "" {
			r.SetHeader(RequestIDHeader, s.RequestID)
		}
	}
	return r
}

// Get issues a GET and decodes the envelope.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Envelope, error) {
	r := c.request(ctx)
	if len(params) > 0 {
		r.SetQueryParamsFromValues(params)
	}
	resp, err := r.Get(path)
	return c.decode(http.MethodGet, path, resp, err)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Envelope, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Patch(path)
	return c.decode(http.MethodPatch, path, resp, err)
}

// Delete removes the entity with the given id under endpoint.
func (c *Client) Delete(ctx context.Context, endpoint, id string) error {
	if strings.TrimSpace(id) == "" {
		return &APIError{Status: http.StatusBadRequest, Message: "id is required", Path: endpoint}
	}
	path := strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(id)
	resp, err := c.request(ctx).Delete(path)
	_, err = c.decode(http.MethodDelete, path, resp, err)
	return err
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Get("/health")
	if err != nil {
		return &APIError{Message: err.Error(), Path: "/health", Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode(), Message: resp.Status(), Path: "/health"}
	}
	return nil
}

func (c *Client) decode(method, path string, resp *resty.Response, err error) (*Envelope, error) {
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Message: err.Error(), Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()

	var env Envelope
	var decodeErr error
	if len(body) > 0 {
		decodeErr = json.Unmarshal(body, &env)
	}

	if status < 200 || status > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(status)
		}
		return nil, &APIError{Method: method, Status: status, Message: msg, Path: path}
	}
	if decodeErr != nil {
		return nil, &APIError{
			Method:  method,
			Status:  status,
			Message: "invalid response body",
			Path:    path,
			Err:     decodeErr,
		}
	}
	return &env, nil
}
