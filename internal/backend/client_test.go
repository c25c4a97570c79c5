package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/api/v1/", Timeout: 2 * time.Second, UserAgent: "brr-test"})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	for _, base := range []string{"", "   ", "ftp://example.com", "http://", "://bad"} {
		_, err := NewClient(Options{BaseURL: base})
		assert.Error(t, err, base)
	}

	c, err := NewClient(Options{BaseURL: " https://api.example.com/api/v1/ "})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/v1", c.BaseURL())
}

func TestListSource_ForwardsParamsAndSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/leads", r.URL.Path)
		assert.Equal(t, []string{"NEW", "CONTACTED"}, r.URL.Query()["status"])
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "brr-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "req-1", r.Header.Get(RequestIDHeader))
		cookie, err := r.Cookie("session")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc", cookie.Value)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"data": [{"id":"1","firstName":"Ana","lastName":"Ruiz","status":"NEW"}],
			"statusCode": 200,
			"message": "ok",
			"pagination": {"total": 11, "totalPages": 2, "page": 2, "limit": 10},
			"timestamp": "2026-10-16T10:00:00Z",
			"path": "/api/v1/leads"
		}`)
	})

	ctx := WithSession(context.Background(), Session{
		Cookies:   []*http.Cookie{{Name: "session", Value: "abc"}},
		RequestID: "req-1",
	})
	params := map[string][]string{"page": {"2"}, "status": {"NEW", "CONTACTED"}}

	resp, err := NewListSource[domain.Lead](c).List(ctx, listquery.Request{Endpoint: "/leads", Params: params})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Ana Ruiz", resp.Items[0].FullName())

	p, err := listquery.ParsePagination(resp.Pagination, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, p.Total)
	assert.Equal(t, 2, p.TotalPages)
}

func TestListSource_NullData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":null,"pagination":{"total":0,"totalPages":0}}`)
	})

	resp, err := NewListSource[domain.Brand](c).List(context.Background(), listquery.Request{Endpoint: "/brands"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}

func TestListSource_MissingPaginationIsPassedThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	resp, err := NewListSource[domain.Brand](c).List(context.Background(), listquery.Request{Endpoint: "/brands"})
	require.NoError(t, err)
	_, err = listquery.ParsePagination(resp.Pagination, 1, 10)
	assert.ErrorIs(t, err, listquery.ErrMalformedPagination)
}

func TestGet_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"statusCode":500,"message":"database unavailable"}`)
	})

	_, err := c.Get(context.Background(), "/leads", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "database unavailable", apiErr.Message)
	assert.Equal(t, "/leads", apiErr.Path)

	appErr := AsAppError(err)
	assert.True(t, domain.IsUpstream(appErr))
	assert.Equal(t, http.StatusBadGateway, domain.HTTPStatusCode(appErr))
}

func TestGet_ErrorStatusWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Get(context.Background(), "/brands/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
	assert.True(t, domain.IsNotFound(AsAppError(err)))
}

func TestGet_InvalidBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	})

	_, err := c.Get(context.Background(), "/leads", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid response body", apiErr.Message)
}

func TestGet_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/leads", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.True(t, domain.IsUpstream(AsAppError(err)))
}

func TestDelete(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{"statusCode":200,"message":"deleted"}`)
	})

	require.NoError(t, c.Delete(context.Background(), "/brands/", "a b"))
	assert.Equal(t, "/api/v1/brands/a%20b", gotPath)

	err := c.Delete(context.Background(), "/brands", " ")
	assert.True(t, domain.IsValidation(AsAppError(err)))
}

func TestPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"WON"}`, string(body))
		_, _ = io.WriteString(w, `{"data":{"id":"1","status":"WON"},"statusCode":200}`)
	})

	env, err := c.Patch(context.Background(), "/leads/1/status", map[string]string{"status": "WON"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","status":"WON"}`, string(env.Data))
}

func TestSession_NamedCookieOnly(t *testing.T) {
	s := Session{Cookies: []*http.Cookie{{Name: "theme", Value: "dark"}, {Name: "sid", Value: "1"}}}
	assert.Len(t, s.cookies(""), 2)
	got := s.cookies("sid")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Value)
	assert.Nil(t, s.cookies("missing"))
}

func TestPing(t *testing.T) {
	var unhealthy atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		if unhealthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	assert.NoError(t, c.Ping(context.Background()))
	unhealthy.Store(true)
	assert.Error(t, c.Ping(context.Background()))
}

func TestAsAppError(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, domain.IsUnauthorized},
		{http.StatusForbidden, domain.IsForbidden},
		{http.StatusNotFound, domain.IsNotFound},
		{http.StatusBadRequest, domain.IsValidation},
		{http.StatusUnprocessableEntity, domain.IsValidation},
		{http.StatusBadGateway, domain.IsUpstream},
	}
	for _, tt := range tests {
		err := AsAppError(&APIError{Status: tt.status, Message: "x"})
		assert.True(t, tt.check(err), "status %d", tt.status)
	}

	plain := errors.New("plain")
	assert.Equal(t, plain, AsAppError(plain))
}
