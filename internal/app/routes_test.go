package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/dashboard"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/pkg"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCSRFSecret = "test-secret-32-chars-long-enough"

type leadRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// leadRows serves n leads, clamping out-of-range pages to the last one.
func leadRows(n int) listquery.Source[leadRow] {
	return listquery.SourceFunc[leadRow](func(_ context.Context, req listquery.Request) (*listquery.Response[leadRow], error) {
		limit, _ := strconv.Atoi(req.Params.Get("limit"))
		page, _ := strconv.Atoi(req.Params.Get("page"))
		pages := (n + limit - 1) / limit
		page = min(max(page, 1), max(pages, 1))

		var items []leadRow
		for i := (page-1)*limit + 1; i <= min(page*limit, n); i++ {
			items = append(items, leadRow{ID: strconv.Itoa(i), Name: fmt.Sprintf("Lead %d", i), Status: "WON"})
		}
		raw := fmt.Sprintf(`{"total":%d,"totalPages":%d,"page":%d,"limit":%d}`, n, pages, page, limit)
		return &listquery.Response[leadRow]{Items: items, Pagination: []byte(raw)}, nil
	})
}

type recordingDeleter struct {
	mu  sync.Mutex
	ids []string
}

func (d *recordingDeleter) Delete(_ context.Context, _, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, id)
	return nil
}

type fakePinger struct {
	err   error
	block bool
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

// dashboardRouter wires a leads list and the overview onto the embedded
// templates, the way New does.
func dashboardRouter(t *testing.T) (*gin.Engine, *recordingDeleter) {
	t.Helper()
	del := &recordingDeleter{}
	leads, err := listing.NewHandler(listing.Resource[leadRow]{
		Name:     "leads",
		Title:    "Leads",
		Endpoint: "/leads",
		Filters:  []listing.Filter{listing.StatusFilter([]string{"WON", "LOST"})},
		Columns: []listing.Column[leadRow]{
			{Header: "Name", Value: func(r leadRow) string { return r.Name }},
			{Header: "Status", Value: func(r leadRow) string { return r.Status }, Badge: true},
		},
		ID:        func(r leadRow) string { return r.ID },
		Deletable: true,
	}, leadRows(12), del, listing.Options{PageSize: 10})
	if err != nil {
		t.Fatalf("leads handler: %v", err)
	}

	r := gin.New()
	r.HTMLRender = embeddedRenderer(t)
	if err := RegisterRoutes(r, &RouteDeps{
		Modules:       []Module{leads, dashboard.NewHandler([]listing.Lister{leads}, nil)},
		Backend:       &fakePinger{},
		HealthTimeout: time.Second,
		Mode:          gin.ReleaseMode,
		CSRFSecret:    testCSRFSecret,
	}); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return r, del
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(target string, headers ...string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return req
}

func TestRoutes_Dashboard(t *testing.T) {
	r, _ := dashboardRouter(t)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantBody   []string
		wantHeader map[string]string
	}{
		{
			name:       "home redirects to the overview",
			req:        get("/"),
			wantStatus: http.StatusFound,
			wantHeader: map[string]string{"Location": "/admin"},
		},
		{
			name:       "overview shows list totals",
			req:        get("/admin"),
			wantStatus: http.StatusOK,
			wantBody:   []string{"<title>Overview · BRR Admin</title>", `<a class="card" href="/admin/leads">`, `<span class="card-total">12</span>`},
		},
		{
			name:       "list page reconciles an out-of-range page",
			req:        get("/admin/leads?page=5"),
			wantStatus: http.StatusOK,
			wantBody:   []string{"<!DOCTYPE html>", `data-canonical-url="/admin/leads?page=2"`, "Lead 12", "12 total · page 2 of 2"},
		},
		{
			name:       "htmx filter change swaps only the table",
			req:        get("/admin/leads?page=2&status=WON", pkg.HeaderHXRequest, "true", pkg.HeaderHXTriggerName, "status"),
			wantStatus: http.StatusOK,
			wantBody:   []string{`<section id="list"`, "Lead 1<", `badge-positive`},
			wantHeader: map[string]string{pkg.HeaderHXReplaceURL: "/admin/leads?page=1&status=WON"},
		},
		{
			name:       "list JSON view",
			req:        get("/api/v1/leads?page=2"),
			wantStatus: http.StatusOK,
			wantBody:   []string{`"totalItems":12`, `"currentPage":2`, `"url":"/admin/leads?page=2"`},
		},
		{
			name:       "overview JSON",
			req:        get("/api/v1/dashboard"),
			wantStatus: http.StatusOK,
			wantBody:   []string{`"name":"leads"`, `"total":12`, `"available":true`},
		},
		{
			name:       "unknown API path answers JSON",
			req:        get("/api/v1/villas", "Accept", "*/*"),
			wantStatus: http.StatusNotFound,
			wantBody:   []string{`"message":"not found"`},
		},
		{
			name:       "unknown page answers the 404 template",
			req:        get("/admin/villas", "Accept", "text/html"),
			wantStatus: http.StatusNotFound,
			wantBody:   []string{"<h1>404</h1>", "Back to overview"},
		},
		{
			name:       "explicit JSON client gets JSON outside the API",
			req:        get("/admin/villas", "Accept", "application/json, */*"),
			wantStatus: http.StatusNotFound,
			wantBody:   []string{`"code":404`},
		},
		{
			name:       "/api without a slash is a page path",
			req:        get("/api", "Accept", "*/*"),
			wantStatus: http.StatusNotFound,
			wantBody:   []string{"<h1>404</h1>"},
		},
		{
			name:       "embedded static assets are cached",
			req:        get("/static/css/app.css"),
			wantStatus: http.StatusOK,
			wantBody:   []string{".badge-positive"},
			wantHeader: map[string]string{"Cache-Control": "public, max-age=86400"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(w.Body.String(), want) {
					t.Errorf("body missing %q:\n%s", want, w.Body.String())
				}
			}
			for k, want := range tt.wantHeader {
				if got := w.Header().Get(k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestRoutes_HTMXTableOmitsLayout(t *testing.T) {
	r, _ := dashboardRouter(t)

	w := do(r, get("/admin/leads", pkg.HeaderHXRequest, "true"))
	if strings.Contains(w.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("htmx response rendered the full page:\n%s", w.Body.String())
	}
}

func TestRoutes_DeleteNeedsCSRFToken(t *testing.T) {
	r, del := dashboardRouter(t)

	w := do(r, httptest.NewRequest(http.MethodDelete, "/admin/leads/3", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("DELETE without token = %d, want 403", w.Code)
	}

	page := do(r, get("/admin/leads"))
	var token *http.Cookie
	for _, c := range page.Result().Cookies() {
		if c.Name == "_csrf_token" {
			token = c
		}
	}
	if token == nil {
		t.Fatal("list page did not issue a CSRF cookie")
	}
	if !strings.Contains(page.Body.String(), token.Value) {
		t.Error("list page does not carry the CSRF token for htmx")
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/leads/3", nil)
	req.AddCookie(token)
	req.Header.Set("X-CSRF-Token", token.Value)
	req.Header.Set(pkg.HeaderHXRequest, "true")
	w = do(r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("DELETE with token = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get(pkg.HeaderHXTrigger), pkg.EventListRefresh) {
		t.Errorf("HX-Trigger = %q, want a list refresh", w.Header().Get(pkg.HeaderHXTrigger))
	}
	del.mu.Lock()
	defer del.mu.Unlock()
	if len(del.ids) != 1 || del.ids[0] != "3" {
		t.Errorf("deleted ids = %v", del.ids)
	}
}

func TestHealthHandler(t *testing.T) {
	reqCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)

	tests := []struct {
		name        string
		backend     Pinger
		timeout     time.Duration
		ctx         context.Context
		wantStatus  int
		wantOverall string
		wantBackend string
	}{
		{"backend up", &fakePinger{}, time.Second, context.Background(), http.StatusOK, "ok", "ok"},
		{"backend down", &fakePinger{err: errors.New("connection refused")}, time.Second, context.Background(), http.StatusServiceUnavailable, "degraded", "error"},
		{"no backend client", nil, time.Second, context.Background(), http.StatusServiceUnavailable, "degraded", "error"},
		{"ping exceeds timeout", &fakePinger{block: true}, 20 * time.Millisecond, context.Background(), http.StatusServiceUnavailable, "degraded", "error"},
		{"request context ends first", &fakePinger{block: true}, time.Minute, reqCtx, http.StatusServiceUnavailable, "degraded", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", healthHandler(tt.backend, tt.timeout))

			start := time.Now()
			w := do(r, get("/health").WithContext(tt.ctx))
			if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
				t.Fatalf("health check took %v", elapsed)
			}

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Status     string            `json:"status"`
				Components map[string]string `json:"components"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.wantOverall || body.Components["backend"] != tt.wantBackend {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

type noopModule struct{}

func (noopModule) RegisterRoutes(*gin.RouterGroup, *gin.RouterGroup) {}

func TestRegisterRoutes_Validation(t *testing.T) {
	tests := []struct {
		name   string
		router *gin.Engine
		deps   *RouteDeps
		want   string
	}{
		{"nil router", nil, &RouteDeps{}, "router is nil"},
		{"nil deps", gin.New(), nil, "route dependencies are nil"},
		{"no modules", gin.New(), &RouteDeps{CSRFSecret: testCSRFSecret}, "at least one module is required"},
		{"blank csrf secret", gin.New(), &RouteDeps{Modules: []Module{noopModule{}}, CSRFSecret: "  "}, "csrf secret is required"},
		{"nil module", gin.New(), &RouteDeps{Modules: []Module{noopModule{}, nil}, Mode: gin.ReleaseMode, CSRFSecret: testCSRFSecret}, "module at index 1 is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterRoutes(tt.router, tt.deps)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRegisterRoutes_DebugServesStaticFromDisk(t *testing.T) {
	r := gin.New()
	if err := registerStaticRoutesWithError(r, gin.DebugMode); err != nil {
		t.Fatalf("register: %v", err)
	}

	w := do(r, get("/static/js/app.js"))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "showToast") {
		t.Fatalf("GET /static/js/app.js = %d", w.Code)
	}
	if w.Header().Get("Cache-Control") != "" {
		t.Error("debug assets must not be cached")
	}
}
