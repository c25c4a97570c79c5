package app

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/dashboard"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
	"github.com/TechnoWorldDev/BRR-FE-sub005/web"
)

func leadsPage() listing.Page {
	return listing.Page{
		Name:              "leads",
		Title:             "Leads",
		Singular:          "Lead",
		Path:              "/admin/leads",
		SearchPlaceholder: "Search leads",
		Query:             "ana",
		Filters: []listing.FilterState{{
			Key:   "status",
			Label: "Status",
			Options: []listing.OptionState{
				{Value: "WON", Label: "Won", Selected: true},
				{Value: "LOST", Label: "Lost"},
			},
		}},
		Headers: []string{"Name", "Status"},
		Rows: []listing.Row{{
			ID:     "7",
			Status: "WON",
			Cells:  []listing.Cell{{Text: "Ana Lee", Value: "Ana Lee"}, {Text: "Won", Value: "WON", Badge: true}},
		}},
		Stats: []listing.StatValue{
			{Label: "Won", Value: 1200},
			{Label: "Conversion", Value: 67, Percent: true},
		},
		Pager: listing.Pager{
			CurrentPage: 2,
			TotalPages:  1235,
			TotalItems:  12345,
			Previous:    "/admin/leads?page=1",
			Next:        "/admin/leads?page=3",
			Links: []listing.PageLink{
				{Number: 1, Href: "/admin/leads?page=1"},
				{Number: 2, Href: "/admin/leads?page=2", Current: true},
			},
		},
		StatusOptions:  []listing.FilterOption{{Value: "WON", Label: "Won"}, {Value: "LOST", Label: "Lost"}},
		EditableStatus: true,
		Deletable:      true,
		CanonicalURL:   "/admin/leads?page=2",
		CSRFToken:      "csrf-123",
	}
}

func renderPage(t *testing.T, r *TemplateRenderer, name string, data any) string {
	t.Helper()
	w := httptest.NewRecorder()
	if err := r.Instance(name, data).Render(w); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	if ct := w.Header().Get("Content-Type"); ct != htmlContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	return w.Body.String()
}

func embeddedRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(web.EmbeddedFS, false)
	if err != nil {
		t.Fatalf("parse embedded templates: %v", err)
	}
	return r
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestEmbeddedTemplates_Pages(t *testing.T) {
	r := embeddedRenderer(t)

	for _, name := range []string{"listing/list.html", "dashboard/index.html", "errors/400.html", "errors/404.html", "errors/500.html"} {
		if _, ok := r.set.pages[name]; !ok {
			t.Errorf("page %s not loaded", name)
		}
	}
	for name := range r.set.pages {
		if strings.HasPrefix(name, "layouts/") || strings.HasPrefix(name, "partials/") {
			t.Errorf("shared file %s loaded as a page", name)
		}
	}
}

func TestRender_ListPage(t *testing.T) {
	body := renderPage(t, embeddedRenderer(t), "listing/list.html", leadsPage())

	assertContains(t, body,
		"<!DOCTYPE html>",
		"<title>Leads · BRR Admin</title>",
		`data-canonical-url="/admin/leads?page=2"`,
		`csrf-123`,
		`<h1>Leads</h1>`,
		`<section id="list"`,
		`value="ana"`,
		`<option value="WON" selected>Won</option>`,
		`<span class="badge badge-positive">Won</span>`,
		`<span class="stat-value">1,200</span>`,
		`<span class="stat-value">67%</span>`,
		`12,345 total · page 2 of 1,235`,
		`hx-patch="/admin/leads/7/status"`,
		`hx-delete="/admin/leads/7"`,
		`hx-confirm="Delete this lead?"`,
		`<span class="current" aria-current="page">2</span>`,
	)
}

func TestRender_TableFragment(t *testing.T) {
	r := embeddedRenderer(t)

	body := renderPage(t, r, listing.TableFragment, leadsPage())
	if strings.Contains(body, "<!DOCTYPE html>") || strings.Contains(body, `class="sidebar"`) {
		t.Errorf("fragment rendered the layout:\n%s", body)
	}
	assertContains(t, body, `<section id="list"`, `hx-get="/admin/leads?page=2"`, `badge-positive`)

	empty := leadsPage()
	empty.Rows = nil
	assertContains(t, renderPage(t, r, listing.TableFragment, empty), `<td colspan="3" class="empty">`, "No leads found.")

	empty.Failed = true
	empty.Deletable, empty.EditableStatus = false, false
	assertContains(t, renderPage(t, r, listing.TableFragment, empty), `<td colspan="2" class="empty">`, "Could not load leads.")
}

func TestRender_Dashboard(t *testing.T) {
	body := renderPage(t, embeddedRenderer(t), "dashboard/index.html", gin.H{
		"Cards": []dashboard.Card{
			{Name: "leads", Title: "Leads", Path: "/admin/leads", Total: 42, Available: true},
			{Name: "users", Title: "Users", Path: "/admin/users"},
		},
		"CSRFToken": "csrf-123",
	})

	assertContains(t, body,
		"<title>Overview · BRR Admin</title>",
		`<a class="card" href="/admin/leads">`,
		`<span class="card-total">42</span>`,
		`<a class="card card-unavailable" href="/admin/users">`,
		`<span class="card-total">`+dashboard.Unavailable+`</span>`,
	)
}

func TestRender_ErrorPage(t *testing.T) {
	body := renderPage(t, embeddedRenderer(t), "errors/404.html", gin.H{"Code": 404, "Status": "Not Found"})
	assertContains(t, body, "<h1>404</h1>", `href="/admin"`)
}

func TestRender_UnknownTemplate(t *testing.T) {
	err := embeddedRenderer(t).Instance("listing/missing.html", nil).Render(httptest.NewRecorder())
	if err == nil || !strings.Contains(err.Error(), `"listing/missing.html" not found`) {
		t.Errorf("err = %v", err)
	}
}

func minimalTree(title string) fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html":   {Data: []byte(`{{ define "base" }}[{{ block "content" . }}{{ end }}]{{ end }}`)},
		"templates/partials/badge.html": {Data: []byte(`{{ define "badge" }}<b class="{{ tone . }}">{{ humanize . }}</b>{{ end }}`)},
		"templates/listing/list.html":   {Data: []byte(`{{ template "base" . }}{{ define "content" }}` + title + ` {{ template "badge" .Status }}{{ end }}`)},
	}
}

func TestTemplateRenderer_DebugReload(t *testing.T) {
	fsys := minimalTree("Leads")
	debug, err := NewTemplateRenderer(fsys, true)
	if err != nil {
		t.Fatal(err)
	}
	release, err := NewTemplateRenderer(fsys, false)
	if err != nil {
		t.Fatal(err)
	}

	data := map[string]string{"Status": "IN_PROGRESS"}
	if got := renderPage(t, debug, "listing/list.html", data); got != `[Leads <b class="pending">In progress</b>]` {
		t.Errorf("first render = %q", got)
	}

	fsys["templates/listing/list.html"] = minimalTree("Pipeline")["templates/listing/list.html"]
	if got := renderPage(t, debug, "listing/list.html", data); !strings.HasPrefix(got, "[Pipeline ") {
		t.Errorf("debug render after edit = %q", got)
	}
	if got := renderPage(t, release, "listing/list.html", data); !strings.HasPrefix(got, "[Leads ") {
		t.Errorf("release render after edit = %q", got)
	}

	// A shared fragment renders by name as well.
	if got := renderPage(t, release, "badge", "LOST"); got != `<b class="negative">Lost</b>` {
		t.Errorf("fragment render = %q", got)
	}
}

func TestTemplateRenderer_ParseErrors(t *testing.T) {
	fsys := minimalTree("Leads")
	fsys["templates/partials/table.html"] = &fstest.MapFile{Data: []byte(`{{ define "list-table" }}{{ count }`)}

	_, err := NewTemplateRenderer(fsys, false)
	if err == nil || !strings.Contains(err.Error(), "templates/partials/table.html") {
		t.Fatalf("err = %v, want the broken file named", err)
	}

	// A debug renderer that breaks after startup reports the error per render.
	fsys = minimalTree("Leads")
	r, err := NewTemplateRenderer(fsys, true)
	if err != nil {
		t.Fatal(err)
	}
	fsys["templates/listing/list.html"] = &fstest.MapFile{Data: []byte(`{{ template "base" . }`)}
	if err := r.Instance("listing/list.html", nil).Render(httptest.NewRecorder()); err == nil {
		t.Error("expected parse error on render")
	}

	if _, err := NewTemplateRenderer(fstest.MapFS{}, false); err == nil {
		t.Error("expected error for a tree without templates/")
	}
}

func TestHTMLInstance_KeepsContentType(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Content-Type", "text/plain")
	_ = (&HTMLInstance{err: errors.New("boom")}).Render(w)
	if got := w.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		12345:      "12,345",
		123456:     "123,456",
		1234567:    "1,234,567",
		-9876543:   "-9,876,543",
		1000000000: "1,000,000,000",
	}
	for n, want := range cases {
		if got := formatCount(n); got != want {
			t.Errorf("formatCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestBadgeTone(t *testing.T) {
	cases := map[string]string{
		"WON":         "positive",
		"active":      "positive",
		"LOST":        "negative",
		"INACTIVE":    "negative",
		"NEW":         "pending",
		"IN_PROGRESS": "pending",
		"":            "neutral",
		"PARTNER":     "neutral",
	}
	for status, want := range cases {
		if got := badgeTone(status); got != want {
			t.Errorf("badgeTone(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestStatValueAndColspan(t *testing.T) {
	if got := statValue(listing.StatValue{Value: 4200}); got != "4,200" {
		t.Errorf("count stat = %q", got)
	}
	if got := statValue(listing.StatValue{Value: 75, Percent: true}); got != "75%" {
		t.Errorf("ratio stat = %q", got)
	}

	if got := colspan(listing.Page{}); got != 1 {
		t.Errorf("colspan of an empty page = %d", got)
	}
	if got := colspan(listing.Page{Headers: []string{"Name", "Email"}, Deletable: true}); got != 3 {
		t.Errorf("colspan with actions = %d", got)
	}
}
