package app

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// Template tree layout under the web filesystem.
const (
	templateRoot = "templates"
	layoutDir    = "layouts"
	partialDir   = "partials"
)

// TemplateRenderer is the dashboard's gin HTML renderer.
//
// The tree under templates/ has three kinds of files:
//
//	layouts/*.html    the page skeleton ("base")
//	partials/*.html   fragments shared by every page ("nav", "toasts", "list-table")
//	<section>/*.html  one page each, rendered by path ("listing/list.html")
//
// A name that is not a page path is looked up among the shared fragments, so
// an htmx request can render "list-table" on its own. In debug mode the tree
// is re-read on every render.
type TemplateRenderer struct {
	fsys  fs.FS
	debug bool
	funcs template.FuncMap
	set   *templateSet
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// templateSet is one parse of the tree.
type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

// NewTemplateRenderer parses the tree in fsys. The parse runs in both modes so
// a broken template fails startup.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{fsys: fsys, debug: debug, funcs: dashboardFuncs()}
	set, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.set = set
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	set := r.set
	if r.debug {
		reloaded, err := r.load()
		if err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
		set = reloaded
	}
	return &HTMLInstance{Template: set.lookup(name), Name: name, Data: data}
}

func (s *templateSet) lookup(name string) *template.Template {
	if t, ok := s.pages[name]; ok {
		return t
	}
	return s.shared.Lookup(name)
}

func (r *TemplateRenderer) load() (*templateSet, error) {
	shared := template.New(templateRoot).Funcs(r.funcs)
	for _, dir := range []string{layoutDir, partialDir} {
		files, err := fs.Glob(r.fsys, path.Join(templateRoot, dir, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if err := parseFile(shared, r.fsys, f, f); err != nil {
				return nil, err
			}
		}
	}

	pages, err := r.discoverPageTemplates()
	if err != nil {
		return nil, err
	}
	set := &templateSet{shared: shared, pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		page, err := shared.Clone()
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(p, templateRoot+"/")
		if err := parseFile(page, r.fsys, p, name); err != nil {
			return nil, err
		}
		set.pages[name] = page
	}
	return set, nil
}

func parseFile(into *template.Template, fsys fs.FS, file, name string) error {
	b, err := fs.ReadFile(fsys, file)
	if err != nil {
		return err
	}
	if _, err := into.New(name).Parse(string(b)); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

// discoverPageTemplates returns the paths of every page, that is every .html
// file outside layouts/ and partials/.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fsys, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == path.Join(templateRoot, layoutDir) || p == path.Join(templateRoot, partialDir) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) == ".html" {
			pages = append(pages, p)
		}
		return nil
	})
	return pages, err
}

// dashboardFuncs are the helpers the listing and overview templates use.
func dashboardFuncs() template.FuncMap {
	return template.FuncMap{
		"humanize":  listing.Humanize,
		"lower":     strings.ToLower,
		"tone":      badgeTone,
		"count":     formatCount,
		"statValue": statValue,
		"colspan":   colspan,
	}
}

// badgeTone groups backend status values into the four badge colours.
func badgeTone(status string) string {
	switch strings.ToUpper(status) {
	case "WON", "ACTIVE", "APPROVED", "COMPLETED", "PUBLISHED", "RESOLVED":
		return "positive"
	case "LOST", "REJECTED", "DELETED", "BLOCKED", "INACTIVE", "CANCELLED":
		return "negative"
	case "NEW", "PENDING", "IN_PROGRESS", "CONTACTED", "QUALIFIED", "DRAFT", "IN_REVIEW":
		return "pending"
	default:
		return "neutral"
	}
}

// formatCount renders n with thousands separators: 12345 becomes "12,345".
func formatCount(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func statValue(s listing.StatValue) string {
	if s.Percent {
		return strconv.Itoa(s.Value) + "%"
	}
	return formatCount(s.Value)
}

// colspan is the width of the table's empty-state row.
func colspan(p listing.Page) int {
	n := len(p.Headers)
	if p.EditableStatus || p.Deletable {
		n++
	}
	return max(n, 1)
}

// HTMLInstance is one template execution returned by Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error
}

const htmlContentType = "text/html; charset=utf-8"

// Render implements render.Render.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	switch {
	case h.err != nil:
		return h.err
	case h.Template == nil:
		return fmt.Errorf("template %q not found", h.Name)
	case h.Template.Name() == h.Name:
		return h.Template.Execute(w, h.Data)
	default:
		return h.Template.ExecuteTemplate(w, h.Name, h.Data)
	}
}

// WriteContentType implements render.Render. An existing Content-Type is kept.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	if len(w.Header()["Content-Type"]) == 0 {
		w.Header()["Content-Type"] = []string{htmlContentType}
	}
}
