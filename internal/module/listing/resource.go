// Package listing renders any backend list as an htmx-driven dashboard page
// backed by listquery.
package listing

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
)

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// FilterOption is one selectable value of a filter.
type FilterOption struct {
	Value string
	Label string
}

// Filter describes a multi-valued URL filter. A filter without options is
// rendered as a free-text input.
type Filter struct {
	Key     string
	Label   string
	Options []FilterOption
}

// Column renders one table cell per row.
type Column[T any] struct {
	Header string
	Value  func(T) string
	// Badge renders the value as a status badge.
	Badge bool
}

// StatCard shows one projected stat above the table. Ratio cards read
// Stats.Ratios and are rendered as a percentage.
type StatCard struct {
	Key   string
	Label string
	Ratio bool
}

// Resource describes one backend list exposed by the dashboard.
type Resource[T any] struct {
	// Name is the URL segment, e.g. "leads" for /admin/leads.
	Name     string
	Title    string
	Singular string
	// Endpoint is the backend list endpoint, e.g. "/leads".
	Endpoint  string
	SortBy    string
	SortOrder string

	SearchPlaceholder string
	Filters           []Filter
	Columns           []Column[T]
	ID                func(T) string

	Projector listquery.Projector[T]
	Stats     []StatCard

	// Status, when set, renders a per-row status select offering StatusOptions.
	Status        func(T) string
	StatusOptions []FilterOption

	Deletable      bool
	FailureMessage string
}

// Options are the per-deployment list settings shared by every resource.
type Options struct {
	PageSize     int
	MaxReconcile int
	Logger       *slog.Logger
}

// FilterKeys returns the keys of r's filters in declaration order.
func (r Resource[T]) FilterKeys() []string {
	keys := make([]string, 0, len(r.Filters))
	for _, f := range r.Filters {
		keys = append(keys, f.Key)
	}
	return keys
}

// Path is the dashboard page path of r.
func (r Resource[T]) Path() string {
	return "/admin/" + r.Name
}

func (r Resource[T]) validate() error {
	if !namePattern.MatchString(r.Name) {
		return fmt.Errorf("invalid resource name %q", r.Name)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("resource %s: title is required", r.Name)
	}
	if r.ID == nil {
		return fmt.Errorf("resource %s: id accessor is required", r.Name)
	}
	if len(r.Columns) == 0 {
		return fmt.Errorf("resource %s: at least one column is required", r.Name)
	}
	for i, col := range r.Columns {
		if col.Value == nil {
			return fmt.Errorf("resource %s: column %d has no value", r.Name, i)
		}
	}
	if r.Status != nil && len(r.StatusOptions) == 0 {
		return fmt.Errorf("resource %s: status select needs options", r.Name)
	}
	return nil
}

func (r Resource[T]) singular() string {
	if r.Singular != "" {
		return r.Singular
	}
	return strings.TrimSuffix(r.Title, "s")
}

// StatusFilter returns the conventional "status" filter over statuses.
func StatusFilter(statuses []string) Filter {
	return Filter{Key: listquery.FilterStatus, Label: "Status", Options: Choices(statuses...)}
}

// Choices labels backend enum values for display: "IN_PROGRESS" becomes
// "In progress".
func Choices(values ...string) []FilterOption {
	opts := make([]FilterOption, 0, len(values))
	for _, v := range values {
		opts = append(opts, FilterOption{Value: v, Label: Humanize(v)})
	}
	return opts
}

// Humanize turns an upper snake case enum value into a sentence case label.
func Humanize(v string) string {
	if v == "" {
		return ""
	}
	s := strings.ToLower(strings.ReplaceAll(v, "_", " "))
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
