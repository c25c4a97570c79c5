// Package listquery keeps a paginated, filterable list in sync with the query
// string of a URL.
//
// The URL is the single owner of the query state: a page, a free-text query and
// any number of multi-valued filters. A List reads that state from a History,
// fetches the matching page from a Source with at most one request in flight,
// corrects the URL when the server reports a different page than the one
// requested, and projects page-local stats from the fetched rows.
package listquery

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query string parameter names shared by every list.
const (
	ParamPage  = "page"
	ParamQuery = "query"
)

// State is the URL-derived description of what a list should display.
type State struct {
	Page    int
	Query   string
	Filters map[string][]string
}

// Values returns the values of the named filter. A nil result means the
// filter does not constrain the list.
func (s State) Values(key string) []string {
	return s.Filters[key]
}

// Equal reports whether two states describe the same list view. Blank queries
// and empty filters are considered absent.
func (s State) Equal(o State) bool {
	if s.Page != o.Page || strings.TrimSpace(s.Query) != strings.TrimSpace(o.Query) {
		return false
	}
	for k, v := range s.Filters {
		if !slices.Equal(v, o.Filters[k]) {
			return false
		}
	}
	for k, v := range o.Filters {
		if len(v) > 0 && len(s.Filters[k]) == 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := State{Page: s.Page, Query: s.Query}
	if len(s.Filters) > 0 {
		c.Filters = make(map[string][]string, len(s.Filters))
		for k, v := range s.Filters {
			c.Filters[k] = slices.Clone(v)
		}
	}
	return c
}

// Read derives the State for the given filter keys from URL query values.
// A missing, non-numeric or non-positive page reads as 1. Filter values keep
// their URL order; empty values are skipped and keys outside filterKeys are
// ignored.
func Read(values url.Values, filterKeys []string) State {
	s := State{Page: 1, Query: values.Get(ParamQuery)}

	if raw := strings.TrimSpace(values.Get(ParamPage)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			s.Page = n
		}
	}

	for _, key := range filterKeys {
		for _, v := range values[key] {
			if v == "" {
				continue
			}
			if s.Filters == nil {
				s.Filters = make(map[string][]string)
			}
			s.Filters[key] = append(s.Filters[key], v)
		}
	}
	return s
}

// Encode serialises s into a query string: page first, then the query when it
// is not blank, then every configured filter in filterKeys order with one
// repeated parameter per value. The output is deterministic and doubles as the
// dedup key for a fetch.
func (s State) Encode(filterKeys []string) string {
	var b strings.Builder

	page := s.Page
	if page < 1 {
		page = 1
	}
	b.WriteString(ParamPage)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(page))

	if strings.TrimSpace(s.Query) != "" {
		writeParam(&b, ParamQuery, s.Query)
	}

	for _, key := range filterKeys {
		for _, v := range s.Filters[key] {
			if v == "" {
				continue
			}
			writeParam(&b, key, v)
		}
	}
	return b.String()
}

// Params returns s as url.Values, with the same normalisation as Encode.
func (s State) Params(filterKeys []string) url.Values {
	values, _ := url.ParseQuery(s.Encode(filterKeys))
	return values
}

func writeParam(b *strings.Builder, key, value string) {
	b.WriteByte('&')
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

// Partial is a change to apply on top of the current State.
//
// A zero Page keeps the current page and a nil Query keeps the current query.
// A filter key missing from Filters keeps its current values; a key present
// with an empty slice clears that filter.
type Partial struct {
	Page    int
	Query   *string
	Filters map[string][]string
}

// Merge applies p on top of s and returns the result. s is not modified.
func (s State) Merge(p Partial) State {
	out := s.Clone()
	if p.Page > 0 {
		out.Page = p.Page
	}
	if p.Query != nil {
		out.Query = *p.Query
	}
	for k, v := range p.Filters {
		if out.Filters == nil {
			out.Filters = make(map[string][]string, len(p.Filters))
		}
		if len(v) == 0 {
			delete(out.Filters, k)
			continue
		}
		out.Filters[k] = slices.Clone(v)
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

// Href returns path with the query string of s merged with p, for rendering
// links such as pagination controls.
func Href(path string, s State, p Partial, filterKeys []string) string {
	return path + "?" + s.Merge(p).Encode(filterKeys)
}

// String returns a pointer to v, for building a Partial query.
func String(v string) *string {
	return &v
}
