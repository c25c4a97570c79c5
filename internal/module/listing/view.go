package listing

import (
	"slices"
	"strings"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
)

// pagerWindow is the number of page links shown on each side of the current page.
const pagerWindow = 2

// Cell is one rendered table cell. Value is the raw column value a badge is
// coloured by.
type Cell struct {
	Text  string
	Value string
	Badge bool
}

// Row is one rendered table row.
type Row struct {
	ID     string
	Status string
	Cells  []Cell
}

// OptionState is a filter option with its selection state.
type OptionState struct {
	Value    string
	Label    string
	Selected bool
}

// FilterState is a filter with the values currently in the URL.
type FilterState struct {
	Key     string
	Label   string
	Value   string
	Options []OptionState
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Pager holds the pagination controls of a page.
type Pager struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	Previous    string
	Next        string
	Links       []PageLink
}

// StatValue is a rendered stat card.
type StatValue struct {
	Label   string
	Value   int
	Percent bool
}

// Page is the template data of listing/list.html and the list-table fragment.
type Page struct {
	Name              string
	Title             string
	Singular          string
	Path              string
	SearchPlaceholder string
	Query             string
	Filters           []FilterState
	Headers           []string
	Rows              []Row
	Stats             []StatValue
	Pager             Pager
	StatusOptions     []FilterOption
	EditableStatus    bool
	Deletable         bool
	CanonicalURL      string
	CSRFToken         string
	Toast             string
	Failed            bool
}

func (h *Handler[T]) page(res *result[T]) Page {
	r := h.res
	v := res.view
	p := Page{
		Name:              r.Name,
		Title:             r.Title,
		Singular:          r.singular(),
		Path:              r.Path(),
		SearchPlaceholder: r.SearchPlaceholder,
		Query:             v.Query,
		StatusOptions:     r.StatusOptions,
		EditableStatus:    r.Status != nil,
		Deletable:         r.Deletable,
		CanonicalURL:      res.location,
		Failed:            res.err != nil,
	}

	for _, f := range r.Filters {
		selected := v.Filters[f.Key]
		fs := FilterState{Key: f.Key, Label: f.Label, Value: strings.Join(selected, ",")}
		for _, o := range f.Options {
			fs.Options = append(fs.Options, OptionState{
				Value:    o.Value,
				Label:    o.Label,
				Selected: slices.Contains(selected, o.Value),
			})
		}
		p.Filters = append(p.Filters, fs)
	}

	for _, col := range r.Columns {
		p.Headers = append(p.Headers, col.Header)
	}
	p.Rows = make([]Row, 0, len(v.Items))
	for _, item := range v.Items {
		row := Row{ID: r.ID(item), Cells: make([]Cell, 0, len(r.Columns))}
		if r.Status != nil {
			row.Status = r.Status(item)
		}
		for _, col := range r.Columns {
			text := col.Value(item)
			cell := Cell{Text: text, Value: text, Badge: col.Badge}
			if col.Badge {
				cell.Text = Humanize(text)
			}
			row.Cells = append(row.Cells, cell)
		}
		p.Rows = append(p.Rows, row)
	}

	for _, card := range r.Stats {
		sv := StatValue{Label: card.Label, Value: v.Stats.Count(card.Key)}
		if card.Ratio {
			sv.Value, sv.Percent = v.Stats.Ratio(card.Key), true
		}
		p.Stats = append(p.Stats, sv)
	}

	p.Pager = h.pager(res.state, v)
	return p
}

func (h *Handler[T]) pager(s listquery.State, v listquery.View[T]) Pager {
	path, keys := h.res.Path(), h.cfg.FilterKeys
	href := func(n int) string {
		return listquery.Href(path, s, listquery.Partial{Page: n}, keys)
	}

	pg := Pager{CurrentPage: v.CurrentPage, TotalPages: v.TotalPages, TotalItems: v.TotalItems}
	if v.HasPrevious() {
		pg.Previous = href(v.CurrentPage - 1)
	}
	if v.HasNext() {
		pg.Next = href(v.CurrentPage + 1)
	}
	first := max(1, v.CurrentPage-pagerWindow)
	last := min(v.TotalPages, v.CurrentPage+pagerWindow)
	for n := first; n <= last; n++ {
		pg.Links = append(pg.Links, PageLink{Number: n, Href: href(n), Current: n == v.CurrentPage})
	}
	return pg
}
