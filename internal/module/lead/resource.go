package lead

import (
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// Stat keys beyond the per-status counts.
const (
	StatConversionRate = "conversionRate"
	FilterSource       = "source"
)

// Resource describes the leads list.
func Resource() listing.Resource[domain.Lead] {
	return listing.Resource[domain.Lead]{
		Name:              "leads",
		Title:             "Leads",
		Singular:          "Lead",
		Endpoint:          "/leads",
		SortBy:            "createdAt",
		SortOrder:         "desc",
		SearchPlaceholder: "Search by name, email or phone",
		Filters: []listing.Filter{
			listing.StatusFilter(domain.LeadStatuses),
			{Key: FilterSource, Label: "Source"},
		},
		Columns: []listing.Column[domain.Lead]{
			{Header: "Name", Value: domain.Lead.FullName},
			{Header: "Email", Value: func(l domain.Lead) string { return l.Email }},
			{Header: "Phone", Value: func(l domain.Lead) string { return l.Phone }},
			{Header: "Source", Value: func(l domain.Lead) string { return l.Source }},
			{Header: "Status", Value: func(l domain.Lead) string { return l.Status }, Badge: true},
			{Header: "Created", Value: func(l domain.Lead) string { return l.CreatedAt.Format("2006-01-02") }},
		},
		ID:        func(l domain.Lead) string { return l.ID },
		Projector: Project,
		Stats: []listing.StatCard{
			{Key: listquery.StatTotal, Label: "On this page"},
			{Key: domain.LeadStatusNew, Label: "New"},
			{Key: domain.LeadStatusQualified, Label: "Qualified"},
			{Key: domain.LeadStatusWon, Label: "Won"},
			{Key: StatConversionRate, Label: "Conversion rate", Ratio: true},
		},
		Status:         func(l domain.Lead) string { return l.Status },
		StatusOptions:  listing.Choices(domain.LeadStatuses...),
		Deletable:      true,
		FailureMessage: "Failed to load leads",
	}
}

var countByStatus = listquery.CountBy(func(l domain.Lead) string { return l.Status }, domain.LeadStatuses...)

// Project counts the leads of one page per status and derives the conversion
// rate won / (won + lost).
func Project(leads []domain.Lead) listquery.Stats {
	s := countByStatus(leads)
	s.Ratios = map[string]int{
		StatConversionRate: listquery.ConversionRate(s.Count(domain.LeadStatusWon), s.Count(domain.LeadStatusLost)),
	}
	return s
}
