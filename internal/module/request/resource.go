// Package request lists consultation and information requests.
package request

import (
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// FilterType filters requests by kind.
const FilterType = "type"

// Resource describes the requests list.
func Resource() listing.Resource[domain.Request] {
	return listing.Resource[domain.Request]{
		Name:              "requests",
		Title:             "Requests",
		Singular:          "Request",
		Endpoint:          "/requests",
		SortBy:            "createdAt",
		SortOrder:         "desc",
		SearchPlaceholder: "Search by subject or lead",
		Filters: []listing.Filter{
			listing.StatusFilter(domain.RequestStatuses),
			{Key: FilterType, Label: "Type", Options: listing.Choices(domain.RequestTypes...)},
		},
		Columns: []listing.Column[domain.Request]{
			{Header: "Subject", Value: func(r domain.Request) string { return r.Subject }},
			{Header: "Type", Value: func(r domain.Request) string { return listing.Humanize(r.Type) }},
			{Header: "Lead", Value: leadName},
			{Header: "Email", Value: func(r domain.Request) string { return r.Lead.Email }},
			{Header: "Status", Value: func(r domain.Request) string { return r.Status }, Badge: true},
			{Header: "Created", Value: func(r domain.Request) string { return r.CreatedAt.Format("2006-01-02") }},
		},
		ID:             func(r domain.Request) string { return r.ID },
		FailureMessage: "Failed to load requests",
	}
}

func leadName(r domain.Request) string {
	return domain.Lead{FirstName: r.Lead.FirstName, LastName: r.Lead.LastName}.FullName()
}

// NewModule creates the requests module on top of client.
func NewModule(client *backend.Client, opts listing.Options) (*listing.Handler[domain.Request], error) {
	return listing.NewBackendHandler(Resource(), client, opts)
}
