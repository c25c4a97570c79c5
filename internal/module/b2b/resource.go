// Package b2b lists partnership inquiries submitted through the B2B form.
package b2b

import (
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// Project counts the submissions of one page per status.
var Project = listquery.CountBy(func(s domain.B2BSubmission) string { return s.Status }, domain.B2BStatuses...)

// Resource describes the B2B submissions list.
func Resource() listing.Resource[domain.B2BSubmission] {
	return listing.Resource[domain.B2BSubmission]{
		Name:              "b2b-form-submissions",
		Title:             "B2B submissions",
		Singular:          "Submission",
		Endpoint:          "/b2b-form-submissions",
		SortBy:            "createdAt",
		SortOrder:         "desc",
		SearchPlaceholder: "Search by name, company or email",
		Filters:           []listing.Filter{listing.StatusFilter(domain.B2BStatuses)},
		Columns: []listing.Column[domain.B2BSubmission]{
			{Header: "Name", Value: func(s domain.B2BSubmission) string { return s.Name }},
			{Header: "Company", Value: func(s domain.B2BSubmission) string { return s.CompanyName }},
			{Header: "Email", Value: func(s domain.B2BSubmission) string { return s.Email }},
			{Header: "Website", Value: func(s domain.B2BSubmission) string { return s.WebsiteURL }},
			{Header: "Branded residences", Value: func(s domain.B2BSubmission) string {
				if s.BrandedExists {
					return "Yes"
				}
				return "No"
			}},
			{Header: "Status", Value: func(s domain.B2BSubmission) string { return s.Status }, Badge: true},
			{Header: "Received", Value: func(s domain.B2BSubmission) string { return s.CreatedAt.Format("2006-01-02") }},
		},
		ID:        func(s domain.B2BSubmission) string { return s.ID },
		Projector: Project,
		Stats: []listing.StatCard{
			{Key: listquery.StatTotal, Label: "On this page"},
			{Key: domain.B2BStatusNew, Label: "New"},
			{Key: domain.B2BStatusContacted, Label: "Contacted"},
			{Key: domain.B2BStatusConverted, Label: "Converted"},
		},
		Deletable:      true,
		FailureMessage: "Failed to load B2B submissions",
	}
}

// NewModule creates the B2B submissions module on top of client.
func NewModule(client *backend.Client, opts listing.Options) (*listing.Handler[domain.B2BSubmission], error) {
	return listing.NewBackendHandler(Resource(), client, opts)
}
