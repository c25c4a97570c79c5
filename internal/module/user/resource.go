// Package user lists platform accounts.
package user

import (
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// FilterRole filters users by role id.
const FilterRole = "roleId"

// Resource describes the users list.
func Resource() listing.Resource[domain.User] {
	return listing.Resource[domain.User]{
		Name:              "users",
		Title:             "Users",
		Singular:          "User",
		Endpoint:          "/users",
		SortBy:            "createdAt",
		SortOrder:         "desc",
		SearchPlaceholder: "Search by name or email",
		Filters: []listing.Filter{
			listing.StatusFilter(domain.UserStatuses),
			{Key: FilterRole, Label: "Role"},
		},
		Columns: []listing.Column[domain.User]{
			{Header: "Name", Value: func(u domain.User) string { return u.FullName }},
			{Header: "Email", Value: func(u domain.User) string { return u.Email }},
			{Header: "Role", Value: func(u domain.User) string { return u.Role.Name }},
			{Header: "Company", Value: func(u domain.User) string { return u.Company }},
			{Header: "Status", Value: func(u domain.User) string { return u.Status }, Badge: true},
		},
		ID:        func(u domain.User) string { return u.ID },
		Projector: listquery.CountBy(func(u domain.User) string { return u.Status }, domain.UserStatuses...),
		Stats: []listing.StatCard{
			{Key: domain.UserStatusActive, Label: "Active"},
			{Key: domain.UserStatusInvited, Label: "Invited"},
			{Key: domain.UserStatusBlocked, Label: "Blocked"},
		},
		Deletable:      true,
		FailureMessage: "Failed to load users",
	}
}

// NewModule creates the users module on top of client.
func NewModule(client *backend.Client, opts listing.Options) (*listing.Handler[domain.User], error) {
	return listing.NewBackendHandler(Resource(), client, opts)
}
