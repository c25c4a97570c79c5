// Package registry assembles every list the dashboard and the CLI expose.
package registry

import (
	"fmt"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/b2b"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/catalog"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/lead"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/request"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/user"
)

// New builds every list on top of client, in navigation order.
func New(client *backend.Client, opts listing.Options) ([]listing.Lister, error) {
	leads, err := lead.NewModule(client, opts)
	if err != nil {
		return nil, fmt.Errorf("leads: %w", err)
	}
	requests, err := request.NewModule(client, opts)
	if err != nil {
		return nil, fmt.Errorf("requests: %w", err)
	}
	submissions, err := b2b.NewModule(client, opts)
	if err != nil {
		return nil, fmt.Errorf("b2b submissions: %w", err)
	}
	catalogLists, err := catalog.NewModules(client, opts)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	users, err := user.NewModule(client, opts)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}

	listers := []listing.Lister{leads, requests, submissions}
	listers = append(listers, catalogLists...)
	return append(listers, users), nil
}

// Find returns the list with the given name.
func Find(listers []listing.Lister, name string) (listing.Lister, bool) {
	for _, l := range listers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}
