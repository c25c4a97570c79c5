// Package catalog lists the public catalog: brands, residences and ranking
// categories.
package catalog

import (
	"strconv"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// Catalog filter keys.
const (
	FilterBrandType           = "brandTypeId"
	FilterBrand               = "brandId"
	FilterCity                = "cityId"
	FilterCountry             = "countryId"
	FilterRankingCategoryType = "rankingCategoryTypeId"
)

// Brands describes the brands list.
func Brands() listing.Resource[domain.Brand] {
	return listing.Resource[domain.Brand]{
		Name:              "brands",
		Title:             "Brands",
		Singular:          "Brand",
		Endpoint:          "/brands",
		SortBy:            "name",
		SortOrder:         "asc",
		SearchPlaceholder: "Search brands",
		Filters: []listing.Filter{
			listing.StatusFilter(domain.CatalogStatuses),
			{Key: FilterBrandType, Label: "Brand type"},
		},
		Columns: []listing.Column[domain.Brand]{
			{Header: "Name", Value: func(b domain.Brand) string { return b.Name }},
			{Header: "Type", Value: func(b domain.Brand) string { return b.BrandType.Name }},
			{Header: "Residences", Value: func(b domain.Brand) string { return strconv.Itoa(b.Residences) }},
			{Header: "Status", Value: func(b domain.Brand) string { return b.Status }, Badge: true},
			{Header: "Updated", Value: func(b domain.Brand) string { return b.UpdatedAt.Format("2006-01-02") }},
		},
		ID:             func(b domain.Brand) string { return b.ID },
		Projector:      listquery.CountBy(func(b domain.Brand) string { return b.Status }, domain.CatalogStatuses...),
		Stats:          statusCards(),
		Deletable:      true,
		FailureMessage: "Failed to load brands",
	}
}

// Residences describes the residences list.
func Residences() listing.Resource[domain.Residence] {
	return listing.Resource[domain.Residence]{
		Name:              "residences",
		Title:             "Residences",
		Singular:          "Residence",
		Endpoint:          "/residences",
		SortBy:            "createdAt",
		SortOrder:         "desc",
		SearchPlaceholder: "Search residences",
		Filters: []listing.Filter{
			listing.StatusFilter(domain.CatalogStatuses),
			{Key: FilterBrand, Label: "Brand"},
			{Key: FilterCity, Label: "City"},
			{Key: FilterCountry, Label: "Country"},
		},
		Columns: []listing.Column[domain.Residence]{
			{Header: "Name", Value: func(r domain.Residence) string { return r.Name }},
			{Header: "Brand", Value: func(r domain.Residence) string { return r.Brand.Name }},
			{Header: "City", Value: func(r domain.Residence) string { return r.City.Name }},
			{Header: "Country", Value: func(r domain.Residence) string { return r.Country.Name }},
			{Header: "Status", Value: func(r domain.Residence) string { return r.Status }, Badge: true},
		},
		ID:             func(r domain.Residence) string { return r.ID },
		Projector:      listquery.CountBy(func(r domain.Residence) string { return r.Status }, domain.CatalogStatuses...),
		Stats:          statusCards(),
		Deletable:      true,
		FailureMessage: "Failed to load residences",
	}
}

// RankingCategories describes the ranking categories list.
func RankingCategories() listing.Resource[domain.RankingCategory] {
	return listing.Resource[domain.RankingCategory]{
		Name:              "ranking-categories",
		Title:             "Ranking categories",
		Singular:          "Ranking category",
		Endpoint:          "/ranking-categories",
		SortBy:            "name",
		SortOrder:         "asc",
		SearchPlaceholder: "Search ranking categories",
		Filters: []listing.Filter{
			listing.StatusFilter(domain.CatalogStatuses),
			{Key: FilterRankingCategoryType, Label: "Category type"},
		},
		Columns: []listing.Column[domain.RankingCategory]{
			{Header: "Name", Value: func(r domain.RankingCategory) string { return r.Name }},
			{Header: "Type", Value: func(r domain.RankingCategory) string { return r.Type.Name }},
			{Header: "Residence limit", Value: func(r domain.RankingCategory) string { return strconv.Itoa(r.ResidenceLimitation) }},
			{Header: "Price", Value: func(r domain.RankingCategory) string { return strconv.FormatFloat(r.RankingPrice, 'f', 2, 64) }},
			{Header: "Status", Value: func(r domain.RankingCategory) string { return r.Status }, Badge: true},
		},
		ID:             func(r domain.RankingCategory) string { return r.ID },
		Deletable:      true,
		FailureMessage: "Failed to load ranking categories",
	}
}

func statusCards() []listing.StatCard {
	return []listing.StatCard{
		{Key: domain.StatusActive, Label: "Active"},
		{Key: domain.StatusDraft, Label: "Draft"},
		{Key: domain.StatusPending, Label: "Pending"},
	}
}

// NewModules creates the brands, residences and ranking categories modules.
func NewModules(client *backend.Client, opts listing.Options) ([]listing.Lister, error) {
	brands, err := listing.NewBackendHandler(Brands(), client, opts)
	if err != nil {
		return nil, err
	}
	residences, err := listing.NewBackendHandler(Residences(), client, opts)
	if err != nil {
		return nil, err
	}
	categories, err := listing.NewBackendHandler(RankingCategories(), client, opts)
	if err != nil {
		return nil, err
	}
	return []listing.Lister{brands, residences, categories}, nil
}
