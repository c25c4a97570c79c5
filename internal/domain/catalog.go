package domain

// Catalog statuses shared by brands, residences and ranking categories.
const (
	StatusActive  = "ACTIVE"
	StatusDraft   = "DRAFT"
	StatusPending = "PENDING"
	StatusDeleted = "DELETED"
)

// CatalogStatuses lists the publication states of catalog entities.
var CatalogStatuses = []string{StatusActive, StatusDraft, StatusPending, StatusDeleted}

// Brand is a residence brand (hotel group, developer, designer label).
type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Status      string `json:"status"`
	BrandType   Ref    `json:"brandType"`
	Residences  int    `json:"numberOfResidences"`
	Audit
}

// Residence is a branded residence listing.
type Residence struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
	Brand   Ref    `json:"brand"`
	City    Ref    `json:"city"`
	Country Ref    `json:"country"`
	Audit
}

// RankingCategory groups residences for ranking, e.g. "Best beachfront residences".
type RankingCategory struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Slug                string  `json:"slug"`
	Title               string  `json:"title"`
	Status              string  `json:"status"`
	Type                Ref     `json:"rankingCategoryType"`
	ResidenceLimitation int     `json:"residenceLimitation"`
	RankingPrice        float64 `json:"rankingPrice"`
	Audit
}
