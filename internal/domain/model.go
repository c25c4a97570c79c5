package domain

import "time"

// Ref is a lightweight reference to a related entity as embedded by the
// backend API (brand type, city, country, role and similar lookups).
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Audit carries the timestamps every backend entity exposes.
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
