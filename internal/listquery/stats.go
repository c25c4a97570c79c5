package listquery

import "math"

// StatTotal is the Stats count key holding the number of projected rows.
const StatTotal = "total"

// Stats are page-local aggregates derived from the fetched rows. They are
// recomputed on every successful fetch and never feed back into the query.
type Stats struct {
	Counts map[string]int `json:"counts"`
	Ratios map[string]int `json:"ratios,omitempty"`
}

// Count returns the named count, or 0.
func (s Stats) Count(key string) int { return s.Counts[key] }

// Ratio returns the named percentage, or 0.
func (s Stats) Ratio(key string) int { return s.Ratios[key] }

// IsZero reports whether every count and ratio is zero.
func (s Stats) IsZero() bool {
	for _, v := range s.Counts {
		if v != 0 {
			return false
		}
	}
	for _, v := range s.Ratios {
		if v != 0 {
			return false
		}
	}
	return true
}

// Projector derives Stats from one page of rows. It must be pure and must
// return the zero state for an empty page.
type Projector[T any] func(items []T) Stats

// CountBy returns a Projector counting rows per key. Every key in keys is
// present in the result, so the zero state has a fixed shape; StatTotal
// holds the row count.
func CountBy[T any](key func(T) string, keys ...string) Projector[T] {
	return func(items []T) Stats {
		counts := make(map[string]int, len(keys)+1)
		for _, k := range keys {
			counts[k] = 0
		}
		counts[StatTotal] = len(items)
		for _, item := range items {
			counts[key(item)]++
		}
		return Stats{Counts: counts}
	}
}

// ConversionRate returns won / (won + lost) as a percentage rounded to the
// nearest integer, or 0 when there is nothing to convert.
func ConversionRate(won, lost int) int {
	if won+lost <= 0 {
		return 0
	}
	return int(math.Round(float64(won) * 100 / float64(won+lost)))
}
