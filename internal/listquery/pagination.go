package listquery

import (
	"errors"
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedPagination is returned when the pagination envelope of a list
// response cannot be trusted.
var ErrMalformedPagination = errors.New("malformed pagination")

// Pagination is the validated pagination envelope of a list response.
type Pagination struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// DisplayTotalPages returns TotalPages clamped to at least 1: an empty result
// is still one empty page.
func (p Pagination) DisplayTotalPages() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

// ParsePagination validates a raw pagination envelope.
//
// total and totalPages must be present, numeric, integral and non-negative;
// anything else is rejected with ErrMalformedPagination rather than coerced.
// page and limit fall back to the requested values when absent or invalid.
func ParsePagination(raw []byte, requestedPage, limit int) (Pagination, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Pagination{}, fmt.Errorf("%w: envelope missing", ErrMalformedPagination)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Pagination{}, fmt.Errorf("%w: %v", ErrMalformedPagination, err)
	}

	total, err := count(fields, "total")
	if err != nil {
		return Pagination{}, err
	}
	totalPages, err := count(fields, "totalPages")
	if err != nil {
		return Pagination{}, err
	}

	p := Pagination{Total: total, TotalPages: totalPages, Page: requestedPage, Limit: limit}
	if n, ok := positive(fields["page"]); ok {
		p.Page = n
	}
	if n, ok := positive(fields["limit"]); ok {
		p.Limit = n
	}
	return p, nil
}

// maxInt is 2^63 on 64-bit platforms; float64 cannot hold math.MaxInt exactly.
const maxInt = float64(math.MaxInt)

func count(fields map[string]any, key string) (int, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: %s missing", ErrMalformedPagination, key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformedPagination, key)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrMalformedPagination, key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformedPagination, key)
	}
	if f >= maxInt {
		return 0, fmt.Errorf("%w: %s is too large", ErrMalformedPagination, key)
	}
	return int(f), nil
}

func positive(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f < 1 || f != math.Trunc(f) || f >= maxInt {
		return 0, false
	}
	return int(f), true
}
