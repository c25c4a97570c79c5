package listquery

import (
	"log/slog"
	"sync"
)

// DefaultMaxReconcile bounds how many consecutive URL corrections a list makes
// before it stops trusting the server's page.
const DefaultMaxReconcile = 2

// Reconciler rewrites the URL page when the server answers with a different
// page than the one requested, e.g. after a filter shrank the result set.
type Reconciler struct {
	writer *Writer
	max    int
	logger *slog.Logger
	name   string

	mu       sync.Mutex
	attempts int
}

// NewReconciler returns a Reconciler writing through w. A maxAttempts below 1 uses
// DefaultMaxReconcile.
func NewReconciler(w *Writer, maxAttempts int, logger *slog.Logger, name string) *Reconciler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxReconcile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{writer: w, max: maxAttempts, logger: logger, name: name}
}

// Reconcile compares the requested page with the server's page and, when they
// differ, replaces the URL page with the server's, keeping query and filters.
// It reports whether the URL was rewritten.
//
// The rewrite is skipped when the URL has moved on since the fetch was issued,
// and once the maximum number of consecutive rewrites have not converged.
func (r *Reconciler) Reconcile(requested State, server Pagination) bool {
	if server.Page < 1 || server.Page == requested.Page {
		r.Reset()
		return false
	}
	if !r.writer.Current().Equal(requested) {
		return false
	}

	r.mu.Lock()
	if r.attempts >= r.max {
		attempts := r.attempts
		r.mu.Unlock()
		r.logger.Warn("list pagination did not converge",
			"list", r.name,
			"requested_page", requested.Page,
			"server_page", server.Page,
			"attempts", attempts,
		)
		return false
	}
	r.attempts++
	r.mu.Unlock()

	r.logger.Debug("list page corrected by server",
		"list", r.name,
		"requested_page", requested.Page,
		"server_page", server.Page,
	)
	r.writer.Update(Partial{Page: server.Page})
	return true
}

// Reset clears the consecutive rewrite count. User interactions call it so a
// new view gets a fresh budget.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.attempts = 0
	r.mu.Unlock()
}

// Attempts returns the number of consecutive rewrites made so far.
func (r *Reconciler) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}
