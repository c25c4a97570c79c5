package listquery

import (
	"fmt"
	"net/url"
	"sort"
	"sync"
)

// History owns the current location of a list. Replace swaps the location in
// place without creating a new entry, and notifies subscribers.
type History interface {
	Location() *url.URL
	Replace(u *url.URL)
	Subscribe(fn func(*url.URL)) (unsubscribe func())
}

// MemoryHistory is an in-process History. The dashboard builds one per HTTP
// request from the request URL; the CLI builds one from its flags.
type MemoryHistory struct {
	mu        sync.Mutex
	loc       *url.URL
	replaced  int
	nextID    int
	listeners map[int]func(*url.URL)
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory returns a history positioned at a copy of u.
func NewMemoryHistory(u *url.URL) *MemoryHistory {
	if u == nil {
		u = &url.URL{Path: "/"}
	}
	return &MemoryHistory{loc: cloneURL(u), listeners: make(map[int]func(*url.URL))}
}

// ParseHistory returns a history positioned at the parsed raw URL.
func ParseHistory(raw string) (*MemoryHistory, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse location: %w", err)
	}
	return NewMemoryHistory(u), nil
}

// Location returns a copy of the current location.
func (h *MemoryHistory) Location() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneURL(h.loc)
}

// Replace sets the current location and calls every subscriber with a copy of
// it. Subscribers run outside the lock, in subscription order.
func (h *MemoryHistory) Replace(u *url.URL) {
	h.mu.Lock()
	h.loc = cloneURL(u)
	h.replaced++
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(*url.URL), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	loc := cloneURL(h.loc)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(cloneURL(loc))
	}
}

// Subscribe registers fn to be called after every Replace.
func (h *MemoryHistory) Subscribe(fn func(*url.URL)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Replaced reports how many times the location has been replaced.
func (h *MemoryHistory) Replaced() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replaced
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
