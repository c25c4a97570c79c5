package listquery

import "sync"

// Writer applies partial state changes to a History. Every update starts from
// the location current at call time, so two handlers firing back to back
// never lose each other's change.
type Writer struct {
	mu         sync.Mutex
	history    History
	filterKeys []string
}

// NewWriter returns a Writer over h for the given filter keys.
func NewWriter(h History, filterKeys []string) *Writer {
	return &Writer{history: h, filterKeys: filterKeys}
}

// Current reads the State from the current location.
func (w *Writer) Current() State {
	return Read(w.history.Location().Query(), w.filterKeys)
}

// Update merges p into the current State and replaces the location with the
// re-encoded query string. Path and fragment are preserved. It returns the
// resulting State.
//
// History subscribers run while the writer is held and must not call Update
// synchronously.
func (w *Writer) Update(p Partial) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	loc := w.history.Location()
	next := Read(loc.Query(), w.filterKeys).Merge(p)
	loc.RawQuery = next.Encode(w.filterKeys)
	w.history.Replace(loc)
	return next
}
