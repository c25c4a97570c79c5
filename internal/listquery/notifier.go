package listquery

// Notifier surfaces fetch failures to the user, typically as a toast.
type Notifier interface {
	Error(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Error calls f.
func (f NotifierFunc) Error(message string) { f(message) }

type discard struct{}

func (discard) Error(string) {}

// Discard is a Notifier that drops every message.
var Discard Notifier = discard{}
