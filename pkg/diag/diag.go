package diag

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives non-fatal diagnostics: malformed conditions, unsupported refs,
// legacy schema advisories, and other fail-open events. Implementations must
// be safe for concurrent use. Keys and values alternate in kv, zap style.
type Sink interface {
	Warn(event string, kv ...any)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(event string, kv ...any)

// Warn delegates to the underlying function.
func (fn SinkFunc) Warn(event string, kv ...any) {
	fn(event, kv...)
}

// Nop discards every diagnostic.
type Nop struct{}

// Warn implements Sink.
func (Nop) Warn(string, ...any) {}

// NewZapSink wraps a zap logger into a Sink. A nil logger yields a no-op sink.
func NewZapSink(logger *zap.Logger) Sink {
	if logger == nil {
		return Nop{}
	}
	sugar := logger.Sugar()
	return SinkFunc(func(event string, kv ...any) {
		sugar.Warnw(event, kv...)
	})
}

// Event is a recorded diagnostic, used by Capture.
type Event struct {
	Name string
	KV   []any
}

// Capture records diagnostics so tests can assert on fail-open occurrences
// instead of scraping process-wide output.
type Capture struct {
	mu     sync.Mutex
	events []Event
}

// Warn implements Sink.
func (c *Capture) Warn(event string, kv ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, Event{Name: event, KV: append([]any(nil), kv...)})
}

// Events returns a copy of the recorded diagnostics.
func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Names returns the recorded event names in order.
func (c *Capture) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Name)
	}
	return out
}

// Len reports how many diagnostics were recorded.
func (c *Capture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}
