// Package observe makes the fail-soft paths of the analysis core visible.
//
// Every public entry point of the core is total: on internal failure it
// returns a well-formed fallback value. Observers receive an event each time
// a fallback is taken so that tests can assert on it and operators can count it.
package observe

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Observer receives fallback events
type Observer interface {
	Fallback(operation string, err error)
}

// Nop discards every event
type Nop struct{}

// Fallback implements Observer
func (Nop) Fallback(string, error) {}

// Or returns o, or Nop when o is nil
func Or(o Observer) Observer {
	if o == nil {
		return Nop{}
	}
	return o
}

// Event is a recorded fallback
type Event struct {
	Operation string
	Err       error
}

// Recorder keeps every event in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Fallback implements Observer
func (r *Recorder) Fallback(operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Operation: operation, Err: err})
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Operations returns the operation names of the recorded events
func (r *Recorder) Operations() []string {
	events := r.Events()
	ops := make([]string, len(events))
	for i, e := range events {
		ops[i] = e.Operation
	}
	return ops
}

// ZapObserver logs fallbacks at warn level
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates an observer writing to logger
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{logger: logger}
}

// Fallback implements Observer
func (z *ZapObserver) Fallback(operation string, err error) {
	z.logger.Warn("fallback taken",
		zap.String("operation", operation),
		zap.Error(err),
	)
}

// Multi fans events out to several observers
type Multi []Observer

// Fallback implements Observer
func (m Multi) Fallback(operation string, err error) {
	for _, o := range m {
		if o != nil {
			o.Fallback(operation, err)
		}
	}
}

// Guard runs fn and returns its result. A panic inside fn is recovered,
// reported to obs under operation and replaced by fallback.
func Guard[T any](obs Observer, operation string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback
			Or(obs).Fallback(operation, panicError(r))
		}
	}()
	return fn()
}

// GuardErr is Guard for functions that also report errors
func GuardErr[T any](obs Observer, operation string, fallback T, fn func() (T, error)) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback
			Or(obs).Fallback(operation, panicError(r))
		}
	}()
	v, err := fn()
	if err != nil {
		Or(obs).Fallback(operation, err)
		return fallback
	}
	return v
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("recovered panic: %w", err)
	}
	return fmt.Errorf("recovered panic: %v", r)
}
