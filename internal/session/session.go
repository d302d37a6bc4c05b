// Package session implements the short-lived unit of work each command
// handler opens: the entity repositories plus an in-process event bus that
// lets default subscribers (the change log, chiefly) react to a
// successful mutation without the handler knowing who's listening.
package session

import (
	"context"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/scieloorg/kernel-sub000/internal/corelog"
	"github.com/scieloorg/kernel-sub000/internal/store/mongostore"
)

// Event names something that happened to an entity. The concrete event
// vocabulary lives in internal/service; this package only needs it as an
// opaque, comparable key.
type Event string

// Subscriber reacts to an event. It must not panic across goroutines it
// spawns - a panic inside the call itself is recovered and logged, never
// propagated to the handler that triggered Notify.
type Subscriber func(ctx context.Context, event Event, data interface{})

type subscriberKey struct {
	event Event
	ptr   uintptr
}

// Session bundles the per-entity repositories with the observer table.
// The table is installed once by the handler factory and never mutated
// concurrently with Notify calls in ordinary operation, but the mutex
// keeps Observe and Notify safe to call from arbitrary goroutines anyway.
type Session struct {
	Documents        *mongostore.DocumentRepository
	DocumentsBundles *mongostore.BundleRepository
	Journals         *mongostore.JournalRepository
	Changes          *mongostore.ChangesRepository

	mu          sync.Mutex
	subscribers map[Event][]Subscriber
	seen        map[subscriberKey]bool
}

// New opens a Session over the given repositories.
func New(documents *mongostore.DocumentRepository, bundles *mongostore.BundleRepository, journals *mongostore.JournalRepository, changes *mongostore.ChangesRepository) *Session {
	return &Session{
		Documents:        documents,
		DocumentsBundles: bundles,
		Journals:         journals,
		Changes:          changes,
		subscribers:      make(map[Event][]Subscriber),
		seen:             make(map[subscriberKey]bool),
	}
}

// Observe registers fn to run on event. The same (event, fn) pair is only
// ever installed once, identified by fn's underlying function pointer, so
// re-running factory setup code is harmless.
func (s *Session) Observe(event Event, fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subscriberKey{event: event, ptr: reflect.ValueOf(fn).Pointer()}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.subscribers[event] = append(s.subscribers[event], fn)
}

// Notify runs every subscriber registered for event, in registration
// order, isolating each from the others' and the caller's error handling:
// a subscriber panic is logged and swallowed, never fails the mutation
// that triggered it.
func (s *Session) Notify(ctx context.Context, event Event, data interface{}) {
	s.mu.Lock()
	subs := append([]Subscriber(nil), s.subscribers[event]...)
	s.mu.Unlock()

	for _, fn := range subs {
		s.invoke(ctx, fn, event, data)
	}
}

func (s *Session) invoke(ctx context.Context, fn Subscriber, event Event, data interface{}) {
	defer func() {
		if r := recover(); r != nil {
			corelog.Error("event subscriber panicked",
				zap.String("event", string(event)),
				zap.Any("panic", r),
			)
		}
	}()
	fn(ctx, event, data)
}
