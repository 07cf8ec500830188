// Package event provides synchronous, ordered notification lists.
//
// Handlers run to completion in subscription order before Emit returns.
// Emit iterates a snapshot, so handlers may subscribe or unsubscribe freely.
package event

// Token identifies an anonymous subscription.
type Token uint64

type subscriber[T any] struct {
	token Token
	key   string
	fn    func(T)
}

// Event is an ordered list of handlers receiving a payload of type T.
// The zero value is ready to use.
type Event[T any] struct {
	subs []subscriber[T]
	next Token
}

// Subscribe appends a handler and returns a token for removing it.
func (e *Event[T]) Subscribe(fn func(T)) Token {
	e.next++
	e.subs = append(e.subs, subscriber[T]{token: e.next, fn: fn})
	return e.next
}

// SubscribeKey installs fn under key. An existing handler with the same key
// is replaced in place, keeping its position, so repeated calls never stack.
func (e *Event[T]) SubscribeKey(key string, fn func(T)) {
	for i := range e.subs {
		if e.subs[i].key == key {
			subs := make([]subscriber[T], len(e.subs))
			copy(subs, e.subs)
			subs[i].fn = fn
			e.subs = subs
			return
		}
	}
	e.next++
	e.subs = append(e.subs, subscriber[T]{token: e.next, key: key, fn: fn})
}

// Unsubscribe removes the handler with the given token. Unknown tokens are ignored.
func (e *Event[T]) Unsubscribe(token Token) {
	for i := range e.subs {
		if e.subs[i].token == token {
			e.remove(i)
			return
		}
	}
}

// UnsubscribeKey removes the handler installed under key, if any.
func (e *Event[T]) UnsubscribeKey(key string) {
	for i := range e.subs {
		if e.subs[i].key == key {
			e.remove(i)
			return
		}
	}
}

// HasKey reports whether a handler is installed under key.
func (e *Event[T]) HasKey(key string) bool {
	for i := range e.subs {
		if e.subs[i].key == key {
			return true
		}
	}
	return false
}

func (e *Event[T]) remove(i int) {
	// Copy-on-write: a snapshot held by an in-flight Emit stays intact.
	subs := make([]subscriber[T], 0, len(e.subs)-1)
	subs = append(subs, e.subs[:i]...)
	e.subs = append(subs, e.subs[i+1:]...)
}

// Emit calls every handler with v, in subscription order.
func (e *Event[T]) Emit(v T) {
	if len(e.subs) == 0 {
		return
	}
	snapshot := e.subs[:len(e.subs):len(e.subs)]
	for _, s := range snapshot {
		s.fn(v)
	}
}

// Len returns the number of handlers.
func (e *Event[T]) Len() int {
	return len(e.subs)
}

// Clear removes every handler.
func (e *Event[T]) Clear() {
	e.subs = nil
}

// Signal is an event without payload.
type Signal struct {
	Event[struct{}]
}

// Fire notifies every handler.
func (s *Signal) Fire() {
	s.Emit(struct{}{})
}

// On subscribes a payload-less handler.
func (s *Signal) On(fn func()) Token {
	return s.Subscribe(func(struct{}) { fn() })
}

// OnKey installs a payload-less handler under key.
func (s *Signal) OnKey(key string, fn func()) {
	s.SubscribeKey(key, func(struct{}) { fn() })
}
