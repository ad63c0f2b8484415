// Package event provides synchronous observer lists.
//
// Listeners run on the caller's goroutine, in subscription order, before
// Emit or Set returns. Nothing here is safe for concurrent use.
package event

// Emitter fans a value out to every subscribed listener.
type Emitter[T any] struct {
	listeners []*listener[T]
}

type listener[T any] struct {
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (e *Emitter[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l := &listener[T]{fn: fn}
	e.listeners = append(e.listeners, l)
	return func() { e.remove(l) }
}

func (e *Emitter[T]) remove(l *listener[T]) {
	for i, cur := range e.listeners {
		if cur == l {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls listeners registered at the time of the call.
func (e *Emitter[T]) Emit(v T) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]*listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	for _, l := range snapshot {
		l.fn(v)
	}
}

func (e *Emitter[T]) Len() int { return len(e.listeners) }
