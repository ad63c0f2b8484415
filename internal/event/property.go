package event

// Update describes a property change. Restoring is set when the value is
// being written back from saved state, so listeners can skip destructive
// reactions and leave repopulation to the restorer.
type Update[T any] struct {
	Old       T
	New       T
	Restoring bool
}

// Property holds a value and notifies listeners when it changes.
type Property[T comparable] struct {
	value   T
	initial T
	changed Emitter[Update[T]]
}

func NewProperty[T comparable](initial T) *Property[T] {
	return &Property[T]{value: initial, initial: initial}
}

func (p *Property[T]) Value() T { return p.value }

func (p *Property[T]) Set(v T) { p.set(v, false) }

// Restore writes v with Update.Restoring set.
func (p *Property[T]) Restore(v T) { p.set(v, true) }

// Reset returns the property to its construction value.
func (p *Property[T]) Reset() { p.set(p.initial, false) }

func (p *Property[T]) set(v T, restoring bool) {
	if v == p.value {
		return
	}
	old := p.value
	p.value = v
	p.changed.Emit(Update[T]{Old: old, New: v, Restoring: restoring})
}

// Subscribe registers fn for future changes; fn is not called with the current value.
func (p *Property[T]) Subscribe(fn func(Update[T])) (unsubscribe func()) {
	return p.changed.Subscribe(fn)
}
