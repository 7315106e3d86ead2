package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("resource table closed")
	ErrFull   = errors.New("resource table full")
)

// Table maps opaque handles to values of one type.
//
// Removing a value bumps the generation of its slot, so a stale handle
// fails lookups after the slot is reused. A slot is retired once its
// generation reaches its maximum, so no handle value is ever issued
// twice. Table is safe for concurrent use; the values it holds are not
// synchronized by it.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []uint32
	observers []Observer
	live      int
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry[T any] struct {
	value T
	gen   uint8
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Insert stores a value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}

	var handle Handle
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[idx]
		e.value = value
		e.valid = true
		handle = makeHandle(idx, e.gen)
	} else {
		if len(t.entries) >= MaxLive {
			t.mu.Unlock()
			return 0, ErrFull
		}
		t.entries = append(t.entries, entry[T]{value: value, valid: true})
		handle = makeHandle(uint32(len(t.entries)-1), 0)
	}
	t.live++
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: handle, Value: value})
	return handle, nil
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	var zero T
	idx, gen, ok := handle.slot()
	if !ok {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(idx) >= len(t.entries) {
		return zero, false
	}
	e := t.entries[idx]
	if !e.valid || e.gen != gen {
		return zero, false
	}
	return e.value, true
}

// Remove drops a value and returns (value, true) if the handle was live.
// Values implementing Dropper have Drop called.
func (t *Table[T]) Remove(handle Handle) (T, bool) {
	var zero T
	idx, gen, ok := handle.slot()
	if !ok {
		return zero, false
	}

	t.mu.Lock()
	if int(idx) >= len(t.entries) {
		t.mu.Unlock()
		return zero, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen {
		t.mu.Unlock()
		return zero, false
	}
	value := e.value
	e.value = zero
	e.valid = false
	t.live--
	// a slot whose generation is spent is retired, never reissued
	if e.gen < maxGen {
		e.gen++
		t.freeList = append(t.freeList, idx)
	}
	t.mu.Unlock()

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{Type: EventDropped, Handle: handle, Value: value})
	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Each iterates over all live values.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(makeHandle(uint32(i), e.gen), e.value) {
				break
			}
		}
	}
}

// Clear drops all live values.
func (t *Table[T]) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops all values and stops accepting inserts.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
