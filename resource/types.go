package resource

// Handle is an opaque reference to a value in a Table.
// Handle 0 is reserved and always invalid.
//
// The low 24 bits hold the slot index plus one and the high 8 bits the
// generation of the slot when the handle was issued. Each slot serves
// 256 generations and is then retired.
type Handle uint32

const (
	indexBits = 24
	indexMask = 1<<indexBits - 1
	maxGen    = 1<<(32-indexBits) - 1

	// MaxLive is the number of slots a table can allocate.
	MaxLive = indexMask
)

func makeHandle(idx uint32, gen uint8) Handle {
	return Handle(uint32(gen)<<indexBits | (idx + 1))
}

func (h Handle) slot() (idx uint32, gen uint8, ok bool) {
	n := uint32(h) & indexMask
	if n == 0 {
		return 0, 0, false
	}
	return n - 1, uint8(uint32(h) >> indexBits), true
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is optionally implemented by resource values that need cleanup.
type Dropper interface {
	Drop()
}
