// Package event implements synchronous, single-goroutine notifications.
package event

// Connection identifies one subscriber of a Signal.
type Connection struct {
	id uint64
}

// Valid reports whether c was returned by Connect.
func (c Connection) Valid() bool { return c.id != 0 }

type slot[E any] struct {
	id      uint64
	fn      func(E)
	calling int  // >0 while fn is on the stack
	dead    bool // disconnected; never invoked again
}

// Signal is a list of subscribers invoked in connection order.
//
// Handlers may connect or disconnect subscribers and emit again while a
// dispatch is running. A handler disconnecting itself (or any subscriber that
// is currently being invoked) is only unlinked once that call returns; every
// other disconnect takes effect at once. Subscribers connected during a
// dispatch are first invoked by the next Emit.
type Signal[E any] struct {
	slots  []*slot[E]
	nextID uint64
}

// Connect appends fn to the subscriber list.
func (s *Signal[E]) Connect(fn func(E)) Connection {
	s.nextID++
	s.slots = append(s.slots, &slot[E]{id: s.nextID, fn: fn})
	return Connection{id: s.nextID}
}

// Disconnect removes the subscriber behind c. Unknown or already removed
// connections are ignored.
func (s *Signal[E]) Disconnect(c Connection) {
	for i, sl := range s.slots {
		if sl.id != c.id {
			continue
		}
		sl.dead = true
		if sl.calling == 0 {
			s.unlink(i)
		}
		return
	}
}

// Emit invokes every live subscriber with ev.
func (s *Signal[E]) Emit(ev E) {
	// Iterate the array as it was when the dispatch started; unlink copies
	// instead of shifting, so this view never sees entries move.
	slots := s.slots
	for _, sl := range slots {
		if sl.dead {
			continue
		}
		sl.calling++
		sl.fn(ev)
		sl.calling--
		if sl.dead && sl.calling == 0 {
			s.unlinkSlot(sl)
		}
	}
}

// Len returns the number of connected subscribers, including ones whose
// disconnect is still pending.
func (s *Signal[E]) Len() int { return len(s.slots) }

func (s *Signal[E]) unlinkSlot(target *slot[E]) {
	for i, sl := range s.slots {
		if sl == target {
			s.unlink(i)
			return
		}
	}
}

func (s *Signal[E]) unlink(i int) {
	next := make([]*slot[E], 0, cap(s.slots))
	next = append(next, s.slots[:i]...)
	s.slots = append(next, s.slots[i+1:]...)
}
