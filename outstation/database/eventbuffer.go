package database

import "github.com/go-dnp3/dnp3/objects"

// Event is one buffered change-of-state record, index plus the
// measurement that triggered it and the class it was generated under.
type Event struct {
	Index   uint32
	Class   Class
	Value   objects.Measurement
	written bool
	selected bool
}

// EventBuffer is an ordered list of pending events, one list for the whole
// database rather than per-type, with an optional maximum count per point
// type to bound memory the way the original implementation's
// EventBufferConfig does (max_binary, max_analog, ...).
//
// Selection and write-confirmation follow a two-phase protocol: SelectByClass
// marks unselected events of the requested classes as selected (for inclusion in the
// in-flight response), and ClearWritten removes events a master has
// confirmed receipt of via an application confirm, matching spec.md §4.7
// and scenario S6.
type EventBuffer struct {
	capacity map[objects.PointType]int
	events   []*Event
	overflow bool
}

// NewEventBuffer constructs an EventBuffer with a per-type capacity map.
// Types absent from capacity default to unlimited.
func NewEventBuffer(capacity map[objects.PointType]int) *EventBuffer {
	return &EventBuffer{capacity: capacity}
}

// Add appends a new event, evicting the oldest unselected event of the
// same point type if the type's configured capacity would be exceeded.
func (b *EventBuffer) Add(e Event) {
	limit, ok := b.capacity[e.Value.Type]
	if ok && limit > 0 {
		count := 0
		for _, existing := range b.events {
			if existing.Value.Type == e.Value.Type {
				count++
			}
		}
		for count >= limit {
			evicted := false
			for i, existing := range b.events {
				if existing.Value.Type == e.Value.Type && !existing.selected {
					b.events = append(b.events[:i], b.events[i+1:]...)
					count--
					evicted = true
					b.overflow = true
					break
				}
			}
			if !evicted {
				break
			}
		}
	}
	ev := e
	b.events = append(b.events, &ev)
}

// SelectByClass marks up to max unselected events (0 = unlimited) whose
// Class is in classes as selected for inclusion in the response currently
// being built, returning them in insertion order.
func (b *EventBuffer) SelectByClass(classes []Class, max int) []*Event {
	want := make(map[Class]bool, len(classes))
	for _, c := range classes {
		want[c] = true
	}
	var out []*Event
	for _, e := range b.events {
		if e.selected || !want[e.Class] {
			continue
		}
		e.selected = true
		out = append(out, e)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// WriteSelected encodes every currently selected event into dst using
// encode, stopping before the buffer would exceed its capacity, and
// returns the number of events it wrote. The teacher's info/pack.go add()
// helper grows its backing slice on demand; here the destination buffer
// size is the limiting resource instead, since link-layer frames have a
// fixed maximum payload.
func (b *EventBuffer) WriteSelected(dst []byte, encode func(*Event, []byte) (n int, ok bool)) (int, error) {
	written := 0
	offset := 0
	for _, e := range b.events {
		if !e.selected || e.written {
			continue
		}
		n, ok := encode(e, dst[offset:])
		if !ok {
			break
		}
		offset += n
		e.written = true
		written++
	}
	return written, nil
}

// MarkWritten flags each of the given events (normally a prior
// SelectByClass result) as written, so a subsequent application confirm
// drains them via ClearWritten. Used by callers that serialize selected
// events themselves instead of going through WriteSelected.
func (b *EventBuffer) MarkWritten(events []*Event) {
	for _, e := range events {
		e.written = true
	}
}

// ClearWritten removes every event marked written (i.e. confirmed
// delivered to the master) and returns the count removed, per scenario S6.
func (b *EventBuffer) ClearWritten() int {
	n := 0
	kept := b.events[:0]
	for _, e := range b.events {
		if e.written {
			n++
			continue
		}
		kept = append(kept, e)
	}
	b.events = kept
	return n
}

// Deselect clears the selected and written flags on every selected event,
// used when a response containing them is discarded (e.g. retried with a
// fresh selection) rather than confirmed.
func (b *EventBuffer) Deselect() {
	for _, e := range b.events {
		if e.selected {
			e.selected = false
			e.written = false
		}
	}
}

// Len returns the number of buffered (not yet cleared) events.
func (b *EventBuffer) Len() int { return len(b.events) }

// Overflowed reports whether an event has been evicted to make room for a
// newer one since the last AckOverflow, the condition IIN2.EVENT_BUFFER_OVERFLOW
// latches for.
func (b *EventBuffer) Overflowed() bool { return b.overflow }

// AckOverflow clears the overflow latch once a response carrying
// IIN2.EVENT_BUFFER_OVERFLOW has been confirmed received.
func (b *EventBuffer) AckOverflow() { b.overflow = false }
