package database

import (
	"encoding/binary"
	"testing"

	"github.com/go-dnp3/dnp3/objects"
)

func encodeBinaryEvent(e *Event, dst []byte) (int, bool) {
	const size = 8
	if len(dst) < size {
		return 0, false
	}
	binary.LittleEndian.PutUint32(dst, e.Index)
	dst[4] = byte(e.Value.Flags)
	if e.Value.Bool {
		dst[5] = 1
	}
	return size, true
}

func TestEventBufferSelectionAndClear(t *testing.T) {
	buf := NewEventBuffer(map[objects.PointType]int{objects.PointBinary: 3})

	buf.Add(Event{Index: 0, Class: Class1, Value: objects.NewBinary(false, objects.GoodFlags, objects.DNP3Time{})})
	buf.Add(Event{Index: 1, Class: Class1, Value: objects.NewBinary(true, objects.GoodFlags|objects.ChatterFilter, objects.DNP3Time{})})
	buf.Add(Event{Index: 2, Class: Class1, Value: objects.NewBinary(false, objects.Restart, objects.DNP3Time{})})

	selected := buf.SelectByClass([]Class{Class1}, 0)
	if len(selected) != 3 {
		t.Fatalf("SelectByClass returned %d events, want 3", len(selected))
	}

	dst := make([]byte, 24)
	n, err := buf.WriteSelected(dst, encodeBinaryEvent)
	if err != nil {
		t.Fatalf("WriteSelected: %v", err)
	}
	if n != 3 {
		t.Fatalf("WriteSelected wrote %d events, want 3", n)
	}

	cleared := buf.ClearWritten()
	if cleared != 3 {
		t.Fatalf("ClearWritten() = %d, want 3", cleared)
	}
	if buf.Len() != 0 {
		t.Fatalf("buffer should be empty after ClearWritten, has %d", buf.Len())
	}
}

func TestEventBufferLatchesOverflowOnEviction(t *testing.T) {
	buf := NewEventBuffer(map[objects.PointType]int{objects.PointBinary: 1})

	buf.Add(Event{Index: 0, Class: Class1, Value: objects.NewBinary(false, objects.GoodFlags, objects.DNP3Time{})})
	if buf.Overflowed() {
		t.Fatal("overflow should not be latched before any eviction")
	}

	buf.Add(Event{Index: 1, Class: Class1, Value: objects.NewBinary(true, objects.GoodFlags, objects.DNP3Time{})})
	if !buf.Overflowed() {
		t.Fatal("overflow should latch once an event is evicted to make room")
	}

	buf.AckOverflow()
	if buf.Overflowed() {
		t.Fatal("AckOverflow should clear the latch")
	}
}
