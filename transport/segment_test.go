package transport

import (
	"bytes"
	"testing"
)

func TestSegmenterAssemblerRoundTrip(t *testing.T) {
	data := make([]byte, MaxSegmentUserData*2+10)
	for i := range data {
		data[i] = byte(i)
	}

	seg := NewSegmenter(data)
	asm := NewAssembler()

	var got []byte
	for {
		h, payload, ok := seg.Next()
		if !ok {
			break
		}
		fragment, done, err := asm.Push(h, payload)
		if err != nil {
			t.Fatalf("Push: %v", err)
		}
		if done {
			got = fragment
		}
	}

	if !bytes.Equal(got, data) {
		t.Fatalf("reassembled fragment mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestAssemblerRejectsSequenceGap(t *testing.T) {
	asm := NewAssembler()
	if _, _, err := asm.Push(NewHeader(true, false, 0), []byte{1, 2, 3}); err != nil {
		t.Fatalf("first push: %v", err)
	}
	_, _, err := asm.Push(NewHeader(false, true, 5), []byte{4, 5, 6})
	if err == nil {
		t.Fatal("expected sequence gap error")
	}
}

func TestAssemblerRequiresFIRFirst(t *testing.T) {
	asm := NewAssembler()
	_, _, err := asm.Push(NewHeader(false, true, 0), []byte{1})
	if err != ErrMissingFIR {
		t.Fatalf("err = %v, want ErrMissingFIR", err)
	}
}

// TestHeaderWireByteLayout pins the literal wire byte per spec §6:
// FIR<<7 | FIN<<6 | SEQ[0..64). A header built with only FIR set must be
// 0x80, not 0x40 — a round-trip test alone can't catch the bits being
// swapped, since encode and decode would agree on the wrong layout.
func TestHeaderWireByteLayout(t *testing.T) {
	if got := byte(NewHeader(true, false, 0)); got != 0x80 {
		t.Fatalf("FIR-only header = %#02x, want 0x80", got)
	}
	if got := byte(NewHeader(false, true, 0)); got != 0x40 {
		t.Fatalf("FIN-only header = %#02x, want 0x40", got)
	}
	if got := byte(NewHeader(true, true, 0x3F)); got != 0xFF {
		t.Fatalf("FIR+FIN+seq=0x3F header = %#02x, want 0xff", got)
	}
}
