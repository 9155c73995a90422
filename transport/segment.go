// Package transport implements the DNP3 transport layer: the one-byte
// FIR/FIN/SEQ(6) segment header that splits an application fragment across
// multiple link-layer frames, and reassembly back into one fragment.
//
// The sequence-number bookkeeping here (a 6-bit counter with wraparound,
// tracked per direction) is grounded on session/tcp.go's seqNoOut/seqNoIn
// handling, generalized from 15-bit APDU sequence numbers to 6-bit
// transport segment sequence numbers.
package transport

import (
	"errors"
	"fmt"
)

const (
	firBit  = 0x80
	finBit  = 0x40
	seqMask = 0x3F

	// MaxSegmentUserData is the largest user-data payload a single
	// link-layer frame can carry alongside the one-byte transport header.
	MaxSegmentUserData = 249
)

// Header is the one-byte transport segment header.
type Header uint8

func NewHeader(fir, fin bool, seq uint8) Header {
	var h uint8
	if fir {
		h |= firBit
	}
	if fin {
		h |= finBit
	}
	h |= seq & seqMask
	return Header(h)
}

func (h Header) FIR() bool  { return uint8(h)&firBit != 0 }
func (h Header) FIN() bool  { return uint8(h)&finBit != 0 }
func (h Header) Seq() uint8 { return uint8(h) & seqMask }

// ErrSequenceGap reports a non-consecutive transport sequence number
// observed mid-reassembly.
var ErrSequenceGap = errors.New("dnp3: transport segment sequence gap")

// ErrMissingFIR reports a segment stream that did not begin with FIR set.
var ErrMissingFIR = errors.New("dnp3: transport segment stream missing FIR")

// Assembler reassembles a sequence of transport segments received over one
// link into a single application fragment.
type Assembler struct {
	buf      []byte
	started  bool
	lastSeq  uint8
	haveSeq  bool
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Reset discards any partially assembled fragment, for use after a
// sequence gap or a new FIR segment arriving while one is in progress.
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
	a.started = false
	a.haveSeq = false
}

// Push feeds one segment (header byte plus payload) into the assembler. It
// returns the complete fragment and true when fin completes a fragment.
func (a *Assembler) Push(h Header, payload []byte) ([]byte, bool, error) {
	if h.FIR() {
		a.Reset()
		a.started = true
	} else if !a.started {
		return nil, false, ErrMissingFIR
	} else if a.haveSeq {
		want := (a.lastSeq + 1) & seqMask
		if h.Seq() != want {
			a.Reset()
			return nil, false, fmt.Errorf("%w: want %d got %d", ErrSequenceGap, want, h.Seq())
		}
	}

	a.lastSeq = h.Seq()
	a.haveSeq = true
	a.buf = append(a.buf, payload...)

	if h.FIN() {
		out := make([]byte, len(a.buf))
		copy(out, a.buf)
		a.Reset()
		return out, true, nil
	}
	return nil, false, nil
}

// Segmenter splits an application fragment into a sequence of transport
// segments no larger than MaxSegmentUserData bytes of payload each.
type Segmenter struct {
	data []byte
	seq  uint8
	pos  int
}

// NewSegmenter prepares data for segmentation starting at sequence 0.
func NewSegmenter(data []byte) *Segmenter {
	return &Segmenter{data: data}
}

// Next returns the next segment's header and payload slice. ok is false
// once every byte of data has been emitted.
func (s *Segmenter) Next() (h Header, payload []byte, ok bool) {
	if s.pos >= len(s.data) && !(s.pos == 0 && len(s.data) == 0) {
		return 0, nil, false
	}
	fir := s.pos == 0
	end := s.pos + MaxSegmentUserData
	if end > len(s.data) {
		end = len(s.data)
	}
	payload = s.data[s.pos:end]
	fin := end == len(s.data)
	h = NewHeader(fir, fin, s.seq)
	s.seq = (s.seq + 1) & seqMask
	s.pos = end
	if fin {
		// mark exhausted for the zero-length edge case
		s.pos = len(s.data) + 1
	}
	return h, payload, true
}
