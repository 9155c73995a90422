package objects

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ObjectParseError reports a failure to decode object data at a known byte
// offset, in the style of the teacher's field-tagged decode errors in
// info.ASDU.Adopt.
type ObjectParseError struct {
	Where string
	Offset int
	Err    error
}

func (e *ObjectParseError) Error() string {
	return fmt.Sprintf("dnp3: object parse error at %s[%d]: %v", e.Where, e.Offset, e.Err)
}

func (e *ObjectParseError) Unwrap() error { return e.Err }

// Cursor reads and writes fixed-width little-endian fields out of a shared
// byte slice, tracking position the way info.ASDU.Adopt walks its buffer by
// hand with an explicit offset variable, generalized here with a named type
// so every object codec shares one bounds-checked primitive.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for reading from the start.
func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

// NewWriteCursor wraps an existing (possibly empty) slice for appending.
func NewWriteCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

// Pos returns the current read/write offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Bytes returns everything written so far.
func (c *Cursor) Bytes() []byte { return c.buf }

// ReadByte reads one byte, or returns an error at end of buffer.
func (c *Cursor) ReadByte() (byte, error) {
	if c.Remaining() < 1 {
		return 0, &ObjectParseError{Where: "byte", Offset: c.pos, Err: errShortBuffer}
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadBytes copies out n raw bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, &ObjectParseError{Where: "bytes", Offset: c.pos, Err: errShortBuffer}
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

func (c *Cursor) WriteByte(b byte) error {
	c.buf = append(c.buf, b)
	c.pos++
	return nil
}

func (c *Cursor) WriteBytes(b []byte) {
	c.buf = append(c.buf, b...)
	c.pos += len(b)
}

var errShortBuffer = fmt.Errorf("short buffer")

// ReadFixed decodes a little-endian fixed-width value of type T (uint8,
// uint16, uint32, uint64, int16, int32, float32, float64) from the cursor.
func ReadFixed[T Fixed](c *Cursor) (T, error) {
	var zero T
	width := fixedWidth(zero)
	raw, err := c.ReadBytes(width)
	if err != nil {
		return zero, err
	}
	return decodeFixed[T](raw), nil
}

// WriteFixed appends the little-endian encoding of v to the cursor.
func WriteFixed[T Fixed](c *Cursor, v T) {
	c.WriteBytes(encodeFixed(v))
}

// Fixed lists the wire value types ReadFixed/WriteFixed support.
type Fixed interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int16 | ~int32 | ~float32 | ~float64
}

func fixedWidth(v any) int {
	switch v.(type) {
	case uint8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	case uint64, float64:
		return 8
	default:
		panic(fmt.Sprintf("dnp3: unsupported fixed width type %T", v))
	}
}

func decodeFixed[T Fixed](raw []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(raw[0])
	case uint16:
		return T(binary.LittleEndian.Uint16(raw))
	case int16:
		return T(int16(binary.LittleEndian.Uint16(raw)))
	case uint32:
		return T(binary.LittleEndian.Uint32(raw))
	case int32:
		return T(int32(binary.LittleEndian.Uint32(raw)))
	case float32:
		bits := binary.LittleEndian.Uint32(raw)
		return T(math.Float32frombits(bits))
	case uint64:
		return T(binary.LittleEndian.Uint64(raw))
	case float64:
		bits := binary.LittleEndian.Uint64(raw)
		return T(math.Float64frombits(bits))
	default:
		panic("dnp3: unreachable fixed decode")
	}
}

func encodeFixed[T Fixed](v T) []byte {
	switch x := any(v).(type) {
	case uint8:
		return []byte{x}
	case uint16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, x)
		return b
	case int16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(x))
		return b
	case uint32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, x)
		return b
	case int32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(x))
		return b
	case float32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
		return b
	case uint64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, x)
		return b
	case float64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
		return b
	default:
		panic("dnp3: unreachable fixed encode")
	}
}
