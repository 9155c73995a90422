package objects

import (
	"fmt"
	"math"
)

// widths gives the fixed encoded size, in bytes, of one object for every
// byte-aligned variation this stack carries, excluding any index-prefix
// bytes a qualifier adds ahead of it. Free-format variations (file
// transfer, octet strings) have no entry here; see ReadFreeFormat and
// DecodeGroup70Var3.
var widths = map[GroupVariation]int{
	BinaryInputFlags:       1,
	BinaryInputEventNoTime: 1,
	BinaryInputEventTime:   1 + 6,

	DoubleBitBinaryFlags:     1,
	DoubleBitBinaryEventTime: 1 + 6,

	BinaryOutputStatus:    1,
	BinaryOutputEventTime: 1 + 6,

	CounterVar32:          4 + 1,
	CounterVar16:          2 + 1,
	CounterEventVar32:     4 + 1,
	CounterEventVar16:     2 + 1,
	CounterEventVar32Time: 4 + 1 + 6,

	FrozenCounterVar32:          4 + 1,
	FrozenCounterEventVar32Time: 4 + 1 + 6,

	AnalogInputVar32:            4 + 1,
	AnalogInputVar16:            2 + 1,
	AnalogInputFloat32:          4 + 1,
	AnalogInputFloat64:          8 + 1,
	AnalogInputEventVar32:       4 + 1,
	AnalogInputEventFloat32:     4 + 1,
	AnalogInputEventFloat32Time: 4 + 1 + 6,

	AnalogOutputStatusFloat32:    4 + 1,
	AnalogOutputEventFloat32Time: 4 + 1 + 6,

	CROB:                11, // code(1) + count(1) + on_time(4) + off_time(4) + status(1)
	AnalogOutputFloat32: 4 + 1,
	AnalogOutputFloat64: 8 + 1,
	TimeAndDate:         6,
}

// Width reports the fixed encoded size, in bytes, of one object of the
// given group/variation, not counting any index-prefix bytes its
// qualifier may add. ok is false for variations with no fixed width.
func Width(gv GroupVariation) (int, bool) {
	w, ok := widths[gv]
	return w, ok
}

// IsPacked reports whether gv encodes one bit per object (Binary Input
// Packed Format, Group 1 Variation 1) rather than a byte-aligned record.
func IsPacked(gv GroupVariation) bool { return gv == BinaryInputPacked }

// IsClassData reports whether gv is a class-data poll/echo group, which
// carries no object payload of its own.
func IsClassData(gv GroupVariation) bool { return gv.Group == GroupClassData }

// RangedValue pairs a decoded measurement with the point index it belongs
// to: the element type produced by read_ranged and read_prefixed.
type RangedValue struct {
	Index uint32
	Value Measurement
}

// ReadRanged decodes n consecutive fixed-width objects of the given
// group/variation from payload, assigning them indices startIndex,
// startIndex+1, ... per a start/stop qualifier's implicit indexing.
func ReadRanged(gv GroupVariation, startIndex uint32, payload []byte, n int) ([]RangedValue, error) {
	width, ok := Width(gv)
	if !ok {
		return nil, fmt.Errorf("dnp3: %s has no fixed ranged width", gv)
	}
	out := make([]RangedValue, 0, n)
	for i := 0; i < n; i++ {
		off := i * width
		if off+width > len(payload) {
			return nil, &ObjectParseError{Where: "read_ranged", Offset: off, Err: errShortBuffer}
		}
		v, err := decodeValue(gv, payload[off:off+width])
		if err != nil {
			return nil, err
		}
		out = append(out, RangedValue{Index: startIndex + uint32(i), Value: v})
	}
	return out, nil
}

// ReadPrefixed decodes n fixed-width objects from payload, each preceded
// by an explicit index of prefixWidth bytes (1 for Qual8BitIndexPrefix, 2
// for Qual16BitIndexPrefix).
func ReadPrefixed(gv GroupVariation, payload []byte, n int, prefixWidth int) ([]RangedValue, error) {
	width, ok := Width(gv)
	if !ok {
		return nil, fmt.Errorf("dnp3: %s has no fixed prefixed width", gv)
	}
	c := NewCursor(payload)
	out := make([]RangedValue, 0, n)
	for i := 0; i < n; i++ {
		var index uint32
		switch prefixWidth {
		case 1:
			b, err := c.ReadByte()
			if err != nil {
				return nil, err
			}
			index = uint32(b)
		case 2:
			v, err := ReadFixed[uint16](c)
			if err != nil {
				return nil, err
			}
			index = uint32(v)
		default:
			return nil, fmt.Errorf("dnp3: unsupported index prefix width %d", prefixWidth)
		}
		raw, err := c.ReadBytes(width)
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(gv, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, RangedValue{Index: index, Value: v})
	}
	return out, nil
}

// ReadCount decodes n fixed-width objects from payload with no associated
// per-object index, such as a count-qualified echo.
func ReadCount(gv GroupVariation, payload []byte, n int) ([]Measurement, error) {
	ranged, err := ReadRanged(gv, 0, payload, n)
	if err != nil {
		return nil, err
	}
	out := make([]Measurement, len(ranged))
	for i, r := range ranged {
		out[i] = r.Value
	}
	return out, nil
}

// ReadBitSequence unpacks n single-bit objects (Group 1 Variation 1,
// Binary Input Packed Format) starting at startIndex.
func ReadBitSequence(startIndex uint32, payload []byte, n int) []RangedValue {
	out := make([]RangedValue, 0, n)
	for i := 0; i < n; i++ {
		byteIdx, bit := i/8, uint(i%8)
		value := payload[byteIdx]&(1<<bit) != 0
		out = append(out, RangedValue{Index: startIndex + uint32(i), Value: NewBinary(value, GoodFlags, DNP3Time{})})
	}
	return out
}

// ReadDoubleBitSequence unpacks n two-bit objects (Group 3 Variation 1,
// Double-bit Binary Input Packed Format) starting at startIndex.
func ReadDoubleBitSequence(startIndex uint32, payload []byte, n int) []RangedValue {
	out := make([]RangedValue, 0, n)
	for i := 0; i < n; i++ {
		byteIdx, shift := i/4, uint((i%4)*2)
		state := DoubleBit(payload[byteIdx] >> shift & 0x3)
		out = append(out, RangedValue{Index: startIndex + uint32(i), Value: NewDoubleBit(state, GoodFlags, DNP3Time{})})
	}
	return out
}

// ReadFreeFormat returns the raw bytes of a variable-length object (file
// transfer, octet string) undecoded; callers apply the specific
// free-format layout they expect (see DecodeGroup70Var3).
func ReadFreeFormat(payload []byte) []byte { return payload }

func decodeValue(gv GroupVariation, raw []byte) (Measurement, error) {
	c := NewCursor(raw)
	switch gv {
	case BinaryInputFlags, BinaryInputEventNoTime:
		f, _ := c.ReadByte()
		flags := Flags(f)
		return NewBinary(flags.Set(BinaryState), flags, DNP3Time{}), nil
	case BinaryInputEventTime:
		f, _ := c.ReadByte()
		flags := Flags(f)
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		return NewBinary(flags.Set(BinaryState), flags, t), nil
	case DoubleBitBinaryFlags:
		f, _ := c.ReadByte()
		flags := Flags(f)
		return NewDoubleBit(flags.State(), flags, DNP3Time{}), nil
	case DoubleBitBinaryEventTime:
		f, _ := c.ReadByte()
		flags := Flags(f)
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		return NewDoubleBit(flags.State(), flags, t), nil
	case BinaryOutputStatus:
		f, _ := c.ReadByte()
		flags := Flags(f)
		m := NewBinary(flags.Set(BinaryState), flags, DNP3Time{})
		m.Type = PointBinaryOutputStatus
		return m, nil
	case BinaryOutputEventTime:
		f, _ := c.ReadByte()
		flags := Flags(f)
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		m := NewBinary(flags.Set(BinaryState), flags, t)
		m.Type = PointBinaryOutputStatus
		return m, nil
	case CounterVar32, CounterEventVar32:
		v, _ := ReadFixed[uint32](c)
		f, _ := c.ReadByte()
		return NewCounter(v, Flags(f), DNP3Time{}), nil
	case CounterVar16, CounterEventVar16:
		v, _ := ReadFixed[uint16](c)
		f, _ := c.ReadByte()
		return NewCounter(uint32(v), Flags(f), DNP3Time{}), nil
	case CounterEventVar32Time:
		v, _ := ReadFixed[uint32](c)
		f, _ := c.ReadByte()
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		return NewCounter(v, Flags(f), t), nil
	case FrozenCounterVar32:
		v, _ := ReadFixed[uint32](c)
		f, _ := c.ReadByte()
		m := NewCounter(v, Flags(f), DNP3Time{})
		m.Type = PointFrozenCounter
		return m, nil
	case FrozenCounterEventVar32Time:
		v, _ := ReadFixed[uint32](c)
		f, _ := c.ReadByte()
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		m := NewCounter(v, Flags(f), t)
		m.Type = PointFrozenCounter
		return m, nil
	case AnalogInputVar32, AnalogInputEventVar32:
		v, _ := ReadFixed[int32](c)
		f, _ := c.ReadByte()
		return NewAnalog(float64(v), Flags(f), DNP3Time{}), nil
	case AnalogInputVar16:
		v, _ := ReadFixed[int16](c)
		f, _ := c.ReadByte()
		return NewAnalog(float64(v), Flags(f), DNP3Time{}), nil
	case AnalogInputFloat32, AnalogInputEventFloat32:
		v, _ := ReadFixed[float32](c)
		f, _ := c.ReadByte()
		return NewAnalog(float64(v), Flags(f), DNP3Time{}), nil
	case AnalogInputEventFloat32Time:
		v, _ := ReadFixed[float32](c)
		f, _ := c.ReadByte()
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		return NewAnalog(float64(v), Flags(f), t), nil
	case AnalogInputFloat64:
		v, _ := ReadFixed[float64](c)
		f, _ := c.ReadByte()
		return NewAnalog(v, Flags(f), DNP3Time{}), nil
	case AnalogOutputStatusFloat32:
		v, _ := ReadFixed[float32](c)
		f, _ := c.ReadByte()
		m := NewAnalog(float64(v), Flags(f), DNP3Time{})
		m.Type = PointAnalogOutputStatus
		return m, nil
	case AnalogOutputEventFloat32Time:
		v, _ := ReadFixed[float32](c)
		f, _ := c.ReadByte()
		var t DNP3Time
		tb, _ := c.ReadBytes(6)
		copy(t[:], tb)
		m := NewAnalog(float64(v), Flags(f), t)
		m.Type = PointAnalogOutputStatus
		return m, nil
	default:
		return Measurement{}, fmt.Errorf("dnp3: unsupported decode variation %s", gv)
	}
}

// DefaultStaticVariation picks the variation an outstation uses by default
// to encode m's current value. Binary measurements apply the codec's flag
// promotion rule: a value whose flags carry anything beyond ONLINE is
// promoted from the packed g1v1 form to the flagged g1v2 form, since the
// packed form has no room for a flags byte.
func DefaultStaticVariation(m Measurement) GroupVariation {
	switch m.Type {
	case PointBinary:
		if m.Flags&^Online != 0 {
			return BinaryInputFlags
		}
		return BinaryInputPacked
	case PointDoubleBitBinary:
		return DoubleBitBinaryFlags
	case PointBinaryOutputStatus:
		return BinaryOutputStatus
	case PointCounter:
		return CounterVar32
	case PointFrozenCounter:
		return FrozenCounterVar32
	case PointAnalog:
		return AnalogInputFloat32
	case PointAnalogOutputStatus:
		return AnalogOutputStatusFloat32
	default:
		return GroupVariation{}
	}
}

// DefaultEventVariation picks the variation an outstation uses to encode
// an event record of the given point type. Every event variation named
// here carries an absolute timestamp, since this stack stores one
// six-byte DNP3Time per event rather than a CTO-relative delta.
func DefaultEventVariation(t PointType) GroupVariation {
	switch t {
	case PointBinary:
		return BinaryInputEventTime
	case PointDoubleBitBinary:
		return DoubleBitBinaryEventTime
	case PointBinaryOutputStatus:
		return BinaryOutputEventTime
	case PointCounter:
		return CounterEventVar32Time
	case PointFrozenCounter:
		return FrozenCounterEventVar32Time
	case PointAnalog:
		return AnalogInputEventFloat32Time
	case PointAnalogOutputStatus:
		return AnalogOutputEventFloat32Time
	default:
		return GroupVariation{}
	}
}

// EncodeMeasurement appends m's wire payload (flags, value, and a trailing
// timestamp for "with time" variations) for the given group/variation. It
// writes neither the object header nor an index prefix; callers batch
// objects of the same (group, variation) under one header.
//
// Analog variations narrower than the stored float64 value saturate to
// the variation's numeric limit and set AnalogOverRange in the written
// flags byte, per the codec's numeric promotion rule.
func EncodeMeasurement(c *Cursor, gv GroupVariation, m Measurement) error {
	switch gv {
	case BinaryInputFlags, BinaryInputEventNoTime, BinaryInputEventTime,
		BinaryOutputStatus, BinaryOutputEventTime:
		f := m.Flags
		if m.Bool {
			f |= BinaryState
		}
		c.WriteByte(byte(f))
	case DoubleBitBinaryFlags, DoubleBitBinaryEventTime:
		c.WriteByte(byte(DoubleBitFlags(m.Double, m.Flags)))
	case CounterVar32, CounterEventVar32, CounterEventVar32Time,
		FrozenCounterVar32, FrozenCounterEventVar32Time:
		WriteFixed(c, uint32(m.Int))
		c.WriteByte(byte(m.Flags))
	case CounterVar16, CounterEventVar16:
		WriteFixed(c, uint16(m.Int))
		c.WriteByte(byte(m.Flags))
	case AnalogInputVar32, AnalogInputEventVar32:
		v, flags := saturateInt32(m.Float64, m.Flags)
		WriteFixed(c, v)
		c.WriteByte(byte(flags))
	case AnalogInputVar16:
		v, flags := saturateInt16(m.Float64, m.Flags)
		WriteFixed(c, v)
		c.WriteByte(byte(flags))
	case AnalogInputFloat32, AnalogInputEventFloat32, AnalogInputEventFloat32Time,
		AnalogOutputStatusFloat32, AnalogOutputEventFloat32Time:
		WriteFixed(c, float32(m.Float64))
		c.WriteByte(byte(m.Flags))
	case AnalogInputFloat64:
		WriteFixed(c, m.Float64)
		c.WriteByte(byte(m.Flags))
	default:
		return fmt.Errorf("dnp3: unsupported encode variation %s", gv)
	}

	switch gv {
	case BinaryInputEventTime, DoubleBitBinaryEventTime, BinaryOutputEventTime,
		CounterEventVar32Time, FrozenCounterEventVar32Time,
		AnalogInputEventFloat32Time, AnalogOutputEventFloat32Time:
		c.WriteBytes(m.Time[:])
	}
	return nil
}

func saturateInt32(v float64, flags Flags) (int32, Flags) {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32, flags | AnalogOverRange
	case v < math.MinInt32:
		return math.MinInt32, flags | AnalogOverRange
	default:
		return int32(v), flags
	}
}

func saturateInt16(v float64, flags Flags) (int16, Flags) {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16, flags | AnalogOverRange
	case v < math.MinInt16:
		return math.MinInt16, flags | AnalogOverRange
	default:
		return int16(v), flags
	}
}
