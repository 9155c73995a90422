package objects

import "fmt"

// QualifierCode identifies the range/count specifier following an object
// header's (group, variation) pair. Only the common subset this stack
// exercises is named; the rest is represented numerically.
type QualifierCode uint8

const (
	Qual8BitStartStop   QualifierCode = 0x00
	Qual16BitStartStop  QualifierCode = 0x01
	Qual8BitAllObjects  QualifierCode = 0x06
	Qual8BitCount       QualifierCode = 0x07
	Qual16BitCount      QualifierCode = 0x08
	Qual8BitIndexPrefix QualifierCode = 0x17
	Qual16BitIndexPrefix QualifierCode = 0x28
)

func (q QualifierCode) String() string {
	return fmt.Sprintf("qualifier(%#02x)", uint8(q))
}

// Range is a decoded start/stop or count specifier.
type Range struct {
	Qualifier QualifierCode
	Start     uint16
	Stop      uint16
	Count     uint16
	Prefixed  bool
}

// N returns the number of objects described by the range.
func (r Range) N() int {
	switch r.Qualifier {
	case Qual8BitStartStop, Qual16BitStartStop:
		if r.Stop < r.Start {
			return 0
		}
		return int(r.Stop-r.Start) + 1
	default:
		return int(r.Count)
	}
}

// DecodeRange reads the range/count fields that follow a (group, variation,
// qualifier) header triple, per spec.md's qualifier-code table.
func DecodeRange(c *Cursor, q QualifierCode) (Range, error) {
	r := Range{Qualifier: q}
	switch q {
	case Qual8BitStartStop:
		start, err := c.ReadByte()
		if err != nil {
			return r, err
		}
		stop, err := c.ReadByte()
		if err != nil {
			return r, err
		}
		r.Start, r.Stop = uint16(start), uint16(stop)
	case Qual16BitStartStop:
		start, err := ReadFixed[uint16](c)
		if err != nil {
			return r, err
		}
		stop, err := ReadFixed[uint16](c)
		if err != nil {
			return r, err
		}
		r.Start, r.Stop = start, stop
	case Qual8BitAllObjects:
		// no range fields follow
	case Qual8BitCount, Qual8BitIndexPrefix:
		count, err := c.ReadByte()
		if err != nil {
			return r, err
		}
		r.Count = uint16(count)
		r.Prefixed = q == Qual8BitIndexPrefix
	case Qual16BitCount, Qual16BitIndexPrefix:
		count, err := ReadFixed[uint16](c)
		if err != nil {
			return r, err
		}
		r.Count = count
		r.Prefixed = q == Qual16BitIndexPrefix
	default:
		return r, &ObjectParseError{Where: "qualifier", Offset: c.Pos(), Err: fmt.Errorf("unsupported qualifier %#02x", uint8(q))}
	}
	return r, nil
}
