package objects

import "fmt"

// ObjectHeader is one decoded (group, variation, qualifier, range) header
// from an application fragment, together with the raw payload bytes
// belonging to it (still undecoded at this layer, and package app's parser
// only attaches them: decoding payload bytes into typed point values is done
// by the master and outstation layers through this package's codec
// functions, such as ReadRanged and DecodeCROBs).
type ObjectHeader struct {
	GroupVariation GroupVariation
	Qualifier      QualifierCode
	Range          Range
	Payload        []byte
}

func (h ObjectHeader) String() string {
	return fmt.Sprintf("%s qual=%s range=[%d,%d] n=%d", h.GroupVariation, h.Qualifier, h.Range.Start, h.Range.Stop, h.Range.N())
}

// DecodeHeader reads one object header (group byte, variation byte,
// qualifier byte, range fields) from the cursor. It does not consume or
// interpret the object payload; callers that know the variation's fixed
// width do that separately.
func DecodeHeader(c *Cursor) (ObjectHeader, error) {
	group, err := c.ReadByte()
	if err != nil {
		return ObjectHeader{}, err
	}
	variation, err := c.ReadByte()
	if err != nil {
		return ObjectHeader{}, err
	}
	qualByte, err := c.ReadByte()
	if err != nil {
		return ObjectHeader{}, err
	}
	q := QualifierCode(qualByte)
	rng, err := DecodeRange(c, q)
	if err != nil {
		return ObjectHeader{}, err
	}
	return ObjectHeader{
		GroupVariation: GroupVariation{Group: Group(group), Variation: Variation(variation)},
		Qualifier:      q,
		Range:          rng,
	}, nil
}

// EncodeHeader appends a (group, variation, qualifier, range) header to the
// cursor. start/stop carry the range for start-stop qualifiers and the
// object count for count qualifiers; a master only ever builds requests
// with the qualifier shapes named below, per spec.md §4.4 and the file-
// transfer sequence in SPEC_FULL.md.
func EncodeHeader(c *Cursor, gv GroupVariation, q QualifierCode, start, stop uint16) error {
	if err := c.WriteByte(byte(gv.Group)); err != nil {
		return err
	}
	if err := c.WriteByte(byte(gv.Variation)); err != nil {
		return err
	}
	if err := c.WriteByte(byte(q)); err != nil {
		return err
	}
	switch q {
	case Qual8BitAllObjects:
	case Qual8BitStartStop:
		c.WriteByte(byte(start))
		c.WriteByte(byte(stop))
	case Qual16BitStartStop:
		WriteFixed(c, start)
		WriteFixed(c, stop)
	case Qual8BitCount, Qual8BitIndexPrefix:
		c.WriteByte(byte(start))
	case Qual16BitCount, Qual16BitIndexPrefix:
		WriteFixed(c, start)
	default:
		return fmt.Errorf("dnp3: unsupported write qualifier %#02x", uint8(q))
	}
	return nil
}

// HeaderCollection iterates the object headers of a parsed application
// fragment without copying the underlying buffer, mirroring the borrowed
// decode style of info.DataUnit.Adopt.
type HeaderCollection struct {
	headers []ObjectHeader
}

// NewHeaderCollection wraps an already-decoded slice of headers.
func NewHeaderCollection(headers []ObjectHeader) HeaderCollection {
	return HeaderCollection{headers: headers}
}

// Headers returns the decoded headers in wire order.
func (h HeaderCollection) Headers() []ObjectHeader { return h.headers }

// Len reports the number of object headers.
func (h HeaderCollection) Len() int { return len(h.headers) }
