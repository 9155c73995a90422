package master

import (
	"github.com/go-dnp3/dnp3/app"
	"github.com/go-dnp3/dnp3/objects"
)

// Dispatch walks the object headers of a parsed response and calls the
// matching ReadHandler method for each decoded point, the master-layer
// equivalent of info.ASDU.String() walking its own decoded object array,
// generalized here into callback dispatch instead of formatting.
func Dispatch(resp app.Response, h ReadHandler) error {
	h.BeginFragment()
	defer h.EndFragment()

	for _, oh := range resp.Objects.Headers() {
		dispatchHeader(oh, h)
	}
	return nil
}

// dispatchHeader decodes one object header's payload via the codec's
// ranged/prefixed/bit-sequence readers and forwards each point to h.
// Variations the codec has no fixed width for (file transfer, class-data
// echoes) are left to task-specific decoders that know the function code
// they belong to.
func dispatchHeader(oh objects.ObjectHeader, h ReadHandler) {
	gv := oh.GroupVariation
	start := uint32(oh.Range.Start)
	n := oh.Range.N()

	var values []objects.RangedValue
	switch {
	case objects.IsPacked(gv):
		values = objects.ReadBitSequence(start, oh.Payload, n)
	case oh.Range.Prefixed:
		values, _ = objects.ReadPrefixed(gv, oh.Payload, n, indexPrefixWidth(oh.Qualifier))
	default:
		values, _ = objects.ReadRanged(gv, start, oh.Payload, n)
	}

	for _, rv := range values {
		info := HeaderInfo{GroupVariation: gv, Index: rv.Index}
		switch rv.Value.Type {
		case objects.PointBinary, objects.PointBinaryOutputStatus:
			h.Binary(info, rv.Value.Bool, rv.Value.Flags, rv.Value.Time)
		case objects.PointDoubleBitBinary:
			h.DoubleBitBinary(info, rv.Value.Double, rv.Value.Flags, rv.Value.Time)
		case objects.PointCounter, objects.PointFrozenCounter:
			h.Counter(info, uint32(rv.Value.Int), rv.Value.Flags, rv.Value.Time)
		case objects.PointAnalog, objects.PointAnalogOutputStatus:
			h.Analog(info, rv.Value.Float64, rv.Value.Flags, rv.Value.Time)
		}
	}
}

func indexPrefixWidth(q objects.QualifierCode) int {
	switch q {
	case objects.Qual8BitIndexPrefix:
		return 1
	case objects.Qual16BitIndexPrefix:
		return 2
	default:
		return 0
	}
}
