package app

import (
	"fmt"

	"github.com/go-dnp3/dnp3/objects"
)

// isEmptyRequest reports whether gv, as used in a request, carries no
// object payload at all (class-data polls).
func isEmptyRequest(gv objects.GroupVariation) bool {
	return objects.IsClassData(gv)
}

// prefixWidth returns the number of index-prefix bytes qualifier q adds
// ahead of each object (0 for range/count qualifiers, which carry no
// explicit per-object index).
func prefixWidth(q objects.QualifierCode) int {
	switch q {
	case objects.Qual8BitIndexPrefix:
		return 1
	case objects.Qual16BitIndexPrefix:
		return 2
	default:
		return 0
	}
}

// payloadLen computes the total payload length in bytes belonging to a
// header whose range/qualifier describes n objects, including any
// per-object index prefix.
func payloadLen(gv objects.GroupVariation, rng objects.Range) (int, error) {
	n := rng.N()
	if isEmptyRequest(gv) {
		return 0, nil
	}
	if objects.IsPacked(gv) {
		return (n + 7) / 8, nil
	}
	width, ok := objects.Width(gv)
	if !ok {
		return 0, fmt.Errorf("dnp3: unsupported object variation %s", gv)
	}
	return (width + prefixWidth(rng.Qualifier)) * n, nil
}
