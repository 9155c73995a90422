// Package objects implements the DNP3 application-layer object model: group
// and variation identification, measurement flags, control codes, the
// 48-bit timestamp, and the cursor used to decode and encode object data
// to and from a byte buffer.
package objects

import "fmt"

// Group identifies a DNP3 object group, e.g. Binary Input (1) or Analog
// Output (41).
type Group uint8

// Variation identifies one encoding of a Group, e.g. Group 1 Variation 2
// (Binary Input with Flags).
type Variation uint8

// Object groups used by this stack. Names follow the DNP3 data dictionary.
const (
	GroupBinaryInput           Group = 1
	GroupBinaryInputEvent      Group = 2
	GroupDoubleBitBinaryInput  Group = 3
	GroupDoubleBitBinaryEvent  Group = 4
	GroupBinaryOutput          Group = 10
	GroupBinaryOutputEvent     Group = 11
	GroupBinaryCommand         Group = 12
	GroupBinaryCommandEvent    Group = 13
	GroupCounter               Group = 20
	GroupFrozenCounter         Group = 21
	GroupCounterEvent          Group = 22
	GroupFrozenCounterEvent    Group = 23
	GroupAnalogInput           Group = 30
	GroupAnalogInputEvent      Group = 32
	GroupAnalogOutputStatus    Group = 40
	GroupAnalogOutput          Group = 41
	GroupAnalogOutputEvent     Group = 42
	GroupTimeAndDate           Group = 50
	GroupClassData             Group = 60
	GroupFile                  Group = 70
	GroupInternalIndications   Group = 80
	GroupOctetString           Group = 110
	GroupOctetStringEvent      Group = 111
)

// (Group, Variation) pairs used in object headers and wire catalogues.
type GroupVariation struct {
	Group     Group
	Variation Variation
}

func (gv GroupVariation) String() string {
	return fmt.Sprintf("g%dv%d", gv.Group, gv.Variation)
}

// Common variation constants referenced throughout the master and
// outstation layers.
var (
	BinaryInputPacked      = GroupVariation{GroupBinaryInput, 1}
	BinaryInputFlags       = GroupVariation{GroupBinaryInput, 2}
	BinaryInputEventNoTime = GroupVariation{GroupBinaryInputEvent, 1}
	BinaryInputEventTime   = GroupVariation{GroupBinaryInputEvent, 2}

	DoubleBitBinaryFlags     = GroupVariation{GroupDoubleBitBinaryInput, 2}
	DoubleBitBinaryEventTime = GroupVariation{GroupDoubleBitBinaryEvent, 2}

	BinaryOutputStatus    = GroupVariation{GroupBinaryOutput, 2}
	BinaryOutputEventTime = GroupVariation{GroupBinaryOutputEvent, 2}

	CounterVar32          = GroupVariation{GroupCounter, 1}
	CounterVar16          = GroupVariation{GroupCounter, 2}
	CounterEventVar32     = GroupVariation{GroupCounterEvent, 1}
	CounterEventVar16     = GroupVariation{GroupCounterEvent, 2}
	CounterEventVar32Time = GroupVariation{GroupCounterEvent, 5}

	FrozenCounterVar32          = GroupVariation{GroupFrozenCounter, 1}
	FrozenCounterEventVar32Time = GroupVariation{GroupFrozenCounterEvent, 5}

	AnalogInputVar32            = GroupVariation{GroupAnalogInput, 1}
	AnalogInputVar16            = GroupVariation{GroupAnalogInput, 2}
	AnalogInputFloat32          = GroupVariation{GroupAnalogInput, 5}
	AnalogInputFloat64          = GroupVariation{GroupAnalogInput, 6}
	AnalogInputEventVar32       = GroupVariation{GroupAnalogInputEvent, 1}
	AnalogInputEventFloat32     = GroupVariation{GroupAnalogInputEvent, 3}
	AnalogInputEventFloat32Time = GroupVariation{GroupAnalogInputEvent, 7}

	CROB = GroupVariation{GroupBinaryCommand, 1}

	AnalogOutputFloat32 = GroupVariation{GroupAnalogOutput, 2}
	AnalogOutputFloat64 = GroupVariation{GroupAnalogOutput, 3}

	AnalogOutputStatusFloat32    = GroupVariation{GroupAnalogOutputStatus, 3}
	AnalogOutputEventFloat32Time = GroupVariation{GroupAnalogOutputEvent, 7}

	TimeAndDate = GroupVariation{GroupTimeAndDate, 1}

	ClassData0 = GroupVariation{GroupClassData, 1}
	ClassData1 = GroupVariation{GroupClassData, 2}
	ClassData2 = GroupVariation{GroupClassData, 3}
	ClassData3 = GroupVariation{GroupClassData, 4}
)
