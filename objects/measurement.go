package objects

// Measurement is a tagged union over the point types this stack carries in
// its database and event buffer, mirroring the role the teacher's
// info.Params-parametrized value types (Norm, Scaled, Float, Step, Bits)
// play for the IEC 60870-5 data model, but collapsed into one concrete type
// since DNP3's type catalogue is fixed width (no generic address/cause
// parametrization is needed the way the teacher needs it for 101 vs 104).
type Measurement struct {
	Type  PointType
	Flags Flags
	Time  DNP3Time

	Bool    bool
	Double  DoubleBit
	Int     int64
	Float64 float64
}

// PointType distinguishes the kind of value carried by a Measurement.
type PointType uint8

const (
	PointBinary PointType = iota
	PointDoubleBitBinary
	PointBinaryOutputStatus
	PointCounter
	PointFrozenCounter
	PointAnalog
	PointAnalogOutputStatus
)

// NewBinary builds a binary-input Measurement.
func NewBinary(value bool, flags Flags, t DNP3Time) Measurement {
	return Measurement{Type: PointBinary, Bool: value, Flags: flags, Time: t}
}

// NewDoubleBit builds a double-bit binary-input Measurement.
func NewDoubleBit(value DoubleBit, flags Flags, t DNP3Time) Measurement {
	return Measurement{Type: PointDoubleBitBinary, Double: value, Flags: flags, Time: t}
}

// NewCounter builds a counter Measurement.
func NewCounter(value uint32, flags Flags, t DNP3Time) Measurement {
	return Measurement{Type: PointCounter, Int: int64(value), Flags: flags, Time: t}
}

// NewAnalog builds an analog-input Measurement.
func NewAnalog(value float64, flags Flags, t DNP3Time) Measurement {
	return Measurement{Type: PointAnalog, Float64: value, Flags: flags, Time: t}
}
