package objects

// Flags is a measurement quality/state flag byte. Bit meaning depends on
// the point type carrying it; the shared bits (Online, Restart, CommLost,
// RemoteForced, LocalForced) occupy the same position in every type.
// Values pinned from the original implementation's app/flags.rs.
type Flags uint8

const (
	Online       Flags = 0x01
	Restart      Flags = 0x02
	CommLost     Flags = 0x04
	RemoteForced Flags = 0x08
	LocalForced  Flags = 0x10

	// Binary-input specific.
	ChatterFilter Flags = 0x20
	BinaryState   Flags = 0x80

	// Double-bit binary specific: bits 6-7 hold the DoubleBit state
	// instead of a single State bit.

	// Counter specific.
	CounterRollover Flags = 0x20
	CounterDiscontinuity Flags = 0x40

	// Analog specific.
	AnalogOverRange Flags = 0x20
	AnalogReferenceErr Flags = 0x40
	AnalogState     Flags = 0x80
)

// Set reports whether every bit in mask is present.
func (f Flags) Set(mask Flags) bool { return f&mask == mask }

// GoodFlags is the default "good" flag set used when an application does
// not supply one explicitly: Online with no other bit set.
const GoodFlags = Online

// DoubleBit represents the two-bit state carried by Group 3/4 points.
type DoubleBit uint8

const (
	DoubleBitIntermediate DoubleBit = 0
	DoubleBitOff          DoubleBit = 1
	DoubleBitOn           DoubleBit = 2
	DoubleBitIndeterminate DoubleBit = 3
)

// DoubleBitFlags packs a DoubleBit state into bits 6-7 alongside the shared
// quality bits in bits 0-4.
func DoubleBitFlags(db DoubleBit, shared Flags) Flags {
	return Flags(shared&0x1f) | Flags(db)<<6
}

// State extracts the DoubleBit state from a Group 3/4 flag byte.
func (f Flags) State() DoubleBit {
	return DoubleBit(f >> 6 & 0x03)
}
