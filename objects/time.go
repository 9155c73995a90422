package objects

import "time"

// DNP3Time is the 48-bit count of milliseconds since 1970-01-01 00:00:00 UTC
// used throughout the application layer (Group 50, event timestamps). It is
// the DNP3 analogue of the teacher's CP56Time2a: a fixed-width wire value
// with its own accessors (Set, Millis, Time, AddMillis), except DNP3's field
// has no calendar breakdown, only a flat millisecond count.
type DNP3Time [6]byte

// MaxMillis is the largest value a 48-bit millisecond count can hold.
const MaxMillis = 1<<48 - 1

// Set marshals t as milliseconds since the Unix epoch, saturating at
// MaxMillis rather than wrapping on overflow and clamping negative values
// (before 1970) to zero.
func (d *DNP3Time) Set(t time.Time) {
	ms := t.UnixMilli()
	var u uint64
	switch {
	case ms < 0:
		u = 0
	case uint64(ms) > MaxMillis:
		u = MaxMillis
	default:
		u = uint64(ms)
	}
	for i := 0; i < 6; i++ {
		d[i] = byte(u >> (8 * i))
	}
}

// Millis returns the raw 48-bit millisecond count.
func (d *DNP3Time) Millis() uint64 {
	var u uint64
	for i := 0; i < 6; i++ {
		u |= uint64(d[i]) << (8 * i)
	}
	return u
}

// Time reconstructs a time.Time in UTC from the millisecond count.
func (d *DNP3Time) Time() time.Time {
	return time.UnixMilli(int64(d.Millis())).UTC()
}

// AddMillis returns a new DNP3Time advanced by delta milliseconds, saturating
// at MaxMillis and at zero rather than wrapping.
func (d DNP3Time) AddMillis(delta int64) DNP3Time {
	cur := int64(d.Millis())
	next := cur + delta
	var u uint64
	switch {
	case next < 0:
		u = 0
	case uint64(next) > MaxMillis:
		u = MaxMillis
	default:
		u = uint64(next)
	}
	var out DNP3Time
	for i := 0; i < 6; i++ {
		out[i] = byte(u >> (8 * i))
	}
	return out
}
