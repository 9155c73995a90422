// Package database implements the outstation's static point database and
// event buffer: per-point current values, per-class event generation on
// change, and the selection/write-confirm protocol a response builder uses
// to drain buffered events. Grounded on info/pack.go's add/setSeq buffer-
// growth helpers for the encode side, and on the original implementation's
// outstation/database/details/event/buffer.rs for eviction and selection
// bookkeeping, since the teacher carries no outstation-side database of
// its own.
package database

import "github.com/go-dnp3/dnp3/objects"

// Class identifies the event class (1, 2 or 3) a point reports changes
// under. Class 0 is reserved for static (non-event) integrity data.
type Class uint8

const (
	Class1 Class = 1
	Class2 Class = 2
	Class3 Class = 3
)

// PointConfig configures one index of one point type: which class change
// events are assigned to, and the deadband for analog change detection.
type PointConfig struct {
	Class    Class
	Deadband float64
}

// Point holds the current static value of one index together with its
// configuration.
type Point struct {
	Config PointConfig
	Value  objects.Measurement
}

// detectChange reports whether newValue differs enough from the current
// value to generate an event, applying the deadband for analog/counter
// points and exact equality for binary/double-bit points.
func detectChange(cfg PointConfig, old, new objects.Measurement) bool {
	if old.Type != new.Type {
		return true
	}
	switch new.Type {
	case objects.PointBinary:
		return old.Bool != new.Bool || old.Flags != new.Flags
	case objects.PointDoubleBitBinary:
		return old.Double != new.Double || old.Flags != new.Flags
	case objects.PointCounter, objects.PointFrozenCounter:
		diff := new.Int - old.Int
		if diff < 0 {
			diff = -diff
		}
		return float64(diff) > cfg.Deadband || old.Flags != new.Flags
	case objects.PointAnalog, objects.PointAnalogOutputStatus:
		diff := new.Float64 - old.Float64
		if diff < 0 {
			diff = -diff
		}
		return diff > cfg.Deadband || old.Flags != new.Flags
	default:
		return true
	}
}
