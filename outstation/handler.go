// Package outstation implements the DNP3 outstation state machine: request
// parsing, select/operate control dispatch, and response building from the
// database. It does not generate unsolicited responses: ENABLE_UNSOLICITED
// and DISABLE_UNSOLICITED only set an internal flag, and the state machine
// never enters StateUnsolicitedConfirmWait.
//
// ControlHandler and OutstationApplication are split the way the original
// implementation's outstation/traits.rs splits control handling from
// general application callbacks, mirroring the teacher's own habit of
// splitting Monitor into per-group subinterfaces in monitor.go.
package outstation

import (
	"time"

	"github.com/go-dnp3/dnp3/objects"
)

// ControlHandler decides whether a control operation may proceed (Select)
// and carries it out (Operate). An outstation calls Select before Operate
// for a select-before-operate sequence, and calls Operate alone for
// direct-operate.
type ControlHandler interface {
	SelectCROB(index uint32, cmd objects.Group12Var1) objects.CommandStatus
	OperateCROB(index uint32, cmd objects.Group12Var1) objects.CommandStatus

	SelectAnalogOutput(index uint32, value float64) objects.CommandStatus
	OperateAnalogOutput(index uint32, value float64) objects.CommandStatus
}

// OutstationApplication carries the non-control callback surface: restart
// delay reporting and clock synchronization, per spec.md's outstation
// component design.
type OutstationApplication interface {
	// ColdRestart returns the delay the outstation reports before it
	// will be available again, or 0 if it restarts immediately.
	ColdRestart() time.Duration
	WarmRestart() time.Duration
	// WriteTime applies a master-supplied clock synchronization.
	WriteTime(t time.Time) error
}

// NopControlHandler rejects every control operation with NotSupported, a
// safe default for outstations that expose no controllable points.
type NopControlHandler struct{}

func (NopControlHandler) SelectCROB(uint32, objects.Group12Var1) objects.CommandStatus {
	return objects.StatusNotSupported
}
func (NopControlHandler) OperateCROB(uint32, objects.Group12Var1) objects.CommandStatus {
	return objects.StatusNotSupported
}
func (NopControlHandler) SelectAnalogOutput(uint32, float64) objects.CommandStatus {
	return objects.StatusNotSupported
}
func (NopControlHandler) OperateAnalogOutput(uint32, float64) objects.CommandStatus {
	return objects.StatusNotSupported
}

// DefaultApplication answers restart queries with no delay and accepts any
// time write without side effects.
type DefaultApplication struct{}

func (DefaultApplication) ColdRestart() time.Duration  { return 0 }
func (DefaultApplication) WarmRestart() time.Duration  { return 0 }
func (DefaultApplication) WriteTime(time.Time) error    { return nil }
