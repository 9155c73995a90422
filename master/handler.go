// Package master implements the DNP3 master state machine: task
// scheduling against one association, measurement dispatch to a
// ReadHandler, and the named task types a master runs (integrity poll,
// event poll, command, time sync, file transfer).
//
// The ReadHandler split into per-type callback methods, and the default
// logging implementation, are grounded on monitor.go's Monitor interface
// tree (SinglePtMonitor, DoublePtMonitor, ...) and its NewLogger.
package master

import (
	"fmt"

	"github.com/go-dnp3/dnp3/logging"
	"github.com/go-dnp3/dnp3/objects"
)

// HeaderInfo carries the object-header context (group, variation, index)
// a measurement arrived under, passed alongside each callback so a handler
// can tell events from static values without re-deriving it.
type HeaderInfo struct {
	GroupVariation objects.GroupVariation
	Index          uint32
}

// ReadHandler receives measurements parsed out of a response, one method
// per point type, mirroring monitor.go's per-group Monitor subinterfaces
// rather than one catch-all callback.
type ReadHandler interface {
	BeginFragment()
	Binary(info HeaderInfo, value bool, flags objects.Flags, t objects.DNP3Time)
	DoubleBitBinary(info HeaderInfo, value objects.DoubleBit, flags objects.Flags, t objects.DNP3Time)
	Counter(info HeaderInfo, value uint32, flags objects.Flags, t objects.DNP3Time)
	Analog(info HeaderInfo, value float64, flags objects.Flags, t objects.DNP3Time)
	EndFragment()
}

// LoggingReadHandler is the default ReadHandler, printing every
// measurement through a Logger instead of dispatching it anywhere, the
// master-layer analogue of monitor.go's NewLogger.
type LoggingReadHandler struct {
	Log logging.Logger
}

func NewLoggingReadHandler(log logging.Logger) *LoggingReadHandler {
	if log == nil {
		log = logging.Discard
	}
	return &LoggingReadHandler{Log: log}
}

func (h *LoggingReadHandler) BeginFragment() { h.Log.Debugf("begin fragment") }
func (h *LoggingReadHandler) EndFragment()   { h.Log.Debugf("end fragment") }

func (h *LoggingReadHandler) Binary(info HeaderInfo, value bool, flags objects.Flags, t objects.DNP3Time) {
	h.Log.Debugf("binary[%d] = %v flags=%#02x time=%s", info.Index, value, uint8(flags), t.Time())
}

func (h *LoggingReadHandler) DoubleBitBinary(info HeaderInfo, value objects.DoubleBit, flags objects.Flags, t objects.DNP3Time) {
	h.Log.Debugf("double-bit[%d] = %v flags=%#02x time=%s", info.Index, value, uint8(flags), t.Time())
}

func (h *LoggingReadHandler) Counter(info HeaderInfo, value uint32, flags objects.Flags, t objects.DNP3Time) {
	h.Log.Debugf("counter[%d] = %d flags=%#02x time=%s", info.Index, value, uint8(flags), t.Time())
}

func (h *LoggingReadHandler) Analog(info HeaderInfo, value float64, flags objects.Flags, t objects.DNP3Time) {
	h.Log.Debugf("analog[%d] = %v flags=%#02x time=%s", info.Index, value, uint8(flags), t.Time())
}

// TaskError is the structured error taxonomy returned from task execution.
type TaskError struct {
	Kind    TaskErrorKind
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("dnp3: task error (%s): %s", e.Kind, e.Message)
}

type TaskErrorKind uint8

const (
	TaskErrorTimeout TaskErrorKind = iota
	TaskErrorResponseMismatch
	TaskErrorIINError
	TaskErrorShutdown
	TaskErrorTransport
)

func (k TaskErrorKind) String() string {
	switch k {
	case TaskErrorTimeout:
		return "Timeout"
	case TaskErrorResponseMismatch:
		return "ResponseMismatch"
	case TaskErrorIINError:
		return "IINError"
	case TaskErrorShutdown:
		return "Shutdown"
	case TaskErrorTransport:
		return "Transport"
	default:
		return "Unknown"
	}
}
