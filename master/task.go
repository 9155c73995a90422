package master

import (
	"context"
	"time"

	"github.com/go-dnp3/dnp3/app"
	"github.com/go-dnp3/dnp3/objects"
)

// Task is one unit of master-initiated work against an association:
// building a request fragment, and interpreting the response (or lack of
// one). Grounded on exchange.go's Exchange/Command builder-method style,
// generalized into an interface so the association's run loop can treat
// every task type uniformly.
type Task interface {
	// Name identifies the task for logging and TaskError messages.
	Name() string
	// BuildRequest returns the application fragment to send, using seq
	// as the application sequence number.
	BuildRequest(seq uint8) []byte
	// OnResponse is called once per response fragment received while
	// this task is outstanding. done reports whether the task is now
	// complete (no more responses expected).
	OnResponse(resp app.Response, handler ReadHandler) (done bool, err error)
	// OnTaskError is called if the task fails outright (timeout,
	// malformed response, shutdown).
	OnTaskError(err *TaskError)
}

// IntegrityPollTask requests Class 0/1/2/3 static and buffered event data,
// the task a master runs at startup and on reconnect.
type IntegrityPollTask struct {
	Handler ReadHandler
}

func (t *IntegrityPollTask) Name() string { return "IntegrityPoll" }

func (t *IntegrityPollTask) BuildRequest(seq uint8) []byte {
	return app.EncodeIntegrityPoll(seq)
}

func (t *IntegrityPollTask) OnResponse(resp app.Response, handler ReadHandler) (bool, error) {
	if err := Dispatch(resp, handler); err != nil {
		return true, err
	}
	return resp.Control.FIN(), nil
}

func (t *IntegrityPollTask) OnTaskError(err *TaskError) {}

// EventPollTask requests only buffered event data for the given classes,
// used on the periodic unsolicited/poll cycle after integrity has been
// established once.
type EventPollTask struct {
	Classes []uint8 // 1, 2, 3
	Handler ReadHandler
}

func (t *EventPollTask) Name() string { return "EventPoll" }

func (t *EventPollTask) BuildRequest(seq uint8) []byte {
	c := objects.NewCursor(nil)
	c.WriteBytes([]byte{
		byte(app.NewApplicationControl(true, true, false, false, seq)),
		byte(app.FuncRead),
	})
	classGV := map[uint8]objects.GroupVariation{
		1: objects.ClassData1,
		2: objects.ClassData2,
		3: objects.ClassData3,
	}
	for _, class := range t.Classes {
		if gv, ok := classGV[class]; ok {
			objects.EncodeHeader(c, gv, objects.Qual8BitAllObjects, 0, 0)
		}
	}
	return c.Bytes()
}

func (t *EventPollTask) OnResponse(resp app.Response, handler ReadHandler) (bool, error) {
	if err := Dispatch(resp, handler); err != nil {
		return true, err
	}
	return resp.Control.FIN(), nil
}

func (t *EventPollTask) OnTaskError(err *TaskError) {}

// CommandTask sends one pre-built control request fragment (select,
// operate or direct-operate) and completes on the first response, the
// master analogue of exchange.go's Command builder. It sends no OPERATE of
// its own after a SELECT; a select-before-operate sequence takes two
// CommandTasks.
type CommandTask struct {
	Request []byte // pre-built request fragment (select, operate or direct-operate)
	Confirm bool   // not consulted by the task; the request is sent as built
	onDone  func(status byte)
}

func (t *CommandTask) Name() string { return "Command" }

func (t *CommandTask) BuildRequest(seq uint8) []byte {
	if len(t.Request) == 0 {
		return t.Request
	}
	req := append([]byte(nil), t.Request...)
	req[0] = req[0]&^0x0F | seq&0x0F
	return req
}

func (t *CommandTask) OnResponse(resp app.Response, handler ReadHandler) (bool, error) {
	if t.onDone != nil && len(resp.Objects.Headers()) > 0 {
		h := resp.Objects.Headers()[0]
		if len(h.Payload) > 0 {
			t.onDone(h.Payload[len(h.Payload)-1])
		}
	}
	return true, nil
}

func (t *CommandTask) OnTaskError(err *TaskError) {}

// TimeSyncTask sends one DELAY_MEASURE request and completes on its
// response. It neither computes a propagation delay nor writes the time to
// the outstation, and Now is not consulted.
type TimeSyncTask struct {
	Now func() time.Time
}

func (t *TimeSyncTask) Name() string { return "TimeSync" }

func (t *TimeSyncTask) BuildRequest(seq uint8) []byte {
	return []byte{
		byte(app.NewApplicationControl(true, true, false, false, seq)),
		byte(app.FuncDelayMeasure),
	}
}

func (t *TimeSyncTask) OnResponse(resp app.Response, handler ReadHandler) (bool, error) {
	return true, nil
}

func (t *TimeSyncTask) OnTaskError(err *TaskError) {}

// RunTask drives one task to completion against a synchronous
// request/response exchanger, applying the given timeout per response.
func RunTask(ctx context.Context, t Task, seq uint8, exchange func(ctx context.Context, req []byte) (app.Response, error), handler ReadHandler, timeout time.Duration) error {
	for {
		req := t.BuildRequest(seq)
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := exchange(reqCtx, req)
		cancel()
		if err != nil {
			taskErr := &TaskError{Kind: TaskErrorTimeout, Message: err.Error()}
			t.OnTaskError(taskErr)
			return taskErr
		}
		done, err := t.OnResponse(resp, handler)
		if err != nil {
			taskErr := &TaskError{Kind: TaskErrorResponseMismatch, Message: err.Error()}
			t.OnTaskError(taskErr)
			return taskErr
		}
		if done {
			return nil
		}
		seq = (seq + 1) & 0x0F
	}
}
