package outstation

import (
	"testing"

	"github.com/go-dnp3/dnp3/app"
	"github.com/go-dnp3/dnp3/objects"
	"github.com/go-dnp3/dnp3/outstation/database"
)

func TestHandleReadNoEventsReturnsConfirmFalse(t *testing.T) {
	db := database.New(database.Config{})
	o := New(db, nil, nil, Config{})

	req := app.EncodeIntegrityPoll(0)
	resp := o.HandleFragment(req, false)
	if resp == nil {
		t.Fatal("expected a response fragment")
	}
	control := app.ApplicationControl(resp[0])
	if control.CON() {
		t.Error("CON should be clear when there are no pending events")
	}
	if app.FunctionCode(resp[1]) != app.FuncResponse {
		t.Errorf("function = %#x, want response", resp[1])
	}
}

func TestHandleReadWithEventsSetsConfirmWait(t *testing.T) {
	db := database.New(database.Config{})
	db.Configure(objects.PointBinary, 0, database.PointConfig{Class: database.Class1})
	db.Update(0, objects.NewBinary(false, objects.GoodFlags, objects.DNP3Time{}))
	db.Update(0, objects.NewBinary(true, objects.GoodFlags, objects.DNP3Time{}))

	o := New(db, nil, nil, Config{})
	req := app.EncodeIntegrityPoll(0)
	resp := o.HandleFragment(req, false)
	if resp == nil {
		t.Fatal("expected a response fragment")
	}
	control := app.ApplicationControl(resp[0])
	if !control.CON() {
		t.Fatal("CON should be set when events are pending")
	}
	if o.state != StateSolicitedConfirmWait {
		t.Fatalf("state = %v, want StateSolicitedConfirmWait", o.state)
	}

	confirm := []byte{
		byte(app.NewApplicationControl(true, true, false, false, 0)),
		byte(app.FuncConfirm),
	}
	if resp := o.HandleFragment(confirm, false); resp != nil {
		t.Fatalf("confirm should not produce a response, got %v", resp)
	}
	if o.state != StateIdle {
		t.Fatalf("state after confirm = %v, want StateIdle", o.state)
	}
	if db.Events().Len() != 0 {
		t.Fatalf("events should be cleared after confirm, have %d", db.Events().Len())
	}
}

// recordingControlHandler captures the last CROB operated through it and
// reports a fixed status, standing in for a real relay driver.
type recordingControlHandler struct {
	NopControlHandler
	lastIndex uint32
	lastCmd   objects.Group12Var1
	operated  bool
}

func (h *recordingControlHandler) OperateCROB(index uint32, cmd objects.Group12Var1) objects.CommandStatus {
	h.lastIndex, h.lastCmd, h.operated = index, cmd, true
	return objects.StatusSuccess
}

func encodeDirectOperateCROB(seq uint8, index uint16, code objects.ControlCode) []byte {
	c := objects.NewCursor(nil)
	c.WriteBytes([]byte{byte(app.NewApplicationControl(true, true, false, false, seq)), byte(app.FuncDirectOperate)})
	objects.EncodeHeader(c, objects.CROB, objects.Qual8BitStartStop, index, index)
	c.WriteByte(byte(code))
	c.WriteByte(1) // count
	objects.WriteFixed(c, uint32(1000))
	objects.WriteFixed(c, uint32(1000))
	c.WriteByte(byte(objects.StatusSuccess))
	return c.Bytes()
}

func TestDirectOperateInvokesControlHandler(t *testing.T) {
	db := database.New(database.Config{})
	handler := &recordingControlHandler{}
	o := New(db, handler, nil, Config{})

	req := encodeDirectOperateCROB(0, 5, objects.OpTypeLatchOn)
	resp := o.HandleFragment(req, false)
	if resp == nil {
		t.Fatal("expected a response fragment")
	}
	if !handler.operated {
		t.Fatal("ControlHandler.OperateCROB was never called")
	}
	if handler.lastIndex != 5 {
		t.Fatalf("operated index = %d, want 5", handler.lastIndex)
	}
	if handler.lastCmd.Code.OpType() != objects.OpTypeLatchOn {
		t.Fatalf("operated op type = %#x, want LatchOn", handler.lastCmd.Code.OpType())
	}

	cmds, err := objects.DecodeCROBs(decodeEchoedCROBHeader(t, resp))
	if err != nil {
		t.Fatalf("decoding echoed CROB: %v", err)
	}
	if len(cmds) != 1 || cmds[0].Command.Status != objects.StatusSuccess {
		t.Fatalf("echoed status = %+v, want StatusSuccess", cmds)
	}
}

func decodeEchoedCROBHeader(t *testing.T, resp []byte) objects.ObjectHeader {
	t.Helper()
	c := objects.NewCursor(resp[4:])
	h, err := objects.DecodeHeader(c)
	if err != nil {
		t.Fatalf("decoding response header: %v", err)
	}
	h.Payload, err = c.ReadBytes(11)
	if err != nil {
		t.Fatalf("reading CROB payload: %v", err)
	}
	return h
}

func TestOperateWithoutPriorSelectIsRejected(t *testing.T) {
	db := database.New(database.Config{})
	handler := &recordingControlHandler{}
	o := New(db, handler, nil, Config{})

	c := objects.NewCursor(nil)
	c.WriteBytes([]byte{byte(app.NewApplicationControl(true, true, false, false, 0)), byte(app.FuncOperate)})
	objects.EncodeHeader(c, objects.CROB, objects.Qual8BitStartStop, 1, 1)
	c.WriteByte(byte(objects.OpTypeLatchOn))
	c.WriteByte(1)
	objects.WriteFixed(c, uint32(0))
	objects.WriteFixed(c, uint32(0))
	c.WriteByte(byte(objects.StatusSuccess))

	resp := o.HandleFragment(c.Bytes(), false)
	if resp == nil {
		t.Fatal("expected a response fragment")
	}
	if handler.operated {
		t.Fatal("OperateCROB must not run without a matching prior SELECT")
	}
	h := decodeEchoedCROBHeader(t, resp)
	cmds, err := objects.DecodeCROBs(h)
	if err != nil {
		t.Fatalf("decoding echoed CROB: %v", err)
	}
	if len(cmds) != 1 || cmds[0].Command.Status != objects.StatusNoSelect {
		t.Fatalf("echoed status = %+v, want StatusNoSelect", cmds)
	}
}
