package objects

import "testing"

func TestControlCodeRoundTrip(t *testing.T) {
	c := ControlCode(0b1011_0100)
	if !c.Trip() {
		t.Error("expected Trip bit set")
	}
	if c.Close() {
		t.Error("expected Close bit clear")
	}
	if !c.Clear() {
		t.Error("expected Clear bit set")
	}
	if !c.Queue() {
		t.Error("expected Queue bit set")
	}
	if c.OpType() != OpTypeLatchOff {
		t.Errorf("OpType() = %#x, want %#x", c.OpType(), OpTypeLatchOff)
	}
}

func TestCommandStatusUnknownDecodesCleanly(t *testing.T) {
	var s CommandStatus = 200
	if s.String() != "Unknown" {
		t.Errorf("String() = %q, want Unknown", s.String())
	}
}
