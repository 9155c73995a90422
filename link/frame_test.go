package link

import (
	"bytes"
	"testing"
)

func TestCRC16HeaderVector(t *testing.T) {
	header := []byte{0x05, 0x64, 0x05, 0xC0, 0x01, 0x00, 0x00, 0x04}
	got := CRC16(header)
	want := uint16(0xE1) | uint16(0x1D)<<8
	if got != want {
		t.Fatalf("CRC16(%x) = %#04x, want %#04x", header, got, want)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{
		Control:     NewControl(true, true, false, false, FuncUnconfirmedUserData),
		Destination: 1,
		Source:      1024,
		UserData:    make([]byte, 40),
	}
	for i := range f.UserData {
		f.UserData[i] = byte(i)
	}

	var buf bytes.Buffer
	if _, err := f.Marshal(&buf); err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(&buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Destination != f.Destination || got.Source != f.Source {
		t.Fatalf("address mismatch: got %+v", got)
	}
	if len(got.UserData) != len(f.UserData) {
		t.Fatalf("user data length mismatch: got %d want %d", len(got.UserData), len(f.UserData))
	}
	for i := range f.UserData {
		if got.UserData[i] != f.UserData[i] {
			t.Fatalf("user data mismatch at %d: got %d want %d", i, got.UserData[i], f.UserData[i])
		}
	}
}
