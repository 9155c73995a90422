package app

import (
	"bytes"
	"testing"
)

func TestEncodeIntegrityPollVector(t *testing.T) {
	got := EncodeIntegrityPoll(0)
	want := []byte{
		0xC0, 0x01,
		0x3C, 0x02, 0x06,
		0x3C, 0x03, 0x06,
		0x3C, 0x04, 0x06,
		0x3C, 0x01, 0x06,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeIntegrityPoll(0) = % x, want % x", got, want)
	}
}
