package objects

import "testing"

func TestDNP3TimeSaturatesOnOverflow(t *testing.T) {
	var d DNP3Time
	for i := range d {
		d[i] = 0xFF
	}
	if d.Millis() != MaxMillis {
		t.Fatalf("Millis() = %d, want %d", d.Millis(), MaxMillis)
	}

	next := d.AddMillis(1000)
	if next.Millis() != MaxMillis {
		t.Fatalf("AddMillis past max should saturate, got %d", next.Millis())
	}
}

func TestDNP3TimeAddMillisSaturatesAtZero(t *testing.T) {
	var d DNP3Time
	prev := d.AddMillis(-1000)
	if prev.Millis() != 0 {
		t.Fatalf("AddMillis below zero should saturate at 0, got %d", prev.Millis())
	}
}
