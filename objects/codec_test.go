package objects

import "testing"

func TestDefaultStaticVariationPromotesOnNonOnlineFlags(t *testing.T) {
	online := NewBinary(true, Online, DNP3Time{})
	if gv := DefaultStaticVariation(online); gv != BinaryInputPacked {
		t.Errorf("DefaultStaticVariation(Online) = %s, want %s", gv, BinaryInputPacked)
	}

	restarted := NewBinary(true, Online|Restart, DNP3Time{})
	if gv := DefaultStaticVariation(restarted); gv != BinaryInputFlags {
		t.Errorf("DefaultStaticVariation(Online|Restart) = %s, want %s", gv, BinaryInputFlags)
	}
}

func TestEncodeMeasurementSaturatesAnalogVar16(t *testing.T) {
	c := NewCursor(nil)
	m := NewAnalog(100000, GoodFlags, DNP3Time{})
	if err := EncodeMeasurement(c, AnalogInputVar16, m); err != nil {
		t.Fatalf("EncodeMeasurement: %v", err)
	}
	dec := NewCursor(c.Bytes())
	v, err := ReadFixed[int16](dec)
	if err != nil {
		t.Fatalf("ReadFixed: %v", err)
	}
	if v != 32767 {
		t.Errorf("saturated value = %d, want 32767", v)
	}
	flagByte, _ := dec.ReadByte()
	if Flags(flagByte)&AnalogOverRange == 0 {
		t.Error("expected AnalogOverRange flag to be set on saturation")
	}
}

func TestReadRangedBinaryFlagsRoundTrip(t *testing.T) {
	c := NewCursor(nil)
	m1 := NewBinary(true, Online, DNP3Time{})
	m2 := NewBinary(false, Online|Restart, DNP3Time{})
	if err := EncodeMeasurement(c, BinaryInputFlags, m1); err != nil {
		t.Fatal(err)
	}
	if err := EncodeMeasurement(c, BinaryInputFlags, m2); err != nil {
		t.Fatal(err)
	}

	values, err := ReadRanged(BinaryInputFlags, 5, c.Bytes(), 2)
	if err != nil {
		t.Fatalf("ReadRanged: %v", err)
	}
	if len(values) != 2 || values[0].Index != 5 || values[1].Index != 6 {
		t.Fatalf("unexpected indices: %+v", values)
	}
	if !values[0].Value.Bool || values[1].Value.Bool {
		t.Fatalf("unexpected decoded values: %+v", values)
	}
}
