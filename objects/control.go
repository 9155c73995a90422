package objects

import "fmt"

// ControlCode is the Group 12 Variation 1 (CROB) control-code byte, packing
// a trip-close code (bits 6-7), the clear and queue bits (bits 5 and 4),
// and an operation type (bits 0-3). Bit layout follows
// the original implementation's app/control_types.rs, in the style of the
// teacher's info.Cmd bitfield accessor/setter pattern.
type ControlCode uint8

const (
	OpTypeNul           = 0x00
	OpTypePulseOn       = 0x01
	OpTypePulseOff      = 0x02
	OpTypeLatchOn       = 0x03
	OpTypeLatchOff      = 0x04
	opTypeMask          = 0x0f
	trippClose          = 0x30 // bits 4-5 (clear/queue); the trip-close code is Trip(0x80)/Close(0x40) below
	tcCloseBit          = 0x40
	tcTripBit           = 0x80
	clearBit            = 0x20
	queueBit            = 0x10
)

// OpType returns the operation-type nibble (bits 0-3).
func (c ControlCode) OpType() uint8 { return uint8(c) & opTypeMask }

// SetOpType sets the operation-type nibble, leaving other bits untouched.
func (c *ControlCode) SetOpType(op uint8) {
	*c = ControlCode(uint8(*c)&^opTypeMask | op&opTypeMask)
}

// Queue reports the QU bit: whether the operation should be queued.
func (c ControlCode) Queue() bool { return uint8(c)&queueBit != 0 }

// Clear reports the CR bit: whether the operation clears a queue.
func (c ControlCode) Clear() bool { return uint8(c)&clearBit != 0 }

// Trip reports the trip-close-code TRIP bit (Group 12 breaker control).
func (c ControlCode) Trip() bool { return uint8(c)&tcTripBit != 0 }

// Close reports the trip-close-code CLOSE bit.
func (c ControlCode) Close() bool { return uint8(c)&tcCloseBit != 0 }

func (c ControlCode) String() string {
	return fmt.Sprintf("op=%#x queue=%v clear=%v trip=%v close=%v",
		c.OpType(), c.Queue(), c.Clear(), c.Trip(), c.Close())
}

// Group12Var1 is the Control Relay Output Block (CROB) object.
type Group12Var1 struct {
	Code       ControlCode
	Count      uint8
	OnTimeMS   uint32
	OffTimeMS  uint32
	Status     CommandStatus
}

// CommandStatus is the result code carried in command responses. Values
// pinned from the original implementation's app/control_types.rs.
type CommandStatus uint8

const (
	StatusSuccess            CommandStatus = 0
	StatusTimeout            CommandStatus = 1
	StatusNoSelect           CommandStatus = 2
	StatusFormatError        CommandStatus = 3
	StatusNotSupported       CommandStatus = 4
	StatusAlreadyActive      CommandStatus = 5
	StatusHardwareError      CommandStatus = 6
	StatusLocal              CommandStatus = 7
	StatusTooManyOps         CommandStatus = 8
	StatusNotAuthorized      CommandStatus = 9
	StatusAutomationInhibit  CommandStatus = 10
	StatusProcessingLimited  CommandStatus = 11
	StatusOutOfRange         CommandStatus = 12
	StatusDownstreamLocal    CommandStatus = 13
	StatusAlreadyComplete    CommandStatus = 14
	StatusBlocked            CommandStatus = 15
	StatusCanceled           CommandStatus = 16
	StatusBlockedOtherMaster CommandStatus = 17
	StatusDownstreamFail     CommandStatus = 18
	StatusNonParticipating   CommandStatus = 19
	StatusUnknown            CommandStatus = 0xFF
)

var commandStatusNames = map[CommandStatus]string{
	StatusSuccess: "Success", StatusTimeout: "Timeout", StatusNoSelect: "NoSelect",
	StatusFormatError: "FormatError", StatusNotSupported: "NotSupported",
	StatusAlreadyActive: "AlreadyActive", StatusHardwareError: "HardwareError",
	StatusLocal: "Local", StatusTooManyOps: "TooManyOps", StatusNotAuthorized: "NotAuthorized",
	StatusAutomationInhibit: "AutomationInhibit", StatusProcessingLimited: "ProcessingLimited",
	StatusOutOfRange: "OutOfRange", StatusDownstreamLocal: "DownstreamLocal",
	StatusAlreadyComplete: "AlreadyComplete", StatusBlocked: "Blocked",
	StatusCanceled: "Canceled", StatusBlockedOtherMaster: "BlockedOtherMaster",
	StatusDownstreamFail: "DownstreamFail", StatusNonParticipating: "NonParticipating",
}

func (s CommandStatus) String() string {
	if name, ok := commandStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IndexedCROB pairs a decoded Group12Var1 control object with the point
// index it targets.
type IndexedCROB struct {
	Index   uint32
	Command Group12Var1
}

// DecodeCROBs decodes every Group12Var1 object addressed by header h,
// using h.Qualifier/h.Range to determine per-object indices: a start/stop
// range contributes consecutive indices, an index-prefixed range carries
// an explicit index ahead of each object.
func DecodeCROBs(h ObjectHeader) ([]IndexedCROB, error) {
	n := h.Range.N()
	prefixWidth := indexPrefixWidth(h.Qualifier)
	c := NewCursor(h.Payload)
	out := make([]IndexedCROB, 0, n)
	for i := 0; i < n; i++ {
		index := uint32(h.Range.Start) + uint32(i)
		if prefixWidth > 0 {
			idx, err := readIndexPrefix(c, prefixWidth)
			if err != nil {
				return nil, err
			}
			index = idx
		}
		code, err := c.ReadByte()
		if err != nil {
			return nil, &ObjectParseError{Where: "g12v1.code", Offset: c.Pos(), Err: err}
		}
		count, err := c.ReadByte()
		if err != nil {
			return nil, &ObjectParseError{Where: "g12v1.count", Offset: c.Pos(), Err: err}
		}
		onTime, err := ReadFixed[uint32](c)
		if err != nil {
			return nil, &ObjectParseError{Where: "g12v1.on_time", Offset: c.Pos(), Err: err}
		}
		offTime, err := ReadFixed[uint32](c)
		if err != nil {
			return nil, &ObjectParseError{Where: "g12v1.off_time", Offset: c.Pos(), Err: err}
		}
		status, err := c.ReadByte()
		if err != nil {
			return nil, &ObjectParseError{Where: "g12v1.status", Offset: c.Pos(), Err: err}
		}
		out = append(out, IndexedCROB{
			Index: index,
			Command: Group12Var1{
				Code:      ControlCode(code),
				Count:     count,
				OnTimeMS:  onTime,
				OffTimeMS: offTime,
				Status:    CommandStatus(status),
			},
		})
	}
	return out, nil
}

// EncodeCROBEcho appends a response header and one Group12Var1 object per
// command, echoing each command's fields back with its determined status.
// It reuses the original request header's qualifier and range/count so the
// response shape matches the request, as select/operate requires.
func EncodeCROBEcho(c *Cursor, h ObjectHeader, cmds []IndexedCROB, statuses []CommandStatus) error {
	start, stop := h.Range.Start, h.Range.Stop
	if h.Qualifier != Qual8BitStartStop && h.Qualifier != Qual16BitStartStop {
		start = h.Range.Count
	}
	if err := EncodeHeader(c, CROB, h.Qualifier, start, stop); err != nil {
		return err
	}
	prefixWidth := indexPrefixWidth(h.Qualifier)
	for i, cmd := range cmds {
		if prefixWidth == 1 {
			c.WriteByte(byte(cmd.Index))
		} else if prefixWidth == 2 {
			WriteFixed(c, uint16(cmd.Index))
		}
		c.WriteByte(byte(cmd.Command.Code))
		c.WriteByte(cmd.Command.Count)
		WriteFixed(c, cmd.Command.OnTimeMS)
		WriteFixed(c, cmd.Command.OffTimeMS)
		c.WriteByte(byte(statuses[i]))
	}
	return nil
}

func indexPrefixWidth(q QualifierCode) int {
	switch q {
	case Qual8BitIndexPrefix:
		return 1
	case Qual16BitIndexPrefix:
		return 2
	default:
		return 0
	}
}

func readIndexPrefix(c *Cursor, width int) (uint32, error) {
	switch width {
	case 1:
		b, err := c.ReadByte()
		return uint32(b), err
	case 2:
		v, err := ReadFixed[uint16](c)
		return uint32(v), err
	default:
		return 0, fmt.Errorf("dnp3: unsupported index prefix width %d", width)
	}
}

// Group41 analog output control object variants, selected by value width.
type AnalogOutputFloat32Cmd struct {
	Value  float32
	Status CommandStatus
}

type AnalogOutputFloat64Cmd struct {
	Value  float64
	Status CommandStatus
}

type AnalogOutputInt32Cmd struct {
	Value  int32
	Status CommandStatus
}

type AnalogOutputInt16Cmd struct {
	Value  int16
	Status CommandStatus
}
