package app

import (
	"fmt"

	"github.com/go-dnp3/dnp3/objects"
)

// RequestValidationError reports a structurally invalid request fragment,
// in the style of the teacher's field-tagged decode errors.
type RequestValidationError struct {
	Reason string
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("dnp3: invalid request: %s", e.Reason)
}

// ParseRequest decodes a complete application fragment (after transport
// reassembly) into its header and object headers. Object payload bytes are
// attached to each ObjectHeader but not further interpreted here; typed
// decode of request payloads (controls, file commands) is done by the
// master/outstation layers that know which function code they are
// handling.
func ParseRequest(fragment []byte) (Request, error) {
	if len(fragment) < 2 {
		return Request{}, &RequestValidationError{Reason: "fragment shorter than application header"}
	}
	control := ApplicationControl(fragment[0])
	function := FunctionCode(fragment[1])

	c := objects.NewCursor(fragment[2:])
	var headers []objects.ObjectHeader
	for c.Remaining() > 0 {
		h, err := objects.DecodeHeader(c)
		if err != nil {
			return Request{}, &RequestValidationError{Reason: err.Error()}
		}
		n, err := payloadLen(h.GroupVariation, h.Range)
		if err != nil {
			return Request{}, &RequestValidationError{Reason: err.Error()}
		}
		if n > 0 {
			payload, err := c.ReadBytes(n)
			if err != nil {
				return Request{}, &RequestValidationError{Reason: "object payload truncated"}
			}
			h.Payload = payload
		}
		headers = append(headers, h)
	}

	return Request{
		Control:  control,
		Function: function,
		Objects:  objects.NewHeaderCollection(headers),
	}, nil
}

// EncodeIntegrityPoll builds an integrity-poll request fragment: a READ
// function reading Class 1, 2, 3 and 0 data in that order, matching the
// wire layout in spec.md's scenario S5.
func EncodeIntegrityPoll(seq uint8) []byte {
	c := objects.NewCursor(nil)
	buf := []byte{byte(NewApplicationControl(true, true, false, false, seq)), byte(FuncRead)}
	c.WriteBytes(buf)

	classes := []objects.GroupVariation{objects.ClassData1, objects.ClassData2, objects.ClassData3, objects.ClassData0}
	for _, gv := range classes {
		objects.EncodeHeader(c, gv, objects.Qual8BitAllObjects, 0, 0)
	}
	return c.Bytes()
}
