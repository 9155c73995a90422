package app

import (
	"fmt"

	"github.com/go-dnp3/dnp3/objects"
)

// ResponseValidationError reports a structurally invalid response
// fragment.
type ResponseValidationError struct {
	Reason string
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("dnp3: invalid response: %s", e.Reason)
}

// ParseResponse decodes a complete application fragment (after transport
// reassembly) carrying IIN bits into its header and object headers.
func ParseResponse(fragment []byte) (Response, error) {
	if len(fragment) < 4 {
		return Response{}, &ResponseValidationError{Reason: "fragment shorter than application+IIN header"}
	}
	control := ApplicationControl(fragment[0])
	function := FunctionCode(fragment[1])
	iin := IIN(uint16(fragment[2]) | uint16(fragment[3])<<8)

	c := objects.NewCursor(fragment[4:])
	var headers []objects.ObjectHeader
	for c.Remaining() > 0 {
		h, err := objects.DecodeHeader(c)
		if err != nil {
			return Response{}, &ResponseValidationError{Reason: err.Error()}
		}
		n, err := payloadLen(h.GroupVariation, h.Range)
		if err != nil {
			return Response{}, &ResponseValidationError{Reason: err.Error()}
		}
		if n > 0 {
			payload, err := c.ReadBytes(n)
			if err != nil {
				return Response{}, &ResponseValidationError{Reason: "object payload truncated"}
			}
			h.Payload = payload
		}
		headers = append(headers, h)
	}

	return Response{
		Control:  control,
		Function: function,
		IIN:      iin,
		Objects:  objects.NewHeaderCollection(headers),
	}, nil
}

// MatchesRequest reports whether a response's sequence number and
// direction agree with the request that solicited it, the DNP3 analogue of
// part5.go's ConOf cause-matching check.
func MatchesRequest(req Request, resp Response) error {
	if resp.Function != FuncResponse && resp.Function != FuncUnsolicitedResponse {
		return &ResponseValidationError{Reason: fmt.Sprintf("unexpected function %s", resp.Function)}
	}
	if resp.Function == FuncResponse && resp.Control.Seq() != req.Control.Seq() {
		return &ResponseValidationError{Reason: fmt.Sprintf("sequence mismatch: request %d response %d", req.Control.Seq(), resp.Control.Seq())}
	}
	return nil
}
