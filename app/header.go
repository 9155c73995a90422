// Package app implements the DNP3 application layer: the application
// control/function/IIN header and fragment-level request and response
// parsing into a HeaderCollection of object headers, grounded on the
// borrowed-iterator decode style of info.DataUnit.Adopt and the
// cause-matching helper in part5.go's ConOf.
package app

import (
	"fmt"

	"github.com/go-dnp3/dnp3/objects"
)

// FunctionCode identifies the application-layer operation of a fragment.
type FunctionCode uint8

const (
	FuncConfirm        FunctionCode = 0x00
	FuncRead           FunctionCode = 0x01
	FuncWrite          FunctionCode = 0x02
	FuncSelect         FunctionCode = 0x03
	FuncOperate        FunctionCode = 0x04
	FuncDirectOperate  FunctionCode = 0x05
	FuncDirectOperateNoResponse FunctionCode = 0x06
	FuncFreezeClear    FunctionCode = 0x09
	FuncColdRestart    FunctionCode = 0x0D
	FuncWarmRestart    FunctionCode = 0x0E
	FuncDisableUnsolicited FunctionCode = 0x15
	FuncEnableUnsolicited  FunctionCode = 0x14
	FuncAssignClass    FunctionCode = 0x16
	FuncDelayMeasure   FunctionCode = 0x17
	FuncOpenFile       FunctionCode = 0x19
	FuncCloseFile      FunctionCode = 0x1A
	FuncAuthenticateFile FunctionCode = 0x21

	FuncResponse       FunctionCode = 0x81
	FuncUnsolicitedResponse FunctionCode = 0x82
	FuncAuthResponse   FunctionCode = 0x83
)

func (f FunctionCode) String() string {
	return fmt.Sprintf("function(%#02x)", uint8(f))
}

// ApplicationControl is the one-byte application header: FIR/FIN/CON/UNS
// plus a 4-bit sequence number.
type ApplicationControl uint8

const (
	appFirBit = 0x80
	appFinBit = 0x40
	appConBit = 0x20
	appUnsBit = 0x10
	appSeqMask = 0x0F
)

func NewApplicationControl(fir, fin, con, uns bool, seq uint8) ApplicationControl {
	var c uint8
	if fir {
		c |= appFirBit
	}
	if fin {
		c |= appFinBit
	}
	if con {
		c |= appConBit
	}
	if uns {
		c |= appUnsBit
	}
	c |= seq & appSeqMask
	return ApplicationControl(c)
}

func (c ApplicationControl) FIR() bool  { return uint8(c)&appFirBit != 0 }
func (c ApplicationControl) FIN() bool  { return uint8(c)&appFinBit != 0 }
func (c ApplicationControl) CON() bool  { return uint8(c)&appConBit != 0 }
func (c ApplicationControl) UNS() bool  { return uint8(c)&appUnsBit != 0 }
func (c ApplicationControl) Seq() uint8 { return uint8(c) & appSeqMask }

// IIN is the two-byte Internal Indications bitmap carried by every
// response.
type IIN uint16

const (
	IINBroadcast       IIN = 0x0001
	IINClass1Events     IIN = 0x0002
	IINClass2Events     IIN = 0x0004
	IINClass3Events     IIN = 0x0008
	IINNeedTime         IIN = 0x0010
	IINLocalControl     IIN = 0x0020
	IINDeviceTrouble    IIN = 0x0040
	IINDeviceRestart    IIN = 0x0080
	IINFuncNotSupported IIN = 0x0100
	IINObjectUnknown    IIN = 0x0200
	IINParameterError   IIN = 0x0400
	IINEventBufferOverflow IIN = 0x0800
	IINAlreadyExecuting IIN = 0x1000
	IINConfigCorrupt    IIN = 0x2000
)

func (i IIN) Has(bit IIN) bool { return i&bit == bit }

// Request is a parsed request fragment.
type Request struct {
	Control  ApplicationControl
	Function FunctionCode
	Objects  objects.HeaderCollection
}

// Response is a parsed response fragment.
type Response struct {
	Control  ApplicationControl
	Function FunctionCode
	IIN      IIN
	Objects  objects.HeaderCollection
}
