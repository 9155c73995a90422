// Package channel implements the DNP3 channel runtime: reconnect/backoff
// management over a PhysicalLayer, frame I/O via package link, and segment
// reassembly via package transport, grounded on session/tcp.go's run()
// select loop and recvLoop/sendLoop goroutine split.
package channel

import (
	"context"
	"io"
)

// PhysicalLayer is the byte-stream transport a Channel runs link frames
// over: a TCP socket, a serial port, or (for outstation-originated
// unsolicited responses) a UDP association. Grounded on the shape
// session.TCP wraps around net.Conn.
type PhysicalLayer interface {
	io.ReadWriteCloser
}

// Dialer opens a new PhysicalLayer connection, called by the runtime on
// startup and after every disconnect.
type Dialer interface {
	Dial(ctx context.Context) (PhysicalLayer, error)
}

// DialerFunc adapts a plain function to the Dialer interface.
type DialerFunc func(ctx context.Context) (PhysicalLayer, error)

func (f DialerFunc) Dial(ctx context.Context) (PhysicalLayer, error) { return f(ctx) }
