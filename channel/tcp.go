package channel

import (
	"context"
	"net"
	"time"
)

// TCPDialer dials a DNP3-over-TCP outstation address. Grounded on
// session/tcp.go's use of net.Conn as its underlying transport.
type TCPDialer struct {
	Address        string
	ConnectTimeout time.Duration
}

// DNP3Port is the IANA-unregistered but conventional TCP/UDP port for
// DNP3, 20000.
const DNP3Port = 20000

func (d TCPDialer) Dial(ctx context.Context) (PhysicalLayer, error) {
	timeout := d.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
