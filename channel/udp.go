package channel

import (
	"context"
	"net"
)

// UDPDialer opens a connected UDP socket used for sending unsolicited
// responses or datagram-mode link frames, per spec.md §6's UDP datagram
// send path.
type UDPDialer struct {
	Address string
}

func (d UDPDialer) Dial(ctx context.Context) (PhysicalLayer, error) {
	raddr, err := net.ResolveUDPAddr("udp", d.Address)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
