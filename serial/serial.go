// Package serial adapts github.com/daedaluz/goserial's Port into the
// channel.PhysicalLayer/Dialer interfaces, for DNP3 deployments running
// over an RS-232/RS-485 link instead of TCP.
package serial

import (
	"context"
	"time"

	goserial "github.com/daedaluz/goserial"

	"github.com/go-dnp3/dnp3/channel"
)

// Dialer opens a serial port as a channel.PhysicalLayer.
type Dialer struct {
	Device      string
	ReadTimeout time.Duration
}

func (d Dialer) Dial(ctx context.Context) (channel.PhysicalLayer, error) {
	opts := goserial.NewOptions()
	if d.ReadTimeout > 0 {
		opts.SetReadTimeout(d.ReadTimeout)
	}
	port, err := goserial.Open(d.Device, opts)
	if err != nil {
		return nil, err
	}
	return port, nil
}

var _ channel.Dialer = Dialer{}
