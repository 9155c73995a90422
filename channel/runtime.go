package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-dnp3/dnp3/link"
	"github.com/go-dnp3/dnp3/logging"
	"github.com/go-dnp3/dnp3/transport"
)

// RetryConfig bounds the reconnect backoff schedule, in the teacher's
// config-with-check() style.
type RetryConfig struct {
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func (c *RetryConfig) check() *RetryConfig {
	if c.MinBackoff <= 0 {
		c.MinBackoff = time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = time.Minute
	}
	return c
}

// Runtime owns one physical connection's lifecycle: dialing, reconnecting
// with backoff on failure, and framing link frames on top of the live
// connection. Modeled directly on session/tcp.go's run() select loop and
// its recvLoop/sendLoop goroutine split, generalized from a fixed TCP
// dialer to any Dialer (TCP, TLS, UDP, serial).
type Runtime struct {
	dialer Dialer
	retry  RetryConfig
	log    logging.Logger

	localAddr  link.Address
	remoteAddr link.Address

	mu      sync.Mutex
	enabled bool
	conn    PhysicalLayer

	recvCh chan []byte
	sendCh chan sendRequest
	errCh  chan error
}

type sendRequest struct {
	data []byte
	done chan error
}

// New constructs a Runtime. The returned Runtime is disabled; call Enable
// to start connecting.
func New(dialer Dialer, local, remote link.Address, retry RetryConfig, log logging.Logger) *Runtime {
	if log == nil {
		log = logging.Discard
	}
	return &Runtime{
		dialer:     dialer,
		retry:      *retry.check(),
		log:        log,
		localAddr:  local,
		remoteAddr: remote,
		recvCh:     make(chan []byte, 16),
		sendCh:     make(chan sendRequest),
		errCh:      make(chan error, 1),
	}
}

// In delivers reassembled application fragments received from the peer.
func (r *Runtime) In() <-chan []byte { return r.recvCh }

// Enable starts the connect/reconnect loop. Calling Enable on an already
// enabled Runtime is a no-op.
func (r *Runtime) Enable(ctx context.Context) {
	r.mu.Lock()
	if r.enabled {
		r.mu.Unlock()
		return
	}
	r.enabled = true
	r.mu.Unlock()

	go r.run(ctx)
}

// Disable stops the reconnect loop and closes any live connection.
func (r *Runtime) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

func (r *Runtime) isEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Send submits an application fragment for transmission, segmenting it
// into link frames and blocking until the peer connection accepts it or
// ctx is canceled.
func (r *Runtime) Send(ctx context.Context, fragment []byte) error {
	if !r.isEnabled() {
		return ErrDisabled
	}
	done := make(chan error, 1)
	select {
	case r.sendCh <- sendRequest{data: fragment, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the Runtime's single state-machine loop: dial, pump frames, and
// on failure back off and redial, the same overall shape as
// session/tcp.go's run() method.
func (r *Runtime) run(ctx context.Context) {
	backoff := r.retry.MinBackoff
	for r.isEnabled() {
		conn, err := r.dialer.Dial(ctx)
		if err != nil {
			r.log.Warnf("dial failed: %v", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			backoff *= 2
			if backoff > r.retry.MaxBackoff {
				backoff = r.retry.MaxBackoff
			}
			continue
		}
		backoff = r.retry.MinBackoff

		r.mu.Lock()
		r.conn = conn
		r.mu.Unlock()

		r.pump(ctx, conn)

		conn.Close()
		r.mu.Lock()
		r.conn = nil
		r.mu.Unlock()
	}
}

// pump runs recv and send loops against one live connection until either
// fails or the Runtime is disabled, mirroring recvLoop/sendLoop in
// session/tcp.go.
func (r *Runtime) pump(ctx context.Context, conn PhysicalLayer) {
	connDone := make(chan struct{})
	var once sync.Once
	closeDone := func() { once.Do(func() { close(connDone) }) }

	go func() {
		defer closeDone()
		asm := transport.NewAssembler()
		for {
			frame, err := link.Unmarshal(conn)
			if err != nil {
				r.log.Warnf("link read failed: %v", err)
				return
			}
			if len(frame.UserData) == 0 {
				continue
			}
			h := transport.Header(frame.UserData[0])
			fragment, done, err := asm.Push(h, frame.UserData[1:])
			if err != nil {
				r.log.Warnf("transport reassembly failed: %v", err)
				asm.Reset()
				continue
			}
			if done {
				select {
				case r.recvCh <- fragment:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		defer closeDone()
		for {
			select {
			case req := <-r.sendCh:
				err := r.sendFragment(conn, req.data)
				req.done <- err
				if err != nil {
					return
				}
			case <-connDone:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	select {
	case <-connDone:
	case <-ctx.Done():
	}
}

func (r *Runtime) sendFragment(conn PhysicalLayer, fragment []byte) error {
	seg := transport.NewSegmenter(fragment)
	for {
		h, payload, ok := seg.Next()
		if !ok {
			return nil
		}
		userData := make([]byte, 0, len(payload)+1)
		userData = append(userData, byte(h))
		userData = append(userData, payload...)

		f := link.Frame{
			Control:     link.NewControl(true, true, false, false, link.FuncUnconfirmedUserData),
			Destination: r.remoteAddr,
			Source:      r.localAddr,
			UserData:    userData,
		}
		if _, err := f.Marshal(conn); err != nil {
			return fmt.Errorf("dnp3: link write failed: %w", err)
		}
	}
}

// ErrDisabled is returned by operations attempted on a disabled Runtime.
var ErrDisabled = errors.New("dnp3: channel disabled")
