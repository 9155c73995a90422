package master

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-dnp3/dnp3/app"
	"github.com/go-dnp3/dnp3/logging"
)

// AssociationConfig carries the per-outstation timing and behavior
// parameters a master association applies, in the teacher's
// config-struct-with-check() style (session.TCPConfig.check).
type AssociationConfig struct {
	// ResponseTimeout bounds how long a task waits for a response
	// fragment. Defaults to 5 seconds.
	ResponseTimeout time.Duration
	// DisableUnsolicited is carried in the configuration only: the
	// Association sends no DISABLE_UNSOLICITED request on its own,
	// whatever its value.
	DisableUnsolicited bool
}

func (c *AssociationConfig) check() *AssociationConfig {
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = 5 * time.Second
	}
	return c
}

// Exchanger sends one request fragment and returns the response fragment
// bytes, already transport-reassembled. The channel runtime in package
// channel implements this on top of a PhysicalLayer connection.
type Exchanger interface {
	Exchange(ctx context.Context, request []byte) (response []byte, err error)
}

// Association represents a master's relationship with one outstation
// address: task queue, sequence-number bookkeeping, and the configured
// ReadHandler that measurements are dispatched to. Grounded on the single-
// station bookkeeping in session/tcp.go's tcp struct (sequence counters,
// pending map), reduced here to one 4-bit application sequence counter
// since DNP3's application layer, unlike IEC 60870-5-104's transport
// layer, has no sliding window to track.
type Association struct {
	cfg     AssociationConfig
	ex      Exchanger
	handler ReadHandler
	log     logging.Logger

	mu  sync.Mutex
	seq uint8

	tasks chan Task
	done  chan struct{}
}

// NewAssociation constructs an Association bound to one Exchanger.
func NewAssociation(ex Exchanger, handler ReadHandler, cfg AssociationConfig, log logging.Logger) *Association {
	if log == nil {
		log = logging.Discard
	}
	if handler == nil {
		handler = NewLoggingReadHandler(log)
	}
	a := &Association{
		cfg:     *cfg.check(),
		ex:      ex,
		handler: handler,
		log:     log,
		tasks:   make(chan Task, 16),
		done:    make(chan struct{}),
	}
	return a
}

// AddTask enqueues a task for execution. It returns an error if the
// association has been stopped.
func (a *Association) AddTask(t Task) error {
	select {
	case <-a.done:
		return fmt.Errorf("dnp3: association stopped")
	default:
	}
	select {
	case a.tasks <- t:
		return nil
	case <-a.done:
		return fmt.Errorf("dnp3: association stopped")
	}
}

// Run drains the task queue until ctx is canceled, executing each task in
// turn against the Exchanger. Grounded on session/tcp.go's run() select
// loop, reduced to a single work queue since an association runs one task
// at a time per spec.md §5.
func (a *Association) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-a.tasks:
			a.runOne(ctx, t)
		}
	}
}

func (a *Association) runOne(ctx context.Context, t Task) {
	a.mu.Lock()
	seq := a.seq
	a.seq = (a.seq + 1) & 0x0F
	a.mu.Unlock()

	err := RunTask(ctx, t, seq, a.exchange, a.handler, a.cfg.ResponseTimeout)
	if err != nil {
		a.log.Warnf("task %s failed: %v", t.Name(), err)
	}
}

func (a *Association) exchange(ctx context.Context, req []byte) (app.Response, error) {
	raw, err := a.ex.Exchange(ctx, req)
	if err != nil {
		return app.Response{}, err
	}
	return app.ParseResponse(raw)
}
