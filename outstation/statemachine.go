package outstation

import (
	"crypto/sha1"
	"time"

	"github.com/go-dnp3/dnp3/app"
	"github.com/go-dnp3/dnp3/objects"
	"github.com/go-dnp3/dnp3/outstation/database"
)

// State names the outstation's confirmation-wait state machine, per
// spec.md §4.6.
type State uint8

const (
	StateIdle State = iota
	StateSolicitedConfirmWait
	StateUnsolicitedConfirmWait
)

// Config bundles the per-outstation behavior knobs this state machine
// consults, in the teacher's config-with-check() style.
type Config struct {
	SelectTimeout           time.Duration
	UnsolicitedRetries      int
	UnsolicitedRetryDelay   time.Duration
	UnsolicitedEnabledClasses []database.Class
}

func (c *Config) check() *Config {
	if c.SelectTimeout <= 0 {
		c.SelectTimeout = 10 * time.Second
	}
	if c.UnsolicitedRetryDelay <= 0 {
		c.UnsolicitedRetryDelay = 2 * time.Second
	}
	return c
}

type selectRecord struct {
	hash    [sha1.Size]byte
	expires time.Time
}

// Outstation runs the request/response state machine against one
// database, dispatching control operations to a ControlHandler and other
// callbacks to an OutstationApplication.
type Outstation struct {
	cfg     Config
	db      *database.Database
	control ControlHandler
	app     OutstationApplication

	state   State
	confirmSeq uint8
	lastSelect *selectRecord

	unsolicitedEnabled bool
}

// New constructs an Outstation state machine bound to db.
func New(db *database.Database, control ControlHandler, appl OutstationApplication, cfg Config) *Outstation {
	if control == nil {
		control = NopControlHandler{}
	}
	if appl == nil {
		appl = DefaultApplication{}
	}
	return &Outstation{
		cfg:     *cfg.check(),
		db:      db,
		control: control,
		app:     appl,
		state:   StateIdle,
	}
}

// HandleFragment processes one received application fragment and returns
// the response fragment to send, or nil if no response is warranted: a
// CONFIRM, a DIRECT_OPERATE_NO_ACK, or a broadcast whose function is not
// permitted on broadcast. A permitted broadcast request is answered with
// IINBroadcast set in the response.
func (o *Outstation) HandleFragment(fragment []byte, fromBroadcast bool) []byte {
	req, err := app.ParseRequest(fragment)
	if err != nil {
		return o.errorResponse(0, app.IINParameterError)
	}

	if req.Function == app.FuncConfirm {
		o.handleConfirm(req)
		return nil
	}

	if fromBroadcast && !broadcastAllowed(req.Function) {
		return nil
	}

	if o.state == StateSolicitedConfirmWait || o.state == StateUnsolicitedConfirmWait {
		// spec.md §4.6: a new request abandons the pending confirm
		// series rather than blocking on it.
		o.db.Events().Deselect()
		o.state = StateIdle
	}

	var iin app.IIN
	if fromBroadcast {
		iin |= app.IINBroadcast
	}

	switch req.Function {
	case app.FuncRead:
		return o.handleRead(req, iin)
	case app.FuncWrite:
		return o.handleWrite(req, iin)
	case app.FuncSelect:
		return o.handleSelect(req, iin)
	case app.FuncOperate:
		return o.handleOperate(req, iin)
	case app.FuncDirectOperate:
		return o.handleDirectOperate(req, iin, true)
	case app.FuncDirectOperateNoResponse:
		o.handleDirectOperate(req, iin, false)
		return nil
	case app.FuncDelayMeasure:
		return o.handleDelayMeasure(req, iin)
	case app.FuncColdRestart:
		return o.handleRestart(req, iin, o.app.ColdRestart())
	case app.FuncWarmRestart:
		return o.handleRestart(req, iin, o.app.WarmRestart())
	case app.FuncEnableUnsolicited:
		o.unsolicitedEnabled = true
		return o.emptyResponse(req, iin)
	case app.FuncDisableUnsolicited:
		o.unsolicitedEnabled = false
		return o.emptyResponse(req, iin)
	default:
		return o.errorResponse(req.Control.Seq(), iin|app.IINFuncNotSupported)
	}
}

func broadcastAllowed(f app.FunctionCode) bool {
	switch f {
	case app.FuncWrite, app.FuncDirectOperateNoResponse, app.FuncEnableUnsolicited, app.FuncDisableUnsolicited:
		return true
	default:
		return false
	}
}

func (o *Outstation) handleConfirm(req app.Request) {
	if o.state == StateIdle {
		return
	}
	if req.Control.Seq() != o.confirmSeq {
		return // WrongSolicitedConfirmSeq: stay in the wait state
	}
	o.db.Events().ClearWritten()
	o.db.Events().AckOverflow()
	o.state = StateIdle
}

var staticPointTypes = []objects.PointType{
	objects.PointBinary, objects.PointDoubleBitBinary, objects.PointBinaryOutputStatus,
	objects.PointCounter, objects.PointFrozenCounter,
	objects.PointAnalog, objects.PointAnalogOutputStatus,
}

// wantedClasses inspects a READ request's object headers and reports which
// static data (Class 0) and event classes (1-3) were polled. An absent
// header means "not requested"; a READ naming no class-data header at all
// requests nothing.
func wantedClasses(req app.Request) (class0 bool, classes []database.Class) {
	for _, h := range req.Objects.Headers() {
		switch h.GroupVariation {
		case objects.ClassData0:
			class0 = true
		case objects.ClassData1:
			classes = append(classes, database.Class1)
		case objects.ClassData2:
			classes = append(classes, database.Class2)
		case objects.ClassData3:
			classes = append(classes, database.Class3)
		}
	}
	return class0, classes
}

// handleRead builds a response fragment carrying the static values and
// buffered events a READ's object headers asked for: Class 0 (integrity)
// serializes every point's current value via its default static variation,
// and Class 1/2/3 select and encode pending events via their default
// "with time" event variation, per spec.md §4.1 and §3's event-buffer
// selection protocol.
func (o *Outstation) handleRead(req app.Request, iin app.IIN) []byte {
	class0, classes := wantedClasses(req)

	c := objects.NewCursor(nil)

	if class0 {
		for _, pt := range staticPointTypes {
			encodeStaticValues(c, o.db.StaticValues(pt))
		}
	}

	var selected []*database.Event
	if len(classes) > 0 {
		selected = o.db.Events().SelectByClass(classes, 0)
		encodeSelectedEvents(c, selected)
	}

	if o.db.Events().Overflowed() {
		iin |= app.IINEventBufferOverflow
	}

	con := len(selected) > 0
	control := app.NewApplicationControl(true, true, con, false, req.Control.Seq())
	header := []byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)}
	out := append(header, c.Bytes()...)

	if con {
		o.db.Events().MarkWritten(selected)
		o.state = StateSolicitedConfirmWait
		o.confirmSeq = req.Control.Seq()
	}
	return out
}

// encodeStaticValues appends one object header plus objects per maximal run
// of index-consecutive values that share the same resolved static variation
// (binary values are promoted to the flagged form individually via
// DefaultStaticVariation, so a point type's values are not guaranteed to
// share one variation the way a fixed-width group's would).
func encodeStaticValues(c *objects.Cursor, values []database.IndexedMeasurement) {
	for i := 0; i < len(values); {
		gv := objects.DefaultStaticVariation(values[i].Value)
		j := i + 1
		for j < len(values) &&
			objects.DefaultStaticVariation(values[j].Value) == gv &&
			values[j].Index == values[j-1].Index+1 {
			j++
		}
		run := values[i:j]
		objects.EncodeHeader(c, gv, objects.Qual8BitStartStop, uint16(run[0].Index), uint16(run[len(run)-1].Index))
		if objects.IsPacked(gv) {
			packed := make([]byte, (len(run)+7)/8)
			for k, v := range run {
				if v.Value.Bool {
					packed[k/8] |= 1 << uint(k%8)
				}
			}
			c.WriteBytes(packed)
		} else {
			for _, v := range run {
				objects.EncodeMeasurement(c, gv, v.Value)
			}
		}
		i = j
	}
}

// encodeSelectedEvents groups selected events by their encode variation and
// appends one object header plus objects per group, matching the way a
// response packs events of the same group/variation contiguously.
func encodeSelectedEvents(c *objects.Cursor, selected []*database.Event) {
	groups := make(map[objects.GroupVariation][]*database.Event)
	var order []objects.GroupVariation
	for _, e := range selected {
		gv := objects.DefaultEventVariation(e.Value.Type)
		if _, ok := groups[gv]; !ok {
			order = append(order, gv)
		}
		groups[gv] = append(groups[gv], e)
	}
	for _, gv := range order {
		events := groups[gv]
		objects.EncodeHeader(c, gv, objects.Qual8BitIndexPrefix, uint16(len(events)), 0)
		for _, e := range events {
			c.WriteByte(byte(e.Index))
			objects.EncodeMeasurement(c, gv, e.Value)
		}
	}
}

func (o *Outstation) handleWrite(req app.Request, iin app.IIN) []byte {
	for _, h := range req.Objects.Headers() {
		if h.GroupVariation == objects.TimeAndDate && len(h.Payload) >= 6 {
			var t objects.DNP3Time
			copy(t[:], h.Payload[:6])
			o.app.WriteTime(t.Time())
		}
	}
	return o.emptyResponse(req, iin)
}

func (o *Outstation) handleSelect(req app.Request, iin app.IIN) []byte {
	o.lastSelect = &selectRecord{hash: hashHeaders(req), expires: nowPlus(o.cfg.SelectTimeout)}
	return o.respondControls(req, iin, o.control.SelectCROB)
}

func (o *Outstation) handleOperate(req app.Request, iin app.IIN) []byte {
	if o.lastSelect == nil || o.lastSelect.hash != hashHeaders(req) || time.Now().After(o.lastSelect.expires) {
		return o.rejectControls(req, iin, objects.StatusNoSelect)
	}
	o.lastSelect = nil
	return o.respondControls(req, iin, o.control.OperateCROB)
}

func (o *Outstation) handleDirectOperate(req app.Request, iin app.IIN, withResponse bool) []byte {
	resp := o.respondControls(req, iin, o.control.OperateCROB)
	if !withResponse {
		return nil
	}
	return resp
}

// respondControls decodes every CROB header in req through the codec's
// DecodeCROBs, runs each command through op (SelectCROB or OperateCROB
// depending on the request function), and echoes back the resulting
// CommandStatus per object via EncodeCROBEcho.
func (o *Outstation) respondControls(req app.Request, iin app.IIN, op func(uint32, objects.Group12Var1) objects.CommandStatus) []byte {
	c := objects.NewCursor(nil)
	control := app.NewApplicationControl(true, true, false, false, req.Control.Seq())
	c.WriteBytes([]byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)})

	for _, h := range req.Objects.Headers() {
		if h.GroupVariation != objects.CROB {
			continue
		}
		cmds, err := objects.DecodeCROBs(h)
		if err != nil {
			continue
		}
		statuses := make([]objects.CommandStatus, len(cmds))
		for i, cmd := range cmds {
			statuses[i] = op(cmd.Index, cmd.Command)
		}
		objects.EncodeCROBEcho(c, h, cmds, statuses)
	}
	return c.Bytes()
}

// rejectControls echoes a fixed status for every CROB header without
// invoking the ControlHandler, used when SELECT/OPERATE preconditions
// (select hash match, select timeout) fail before the handler ever runs.
func (o *Outstation) rejectControls(req app.Request, iin app.IIN, status objects.CommandStatus) []byte {
	c := objects.NewCursor(nil)
	control := app.NewApplicationControl(true, true, false, false, req.Control.Seq())
	c.WriteBytes([]byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)})

	for _, h := range req.Objects.Headers() {
		if h.GroupVariation != objects.CROB {
			continue
		}
		cmds, err := objects.DecodeCROBs(h)
		if err != nil {
			continue
		}
		statuses := make([]objects.CommandStatus, len(cmds))
		for i := range cmds {
			statuses[i] = status
		}
		objects.EncodeCROBEcho(c, h, cmds, statuses)
	}
	return c.Bytes()
}

func (o *Outstation) handleDelayMeasure(req app.Request, iin app.IIN) []byte {
	c := objects.NewCursor(nil)
	control := app.NewApplicationControl(true, true, false, false, req.Control.Seq())
	c.WriteBytes([]byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)})
	return c.Bytes()
}

func (o *Outstation) handleRestart(req app.Request, iin app.IIN, delay time.Duration) []byte {
	c := objects.NewCursor(nil)
	control := app.NewApplicationControl(true, true, false, false, req.Control.Seq())
	c.WriteBytes([]byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)})
	// Group 52 Variation 2: time delay fine, a u16 count of milliseconds.
	ms := delay.Milliseconds()
	if ms > 0xFFFF {
		ms = 0xFFFF
	} else if ms < 0 {
		ms = 0
	}
	objects.EncodeHeader(c, objects.GroupVariation{Group: 52, Variation: 2}, objects.Qual8BitCount, 1, 0)
	objects.WriteFixed(c, uint16(ms))
	return c.Bytes()
}

func (o *Outstation) emptyResponse(req app.Request, iin app.IIN) []byte {
	control := app.NewApplicationControl(true, true, false, false, req.Control.Seq())
	return []byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)}
}

func (o *Outstation) errorResponse(seq uint8, iin app.IIN) []byte {
	control := app.NewApplicationControl(true, true, false, false, seq)
	return []byte{byte(control), byte(app.FuncResponse), byte(iin), byte(iin >> 8)}
}

func hashHeaders(req app.Request) [sha1.Size]byte {
	h := sha1.New()
	for _, oh := range req.Objects.Headers() {
		h.Write([]byte{byte(oh.GroupVariation.Group), byte(oh.GroupVariation.Variation)})
		h.Write(oh.Payload)
	}
	var out [sha1.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

func nowPlus(d time.Duration) time.Time { return time.Now().Add(d) }
