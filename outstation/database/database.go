package database

import (
	"sort"
	"sync"

	"github.com/go-dnp3/dnp3/objects"
)

// Database is an outstation's static point set plus its event buffer. Point
// values change only through Update (Configure sets a point's class and
// deadband), which applies change detection and
// appends an Event when warranted, mirroring the teacher's single entry
// point for building an encoded ASDU (info/pack.go's add-and-grow helpers)
// but applied here to in-memory state instead of a wire buffer.
type Database struct {
	mu     sync.Mutex
	points map[objects.PointType]map[uint32]*Point
	events *EventBuffer
}

// Config configures per-type event-buffer capacity.
type Config struct {
	EventCapacity map[objects.PointType]int
}

// New constructs an empty Database.
func New(cfg Config) *Database {
	return &Database{
		points: make(map[objects.PointType]map[uint32]*Point),
		events: NewEventBuffer(cfg.EventCapacity),
	}
}

// Configure declares (or reconfigures) the class/deadband for one index of
// one point type, without changing its current value. An outstation calls
// this during setup, before Update is ever called for the index.
func (d *Database) Configure(pointType objects.PointType, index uint32, cfg PointConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byIndex, ok := d.points[pointType]
	if !ok {
		byIndex = make(map[uint32]*Point)
		d.points[pointType] = byIndex
	}
	p, ok := byIndex[index]
	if !ok {
		p = &Point{}
		byIndex[index] = p
	}
	p.Config = cfg
}

// Update sets the current value of one point, generating an event in the
// point's configured class if detectChange reports a meaningful change.
func (d *Database) Update(index uint32, value objects.Measurement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byIndex, ok := d.points[value.Type]
	if !ok {
		byIndex = make(map[uint32]*Point)
		d.points[value.Type] = byIndex
	}
	p, ok := byIndex[index]
	if !ok {
		p = &Point{}
		byIndex[index] = p
	}

	changed := ok && detectChange(p.Config, p.Value, value)
	p.Value = value
	if changed {
		d.events.Add(Event{Index: index, Class: p.Config.Class, Value: value})
	}
}

// StaticValues returns every current point of the given type sorted by
// index, for integrity-poll (Class 0) response building.
func (d *Database) StaticValues(pointType objects.PointType) []IndexedMeasurement {
	d.mu.Lock()
	defer d.mu.Unlock()
	byIndex := d.points[pointType]
	out := make([]IndexedMeasurement, 0, len(byIndex))
	for idx, p := range byIndex {
		out = append(out, IndexedMeasurement{Index: idx, Value: p.Value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// IndexedMeasurement pairs a point index with its current value.
type IndexedMeasurement struct {
	Index uint32
	Value objects.Measurement
}

// Events returns the database's event buffer for direct selection/write.
func (d *Database) Events() *EventBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.events
}
