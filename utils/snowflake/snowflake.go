// Package snowflake generates time-ordered 63-bit IDs. Message IDs are drawn
// from it so that sorting by ID gives send order.
package snowflake

import (
	"errors"
	"sync"
	"time"
)

const (
	// Epoch is the custom epoch (January 1, 2024 00:00:00 UTC) in milliseconds.
	Epoch int64 = 1704067200000

	DefaultWorkerIDBits uint8 = 10
	DefaultSequenceBits uint8 = 12

	// maxDrift is how far the clock may step back before NextID gives up.
	maxDrift = 5 * time.Millisecond
)

var (
	ErrInvalidWorkerID      = errors.New("worker ID exceeds maximum value")
	ErrInvalidDatacenterID  = errors.New("datacenter ID exceeds maximum value")
	ErrClockMovedBackwards  = errors.New("clock moved backwards")
	ErrInvalidBitAllocation = errors.New("invalid bit allocation: node and sequence bits must not exceed 22")
)

// Config describes the node identity and the bit layout below the timestamp.
type Config struct {
	Epoch          int64
	DatacenterID   int64
	WorkerID       int64
	DatacenterBits uint8
	WorkerIDBits   uint8
	SequenceBits   uint8
}

// Generator is safe for concurrent use.
type Generator struct {
	mu sync.Mutex

	epoch int64
	node  int64 // datacenter and worker bits, pre-shifted

	timestampShift uint8
	sequenceMask   int64

	sequence      int64
	lastTimestamp int64

	now func() time.Time
}

// NewGenerator validates cfg and fills in the default layout
// (41 bit timestamp, 10 bit worker, 12 bit sequence).
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Epoch == 0 {
		cfg.Epoch = Epoch
	}
	if cfg.WorkerIDBits == 0 {
		cfg.WorkerIDBits = DefaultWorkerIDBits
	}
	if cfg.SequenceBits == 0 {
		cfg.SequenceBits = DefaultSequenceBits
	}
	if cfg.DatacenterBits+cfg.WorkerIDBits+cfg.SequenceBits > 22 {
		return nil, ErrInvalidBitAllocation
	}

	workerMax := int64(1)<<cfg.WorkerIDBits - 1
	if cfg.WorkerID < 0 || cfg.WorkerID > workerMax {
		return nil, ErrInvalidWorkerID
	}
	datacenterMax := int64(1)<<cfg.DatacenterBits - 1
	if cfg.DatacenterID < 0 || cfg.DatacenterID > datacenterMax {
		return nil, ErrInvalidDatacenterID
	}

	node := cfg.DatacenterID<<(cfg.WorkerIDBits+cfg.SequenceBits) | cfg.WorkerID<<cfg.SequenceBits

	return &Generator{
		epoch:          cfg.Epoch,
		node:           node,
		timestampShift: cfg.DatacenterBits + cfg.WorkerIDBits + cfg.SequenceBits,
		sequenceMask:   int64(1)<<cfg.SequenceBits - 1,
		now:            time.Now,
	}, nil
}

// NextID returns an ID strictly greater than every ID this generator has
// returned before.
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.millis()
	if ts < g.lastTimestamp {
		if time.Duration(g.lastTimestamp-ts)*time.Millisecond > maxDrift {
			return 0, ErrClockMovedBackwards
		}
		ts = g.waitUntil(g.lastTimestamp)
	}

	if ts == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & g.sequenceMask
		if g.sequence == 0 {
			ts = g.waitUntil(g.lastTimestamp + 1)
		}
	} else {
		g.sequence = 0
	}
	g.lastTimestamp = ts

	return (ts-g.epoch)<<g.timestampShift | g.node | g.sequence, nil
}

// Time returns the wall-clock millisecond encoded in id.
func (g *Generator) Time(id int64) time.Time {
	return time.UnixMilli((id >> g.timestampShift) + g.epoch)
}

// Sequence returns the per-millisecond counter encoded in id.
func (g *Generator) Sequence(id int64) int64 {
	return id & g.sequenceMask
}

func (g *Generator) millis() int64 {
	return g.now().UnixMilli()
}

func (g *Generator) waitUntil(target int64) int64 {
	ts := g.millis()
	for ts < target {
		time.Sleep(time.Duration(target-ts) * time.Millisecond)
		ts = g.millis()
	}
	return ts
}
