package snowflake

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	// Epoch is the fixed custom epoch in milliseconds since the Unix
	// epoch (2010-11-04T01:42:54.657Z). It is not configurable; the
	// 42-bit timestamp field measures from here.
	Epoch int64 = 1288834974657

	timestampBits = 42
	nodeIDBits    = 10
	sequenceBits  = 12

	// MaxNodeID is the largest valid node id (1023).
	MaxNodeID = -1 ^ (-1 << nodeIDBits)

	// MaxSequence is the largest per-millisecond sequence (4095).
	MaxSequence = -1 ^ (-1 << sequenceBits)

	maxTimestamp = -1 ^ (-1 << timestampBits)

	nodeIDShift    = sequenceBits
	timestampShift = nodeIDBits + sequenceBits
)

// ID is a 64-bit snowflake identifier. IDs from the same node compare
// as integers consistently with their creation order.
type ID int64

// Timestamp returns the embedded creation time in milliseconds since
// the custom epoch.
func (id ID) Timestamp() int64 {
	return (int64(id) >> timestampShift) & maxTimestamp
}

// NodeID returns the id of the node that generated this ID.
func (id ID) NodeID() int64 {
	return (int64(id) >> nodeIDShift) & MaxNodeID
}

// Sequence returns the per-millisecond sequence number.
func (id ID) Sequence() int64 {
	return int64(id) & MaxSequence
}

// Time returns the creation time with millisecond precision.
func (id ID) Time() time.Time {
	return time.UnixMilli(id.Timestamp() + Epoch)
}

// String returns the decimal representation.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Generator produces strictly increasing IDs for any fixed node id.
// The zero state (last timestamp 0, sequence 0) is ready for use;
// state lives for the process lifetime and is never persisted.
type Generator struct {
	mu            sync.Mutex
	lastTimestamp int64 // ms since Epoch
	sequence      int64
}

// NewGenerator creates an independent Generator. Multiple generators
// may coexist in one process; IDs only stay unique across generators
// if their callers use distinct node ids.
func NewGenerator() *Generator { return &Generator{} }

// nowMs returns the current time in milliseconds since the Unix
// epoch. Swapped out by tests to drive the clock deterministically.
var nowMs = func() int64 { return time.Now().UnixMilli() }

// Generate returns the next ID for nodeID.
//
// nodeID must be in [0, MaxNodeID]; anything else is a programming
// error and panics. Generate blocks only when more than 4096 IDs are
// requested within one millisecond, in which case it waits for the
// clock to advance.
func (g *Generator) Generate(nodeID int64) ID {
	if nodeID < 0 || nodeID > MaxNodeID {
		panic(fmt.Sprintf("snowflake: node id %d out of range [0, %d]", nodeID, MaxNodeID))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ts := nowMs() - Epoch
	if ts < g.lastTimestamp {
		// Clock went backwards; pin to the last observed millisecond
		// so IDs never decrease.
		ts = g.lastTimestamp
	}

	if ts == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & MaxSequence
		if g.sequence == 0 {
			ts = g.nextMillis(ts)
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = ts

	return ID(ts<<timestampShift | nodeID<<nodeIDShift | g.sequence)
}

// nextMillis spins until the clock strictly exceeds last, sleeping
// briefly between samples to avoid pegging a core.
func (g *Generator) nextMillis(last int64) int64 {
	ts := nowMs() - Epoch
	for ts <= last {
		time.Sleep(time.Millisecond / 8)
		ts = nowMs() - Epoch
	}
	return ts
}
