package cubefx

import "time"

// FrameID identifies a pending frame callback.
type FrameID uint64

// FrameRequester schedules a function to run once, asynchronously, before
// the next repaint. It is the only scheduling primitive the Driver needs.
type FrameRequester interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Clock reports wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time with monotonic clock reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock that only moves when told to. Used by tests and
// scripted runs so frame deltas are exact.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current mocked time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type pendingFrame struct {
	id FrameID
	fn func()
}

// FrameQueue is a FrameRequester drained explicitly by Flush. Callbacks
// requested while a Flush is running are deferred to the next Flush, so a
// callback that re-arms itself runs exactly once per Flush.
//
// The Scene flushes its queue once per ebiten tick, before Draw.
type FrameQueue struct {
	pending []pendingFrame
	running []pendingFrame
	nextID  FrameID
}

// NewFrameQueue creates an empty FrameQueue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame queues fn for the next Flush and returns a token usable with
// CancelFrame.
func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.nextID++
	q.pending = append(q.pending, pendingFrame{id: q.nextID, fn: fn})
	return q.nextID
}

// CancelFrame drops a queued callback. Unknown or already-run ids are ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, p := range q.pending {
		if p.id == id {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = pendingFrame{}
			q.pending = q.pending[:len(q.pending)-1]
			return
		}
	}
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// Flush runs every callback queued before the call and returns how many ran.
func (q *FrameQueue) Flush() int {
	if len(q.pending) == 0 {
		return 0
	}
	q.running, q.pending = q.pending, q.running[:0]
	for i := range q.running {
		q.running[i].fn()
		q.running[i] = pendingFrame{}
	}
	n := len(q.running)
	q.running = q.running[:0]
	return n
}
