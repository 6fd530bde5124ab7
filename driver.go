package cubefx

import (
	"context"
	"log/slog"
	"time"
)

// Animation is anything the Driver can advance once per frame. Start
// registers it with its driver and Stop unregisters it; both are idempotent.
type Animation interface {
	Start()
	Stop()
	Update(delta time.Duration)
}

// slot is one registration. live is cleared on unregister so a tick that
// captured the slot in its snapshot skips it.
type slot struct {
	id   uint64
	anim Animation
	live bool
}

// Driver multiplexes per-frame updates across every registered Animation.
// It owns a single frame-callback chain: the chain is armed lazily on the
// first registration and stops re-arming on the first tick that finds no
// registrations.
//
// A Driver is not safe for concurrent use; like the rest of cubefx it runs
// on the game loop goroutine.
type Driver struct {
	frames FrameRequester
	clock  Clock
	log    *slog.Logger

	slots    []*slot
	snapshot []*slot
	nextID   uint64

	running   bool
	frame     FrameID
	lastFrame time.Time
	ticks     uint64
}

// NewDriver creates a Driver that schedules ticks on frames and measures
// deltas with clock. A nil clock selects SystemClock.
func NewDriver(frames FrameRequester, clock Clock) *Driver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Driver{frames: frames, clock: clock}
}

// SetLogger sets the logger used for per-tick debug records. A nil logger
// disables them.
func (d *Driver) SetLogger(log *slog.Logger) {
	d.log = log
}

// Register adds a to the active set. Registering an animation that is
// already active is a no-op. The first registration into an empty driver
// records the current time and arms exactly one frame callback.
func (d *Driver) Register(a Animation) {
	if d.find(a) >= 0 {
		return
	}
	d.nextID++
	d.slots = append(d.slots, &slot{id: d.nextID, anim: a, live: true})

	if d.running {
		return
	}
	d.lastFrame = d.clock.Now()
	d.running = true
	d.frame = d.frames.RequestFrame(d.tick)
}

// Unregister removes a from the active set. Unknown animations are ignored.
func (d *Driver) Unregister(a Animation) {
	i := d.find(a)
	if i < 0 {
		return
	}
	d.slots[i].live = false
	copy(d.slots[i:], d.slots[i+1:])
	d.slots[len(d.slots)-1] = nil
	d.slots = d.slots[:len(d.slots)-1]
}

// IsRegistered reports whether a is currently active.
func (d *Driver) IsRegistered(a Animation) bool {
	return d.find(a) >= 0
}

// Len returns the number of active animations.
func (d *Driver) Len() int {
	return len(d.slots)
}

// Running reports whether a frame callback is currently scheduled.
func (d *Driver) Running() bool {
	return d.running
}

// Now returns the driver clock's current time.
func (d *Driver) Now() time.Time {
	return d.clock.Now()
}

// Ticks returns the number of frames the driver has processed.
func (d *Driver) Ticks() uint64 {
	return d.ticks
}

func (d *Driver) find(a Animation) int {
	for i, s := range d.slots {
		if s.anim == a {
			return i
		}
	}
	return -1
}

// tick is the frame callback. Bookkeeping and the re-arm decision happen
// before any update, and the decision uses the pre-update length so an
// animation that unregisters itself cannot cancel the next frame for the
// others.
func (d *Driver) tick() {
	now := d.clock.Now()
	delta := now.Sub(d.lastFrame)
	d.lastFrame = now
	d.ticks++

	if len(d.slots) > 0 {
		d.frame = d.frames.RequestFrame(d.tick)
	} else {
		d.running = false
		d.frame = 0
	}

	if d.log != nil {
		d.log.LogAttrs(context.Background(), slog.LevelDebug, "frame",
			slog.Uint64("tick", d.ticks),
			slog.Duration("delta", delta),
			slog.Int("animations", len(d.slots)),
		)
	}

	d.snapshot = append(d.snapshot[:0], d.slots...)
	for i, s := range d.snapshot {
		if s.live {
			s.anim.Update(delta)
		}
		d.snapshot[i] = nil
	}
	d.snapshot = d.snapshot[:0]
}

// Close cancels the pending frame callback and drops every registration
// without calling Stop on them. The driver can be reused afterwards.
func (d *Driver) Close() {
	if d.running {
		d.frames.CancelFrame(d.frame)
	}
	for i, s := range d.slots {
		s.live = false
		d.slots[i] = nil
	}
	d.slots = d.slots[:0]
	d.running = false
	d.frame = 0
}
