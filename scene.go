package cubefx

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree, the camera, the
// frame queue and the animation driver built on it.
//
// Everything except Post runs on the game loop goroutine.
type Scene struct {
	root   *Node
	camera *Camera
	frames *FrameQueue
	driver *Driver
	log    *slog.Logger
	debug  bool

	// ClearColor fills the screen before the tree is drawn. A zero alpha
	// leaves the screen untouched.
	ClearColor Color

	resize []func()

	mu     sync.Mutex
	posted []func()
	drain  []func()

	script      *Script
	applyScript func(Command) error

	updateFunc func() error

	// Render state
	commands []quadCommand
	sortBuf  []quadCommand
	vertices []ebiten.Vertex
	indices  []uint32
}

// NewScene creates a new scene on the system clock with a pre-created root
// container and a camera with an empty viewport. Call Resize (Run does it
// from Layout) before the first Draw.
func NewScene() *Scene {
	return NewSceneWithClock(SystemClock{})
}

// NewSceneWithClock creates a new scene whose driver measures frame deltas
// with clock.
func NewSceneWithClock(clock Clock) *Scene {
	s := &Scene{
		root:     NewContainer("root"),
		camera:   newCamera(Rect{}),
		frames:   NewFrameQueue(),
		commands: make([]quadCommand, 0, defaultCommandCap),
		sortBuf:  make([]quadCommand, 0, defaultCommandCap),
	}
	s.driver = NewDriver(s.frames, clock)
	s.camera.changed = s.fireResize
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Driver returns the animation driver ticked by Update.
func (s *Scene) Driver() *Driver {
	return s.driver
}

// Frames returns the frame queue the driver schedules on.
func (s *Scene) Frames() *FrameQueue {
	return s.frames
}

// Attach adds n under the root. It implements Host.
func (s *Scene) Attach(n *Node) {
	s.root.AddChild(n)
}

// Detach removes n from the root. Nodes attached elsewhere are left alone.
// It implements Host.
func (s *Scene) Detach(n *Node) {
	if n.Parent == s.root {
		s.root.RemoveChild(n)
	}
}

// OnResize registers fn to run after every viewport or zoom change.
func (s *Scene) OnResize(fn func()) {
	s.resize = append(s.resize, fn)
}

// Resize sets the camera viewport to a w x h screen. Unchanged sizes are
// ignored.
func (s *Scene) Resize(w, h int) {
	s.camera.SetViewport(Rect{Width: float64(w), Height: float64(h)})
}

func (s *Scene) fireResize() {
	for _, fn := range s.resize {
		fn()
	}
}

// Post queues fn to run on the game loop at the start of the next Update.
// Post is safe to call from any goroutine.
func (s *Scene) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// SetUpdateFunc sets a callback that Run calls once per tick before
// Scene.Update. Returning an error ends the game loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetLogger sets the logger used for debug records. The driver logs frame
// stats through it while debug mode is on.
func (s *Scene) SetLogger(log *slog.Logger) {
	s.log = log
	s.syncDriverLog()
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame driver and draw stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled && s.log != nil {
		debugLogger = s.log
	}
	s.syncDriverLog()
}

func (s *Scene) syncDriverLog() {
	if s.debug {
		s.driver.SetLogger(s.log)
	} else {
		s.driver.SetLogger(nil)
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// Update drains posted functions, steps the attached script, runs every
// frame callback the driver queued and refreshes world transforms.
func (s *Scene) Update() {
	s.mu.Lock()
	s.drain, s.posted = s.posted, s.drain[:0]
	s.mu.Unlock()
	for i, fn := range s.drain {
		fn()
		s.drain[i] = nil
	}

	if s.script != nil {
		s.script.step(s)
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.frames.Flush()

	updateWorldTransform(s.root, identityAffine3, 1.0, false)

	if s.debug && s.log != nil {
		s.log.LogAttrs(context.Background(), slog.LevelDebug, "update",
			slog.Duration("elapsed", time.Since(t0)),
			slog.Int("animations", s.driver.Len()),
		)
	}
}

// Draw projects every visible quad through the camera, sorts them back to
// front and submits them to screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.commands = s.commands[:0]
	s.collect(s.root)

	if s.debug {
		stats.collectTime = time.Since(t0)
		t0 = time.Now()
	}

	s.sortCommands()

	if s.debug {
		stats.sortTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	batches := s.submit(screen)

	if s.debug {
		stats.submitTime = time.Since(t0)
		stats.batchCount = batches
		s.debugLog(stats)
	}
}
