package cubefx

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Type != NodeTypeContainer {
		t.Fatal("scene should start with a root container")
	}
	if s.Camera() == nil || s.Driver() == nil || s.Frames() == nil {
		t.Fatal("scene should own a camera, driver and frame queue")
	}
	if s.Camera().Aspect() != 1 {
		t.Errorf("Aspect before Resize = %v, want 1", s.Camera().Aspect())
	}
}

func TestSceneAttachDetach(t *testing.T) {
	s := newTestScene()
	n := NewContainer("n")
	s.Attach(n)
	if n.Parent != s.Root() {
		t.Fatal("Attach should parent the node to the root")
	}
	s.Detach(n)
	if n.Parent != nil {
		t.Error("Detach should remove the node from the root")
	}
}

func TestSceneDetachIgnoresForeignNodes(t *testing.T) {
	s := newTestScene()
	other := NewContainer("other")
	n := NewContainer("n")
	other.AddChild(n)

	s.Detach(n)

	if n.Parent != other {
		t.Error("Detach should leave nodes attached elsewhere alone")
	}
}

func TestSceneResizeFiresHooks(t *testing.T) {
	s := NewSceneWithClock(NewManualClock(testEpoch))
	calls := 0
	s.OnResize(func() { calls++ })

	s.Resize(800, 600)
	s.Resize(800, 600)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.Camera().Viewport != (Rect{Width: 800, Height: 600}) {
		t.Errorf("Viewport = %+v, want 800x600", s.Camera().Viewport)
	}

	s.Camera().SetZoom(2)
	if calls != 2 {
		t.Errorf("calls after zoom = %d, want 2", calls)
	}
}

func TestSceneUpdateTicksDriver(t *testing.T) {
	clock := NewManualClock(testEpoch)
	s := NewSceneWithClock(clock)
	r := &recorder{d: s.Driver()}
	r.Start()

	clock.Advance(16 * time.Millisecond)
	s.Update()
	clock.Advance(16 * time.Millisecond)
	s.Update()

	if len(r.deltas) != 2 {
		t.Fatalf("updates = %d, want 2", len(r.deltas))
	}
	for i, dt := range r.deltas {
		if dt != 16*time.Millisecond {
			t.Errorf("delta[%d] = %v, want 16ms", i, dt)
		}
	}
}

func TestSceneUpdateRefreshesTransforms(t *testing.T) {
	s := newTestScene()
	n := NewContainer("n")
	n.SetPosition(1, 2, 3)
	s.Attach(n)

	s.Update()

	if n.WorldPosition() != (Vec3{1, 2, 3}) {
		t.Errorf("WorldPosition = %v, want {1 2 3}", n.WorldPosition())
	}
}

func TestScenePostRunsOnUpdate(t *testing.T) {
	s := newTestScene()
	var wg sync.WaitGroup
	ran := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() { ran++ })
		}()
	}
	wg.Wait()

	if ran != 0 {
		t.Fatal("posted functions should wait for Update")
	}
	s.Update()
	if ran != 8 {
		t.Errorf("ran = %d, want 8", ran)
	}
	s.Update()
	if ran != 8 {
		t.Errorf("ran after second Update = %d, want 8", ran)
	}
}

func TestScenePostBeforeFrames(t *testing.T) {
	clock := NewManualClock(testEpoch)
	s := NewSceneWithClock(clock)
	r := &recorder{d: s.Driver()}

	// An animation started from a posted function gets its first frame
	// in the same Update.
	s.Post(r.Start)
	clock.Advance(10 * time.Millisecond)
	s.Update()

	if len(r.deltas) != 1 {
		t.Errorf("updates = %d, want 1", len(r.deltas))
	}
}

func TestSceneDebugModeLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestScene()
	s.SetLogger(log)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	r := &recorder{d: s.Driver()}
	r.Start()
	s.Update()

	out := buf.String()
	if !strings.Contains(out, "msg=frame") {
		t.Errorf("debug log missing driver frame record:\n%s", out)
	}
	if !strings.Contains(out, "msg=update") {
		t.Errorf("debug log missing update record:\n%s", out)
	}
}

func TestSceneDebugModeOffQuiet(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestScene()
	s.SetLogger(log)

	r := &recorder{d: s.Driver()}
	r.Start()
	s.Update()

	if buf.Len() != 0 {
		t.Errorf("unexpected log output without debug mode:\n%s", buf.String())
	}
}
