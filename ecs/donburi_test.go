package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/cubefx"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEffectEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []cubefx.EffectEvent
	EffectEventType.Subscribe(world, func(w donburi.World, e cubefx.EffectEvent) {
		received = append(received, e)
	})

	sink.EmitEffectEvent(cubefx.EffectEvent{Type: cubefx.EffectStarted, Stage: -1, Active: 2})
	sink.EmitEffectEvent(cubefx.EffectEvent{Type: cubefx.StageSettled, Stage: 1, Active: 1})

	// Events are queued until processed.
	EffectEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Type != cubefx.EffectStarted || received[0].Active != 2 {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Type != cubefx.StageSettled || received[1].Stage != 1 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiSink_ImplementsEffectSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink cubefx.EffectSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	EffectEventType.Subscribe(world, func(w donburi.World, e cubefx.EffectEvent) {
		count1++
	})
	EffectEventType.Subscribe(world, func(w donburi.World, e cubefx.EffectEvent) {
		count2++
	})

	sink.EmitEffectEvent(cubefx.EffectEvent{Type: cubefx.EffectStopped, Stage: -1})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

type noopHost struct{}

func (noopHost) Attach(*cubefx.Node) {}
func (noopHost) Detach(*cubefx.Node) {}

type fixedViewer struct{}

func (fixedViewer) FOV() float64      { return 10 }
func (fixedViewer) Aspect() float64   { return 1 }
func (fixedViewer) Distance() float64 { return 25 }
func (fixedViewer) Zoom() float64     { return 1 }

func TestDonburiSink_ConfettiLifecycle(t *testing.T) {
	world := donburi.NewWorld()

	var types []cubefx.EffectEventType
	EffectEventType.Subscribe(world, func(w donburi.World, e cubefx.EffectEvent) {
		types = append(types, e.Type)
	})

	clock := cubefx.NewManualClock(time.Unix(0, 0))
	frames := cubefx.NewFrameQueue()
	d := cubefx.NewDriver(frames, clock)
	c := cubefx.NewConfetti(d, noopHost{}, fixedViewer{}, cubefx.ConfettiConfig{
		Stages: []cubefx.StageConfig{{Distance: 0, Count: 3}},
	})
	c.SetEventSink(NewDonburiSink(world))

	c.Start()
	c.Stop()
	// Particles fall at least 1.1 units/s through a view a few units high.
	for i := 0; i < 200 && c.Active() > 0; i++ {
		clock.Advance(100 * time.Millisecond)
		frames.Flush()
	}
	EffectEventType.ProcessEvents(world)

	want := []cubefx.EffectEventType{cubefx.EffectStarted, cubefx.StageSettled, cubefx.EffectStopped}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}
