package cubefx

import (
	"math"
	"slices"
	"testing"
	"time"
)

func TestParticleSizeFixed(t *testing.T) {
	s, _, frames, clock := newTestStage(10)
	opts := s.opts
	sizes := make([]float64, len(s.Particles()))
	for i, p := range s.Particles() {
		if p.Size() < opts.Size.Min || p.Size() > opts.Size.Max {
			t.Errorf("particle %d size = %v, want within %v", i, p.Size(), opts.Size)
		}
		if p.Node().Scale != (Vec3{p.Size(), p.Size(), p.Size()}) {
			t.Errorf("particle %d scale = %v, want uniform %v", i, p.Node().Scale, p.Size())
		}
		sizes[i] = p.Size()
	}

	s.Start()
	for i := 0; i < 50; i++ {
		step(frames, clock, 100*time.Millisecond)
	}
	for i, p := range s.Particles() {
		if p.Size() != sizes[i] {
			t.Errorf("particle %d size changed from %v to %v", i, sizes[i], p.Size())
		}
	}
}

func TestParticleResetAtTop(t *testing.T) {
	s, _, _, _ := newTestStage(20)
	for i, p := range s.Particles() {
		p.Reset(false)
		pos := p.Node().Position
		if pos.Y != p.Size() {
			t.Errorf("particle %d y = %v, want %v", i, pos.Y, p.Size())
		}
		if math.Abs(pos.X) > s.Width()/2 {
			t.Errorf("particle %d x = %v, want within ±%v", i, pos.X, s.Width()/2)
		}
	}
}

func TestParticleResetRandomHeight(t *testing.T) {
	s, _, _, _ := newTestStage(50)
	for i, p := range s.Particles() {
		p.Reset(true)
		y := p.Node().Position.Y
		if y < p.Size() || y > s.Height()+p.Size() {
			t.Errorf("particle %d y = %v, want within [%v, %v]", i, y, p.Size(), s.Height()+p.Size())
		}
	}
}

func TestParticleResetRandomizes(t *testing.T) {
	d, _, _ := newTestDriver()
	opts := DefaultConfettiOptions()
	s := NewStage(d, testViewer, opts, nil, 0, 50)

	for i, p := range s.Particles() {
		p.Reset(true)
		if p.Speed() > -opts.Speed.Min || p.Speed() < -opts.Speed.Max {
			t.Errorf("particle %d speed = %v, want within [-%v, -%v]", i, p.Speed(), opts.Speed.Max, opts.Speed.Min)
		}
		if p.revolutionSpeed < opts.Revolution.Min || p.revolutionSpeed > opts.Revolution.Max {
			t.Errorf("particle %d revolution = %v, want within %v", i, p.revolutionSpeed, opts.Revolution)
		}
		if p.RevolutionAxis() > AxisZ {
			t.Errorf("particle %d axis = %v", i, p.RevolutionAxis())
		}
		r := p.Node().Rotation
		for _, a := range []float64{r.X, r.Y, r.Z} {
			if a < 0 || a > math.Pi/3 {
				t.Errorf("particle %d rotation = %v, want each within [0, π/3]", i, r)
				break
			}
		}
		if !slices.Contains(opts.Colors, p.Node().Color) {
			t.Errorf("particle %d color %v not from the palette", i, p.Node().Color)
		}
		if p.Completed() {
			t.Errorf("particle %d completed after reset", i)
		}
	}
}

func TestParticleRotationNotDeltaScaled(t *testing.T) {
	s, _, _, _ := newTestStage(1)
	s.Start()
	p := s.Particles()[0]
	p.Node().Position.Y = s.Height() // keep it well inside the view

	axis := p.RevolutionAxis()
	r0 := *p.Node().Rotation.component(axis)
	p.Update(0)
	r1 := *p.Node().Rotation.component(axis)
	p.Update(500 * time.Millisecond)
	r2 := *p.Node().Rotation.component(axis)

	if !approxEqual(r1-r0, p.revolutionSpeed, epsilon) {
		t.Errorf("rotation step at zero delta = %v, want %v", r1-r0, p.revolutionSpeed)
	}
	if !approxEqual(r2-r1, p.revolutionSpeed, epsilon) {
		t.Errorf("rotation step at 500ms = %v, want %v", r2-r1, p.revolutionSpeed)
	}
}

func TestParticleFallScaledByDelta(t *testing.T) {
	s, _, _, _ := newTestStage(1)
	s.Start()
	p := s.Particles()[0]
	p.Node().Position.Y = s.Height()

	p.Update(250 * time.Millisecond)
	want := s.Height() + p.Speed()*0.25
	if got := p.Node().Position.Y; !approxEqual(got, want, 1e-9) {
		t.Errorf("y = %v, want %v", got, want)
	}
}

func TestParticleRespawnsWhilePlaying(t *testing.T) {
	s, _, _, _ := newTestStage(1)
	s.Start()
	p := s.Particles()[0]
	p.Node().Position.Y = -s.Height() - p.Size() - 0.01

	p.Update(0)

	if p.Completed() {
		t.Error("particle completed while playing")
	}
	if p.Node().Position.Y != p.Size() {
		t.Errorf("respawned y = %v, want %v", p.Node().Position.Y, p.Size())
	}
	if x := p.Node().Position.X; x < -s.Width()/2 || x > s.Width()/2 {
		t.Errorf("respawned x = %v, want within ±%v", x, s.Width()/2)
	}
	if s.CompletedCount() != 0 {
		t.Errorf("CompletedCount = %d, want 0", s.CompletedCount())
	}
}

func TestParticleCompletesWhileStopping(t *testing.T) {
	s, _, _, _ := newTestStage(2)
	s.Start()
	s.Stop()
	p := s.Particles()[0]
	below := -s.Height() - p.Size() - 0.01
	p.Node().Position.Y = below

	p.Update(0)

	if !p.Completed() {
		t.Error("particle should complete below the floor while stopping")
	}
	if p.Node().Position.Y != below {
		t.Errorf("completed particle moved to %v", p.Node().Position.Y)
	}
	if s.CompletedCount() != 1 {
		t.Errorf("CompletedCount = %d, want 1", s.CompletedCount())
	}
}

func TestParticleAboveFloorKeepsFalling(t *testing.T) {
	s, _, _, _ := newTestStage(1)
	s.Start()
	s.Stop()
	p := s.Particles()[0]
	p.Node().Position.Y = -s.Height() // on the floor but not past it

	p.Update(0)

	if p.Completed() {
		t.Error("particle completed before passing the floor")
	}
}
