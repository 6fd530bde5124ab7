package cubefx

import (
	"math"
	"math/rand/v2"
	"time"
)

// ConfettiOptions is the option set shared by every stage and particle of
// one Confetti. Stages hold it by reference, so palette edits made through
// Confetti.UpdateColors are seen on the next particle reset.
type ConfettiOptions struct {
	// Speed is the fall speed range in world units per second.
	Speed Range
	// Revolution is the rotation added per update, in radians. It is not
	// scaled by the frame delta.
	Revolution Range
	// Size is the edge length range of a particle quad.
	Size Range
	// Colors is the palette particles pick from on every reset.
	Colors []Color
}

// DefaultConfettiOptions returns the stock confetti look.
func DefaultConfettiOptions() *ConfettiOptions {
	return &ConfettiOptions{
		Speed:      Range{Min: 1.1, Max: 2.2},
		Revolution: Range{Min: 0.01, Max: 0.05},
		Size:       Range{Min: 0.1, Max: 0.15},
		Colors: []Color{
			RGB(0x41aac8),
			RGB(0x82ca38),
			RGB(0xffef48),
			RGB(0xef3923),
			RGB(0xff8c0a),
		},
	}
}

// Particle is a single falling, spinning quad owned by a Stage. Particles
// are created once per pool slot and reset, never recreated.
type Particle struct {
	stage *Stage
	node  *Node

	size            float64
	speed           float64 // world units per second, negative (falling)
	revolutionSpeed float64
	revolutionAxis  Axis
	completed       bool
}

// newParticle creates a particle, attaches its quad to the stage and picks
// its size once.
func newParticle(s *Stage) *Particle {
	p := &Particle{
		stage: s,
		node:  NewQuad("particle", s.material),
		size:  s.opts.Size.Random(),
	}
	p.node.SetScale(p.size, p.size, p.size)
	s.object.AddChild(p.node)
	return p
}

// Reset respawns the particle. With randomHeight the particle starts
// anywhere in the visible area; otherwise it starts just above the top edge
// so re-entry is seamless.
func (p *Particle) Reset(randomHeight bool) {
	p.completed = false

	opts := p.stage.opts
	if n := len(opts.Colors); n > 0 {
		p.node.Color = opts.Colors[rand.IntN(n)]
	}

	p.speed = -opts.Speed.Random()

	w, h := p.stage.width, p.stage.height
	p.node.Position.X = Range{Min: -w / 2, Max: w / 2}.Random()
	if randomHeight {
		p.node.Position.Y = Range{Min: p.size, Max: h + p.size}.Random()
	} else {
		p.node.Position.Y = p.size
	}

	p.revolutionSpeed = opts.Revolution.Random()
	p.revolutionAxis = Axis(rand.IntN(3))
	p.node.Rotation = Vec3{
		X: rand.Float64() * math.Pi / 3,
		Y: rand.Float64() * math.Pi / 3,
		Z: rand.Float64() * math.Pi / 3,
	}
	p.node.MarkDirty()
}

// Update moves the particle down by speed*delta and spins it by the fixed
// revolution speed. Once it drops below the visible floor it respawns while
// the stage plays, and completes otherwise.
func (p *Particle) Update(delta time.Duration) {
	p.node.Position.Y += p.speed * delta.Seconds()
	*p.node.Rotation.component(p.revolutionAxis) += p.revolutionSpeed
	p.node.MarkDirty()

	if p.node.Position.Y < -p.stage.height-p.size {
		if p.stage.state == StagePlaying {
			p.Reset(false)
		} else {
			p.complete()
		}
	}
}

func (p *Particle) complete() {
	p.completed = true
	p.stage.completed++
}

// Completed reports whether the particle has settled after a stop request.
func (p *Particle) Completed() bool {
	return p.completed
}

// Node returns the particle's quad.
func (p *Particle) Node() *Node {
	return p.node
}

// Size returns the particle's edge length.
func (p *Particle) Size() float64 {
	return p.size
}

// Speed returns the current fall speed in world units per second (negative).
func (p *Particle) Speed() float64 {
	return p.speed
}

// RevolutionAxis returns the axis the particle spins around.
func (p *Particle) RevolutionAxis() Axis {
	return p.revolutionAxis
}
