package cubefx

import "time"

// StageState is the play cycle of a Stage.
type StageState uint8

const (
	StageIdle     StageState = iota // not registered with the driver
	StagePlaying                    // particles respawn when they leave the view
	StageStopping                   // particles settle as they leave the view
)

// String returns the state name.
func (s StageState) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StagePlaying:
		return "playing"
	case StageStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Stage is a fixed pool of particles sharing one option set and one
// play/stop cycle. It sits at a fixed distance from the origin and sizes
// itself to the area visible at that depth.
//
// Stopping is graceful: after Stop the stage keeps updating until every
// particle has fallen out of view, then unregisters and runs the stop
// continuation.
type Stage struct {
	driver   *Driver
	viewer   Viewer
	opts     *ConfettiOptions
	material *Material

	distance float64
	holder   *Node
	object   *Node

	particles []*Particle
	width     float64
	height    float64

	state     StageState
	completed int
	done      func()
	last      time.Time
}

// NewStage creates a stage of count particles at distance from the origin
// (positive towards the viewer). opts and mat are shared, not copied.
func NewStage(d *Driver, v Viewer, opts *ConfettiOptions, mat *Material, distance float64, count int) *Stage {
	if mat == nil {
		mat = DefaultMaterial()
	}
	s := &Stage{
		driver:   d,
		viewer:   v,
		opts:     opts,
		material: mat,
		distance: distance,
		holder:   NewContainer("confetti-stage"),
		object:   NewContainer("confetti-particles"),
	}
	s.holder.AddChild(s.object)
	s.OnViewportChange()

	s.particles = make([]*Particle, count)
	for i := range s.particles {
		s.particles[i] = newParticle(s)
	}
	return s
}

// Start begins a play cycle: every particle is reset at a random height so
// the effect fills the view immediately, then the stage registers with its
// driver. Start while stopping resumes play and drops the pending
// continuation.
func (s *Stage) Start() {
	s.last = s.driver.Now()
	s.state = StagePlaying
	s.completed = 0
	s.done = nil
	for _, p := range s.particles {
		p.Reset(true)
	}
	s.driver.Register(s)
}

// Stop requests a graceful stop without a continuation.
func (s *Stage) Stop() {
	s.StopWith(nil)
}

// StopWith requests a graceful stop. done runs once, from the frame in which
// the last particle settles. On an idle stage done runs immediately. A
// second request while stopping replaces the continuation.
func (s *Stage) StopWith(done func()) {
	switch s.state {
	case StageIdle:
		if done != nil {
			done()
		}
	case StagePlaying:
		s.state = StageStopping
		s.completed = 0
		s.done = done
	case StageStopping:
		s.done = done
	}
}

// Update advances every unsettled particle. The elapsed time is measured
// against the driver clock since the stage's previous update, so the first
// frame after Start only covers the time since Start.
func (s *Stage) Update(delta time.Duration) {
	now := s.driver.Now()
	dt := now.Sub(s.last)
	s.last = now

	for _, p := range s.particles {
		if !p.completed {
			p.Update(dt)
		}
	}

	if s.state == StageStopping && s.completed == len(s.particles) {
		s.finish()
	}
}

func (s *Stage) finish() {
	s.state = StageIdle
	s.driver.Unregister(s)
	done := s.done
	s.done = nil
	if done != nil {
		done()
	}
}

// OnViewportChange recomputes the visible width and height at the stage's
// depth and repositions its particle container. Call it whenever the
// viewport size or zoom changes.
func (s *Stage) OnViewportChange() {
	s.height = VisibleHeight(s.viewer, s.distance)
	s.width = s.height * s.viewer.Aspect()
	s.object.SetPosition(0, s.height/2, s.distance)
}

// State returns the current play state.
func (s *Stage) State() StageState {
	return s.state
}

// Playing reports whether particles respawn when they leave the view.
func (s *Stage) Playing() bool {
	return s.state == StagePlaying
}

// Width returns the visible width at the stage's depth.
func (s *Stage) Width() float64 {
	return s.width
}

// Height returns the visible height at the stage's depth.
func (s *Stage) Height() float64 {
	return s.height
}

// Distance returns the stage's offset from the origin towards the viewer.
func (s *Stage) Distance() float64 {
	return s.distance
}

// CompletedCount returns how many particles have settled since the last
// stop request.
func (s *Stage) CompletedCount() int {
	return s.completed
}

// Particles returns the particle pool backing the stage. Callers must treat it as read-only.
func (s *Stage) Particles() []*Particle {
	return s.particles
}

// Node returns the stage's root node, the one attached to the scene.
func (s *Stage) Node() *Node {
	return s.holder
}
