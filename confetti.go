package cubefx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Host is the part of the scene a Confetti attaches its stages to.
type Host interface {
	Attach(n *Node)
	Detach(n *Node)
}

// EffectSink is the interface for optional effect lifecycle integration.
// When set on a Confetti, lifecycle events are forwarded to it.
type EffectSink interface {
	EmitEffectEvent(event EffectEvent)
}

// EffectSinks fans events out to several sinks in order.
type EffectSinks []EffectSink

// EmitEffectEvent forwards event to every sink.
func (s EffectSinks) EmitEffectEvent(event EffectEvent) {
	for _, sink := range s {
		sink.EmitEffectEvent(event)
	}
}

// EffectEventType identifies a kind of effect lifecycle event.
type EffectEventType uint8

const (
	EffectStarted EffectEventType = iota // fires once per Start that was not ignored
	StageSettled                         // fires when one stage finishes a graceful stop
	EffectStopped                        // fires when the last active stage settles
)

// String returns the event name.
func (t EffectEventType) String() string {
	switch t {
	case EffectStarted:
		return "started"
	case StageSettled:
		return "stage-settled"
	case EffectStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// EffectEvent carries effect lifecycle data.
type EffectEvent struct {
	Type EffectEventType
	// Stage is the index of the settled stage for StageSettled, -1 otherwise.
	Stage int
	// Active is the number of stages still started after the event.
	Active int
}

// StageConfig places one stage of a Confetti.
type StageConfig struct {
	// Distance is the offset from the origin towards the viewer.
	Distance float64 `yaml:"distance"`
	// Count is the fixed particle pool size.
	Count int `yaml:"count"`
}

// ConfettiConfig configures a Confetti.
type ConfettiConfig struct {
	// Options is the shared option set. Nil selects DefaultConfettiOptions.
	Options *ConfettiOptions
	// Stages lists the stages front to back. Empty selects the stock
	// front (distance 1, 20 particles) and back (distance -1, 30 particles)
	// layers.
	Stages []StageConfig
	// Material is the shared particle look. Nil selects DefaultMaterial.
	Material *Material
}

// DefaultStages returns the stock front and back layers.
func DefaultStages() []StageConfig {
	return []StageConfig{
		{Distance: 1, Count: 20},
		{Distance: -1, Count: 30},
	}
}

// confettiFaces maps palette slots to face keys.
var confettiFaces = []FaceKey{FaceDown, FaceFront, FaceRight, FaceBack, FaceLeft}

// ErrMissingColor is returned by UpdateColors when the palette lacks a key
// the confetti draws from.
var ErrMissingColor = errors.New("missing palette color")

// Confetti owns a set of stages and exposes a single start/stop surface for
// them. Stopping is graceful and asynchronous: each stage detaches itself
// once its particles have settled, and the confetti only tracks how many
// stages are still started.
type Confetti struct {
	driver   *Driver
	host     Host
	opts     *ConfettiOptions
	material *Material
	stages   []*Stage
	active   int

	sink EffectSink
	log  *slog.Logger
}

// NewConfetti creates the stages described by cfg. Nothing is attached to
// host until Start.
func NewConfetti(d *Driver, host Host, v Viewer, cfg ConfettiConfig) *Confetti {
	opts := cfg.Options
	if opts == nil {
		opts = DefaultConfettiOptions()
	}
	mat := cfg.Material
	if mat == nil {
		mat = DefaultMaterial()
	}
	layout := cfg.Stages
	if len(layout) == 0 {
		layout = DefaultStages()
	}
	c := &Confetti{
		driver:   d,
		host:     host,
		opts:     opts,
		material: mat,
		stages:   make([]*Stage, len(layout)),
	}
	for i, sc := range layout {
		c.stages[i] = NewStage(d, v, opts, mat, sc.Distance, sc.Count)
	}
	return c
}

// SetEventSink sets the optional lifecycle event sink.
func (c *Confetti) SetEventSink(sink EffectSink) {
	c.sink = sink
}

// SetLogger sets the logger for lifecycle debug records. A nil logger
// disables them.
func (c *Confetti) SetLogger(log *slog.Logger) {
	c.log = log
}

// Start attaches and starts every stage. It is a no-op while any stage is
// still started, including stages that are stopping.
func (c *Confetti) Start() {
	if c.active > 0 {
		return
	}
	for _, s := range c.stages {
		c.host.Attach(s.Node())
		s.Start()
		c.active++
	}
	c.debug("confetti started")
	c.emit(EffectEvent{Type: EffectStarted, Stage: -1, Active: c.active})
}

// Stop asks every started stage to stop gracefully. Each stage detaches
// from the host once its particles have settled. Stages that already
// settled are left alone, so repeated calls never settle a stage twice. It
// is a no-op when nothing is started.
func (c *Confetti) Stop() {
	if c.active == 0 {
		return
	}
	c.debug("confetti stopping")
	for i, s := range c.stages {
		if s.State() == StageIdle {
			continue
		}
		s.StopWith(func() {
			c.host.Detach(s.Node())
			c.active--
			c.debug("confetti stage settled", slog.Int("stage", i))
			c.emit(EffectEvent{Type: StageSettled, Stage: i, Active: c.active})
			if c.active == 0 {
				c.emit(EffectEvent{Type: EffectStopped, Stage: -1, Active: 0})
			}
		})
	}
}

// UpdateColors rewrites the shared palette in place from the D, F, R, B and
// L keys of p. Stages and particles see the new colors on their next reset.
// If any of those keys is missing the palette is left untouched.
func (c *Confetti) UpdateColors(p Palette) error {
	if missing := p.Missing(confettiFaces); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingColor, missing)
	}
	for i := range c.opts.Colors {
		c.opts.Colors[i] = RGB(p[confettiFaces[i%len(confettiFaces)]])
	}
	return nil
}

// OnViewportChange recomputes the bounds of every stage.
func (c *Confetti) OnViewportChange() {
	for _, s := range c.stages {
		s.OnViewportChange()
	}
}

// Active returns the number of stages currently started.
func (c *Confetti) Active() int {
	return c.active
}

// Stages returns the stages in configuration order. The slice is shared; do not modify it.
func (c *Confetti) Stages() []*Stage {
	return c.stages
}

// Options returns the shared option set.
func (c *Confetti) Options() *ConfettiOptions {
	return c.opts
}

func (c *Confetti) emit(e EffectEvent) {
	if c.sink != nil {
		c.sink.EmitEffectEvent(e)
	}
}

func (c *Confetti) debug(msg string, attrs ...slog.Attr) {
	if c.log == nil {
		return
	}
	attrs = append(attrs, slog.Int("active", c.active))
	c.log.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
