package cubefx

import "time"

// TweenProgress is the snapshot handed to TweenConfig.OnUpdate.
type TweenProgress struct {
	// Elapsed is the accumulated time since the tween started.
	Elapsed time.Duration
	// Raw is Elapsed/Duration clamped to [0, 1].
	Raw float64
	// Value is Ease(Raw).
	Value float64
}

// TweenConfig configures a Tween.
type TweenConfig struct {
	// Duration of the tween. Zero or negative durations complete on the
	// first tick with Raw = 1.
	Duration time.Duration
	// Ease maps raw to eased progress. Nil selects Linear.
	Ease EaseFunc
	// OnUpdate is called every tick, including the final one.
	OnUpdate func(TweenProgress)
	// OnComplete is called once when the tween finishes naturally.
	OnComplete func()
}

// Tween interpolates over a duration and reports eased progress each frame.
// It registers itself with its Driver on construction and unregisters on
// completion or Stop.
type Tween struct {
	driver   *Driver
	cfg      TweenConfig
	progress TweenProgress
	done     bool
}

// NewTween creates a tween and starts it immediately on d.
func NewTween(d *Driver, cfg TweenConfig) *Tween {
	if cfg.Ease == nil {
		cfg.Ease = Linear
	}
	tw := &Tween{driver: d, cfg: cfg}
	tw.Start()
	return tw
}

// Start registers the tween with its driver. A completed tween stays
// completed; Start on it is a no-op.
func (tw *Tween) Start() {
	if tw.done {
		return
	}
	tw.driver.Register(tw)
}

// Stop unregisters the tween without calling OnComplete.
func (tw *Tween) Stop() {
	tw.driver.Unregister(tw)
}

// Update advances the tween by delta.
func (tw *Tween) Update(delta time.Duration) {
	if tw.done {
		return
	}
	tw.progress.Elapsed += delta

	raw := 1.0
	if tw.cfg.Duration > 0 {
		raw = float64(tw.progress.Elapsed) / float64(tw.cfg.Duration)
		if raw > 1 {
			raw = 1
		} else if raw < 0 {
			raw = 0
		}
	}
	tw.progress.Raw = raw
	tw.progress.Value = tw.cfg.Ease(raw)

	if tw.cfg.OnUpdate != nil {
		tw.cfg.OnUpdate(tw.progress)
	}

	if tw.progress.Elapsed >= tw.cfg.Duration {
		tw.done = true
		if tw.cfg.OnComplete != nil {
			tw.cfg.OnComplete()
		}
		tw.driver.Unregister(tw)
	}
}

// Done reports whether the tween has finished naturally.
func (tw *Tween) Done() bool {
	return tw.done
}

// Progress returns the most recent progress snapshot.
func (tw *Tween) Progress() TweenProgress {
	return tw.progress
}
