// Package cubefx is a small frame-driven animation runtime for [Ebitengine]
// and the confetti effect built on it.
//
// # Running the effect
//
// [Run] opens a window and drives a [Scene] from the ebiten loop:
//
//	scene := cubefx.NewScene()
//	game, err := cubefx.NewGame(scene, cubefx.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	game.Confetti.Start()
//	cubefx.Run(scene, cubefx.RunConfig{
//		Title: "Confetti", Width: 800, Height: 600,
//	})
//
// Programs that already own an [ebiten.Game] forward Layout to
// [Scene.Resize] and call [Scene.Update] and [Scene.Draw] themselves.
//
// # Driver and animations
//
// A [Driver] multiplexes per-frame updates across every registered
// [Animation]. It asks a [FrameRequester] for one callback at a time, and
// only while something is registered. [Scene] owns a [FrameQueue] and
// flushes it once per tick, so a driver built on it advances once per
// Update. Frame deltas come from a [Clock]; tests use [ManualClock].
//
// [Tween] is the general-purpose animation: an eased progress value over a
// duration, reported through callbacks. [TweenPosition] and friends apply
// tweens to node fields. Curves are plain [EaseFunc] values; see
// [PowerOut], [SineOut], [BackOut], [ElasticOut] and [EaseByName].
//
// # Confetti
//
// [Confetti] owns one or more [Stage] layers of falling, spinning
// [Particle] quads. Start fills the view at once; Stop lets every piece
// fall out of view before the stage detaches itself. Colors come from the
// active [Themes] palette through [Confetti.UpdateColors].
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]; children inherit their parent's transform and alpha. The
// scene [Camera] is a perspective viewer on the +Z axis.
//
// Scripts ([LoadScript]) and the remote package drive the effect through
// [Game.Apply]. Lifecycle events leave through an [EffectSink], such as the
// Donburi adapter in the [ecs] module.
//
// [Ebitengine]: https://ebitengine.org
// [ecs]: https://pkg.go.dev/github.com/phanxgames/cubefx/ecs
package cubefx
