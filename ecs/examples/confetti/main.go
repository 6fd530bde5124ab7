// Confetti drives the confetti effect from a Donburi world. Lifecycle events
// reach ECS subscribers through the Donburi sink; the subscriber switches
// theme and restarts the effect once every stage has settled.
package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/phanxgames/cubefx"
	"github.com/phanxgames/cubefx/ecs"
	"github.com/yohamta/donburi"
)

const (
	windowTitle = "cubefx - Confetti (Donburi)"
	screenW     = 800
	screenH     = 600
	playFor     = 4 * time.Second
)

type demo struct {
	world  donburi.World
	game   *cubefx.Game
	log    *slog.Logger
	themes []string
	next   int
	since  time.Time
}

func main() {
	scene := cubefx.NewScene()
	scene.Resize(screenW, screenH)

	cfg := cubefx.DefaultConfig()
	cfg.ThemeFade = 600 * time.Millisecond
	game, err := cubefx.NewGame(scene, cfg)
	if err != nil {
		log.Fatal(err)
	}

	d := &demo{
		world:  donburi.NewWorld(),
		game:   game,
		log:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
		themes: game.Themes.Names(),
		since:  time.Now(),
	}
	game.Confetti.SetEventSink(ecs.NewDonburiSink(d.world))
	ecs.EffectEventType.Subscribe(d.world, d.onEffect)

	game.Confetti.Start()
	scene.SetUpdateFunc(d.update)

	if err := cubefx.Run(scene, cubefx.RunConfig{
		Title:     windowTitle,
		Width:     screenW,
		Height:    screenH,
		ShowFPS:   true,
		Resizable: true,
	}); err != nil {
		log.Fatal(err)
	}
}

func (d *demo) update() error {
	ecs.EffectEventType.ProcessEvents(d.world)
	c := d.game.Confetti
	if time.Since(d.since) > playFor && c.Stages()[0].Playing() {
		c.Stop()
	}
	return nil
}

func (d *demo) onEffect(w donburi.World, e cubefx.EffectEvent) {
	d.log.Info("effect", slog.String("event", e.Type.String()), slog.Int("active", e.Active))
	if e.Type != cubefx.EffectStopped {
		return
	}
	if err := d.game.Themes.SetTheme(d.themes[d.next], false); err != nil {
		d.log.Warn("theme", slog.Any("error", err))
	}
	d.next = (d.next + 1) % len(d.themes)
	d.game.Confetti.Start()
	d.since = time.Now()
}
