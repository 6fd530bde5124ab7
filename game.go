package cubefx

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Game wires a confetti effect, the theme table and its editor to a scene,
// and applies Commands to them. It is what scripts and the remote
// controller drive.
type Game struct {
	Scene    *Scene
	Confetti *Confetti
	Themes   *Themes
	Editor   *ThemeEditor

	zoomEase     EaseFunc
	zoomDuration time.Duration
	themeFade    time.Duration
	log          *slog.Logger

	shown      Palette // palette currently on screen, mid-fade included
	shownTheme string
	fade       *Tween
}

// NewGame builds the effect described by cfg on scene and applies the
// configured theme.
func NewGame(scene *Scene, cfg Config) (*Game, error) {
	cc, err := cfg.ConfettiConfig()
	if err != nil {
		return nil, err
	}
	zoomEase, err := EaseByName(cfg.Camera.ZoomEase)
	if err != nil {
		return nil, err
	}

	cfg.ApplyCamera(scene.Camera())

	g := &Game{
		Scene:        scene,
		Confetti:     NewConfetti(scene.Driver(), scene, scene.Camera(), cc),
		Themes:       NewThemes(),
		zoomEase:     zoomEase,
		zoomDuration: cfg.Camera.ZoomDuration,
		themeFade:    cfg.ThemeFade,
	}
	g.Editor = NewThemeEditor(scene.Driver(), g.Themes)

	scene.OnResize(g.Confetti.OnViewportChange)
	g.Themes.OnChange(g.applyPalette)

	if cfg.Theme != "" {
		if err := g.Themes.SetTheme(cfg.Theme, true); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// SetLogger sets the logger for the game and its confetti.
func (g *Game) SetLogger(log *slog.Logger) {
	g.log = log
	g.Confetti.SetLogger(log)
}

// applyPalette shows p. Switching to another theme crossfades from the
// palette on screen when a theme fade is configured; edits to the current
// theme apply at once. A new palette replaces a running fade, which then
// starts from the colors it had reached.
func (g *Game) applyPalette(p Palette) {
	if g.fade != nil {
		g.fade.Stop()
		g.fade = nil
	}
	from := g.shown
	theme := g.Themes.Theme()
	switched := theme != g.shownTheme
	g.shownTheme = theme
	if g.themeFade <= 0 || from == nil || !switched {
		g.showPalette(p)
		return
	}
	var fade *Tween
	fade = NewTween(g.Scene.Driver(), TweenConfig{
		Duration: g.themeFade,
		Ease:     SineInOut(),
		OnUpdate: func(tp TweenProgress) {
			g.showPalette(from.Blend(p, tp.Value))
		},
		OnComplete: func() {
			g.showPalette(p)
			if g.fade == fade {
				g.fade = nil
			}
		},
	})
	g.fade = fade
}

// Fading reports whether a theme crossfade is in progress.
func (g *Game) Fading() bool {
	return g.fade != nil
}

func (g *Game) showPalette(p Palette) {
	g.shown = p
	if err := g.Confetti.UpdateColors(p); err != nil && g.log != nil {
		g.log.LogAttrs(context.Background(), slog.LevelWarn, "palette not applied",
			slog.String("theme", g.Themes.Theme()),
			slog.Any("error", err),
		)
	}
	if bg, ok := p[FaceBackground]; ok {
		g.Scene.ClearColor = RGB(bg)
	}
}

// Apply executes one command. Wait commands are a no-op here; scripts
// handle them.
func (g *Game) Apply(cmd Command) error {
	switch cmd.Action {
	case ActionStart:
		g.Confetti.Start()
	case ActionStop:
		g.Confetti.Stop()
	case ActionWait:
	case ActionTheme:
		return g.Themes.SetTheme(cmd.Theme, false)
	case ActionZoom:
		if cmd.Zoom <= 0 {
			return fmt.Errorf("zoom %v must be positive", cmd.Zoom)
		}
		g.Scene.Camera().ZoomTo(g.Scene.Driver(), cmd.Zoom, g.zoomDuration, g.zoomEase)
	case ActionColors:
		return g.applyColors(cmd.Colors)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Action)
	}
	return nil
}

// applyColors edits the selected theme and re-applies it. Every entry is
// checked before any is written.
func (g *Game) applyColors(colors map[FaceKey]string) error {
	parsed := make(Palette, len(colors))
	for key, hex := range colors {
		if !slices.Contains(FaceKeys, key) {
			return fmt.Errorf("unknown face key %q", key)
		}
		c, err := ParseHex(hex)
		if err != nil {
			return fmt.Errorf("color %s: %w", key, err)
		}
		parsed[key] = c.Hex()
	}
	for key, hex := range parsed {
		g.Themes.SetColor(key, hex)
	}
	return g.Themes.SetTheme("", true)
}
