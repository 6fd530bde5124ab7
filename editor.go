package cubefx

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL is an editor slider position: hue in degrees [0, 360], saturation
// and lightness in percent [0, 100].
type HSL struct {
	H, S, L float64
}

// Color converts the slider position to an opaque Color. Components are
// rounded to whole degrees and percents first.
func (h HSL) Color() Color {
	c := colorful.Hsl(math.Round(h.H), math.Round(h.S)/100, math.Round(h.L)/100)
	return colorFromColorful(c.Clamped())
}

// HSLFromHex returns the slider position for a packed 0xRRGGBB color.
func HSLFromHex(hex uint32) HSL {
	hh, s, l := RGB(hex).colorful().Hsl()
	return HSL{H: hh, S: s * 100, L: l * 100}
}

// editorTweenDuration is how long the sliders take to glide to a newly
// selected color.
const editorTweenDuration = 200 * time.Millisecond

// ThemeEditor edits one key of the selected theme at a time through an
// HSL slider triple. Every committed edit is written back to the theme and
// re-applied, so listeners such as Confetti.UpdateColors see it at once.
type ThemeEditor struct {
	driver *Driver
	themes *Themes
	key    FaceKey
	hsl    HSL
	tween  *Tween
}

// NewThemeEditor creates an editor on themes. The right face is selected
// initially; the sliders are not moved until Select.
func NewThemeEditor(d *Driver, themes *Themes) *ThemeEditor {
	return &ThemeEditor{driver: d, themes: themes, key: FaceRight}
}

// Select makes key the edited color and moves the sliders to its current
// value. With animate the sliders glide there over 200ms with a sine-out
// curve and the color is committed when they arrive; otherwise both happen
// immediately.
func (e *ThemeEditor) Select(key FaceKey, animate bool) {
	e.key = key
	target := HSLFromHex(e.themes.Colors()[key])

	if e.tween != nil {
		e.tween.Stop()
		e.tween = nil
	}

	if !animate {
		e.hsl = target
		e.commit()
		return
	}

	from := e.hsl
	e.tween = NewTween(e.driver, TweenConfig{
		Duration: editorTweenDuration,
		Ease:     SineOut(),
		OnUpdate: func(p TweenProgress) {
			e.hsl = HSL{
				H: lerp(from.H, target.H, p.Value),
				S: lerp(from.S, target.S, p.Value),
				L: lerp(from.L, target.L, p.Value),
			}
		},
		OnComplete: func() {
			e.tween = nil
			e.commit()
		},
	})
}

// SetHSL moves the sliders and commits the resulting color to the edited
// key. A running glide is cancelled.
func (e *ThemeEditor) SetHSL(h HSL) {
	if e.tween != nil {
		e.tween.Stop()
		e.tween = nil
	}
	e.hsl = h
	e.commit()
}

// Reset restores the selected theme's defaults and glides the sliders to
// the edited key's restored color.
func (e *ThemeEditor) Reset() error {
	if err := e.themes.Reset(); err != nil {
		return err
	}
	e.Select(e.key, true)
	return nil
}

// Key returns the edited face key.
func (e *ThemeEditor) Key() FaceKey {
	return e.key
}

// HSL returns the current slider position.
func (e *ThemeEditor) HSL() HSL {
	return e.hsl
}

// Animating reports whether the sliders are gliding.
func (e *ThemeEditor) Animating() bool {
	return e.tween != nil
}

func (e *ThemeEditor) commit() {
	if e.themes.Theme() == "" {
		return
	}
	e.themes.SetColor(e.key, e.hsl.Color().Hex())
	_ = e.themes.SetTheme("", true)
}
