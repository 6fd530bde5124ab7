package cubefx

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// FaceKey names a colorable part of the cube: the six faces plus the piece
// body (P) and the background (G).
type FaceKey string

const (
	FaceUp         FaceKey = "U"
	FaceDown       FaceKey = "D"
	FaceFront      FaceKey = "F"
	FaceRight      FaceKey = "R"
	FaceBack       FaceKey = "B"
	FaceLeft       FaceKey = "L"
	FacePiece      FaceKey = "P"
	FaceBackground FaceKey = "G"
)

// FaceKeys lists every key a complete Palette carries.
var FaceKeys = []FaceKey{FaceUp, FaceDown, FaceFront, FaceRight, FaceBack, FaceLeft, FacePiece, FaceBackground}

// Palette maps face keys to packed 0xRRGGBB colors.
type Palette map[FaceKey]uint32

// Clone returns an independent copy of p.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Missing returns the keys of want that p lacks, in want order.
func (p Palette) Missing(want []FaceKey) []FaceKey {
	var missing []FaceKey
	for _, k := range want {
		if _, ok := p[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Blend crossfades every key present in both palettes in HCL space.
// t = 0 returns p's colors and t = 1 returns to's.
func (p Palette) Blend(to Palette, t float64) Palette {
	out := make(Palette, len(p))
	for k, from := range p {
		target, ok := to[k]
		if !ok {
			out[k] = from
			continue
		}
		a := RGB(from).colorful()
		b := RGB(target).colorful()
		out[k] = colorFromColorful(a.BlendHcl(b, t).Clamped()).Hex()
	}
	return out
}

func colorFromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// DefaultThemes returns fresh copies of the built-in themes.
func DefaultThemes() map[string]Palette {
	return map[string]Palette{
		"cube": {
			FaceUp: 0xfff7ff, FaceDown: 0xffef48, FaceFront: 0xef3923, FaceRight: 0x41aac8,
			FaceBack: 0xff8c0a, FaceLeft: 0x82ca38, FacePiece: 0x08101a, FaceBackground: 0xd1d5db,
		},
		"erno": {
			FaceUp: 0xffffff, FaceDown: 0xffd500, FaceFront: 0xc41e3a, FaceRight: 0x0051ba,
			FaceBack: 0xff5800, FaceLeft: 0x009e60, FacePiece: 0x08101a, FaceBackground: 0x8abdff,
		},
		"dust": {
			FaceUp: 0xfff6eb, FaceDown: 0xe7c48d, FaceFront: 0x8f253e, FaceRight: 0x607e69,
			FaceBack: 0xbe6f62, FaceLeft: 0x849f5d, FacePiece: 0x08101a, FaceBackground: 0xe7c48d,
		},
		"camo": {
			FaceUp: 0xfff6eb, FaceDown: 0xbfb672, FaceFront: 0x37241c, FaceRight: 0x718456,
			FaceBack: 0x805831, FaceLeft: 0x37431d, FacePiece: 0x08101a, FaceBackground: 0xbfb672,
		},
		"rain": {
			FaceUp: 0xfafaff, FaceDown: 0xedb92d, FaceFront: 0xce2135, FaceRight: 0x449a89,
			FaceBack: 0xec582f, FaceLeft: 0xa3a947, FacePiece: 0x08101a, FaceBackground: 0x87b9ac,
		},
	}
}

// ErrUnknownTheme is returned when selecting a theme that does not exist.
var ErrUnknownTheme = errors.New("unknown theme")

// Themes holds the editable color table of every theme and fans the active
// palette out to listeners whenever it is applied.
type Themes struct {
	defaults  map[string]Palette
	colors    map[string]Palette
	current   string
	listeners []func(Palette)
}

// NewThemes creates a theme table seeded with DefaultThemes. No theme is
// selected until SetTheme is called.
func NewThemes() *Themes {
	defaults := DefaultThemes()
	colors := make(map[string]Palette, len(defaults))
	for name, p := range defaults {
		colors[name] = p.Clone()
	}
	return &Themes{defaults: defaults, colors: colors}
}

// OnChange registers fn to receive the active palette each time it is
// applied.
func (t *Themes) OnChange(fn func(Palette)) {
	t.listeners = append(t.listeners, fn)
}

// SetTheme selects and applies a theme. Selecting the current theme is a
// no-op unless force is set. An empty name re-applies the current theme.
func (t *Themes) SetTheme(name string, force bool) error {
	if name == t.current && !force {
		return nil
	}
	if name != "" {
		if _, ok := t.colors[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
		t.current = name
	}
	if t.current == "" {
		return fmt.Errorf("%w: none selected", ErrUnknownTheme)
	}
	colors := t.Colors()
	for _, fn := range t.listeners {
		fn(colors)
	}
	return nil
}

// Theme returns the selected theme name.
func (t *Themes) Theme() string {
	return t.current
}

// Names returns the theme names in sorted order.
func (t *Themes) Names() []string {
	names := make([]string, 0, len(t.colors))
	for name := range t.colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Colors returns a copy of the selected theme's palette, or nil when no theme
// is selected.
func (t *Themes) Colors() Palette {
	p, ok := t.colors[t.current]
	if !ok {
		return nil
	}
	return p.Clone()
}

// SetColor edits one key of the selected theme without applying it.
func (t *Themes) SetColor(key FaceKey, hex uint32) {
	if p, ok := t.colors[t.current]; ok {
		p[key] = hex
	}
}

// Reset restores the selected theme's defaults and applies them.
func (t *Themes) Reset() error {
	def, ok := t.defaults[t.current]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, t.current)
	}
	t.colors[t.current] = def.Clone()
	return t.SetTheme("", true)
}
