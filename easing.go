package cubefx

import (
	"errors"
	"fmt"
	"math"
	"strings"

	fease "github.com/fogleman/ease"
	"github.com/tanema/gween/ease"
)

// EaseFunc maps normalized progress t in [0, 1] to eased progress.
// Behavior outside [0, 1] is unspecified; callers clamp.
type EaseFunc func(t float64) float64

// Linear is the identity curve, equal to PowerOut(1).
var Linear EaseFunc = func(t float64) float64 { return t }

// defaultBackOvershoot is the classic Penner overshoot constant.
const defaultBackOvershoot = 1.70158

func roundPower(power int) float64 {
	if power == 0 {
		return 1
	}
	return float64(power)
}

// PowerIn returns t^power. A power of 0 means linear.
func PowerIn(power int) EaseFunc {
	p := roundPower(power)
	return func(t float64) float64 {
		return math.Pow(t, p)
	}
}

// PowerOut returns 1 - |(t-1)^power|. A power of 0 means linear.
func PowerOut(power int) EaseFunc {
	p := roundPower(power)
	return func(t float64) float64 {
		return 1 - math.Abs(math.Pow(t-1, p))
	}
}

// PowerInOut accelerates with PowerIn over the first half and decelerates
// with PowerOut over the second.
func PowerInOut(power int) EaseFunc {
	p := roundPower(power)
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(t*2, p) / 2
		}
		return (1-math.Abs(math.Pow((t*2-1)-1, p)))/2 + 0.5
	}
}

// SineIn eases in along a quarter sine wave.
func SineIn() EaseFunc {
	return func(t float64) float64 {
		return 1 + math.Sin(math.Pi/2*t-math.Pi/2)
	}
}

// SineOut eases out along a quarter sine wave: sin(pi/2 * t).
func SineOut() EaseFunc {
	return func(t float64) float64 {
		return math.Sin(math.Pi / 2 * t)
	}
}

// SineInOut eases in and out along half a sine wave.
func SineInOut() EaseFunc {
	return func(t float64) float64 {
		return (1 + math.Sin(math.Pi*t-math.Pi/2)) / 2
	}
}

// BackIn pulls back by the overshoot s before accelerating.
// An overshoot of 0 selects 1.70158.
func BackIn(s float64) EaseFunc {
	if s == 0 {
		s = defaultBackOvershoot
	}
	return func(t float64) float64 {
		return t * t * ((s+1)*t - s)
	}
}

// BackOut overshoots the target by s before settling.
// An overshoot of 0 selects 1.70158.
func BackOut(s float64) EaseFunc {
	if s == 0 {
		s = defaultBackOvershoot
	}
	return func(t float64) float64 {
		u := t - 1
		return u*u*((s+1)*u+s) + 1
	}
}

// ElasticOut is a damped sine overshoot. A period of 0 selects 0.3 and a
// non-positive amplitude selects 1.
func ElasticOut(amplitude, period float64) EaseFunc {
	if amplitude <= 0 {
		amplitude = 1
	}
	if period == 0 {
		period = 0.3
	}
	p1 := math.Max(amplitude, 1)
	p2 := period / math.Min(amplitude, 1)
	p3 := p2 / (2 * math.Pi) * math.Asin(1/p1)
	if math.IsNaN(p3) {
		p3 = 0
	}
	p2 = 2 * math.Pi / p2
	return func(t float64) float64 {
		return p1*math.Pow(2, -10*t)*math.Sin((t-p3)*p2) + 1
	}
}

// GweenEase adapts a gween easing function to an EaseFunc by evaluating it
// over a unit change in unit time.
func GweenEase(fn ease.TweenFunc) EaseFunc {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// ErrUnknownEase is returned by EaseByName for unregistered names.
var ErrUnknownEase = errors.New("unknown ease")

// easeRegistry maps config names to curves. Families with their own formulas
// come first; the remaining names delegate to fogleman/ease and gween.
var easeRegistry = map[string]EaseFunc{
	"linear":       Linear,
	"power-in":     PowerIn(2),
	"power-out":    PowerOut(2),
	"power-in-out": PowerInOut(2),
	"sine-in":      SineIn(),
	"sine-out":     SineOut(),
	"sine-in-out":  SineInOut(),
	"back-in":      BackIn(0),
	"back-out":     BackOut(0),
	"elastic-out":  ElasticOut(1, 0.3),

	"cubic-in-out": fease.InOutCubic,
	"expo-out":     fease.OutExpo,
	"circ-out":     fease.OutCirc,
	"bounce-out":   fease.OutBounce,
	"bounce-in":    fease.InBounce,

	"quint-out":     GweenEase(ease.OutQuint),
	"bounce-in-out": GweenEase(ease.InOutBounce),
}

// EaseByName returns the registered curve for a config name. Names are
// case-insensitive.
func EaseByName(name string) (EaseFunc, error) {
	fn, ok := easeRegistry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return fn, nil
}
