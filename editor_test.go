package cubefx

import (
	"testing"
	"time"
)

func TestHSLColor(t *testing.T) {
	tests := []struct {
		hsl  HSL
		want uint32
	}{
		{HSL{0, 100, 50}, 0xff0000},
		{HSL{120, 100, 50}, 0x00ff00},
		{HSL{240, 100, 50}, 0x0000ff},
		{HSL{0, 0, 100}, 0xffffff},
		{HSL{0, 0, 0}, 0x000000},
		{HSL{119.6, 99.8, 50.2}, 0x00ff00},
	}
	for _, tt := range tests {
		if got := tt.hsl.Color().Hex(); got != tt.want {
			t.Errorf("%+v.Color() = %06x, want %06x", tt.hsl, got, tt.want)
		}
	}
}

func TestHSLFromHex(t *testing.T) {
	h := HSLFromHex(0xff0000)
	if !approxEqual(h.H, 0, 1e-9) || !approxEqual(h.S, 100, 1e-9) || !approxEqual(h.L, 50, 1e-9) {
		t.Errorf("HSLFromHex(ff0000) = %+v, want {0 100 50}", h)
	}
	for _, hex := range []uint32{0x41aac8, 0xef3923, 0x82ca38} {
		if got := HSLFromHex(hex).Color().Hex(); !hexClose(got, hex, 3) {
			t.Errorf("round trip %06x = %06x", hex, got)
		}
	}
}

func newTestEditor(t *testing.T) (*ThemeEditor, *Themes, *FrameQueue, *ManualClock) {
	t.Helper()
	d, frames, clock := newTestDriver()
	th := NewThemes()
	if err := th.SetTheme("cube", false); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	return NewThemeEditor(d, th), th, frames, clock
}

func TestThemeEditorDefaultKey(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	if e.Key() != FaceRight {
		t.Errorf("Key = %q, want R", e.Key())
	}
}

func TestThemeEditorSelectImmediate(t *testing.T) {
	e, th, _, _ := newTestEditor(t)
	applied := 0
	th.OnChange(func(Palette) { applied++ })

	e.Select(FaceFront, false)

	if e.Animating() {
		t.Error("immediate select should not animate")
	}
	want := HSLFromHex(0xef3923)
	if e.HSL() != want {
		t.Errorf("HSL = %+v, want %+v", e.HSL(), want)
	}
	if applied != 1 {
		t.Errorf("applications = %d, want 1", applied)
	}
	if got := th.Colors()[FaceFront]; !hexClose(got, 0xef3923, 3) {
		t.Errorf("F = %06x, want close to ef3923", got)
	}
}

func TestThemeEditorSelectAnimated(t *testing.T) {
	e, th, frames, clock := newTestEditor(t)
	e.Select(FaceRight, false)
	start := e.HSL()

	applied := 0
	th.OnChange(func(Palette) { applied++ })

	e.Select(FaceLeft, true)
	if !e.Animating() {
		t.Fatal("animated select should animate")
	}
	if e.Key() != FaceLeft {
		t.Errorf("Key = %q, want L", e.Key())
	}

	step(frames, clock, 100*time.Millisecond)
	mid := e.HSL()
	target := HSLFromHex(0x82ca38)
	if mid == start || mid == target {
		t.Errorf("sliders halfway = %+v, want between %+v and %+v", mid, start, target)
	}
	if applied != 0 {
		t.Errorf("applications mid-glide = %d, want 0", applied)
	}

	step(frames, clock, 100*time.Millisecond)
	if e.Animating() {
		t.Error("glide should finish after 200ms")
	}
	got := e.HSL()
	if !approxEqual(got.H, target.H, 1e-9) || !approxEqual(got.S, target.S, 1e-9) || !approxEqual(got.L, target.L, 1e-9) {
		t.Errorf("HSL = %+v, want %+v", got, target)
	}
	if applied != 1 {
		t.Errorf("applications = %d, want 1", applied)
	}
}

func TestThemeEditorReselectCancelsGlide(t *testing.T) {
	e, th, frames, clock := newTestEditor(t)
	e.Select(FaceLeft, true)
	step(frames, clock, 50*time.Millisecond)

	applied := 0
	th.OnChange(func(Palette) { applied++ })
	e.Select(FaceDown, false)

	for i := 0; i < 5; i++ {
		step(frames, clock, 100*time.Millisecond)
	}
	if applied != 1 {
		t.Errorf("applications = %d, want 1", applied)
	}
	if e.Key() != FaceDown {
		t.Errorf("Key = %q, want D", e.Key())
	}
}

func TestThemeEditorSetHSL(t *testing.T) {
	e, th, _, _ := newTestEditor(t)
	var applied Palette
	th.OnChange(func(p Palette) { applied = p })

	e.SetHSL(HSL{H: 240, S: 100, L: 50})

	if th.Colors()[FaceRight] != 0x0000ff {
		t.Errorf("R = %06x, want 0000ff", th.Colors()[FaceRight])
	}
	if applied == nil || applied[FaceRight] != 0x0000ff {
		t.Error("SetHSL should apply the edited palette")
	}
}

func TestThemeEditorReset(t *testing.T) {
	e, th, frames, clock := newTestEditor(t)
	e.SetHSL(HSL{H: 240, S: 100, L: 50})

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !e.Animating() {
		t.Error("Reset should glide the sliders")
	}
	step(frames, clock, 200*time.Millisecond)
	if got := th.Colors()[FaceRight]; !hexClose(got, 0x41aac8, 3) {
		t.Errorf("R after reset = %06x, want close to 41aac8", got)
	}
}

func TestThemeEditorNoThemeSelected(t *testing.T) {
	d, _, _ := newTestDriver()
	th := NewThemes()
	e := NewThemeEditor(d, th)
	applied := 0
	th.OnChange(func(Palette) { applied++ })

	e.SetHSL(HSL{H: 10, S: 50, L: 50})
	if applied != 0 {
		t.Errorf("applications = %d, want 0", applied)
	}
	if err := e.Reset(); err == nil {
		t.Error("Reset without a theme should fail")
	}
}
