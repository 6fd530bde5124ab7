package cubefx

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsWidget draws the current FPS and TPS in the top-left corner. The text
// is refreshed every ~0.5 seconds.
type fpsWidget struct {
	img     *ebiten.Image
	op      ebiten.DrawImageOptions
	elapsed float64
	drawn   bool
}

// newFPSWidget creates the widget. 100x32 is enough for "FPS: 60.0\nTPS: 60.0".
func newFPSWidget() *fpsWidget {
	return &fpsWidget{img: ebiten.NewImage(100, 32)}
}

// update advances the refresh timer by one tick.
func (w *fpsWidget) update() {
	w.elapsed += 1.0 / float64(ebiten.TPS())
	if w.drawn && w.elapsed < 0.5 {
		return
	}
	w.elapsed = 0
	w.drawn = true

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (w *fpsWidget) draw(screen *ebiten.Image) {
	screen.DrawImage(w.img, &w.op)
}
