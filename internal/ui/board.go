package ui

import (
	"image"
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screendraw/internal/config"
	"screendraw/internal/state"
)

// BoardWidget is the drawing surface: it renders the board composite and
// turns pointer and keyboard input into board operations.
type BoardWidget struct {
	widget.BaseWidget

	board *state.Board

	drawColor      color.NRGBA
	drawThickness  float32
	eraseThickness float32

	drawing  bool
	erasing  bool
	readOnly bool

	frames    int
	frameMark time.Time
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Focusable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board, cfg config.Config) *BoardWidget {
	b := &BoardWidget{
		board:          board,
		drawColor:      cfg.StartColor(),
		drawThickness:  float32(cfg.Draw.Thickness),
		eraseThickness: float32(cfg.Draw.EraserThickness),
		frameMark:      time.Now(),
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Board() *state.Board { return b.board }

// SetReadOnly turns the widget into a passive mirror; viewers use this.
func (b *BoardWidget) SetReadOnly(ro bool) { b.readOnly = ro }

func (b *BoardWidget) Color() color.NRGBA      { return b.drawColor }
func (b *BoardWidget) DrawThickness() float32  { return b.drawThickness }
func (b *BoardWidget) EraseThickness() float32 { return b.eraseThickness }

func pt(pos fyne.Position) state.Point {
	return state.Point{X: pos.X, Y: pos.Y}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.readOnly {
		return
	}
	switch e.Button {
	case desktop.MouseButtonPrimary:
		b.drawing = true
		b.board.BeginStroke(pt(e.Position), b.drawColor, b.drawThickness)
	case desktop.MouseButtonSecondary:
		b.erasing = true
		b.board.BeginErase(pt(e.Position), b.eraseThickness)
	default:
		return
	}
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.readOnly {
		return
	}
	switch e.Button {
	case desktop.MouseButtonPrimary:
		b.drawing = false
	case desktop.MouseButtonSecondary:
		b.erasing = false
	default:
		return
	}
	if _, ok := b.board.End(); ok {
		b.Refresh()
	}
}

// Dragged extends the in-progress stroke. Fyne only delivers drags for the
// primary button; eraser motion arrives through MouseMoved instead.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.drawing {
		return
	}
	b.board.Extend(pt(e.Position))
	b.Refresh()
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {}

// MouseMoved extends the in-progress erase while the right button is held.
func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if !b.erasing {
		return
	}
	b.board.Extend(pt(e.Position))
	b.Refresh()
}

func (b *BoardWidget) MouseOut() {}

// Scrolled adjusts the brush thickness; while the right button is held it
// adjusts the eraser instead.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if b.readOnly || e.Scrolled.DY == 0 {
		return
	}
	step := float32(1)
	if e.Scrolled.DY < 0 {
		step = -1
	}
	if b.erasing {
		b.eraseThickness = clampThickness(b.eraseThickness+step, config.MinEraseThickness, config.MaxEraseThickness)
	} else {
		b.drawThickness = clampThickness(b.drawThickness+step, config.MinDrawThickness, config.MaxDrawThickness)
	}
}

func clampThickness(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b *BoardWidget) FocusGained() {}
func (b *BoardWidget) FocusLost()   {}

func (b *BoardWidget) TypedRune(r rune) {
	if b.readOnly {
		return
	}
	switch r {
	case '1':
		b.drawColor = state.Red
	case '2':
		b.drawColor = state.Green
	case '3':
		b.drawColor = state.Blue
	case '0':
		b.drawColor = state.White
	}
}

func (b *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	if b.readOnly {
		return
	}
	if e.Name == fyne.KeyBackspace {
		b.ClearCanvas()
	}
}

func (b *BoardWidget) ClearCanvas() {
	b.board.Clear()
	b.Refresh()
}

func (b *BoardWidget) Undo() {
	if b.board.Undo() {
		b.Refresh()
	}
}

func (b *BoardWidget) Redo() {
	if b.board.Redo() {
		b.Refresh()
	}
}

// ScheduleRefresh repaints from any goroutine; the viewer's network loop
// uses it.
func (b *BoardWidget) ScheduleRefresh() {
	fyne.Do(b.Refresh)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	raster := canvas.NewRaster(b.draw)
	raster.ScaleMode = canvas.ImageScalePixels
	return &boardRenderer{widget: b, raster: raster}
}

// draw is the raster generator. The raster follows the window, so this is
// also where resizes reach the board.
func (b *BoardWidget) draw(w, h int) image.Image {
	if w > 0 && h > 0 {
		b.board.Resize(w, h)
	}
	b.countFrame()
	return b.board.Image()
}

func (b *BoardWidget) countFrame() {
	b.frames++
	if now := time.Now(); now.Sub(b.frameMark) >= time.Second {
		log.Printf("FPS: %d", b.frames)
		b.frames = 0
		b.frameMark = now
	}
}

type boardRenderer struct {
	widget *BoardWidget
	raster *canvas.Raster
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *boardRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *boardRenderer) Destroy() {}
