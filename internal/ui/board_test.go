package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"screendraw/internal/config"
	"screendraw/internal/state"
)

func newTestWidget(t *testing.T) *BoardWidget {
	t.Helper()
	test.NewApp()
	t.Cleanup(func() { test.NewApp() })
	board := state.NewBoard(64, 64, 0)
	return NewBoardWidget(board, config.Default())
}

func press(b *BoardWidget, btn desktop.MouseButton, x, y float32) {
	b.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     btn,
	})
}

func release(b *BoardWidget, btn desktop.MouseButton, x, y float32) {
	b.MouseUp(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     btn,
	})
}

func drag(b *BoardWidget, x, y float32) {
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func scroll(b *BoardWidget, dy float32) {
	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: dy}})
}

func move(b *BoardWidget, x, y float32) {
	b.MouseMoved(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
	})
}

func TestColorKeys(t *testing.T) {
	b := newTestWidget(t)
	if b.Color() != state.White {
		t.Fatalf("start color=%v, want white", b.Color())
	}

	cases := []struct {
		key  rune
		want color.NRGBA
	}{
		{'1', state.Red},
		{'2', state.Green},
		{'3', state.Blue},
		{'0', state.White},
	}
	for _, tc := range cases {
		b.TypedRune(tc.key)
		if b.Color() != tc.want {
			t.Errorf("after %q color=%v, want %v", tc.key, b.Color(), tc.want)
		}
	}

	b.TypedRune('7') // unbound key keeps the selection
	if b.Color() != state.White {
		t.Errorf("unbound key changed color to %v", b.Color())
	}
}

func TestLeftDragDrawsStroke(t *testing.T) {
	b := newTestWidget(t)
	b.TypedRune('1')

	press(b, desktop.MouseButtonPrimary, 5, 5)
	drag(b, 20, 5)
	drag(b, 40, 5)
	release(b, desktop.MouseButtonPrimary, 40, 5)

	actions := b.Board().Actions()
	if len(actions) != 1 {
		t.Fatalf("actions=%d, want 1", len(actions))
	}
	a := actions[0]
	if a.Type != state.ActionStroke {
		t.Fatalf("type=%s, want stroke", a.Type)
	}
	if a.Color != state.Red {
		t.Fatalf("color=%v, want red", a.Color)
	}
	if len(a.Points) != 3 {
		t.Fatalf("points=%d, want 3", len(a.Points))
	}
}

func TestRightClickErases(t *testing.T) {
	b := newTestWidget(t)

	press(b, desktop.MouseButtonPrimary, 0, 32)
	drag(b, 63, 32)
	release(b, desktop.MouseButtonPrimary, 63, 32)

	press(b, desktop.MouseButtonSecondary, 32, 32)
	release(b, desktop.MouseButtonSecondary, 32, 32)

	actions := b.Board().Actions()
	if len(actions) != 2 {
		t.Fatalf("actions=%d, want 2", len(actions))
	}
	if actions[1].Type != state.ActionErase {
		t.Fatalf("type=%s, want erase", actions[1].Type)
	}

	img := b.Board().Image()
	if i := img.PixOffset(32, 32); img.Pix[i+3] != 0 {
		t.Fatalf("erased pixel still opaque")
	}
}

func TestMouseMoveExtendsErase(t *testing.T) {
	b := newTestWidget(t)

	press(b, desktop.MouseButtonPrimary, 0, 32)
	drag(b, 63, 32)
	release(b, desktop.MouseButtonPrimary, 63, 32)

	// Drags are only delivered for the left button; eraser motion arrives
	// as pointer moves while the right button is down.
	press(b, desktop.MouseButtonSecondary, 10, 32)
	move(b, 30, 32)
	move(b, 50, 32)
	release(b, desktop.MouseButtonSecondary, 50, 32)

	actions := b.Board().Actions()
	if len(actions) != 2 {
		t.Fatalf("actions=%d, want 2", len(actions))
	}
	erase := actions[1]
	if erase.Type != state.ActionErase {
		t.Fatalf("type=%s, want erase", erase.Type)
	}
	if len(erase.Points) != 3 {
		t.Fatalf("erase points=%d, want 3", len(erase.Points))
	}
	img := b.Board().Image()
	for _, x := range []int{10, 30, 50} {
		if i := img.PixOffset(x, 32); img.Pix[i+3] != 0 {
			t.Fatalf("pixel at x=%d still opaque after erase", x)
		}
	}
}

func TestMouseMoveWithoutButtonsIsInert(t *testing.T) {
	b := newTestWidget(t)
	move(b, 10, 10)
	move(b, 20, 20)
	if got := len(b.Board().Actions()); got != 0 {
		t.Fatalf("hover recorded %d actions", got)
	}
}

func TestWheelAdjustsDrawThickness(t *testing.T) {
	b := newTestWidget(t)
	start := b.DrawThickness()

	scroll(b, 1)
	if b.DrawThickness() != start+1 {
		t.Fatalf("thickness=%v, want %v", b.DrawThickness(), start+1)
	}
	scroll(b, -1)
	scroll(b, -1)
	if b.DrawThickness() != start-1 {
		t.Fatalf("thickness=%v, want %v", b.DrawThickness(), start-1)
	}

	for i := 0; i < 200; i++ {
		scroll(b, -1)
	}
	if b.DrawThickness() != config.MinDrawThickness {
		t.Fatalf("thickness=%v, want clamped to %v", b.DrawThickness(), float32(config.MinDrawThickness))
	}
}

func TestWheelWithRightButtonAdjustsEraser(t *testing.T) {
	b := newTestWidget(t)
	drawStart := b.DrawThickness()
	eraseStart := b.EraseThickness()

	press(b, desktop.MouseButtonSecondary, 10, 10)
	scroll(b, 1)
	scroll(b, 1)
	release(b, desktop.MouseButtonSecondary, 10, 10)

	if b.EraseThickness() != eraseStart+2 {
		t.Fatalf("eraser=%v, want %v", b.EraseThickness(), eraseStart+2)
	}
	if b.DrawThickness() != drawStart {
		t.Fatalf("draw thickness moved to %v while erasing", b.DrawThickness())
	}
}

func TestBackspaceClears(t *testing.T) {
	b := newTestWidget(t)
	press(b, desktop.MouseButtonPrimary, 5, 5)
	drag(b, 40, 40)
	release(b, desktop.MouseButtonPrimary, 40, 40)

	b.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})

	actions := b.Board().Actions()
	if actions[len(actions)-1].Type != state.ActionClear {
		t.Fatalf("last action=%s, want clear", actions[len(actions)-1].Type)
	}
	img := b.Board().Image()
	if i := img.PixOffset(20, 20); img.Pix[i+3] != 0 {
		t.Fatalf("canvas not cleared")
	}
}

func TestUndoRedoShortcutsDriveBoard(t *testing.T) {
	b := newTestWidget(t)
	press(b, desktop.MouseButtonPrimary, 5, 5)
	drag(b, 40, 5)
	release(b, desktop.MouseButtonPrimary, 40, 5)

	b.Undo()
	if got := len(b.Board().Actions()); got != 0 {
		t.Fatalf("actions=%d after undo, want 0", got)
	}
	b.Redo()
	if got := len(b.Board().Actions()); got != 1 {
		t.Fatalf("actions=%d after redo, want 1", got)
	}
}

func TestReadOnlyIgnoresInput(t *testing.T) {
	b := newTestWidget(t)
	b.SetReadOnly(true)

	press(b, desktop.MouseButtonPrimary, 5, 5)
	drag(b, 40, 5)
	release(b, desktop.MouseButtonPrimary, 40, 5)
	b.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})
	b.TypedRune('1')
	scroll(b, 1)

	if got := len(b.Board().Actions()); got != 0 {
		t.Fatalf("read-only board recorded %d actions", got)
	}
	if b.Color() != state.White {
		t.Fatalf("read-only board changed color")
	}
	if b.DrawThickness() != float32(config.Default().Draw.Thickness) {
		t.Fatalf("read-only board changed thickness")
	}
}
