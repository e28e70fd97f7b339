package export

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screendraw/internal/state"
)

func TestVisibleStrokes(t *testing.T) {
	actions := []state.Action{
		{ID: "a", Type: state.ActionStroke},
		{ID: "b", Type: state.ActionClear},
		{ID: "c", Type: state.ActionStroke},
		{ID: "d", Type: state.ActionErase},
		{ID: "e", Type: state.ActionStroke},
	}
	got := visibleStrokes(actions)
	if len(got) != 2 {
		t.Fatalf("visible=%d, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "e" {
		t.Fatalf("visible IDs=%s,%s, want c,e", got[0].ID, got[1].ID)
	}
}

func TestVisibleStrokes_EndsWithClear(t *testing.T) {
	actions := []state.Action{
		{ID: "a", Type: state.ActionStroke},
		{ID: "b", Type: state.ActionClear},
	}
	if got := visibleStrokes(actions); len(got) != 0 {
		t.Fatalf("visible=%d, want 0", len(got))
	}
}

func TestWritePNGRoundTrip(t *testing.T) {
	board := state.NewBoard(32, 32, 0)
	board.BeginStroke(state.Point{X: 4, Y: 16}, state.Red, 3)
	board.Extend(state.Point{X: 28, Y: 16})
	board.End()

	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(path, board.Image()); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("bounds=%v, want 32x32", b)
	}
	if _, _, _, a := img.At(16, 16).RGBA(); a == 0 {
		t.Fatalf("stroke pixel transparent in exported PNG")
	}
	if _, _, _, a := img.At(16, 2).RGBA(); a != 0 {
		t.Fatalf("background pixel not transparent in exported PNG")
	}
}

func TestWritePDFProducesDocument(t *testing.T) {
	actions := []state.Action{
		{Type: state.ActionStroke, Points: []state.Point{{X: 10, Y: 10}, {X: 100, Y: 100}}, Color: state.Blue, Thickness: 3},
		{Type: state.ActionStroke, Points: []state.Point{{X: 50, Y: 50}}, Color: state.Red, Thickness: 6},
	}
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := WritePDF(path, actions, 800, 600); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestFilename(t *testing.T) {
	got := Filename("", "png")
	if !strings.HasPrefix(got, "screendraw-") || !strings.HasSuffix(got, ".png") {
		t.Fatalf("filename=%q", got)
	}
	got = Filename("/tmp/exports", "pdf")
	if filepath.Dir(got) != "/tmp/exports" {
		t.Fatalf("dir=%q, want /tmp/exports", filepath.Dir(got))
	}
}
