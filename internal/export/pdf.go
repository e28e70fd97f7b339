package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"screendraw/internal/state"
)

// visibleStrokes reduces an action log to the strokes a vector export can
// represent: everything before the last clear is gone, and erase actions
// are dropped since a PDF cannot punch holes in earlier lines. Use the PNG
// export for a pixel-faithful copy.
func visibleStrokes(actions []state.Action) []state.Action {
	start := 0
	for i, a := range actions {
		if a.Type == state.ActionClear {
			start = i + 1
		}
	}
	out := make([]state.Action, 0, len(actions)-start)
	for _, a := range actions[start:] {
		if a.Type == state.ActionStroke {
			out = append(out, a)
		}
	}
	return out
}

// WritePDF renders the stroke log onto a single page matching the canvas
// size in points.
func WritePDF(path string, actions []state.Action, w, h int) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(w), Ht: float64(h)},
	})
	p.AddPage()
	p.SetLineCapStyle("round")

	for _, st := range visibleStrokes(actions) {
		p.SetDrawColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
		p.SetFillColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
		p.SetLineWidth(float64(st.Thickness))

		if len(st.Points) == 1 {
			pt := st.Points[0]
			p.Circle(float64(pt.X), float64(pt.Y), float64(st.Thickness)/2, "F")
			continue
		}
		for i := 1; i < len(st.Points); i++ {
			p.Line(
				float64(st.Points[i-1].X), float64(st.Points[i-1].Y),
				float64(st.Points[i].X), float64(st.Points[i].Y),
			)
		}
	}

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
