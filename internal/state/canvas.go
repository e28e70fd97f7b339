package state

import (
	"image"
	"image/color"
)

// Canvas composites the action log into a transparent RGBA pixel buffer.
// The zero pixel (fully transparent) is the background; erasing writes it
// back.
type Canvas struct {
	img  *image.RGBA
	w, h int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.SetSize(w, h)
	return c
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Image returns the live backing image. Callers must not hold onto it
// across a SetSize.
func (c *Canvas) Image() *image.RGBA { return c.img }

// SetSize replaces the buffer with a transparent one of the given size.
func (c *Canvas) SetSize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.w, c.h = w, h
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear wipes the buffer back to transparent.
func (c *Canvas) Clear() {
	pix := c.img.Pix
	for i := range pix {
		pix[i] = 0
	}
}

// Replay rebuilds the composite from scratch out of an action log.
func (c *Canvas) Replay(actions []Action) {
	c.Clear()
	for _, a := range actions {
		c.Apply(a)
	}
}

// Apply composites one finished action onto the buffer.
func (c *Canvas) Apply(a Action) {
	switch a.Type {
	case ActionStroke:
		c.applyPath(a.Points, a.Thickness, a.Color, false)
	case ActionErase:
		c.applyPath(a.Points, a.Thickness, color.NRGBA{}, true)
	case ActionClear:
		c.Clear()
	}
}

func (c *Canvas) applyPath(points []Point, thickness float32, col color.NRGBA, erase bool) {
	if len(points) == 0 {
		return
	}
	c.stamp(points[0], thickness, col, erase)
	for i := 1; i < len(points); i++ {
		c.Segment(points[i-1], points[i], thickness, col, erase)
	}
}

// DrawSegment paints one stroke segment; used for incremental painting
// while the pointer moves.
func (c *Canvas) DrawSegment(from, to Point, thickness float32, col color.NRGBA) {
	c.Segment(from, to, thickness, col, false)
}

// EraseSegment punches one eraser segment back to transparent.
func (c *Canvas) EraseSegment(from, to Point, thickness float32) {
	c.Segment(from, to, thickness, color.NRGBA{}, true)
}

// Stamp paints (or erases) a single disc, for strokes of a single point.
func (c *Canvas) Stamp(p Point, thickness float32, col color.NRGBA, erase bool) {
	c.stamp(p, thickness, col, erase)
}

// Segment walks the line from -> to with Bresenham and stamps a disc of
// the given thickness at every step.
func (c *Canvas) Segment(from, to Point, thickness float32, col color.NRGBA, erase bool) {
	x0, y0 := int(from.X), int(from.Y)
	x1, y1 := int(to.X), int(to.Y)

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	stepX, stepY := 1, 1
	if x0 > x1 {
		stepX = -1
	}
	if y0 > y1 {
		stepY = -1
	}
	err := dx - dy

	for {
		c.stamp(Point{X: float32(x0), Y: float32(y0)}, thickness, col, erase)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += stepX
		}
		if e2 < dx {
			err += dx
			y0 += stepY
		}
	}
}

// stamp fills a disc of diameter thickness centered on p, clipped to the
// buffer. erase writes transparent pixels regardless of col.
func (c *Canvas) stamp(p Point, thickness float32, col color.NRGBA, erase bool) {
	r := float64(thickness) / 2
	if r < 0.5 {
		r = 0.5
	}
	cx, cy := float64(p.X), float64(p.Y)

	x0 := clamp(int(cx-r), 0, c.w-1)
	x1 := clamp(int(cx+r+1), 0, c.w-1)
	y0 := clamp(int(cy-r), 0, c.h-1)
	y1 := clamp(int(cy+r+1), 0, c.h-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ddx := float64(x) - cx
			ddy := float64(y) - cy
			if ddx*ddx+ddy*ddy > r*r {
				continue
			}
			i := c.img.PixOffset(x, y)
			px := c.img.Pix[i : i+4 : i+4]
			if erase {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
			} else {
				px[0], px[1], px[2], px[3] = col.R, col.G, col.B, col.A
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
