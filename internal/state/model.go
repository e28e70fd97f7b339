package state

import (
	"image/color"
	"time"

	"github.com/google/uuid"
)

// Point is a canvas coordinate.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Palette colors selectable from the keyboard.
var (
	Red   = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	Green = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}
	Blue  = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

type ActionType string

const (
	ActionStroke ActionType = "stroke"
	ActionErase  ActionType = "erase"
	ActionClear  ActionType = "clear"
)

// Action is one applied entry of the board history: a finished stroke, a
// finished erase pass, or a full clear.
type Action struct {
	ID        string      `json:"id"`
	Type      ActionType  `json:"type"`
	Points    []Point     `json:"points,omitempty"`
	Color     color.NRGBA `json:"color,omitempty"`
	Thickness float32     `json:"thickness,omitempty"`
	Time      time.Time   `json:"time"`
}

func NewStrokeAction(c color.NRGBA, thickness float32, first Point) Action {
	return Action{
		ID:        uuid.NewString(),
		Type:      ActionStroke,
		Points:    []Point{first},
		Color:     c,
		Thickness: thickness,
		Time:      time.Now(),
	}
}

func NewEraseAction(thickness float32, first Point) Action {
	return Action{
		ID:        uuid.NewString(),
		Type:      ActionErase,
		Points:    []Point{first},
		Thickness: thickness,
		Time:      time.Now(),
	}
}

func NewClearAction() Action {
	return Action{
		ID:   uuid.NewString(),
		Type: ActionClear,
		Time: time.Now(),
	}
}
