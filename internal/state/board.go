package state

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"sync"
)

// EventKind tags a board change that remote viewers must mirror.
type EventKind string

const (
	EventApply EventKind = "apply"
	EventUndo  EventKind = "undo"
	EventRedo  EventKind = "redo"
)

// Event describes one committed board change.
type Event struct {
	Kind   EventKind `json:"kind"`
	Action *Action   `json:"action,omitempty"`
}

// Board is the drawing document. It owns the permanent action log, the
// undo/redo history and the composited pixel buffer. The UI goroutine and
// the share server both touch it, hence the lock.
type Board struct {
	mu      sync.RWMutex
	canvas  *Canvas
	hist    *History
	baked   []Action // actions trimmed past the history limit; never undone
	current *Action  // in-progress stroke or erase, not yet in history
	seen    map[string]struct{}
	onEvent func(Event)
}

func NewBoard(w, h, historyLimit int) *Board {
	return &Board{
		canvas: NewCanvas(w, h),
		hist:   NewHistory(historyLimit),
		seen:   make(map[string]struct{}),
	}
}

// SetOnEvent registers a callback fired after every committed change. It
// runs after the board lock is released, so it may read the board and may
// block (a stalled viewer socket must not stall drawing).
func (b *Board) SetOnEvent(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEvent = fn
}

// Image returns the live composite. The caller must treat it as read-only.
func (b *Board) Image() *image.RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canvas.Image()
}

func (b *Board) Size() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canvas.Size()
}

// BeginStroke starts a stroke in the given color and thickness, painting
// the first dot immediately so a plain click leaves a mark.
func (b *Board) BeginStroke(p Point, c color.NRGBA, thickness float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := NewStrokeAction(c, thickness, p)
	b.current = &a
	b.canvas.Stamp(p, thickness, c, false)
}

// BeginErase starts an eraser pass, punching the first disc immediately.
func (b *Board) BeginErase(p Point, thickness float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := NewEraseAction(thickness, p)
	b.current = &a
	b.canvas.Stamp(p, thickness, color.NRGBA{}, true)
}

// Extend appends a point to the in-progress action and paints only the new
// segment. No-op when nothing is in progress.
func (b *Board) Extend(p Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return
	}
	last := b.current.Points[len(b.current.Points)-1]
	b.current.Points = append(b.current.Points, p)
	switch b.current.Type {
	case ActionStroke:
		b.canvas.DrawSegment(last, p, b.current.Thickness, b.current.Color)
	case ActionErase:
		b.canvas.EraseSegment(last, p, b.current.Thickness)
	}
}

// End finalizes the in-progress action into the history. Safe to call when
// nothing is in progress (mouse-up and drag-end can both land here).
func (b *Board) End() (Action, bool) {
	b.mu.Lock()
	if b.current == nil {
		b.mu.Unlock()
		return Action{}, false
	}
	a := *b.current
	b.current = nil
	b.record(a)
	fn := b.onEvent
	b.mu.Unlock()
	if fn != nil {
		fn(Event{Kind: EventApply, Action: &a})
	}
	return a, true
}

func (b *Board) record(a Action) {
	b.seen[a.ID] = struct{}{}
	if trimmed := b.hist.Record(a); trimmed != nil {
		b.baked = append(b.baked, trimmed...)
	}
}

// Clear wipes the canvas as an undoable action.
func (b *Board) Clear() {
	b.mu.Lock()
	b.current = nil
	a := NewClearAction()
	b.record(a)
	b.canvas.Clear()
	fn := b.onEvent
	b.mu.Unlock()
	if fn != nil {
		fn(Event{Kind: EventApply, Action: &a})
	}
}

// Apply merges an action received from a remote host. Duplicates are
// dropped by ID.
func (b *Board) Apply(a Action) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.seen[a.ID]; ok {
		return false
	}
	b.record(a)
	b.canvas.Apply(a)
	return true
}

func (b *Board) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hist.CanUndo()
}

func (b *Board) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hist.CanRedo()
}

// Undo removes the most recent action and recomposites by replay. The
// event names the undone action so viewers can remove the same one even
// when their history does not line up with the host's.
func (b *Board) Undo() bool {
	b.mu.Lock()
	a, ok := b.hist.Undo()
	if !ok {
		b.mu.Unlock()
		return false
	}
	delete(b.seen, a.ID)
	b.replay()
	fn := b.onEvent
	b.mu.Unlock()
	if fn != nil {
		fn(Event{Kind: EventUndo, Action: &a})
	}
	return true
}

// Redo reapplies the most recently undone action.
func (b *Board) Redo() bool {
	b.mu.Lock()
	a, ok := b.hist.Redo()
	if !ok {
		b.mu.Unlock()
		return false
	}
	b.seen[a.ID] = struct{}{}
	b.canvas.Apply(a)
	fn := b.onEvent
	b.mu.Unlock()
	if fn != nil {
		fn(Event{Kind: EventRedo, Action: &a})
	}
	return true
}

// Unapply removes the named action wherever it sits, history or permanent
// log, and recomposites. Viewers use it to mirror a host undo: actions the
// viewer received in its join snapshot are not in its history, so popping
// the local history would miss them.
func (b *Board) Unapply(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a, ok := b.hist.PeekUndo(); ok && a.ID == id {
		b.hist.Undo()
		delete(b.seen, id)
		b.replay()
		return true
	}
	for i := len(b.baked) - 1; i >= 0; i-- {
		if b.baked[i].ID == id {
			b.baked = append(b.baked[:i], b.baked[i+1:]...)
			delete(b.seen, id)
			b.replay()
			return true
		}
	}
	return false
}

// Reapply restores an action the host redid. Goes through the local redo
// stack when it lines up, otherwise re-records the action from the wire.
func (b *Board) Reapply(a Action) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if top, ok := b.hist.PeekRedo(); ok && top.ID == a.ID {
		b.hist.Redo()
		b.seen[a.ID] = struct{}{}
		b.canvas.Apply(a)
		return true
	}
	if _, dup := b.seen[a.ID]; dup {
		return false
	}
	b.record(a)
	b.canvas.Apply(a)
	return true
}

// Resize recomposites at the new size. The action log and history survive;
// content outside the new bounds is clipped at render, not destroyed.
func (b *Board) Resize(w, h int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cw, ch := b.canvas.Size()
	if cw == w && ch == h {
		return
	}
	b.canvas.SetSize(w, h)
	b.replay()
	if b.current != nil {
		b.canvas.applyPath(b.current.Points, b.current.Thickness, b.current.Color, b.current.Type == ActionErase)
	}
}

func (b *Board) replay() {
	b.canvas.Replay(b.actionsLocked())
}

func (b *Board) actionsLocked() []Action {
	out := make([]Action, 0, len(b.baked)+len(b.hist.undo))
	out = append(out, b.baked...)
	out = append(out, b.hist.Applied()...)
	return out
}

// Actions returns the full applied log, oldest first.
func (b *Board) Actions() []Action {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.actionsLocked()
}

type boardSnapshot struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Actions []Action `json:"actions"`
}

// SnapshotJSON serializes the applied log, for board files and for the
// first message sent to a joining viewer.
func (b *Board) SnapshotJSON() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	w, h := b.canvas.Size()
	return json.Marshal(boardSnapshot{Width: w, Height: h, Actions: b.actionsLocked()})
}

// RestoreJSON replaces the board content with a snapshot, adopting its
// canvas size. The restored actions land in the permanent log; history
// starts fresh.
func (b *Board) RestoreJSON(data []byte) error {
	var snap boardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode board snapshot: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
	if snap.Width > 0 && snap.Height > 0 {
		b.canvas.SetSize(snap.Width, snap.Height)
	}
	b.baked = snap.Actions
	b.hist.Reset()
	b.seen = make(map[string]struct{}, len(snap.Actions))
	for _, a := range snap.Actions {
		b.seen[a.ID] = struct{}{}
	}
	b.replay()
	return nil
}
