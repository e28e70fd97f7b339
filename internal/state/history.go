package state

// History holds the applied actions that can still be undone, plus the
// actions undone since the last new one. Record drops the redo stack, the
// same way new input does in any editor.
type History struct {
	limit int
	undo  []Action
	redo  []Action
}

// NewHistory returns a history keeping at most limit undoable actions.
// limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Record appends a freshly applied action and clears the redo stack.
// Actions pushed past the limit are returned oldest-first; they are no
// longer undoable and the caller must keep them in its permanent log.
func (h *History) Record(a Action) []Action {
	h.undo = append(h.undo, a)
	h.redo = nil
	if h.limit <= 0 || len(h.undo) <= h.limit {
		return nil
	}
	n := len(h.undo) - h.limit
	trimmed := make([]Action, n)
	copy(trimmed, h.undo[:n])
	h.undo = append(h.undo[:0], h.undo[n:]...)
	return trimmed
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// PeekUndo returns the action Undo would remove, without moving it.
func (h *History) PeekUndo() (Action, bool) {
	if len(h.undo) == 0 {
		return Action{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the action Redo would reapply, without moving it.
func (h *History) PeekRedo() (Action, bool) {
	if len(h.redo) == 0 {
		return Action{}, false
	}
	return h.redo[len(h.redo)-1], true
}

// Undo moves the most recent applied action onto the redo stack and
// returns it. Returns false if there is nothing to undo.
func (h *History) Undo() (Action, bool) {
	if len(h.undo) == 0 {
		return Action{}, false
	}
	i := len(h.undo) - 1
	a := h.undo[i]
	h.undo = h.undo[:i]
	h.redo = append(h.redo, a)
	return a, true
}

// Redo reapplies the most recently undone action.
func (h *History) Redo() (Action, bool) {
	if len(h.redo) == 0 {
		return Action{}, false
	}
	i := len(h.redo) - 1
	a := h.redo[i]
	h.redo = h.redo[:i]
	h.undo = append(h.undo, a)
	return a, true
}

// Applied returns a copy of the undoable actions, oldest first.
func (h *History) Applied() []Action {
	out := make([]Action, len(h.undo))
	copy(out, h.undo)
	return out
}

// Reset drops both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
