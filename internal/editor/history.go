package editor

import "github.com/modsmith/shapeforge/internal/shape"

// DefaultHistoryLimit is the number of undoable edits kept when no limit is
// configured.
const DefaultHistoryLimit = 100

// History is a strictly linear undo/redo log. The cursor sits between the
// commands that have been applied (before it) and the commands that have
// been undone (after it); applying a new command truncates everything after
// the cursor.
type History struct {
	entries []Command
	cursor  int
	limit   int
}

// NewHistory creates a History keeping at most limit entries. limit <= 0
// means DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Apply validates and executes cmd against c. On success the command is
// recorded and any previously-undone entries are discarded; on failure c is
// untouched and the history is unchanged.
func (h *History) Apply(c *shape.Collection, cmd Command) error {
	if err := cmd.apply(c); err != nil {
		return err
	}
	h.entries = append(h.entries[:h.cursor], cmd)
	h.cursor = len(h.entries)
	if len(h.entries) > h.limit {
		// Oldest edit falls off the end of what can be undone.
		h.entries = h.entries[1:]
		h.cursor--
	}
	return nil
}

// Undo reverses the command immediately before the cursor.
func (h *History) Undo(c *shape.Collection) error {
	if h.cursor == 0 {
		return &EditError{Err: ErrNothingToUndo}
	}
	h.cursor--
	h.entries[h.cursor].revert(c)
	return nil
}

// Redo re-applies the command immediately after the cursor.
func (h *History) Redo(c *shape.Collection) error {
	if h.cursor == len(h.entries) {
		return &EditError{Err: ErrNothingToRedo}
	}
	// The collection is in exactly the state this command first applied to,
	// so re-applying cannot fail; if it somehow does, the history must not
	// advance past a command that did not run.
	if err := h.entries[h.cursor].apply(c); err != nil {
		return err
	}
	h.cursor++
	return nil
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries) }

// Len returns the number of recorded commands, undone ones included.
func (h *History) Len() int { return len(h.entries) }

// Reset discards all history, e.g. after an import replaces the collection.
func (h *History) Reset() {
	h.entries = nil
	h.cursor = 0
}
