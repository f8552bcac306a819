package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/modsmith/shapeforge/internal/shape"
)

func TestHistory_UndoRedo(t *testing.T) {
	c := testCollection()
	h := NewHistory(0)

	require.NoError(t, h.Apply(c, NewRenameShape(1, "First")))
	require.NoError(t, h.Apply(c, NewRenameShape(1, "Second")))
	assert.Equal(t, "Second", c.Shapes[0].Name)

	require.NoError(t, h.Undo(c))
	assert.Equal(t, "First", c.Shapes[0].Name)
	require.NoError(t, h.Undo(c))
	assert.Equal(t, "Square", c.Shapes[0].Name)

	require.NoError(t, h.Redo(c))
	assert.Equal(t, "First", c.Shapes[0].Name)
	require.NoError(t, h.Redo(c))
	assert.Equal(t, "Second", c.Shapes[0].Name)
}

func TestHistory_EmptyUndoRedo(t *testing.T) {
	c := testCollection()
	h := NewHistory(0)
	assert.ErrorIs(t, h.Undo(c), ErrNothingToUndo)
	assert.ErrorIs(t, h.Redo(c), ErrNothingToRedo)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistory_NewEditTruncatesRedo(t *testing.T) {
	c := testCollection()
	h := NewHistory(0)

	require.NoError(t, h.Apply(c, NewRenameShape(1, "A")))
	require.NoError(t, h.Apply(c, NewRenameShape(1, "B")))
	require.NoError(t, h.Undo(c))
	assert.True(t, h.CanRedo())

	require.NoError(t, h.Apply(c, NewRenameShape(1, "C")))
	assert.False(t, h.CanRedo(), "a new edit discards the undone branch")
	assert.ErrorIs(t, h.Redo(c), ErrNothingToRedo)
	assert.Equal(t, 2, h.Len())

	// The truncated branch stays gone.
	require.NoError(t, h.Undo(c))
	require.NoError(t, h.Redo(c))
	assert.Equal(t, "C", c.Shapes[0].Name)
}

func TestHistory_RejectedCommandRecordsNothing(t *testing.T) {
	c := testCollection()
	h := NewHistory(0)
	require.Error(t, h.Apply(c, NewRemoveShape(42)))
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanUndo())
}

func TestHistory_LimitDropsOldestEdit(t *testing.T) {
	c := testCollection()
	h := NewHistory(3)

	for _, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, h.Apply(c, NewRenameShape(1, name)))
	}
	assert.Equal(t, 3, h.Len())

	// Only the three newest edits can be undone; "A" is now the floor.
	require.NoError(t, h.Undo(c))
	require.NoError(t, h.Undo(c))
	require.NoError(t, h.Undo(c))
	assert.ErrorIs(t, h.Undo(c), ErrNothingToUndo)
	assert.Equal(t, "A", c.Shapes[0].Name)
}

func TestHistory_Reset(t *testing.T) {
	c := testCollection()
	h := NewHistory(0)
	require.NoError(t, h.Apply(c, NewRenameShape(1, "A")))
	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.ErrorIs(t, h.Undo(c), ErrNothingToUndo)
}

func TestHistory_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultHistoryLimit, NewHistory(0).limit)
	assert.Equal(t, DefaultHistoryLimit, NewHistory(-5).limit)
	assert.Equal(t, 7, NewHistory(7).limit)
}

// genCommand draws one random command that is plausible against the
// testCollection fixture; some draws are intentionally invalid.
func genCommand(t *rapid.T) Command {
	shapeID := rapid.SampledFrom([]int{1, 2, 42}).Draw(t, "shape_id")
	variant := rapid.IntRange(0, 1).Draw(t, "variant")
	index := rapid.IntRange(0, 5).Draw(t, "index")
	vert := shape.Vertex{
		X: rapid.Float64Range(-100, 100).Draw(t, "x"),
		Y: rapid.Float64Range(-100, 100).Draw(t, "y"),
	}
	port := shape.Port{
		Edge:     rapid.IntRange(0, 4).Draw(t, "edge"),
		Position: rapid.Float64Range(-0.5, 1.5).Draw(t, "position"),
	}
	switch rapid.IntRange(0, 10).Draw(t, "kind") {
	case 0:
		return NewAddShape(shape.Shape{
			ID:       rapid.IntRange(3, 20).Draw(t, "new_id"),
			Variants: []shape.ScaleVariant{{Verts: []shape.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}}},
		})
	case 1:
		return NewRemoveShape(shapeID)
	case 2:
		return NewRenameShape(shapeID, rapid.StringMatching(`[A-Za-z_]{0,8}`).Draw(t, "name"))
	case 3:
		return NewAddScaleVariant(shapeID, shape.ScaleVariant{Verts: []shape.Vertex{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}}})
	case 4:
		return NewRemoveScaleVariant(shapeID, variant)
	case 5:
		return NewAddVertex(shapeID, variant, index, vert)
	case 6:
		return NewRemoveVertex(shapeID, variant, index)
	case 7:
		return NewMoveVertex(shapeID, variant, index, vert)
	case 8:
		return NewAddPort(shapeID, variant, port)
	case 9:
		return NewRemovePort(shapeID, variant, index)
	default:
		return NewModifyPort(shapeID, variant, index, port)
	}
}

// TestPropertyUndoIsExactInverse applies a random command sequence and then
// undoes all of it, checking the collection lands back on every intermediate
// state along the way.
func TestPropertyUndoIsExactInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := testCollection()
		h := NewHistory(0)

		var states []*shape.Collection
		numCmds := rapid.IntRange(1, 12).Draw(t, "num_cmds")
		for i := 0; i < numCmds; i++ {
			before := c.Clone()
			if err := h.Apply(c, genCommand(t)); err != nil {
				if !c.Equal(before) {
					t.Fatalf("rejected command mutated the collection: %v", err)
				}
				continue
			}
			states = append(states, before)
		}

		for i := len(states) - 1; i >= 0; i-- {
			if err := h.Undo(c); err != nil {
				t.Fatalf("undo %d failed: %v", i, err)
			}
			if !c.Equal(states[i]) {
				t.Fatalf("undo %d did not restore the prior state", i)
			}
		}
		if h.CanUndo() {
			t.Fatal("history should be exhausted")
		}
	})
}

// TestPropertyRedoReplaysExactly undoes and redoes the whole history and
// checks the final state matches the state after the original applies.
func TestPropertyRedoReplaysExactly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := testCollection()
		h := NewHistory(0)

		numCmds := rapid.IntRange(1, 10).Draw(t, "num_cmds")
		for i := 0; i < numCmds; i++ {
			_ = h.Apply(c, genCommand(t)) // rejected draws simply record nothing
		}
		final := c.Clone()

		for h.CanUndo() {
			if err := h.Undo(c); err != nil {
				t.Fatalf("undo failed: %v", err)
			}
		}
		for h.CanRedo() {
			if err := h.Redo(c); err != nil {
				t.Fatalf("redo failed: %v", err)
			}
		}
		if !c.Equal(final) {
			t.Fatal("undo-all then redo-all changed the final state")
		}
	})
}
