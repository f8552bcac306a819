package editor

import "github.com/modsmith/shapeforge/internal/shape"

// Command is one invertible mutation of a shape collection. Implementations
// validate fully before mutating, so a failed apply leaves the collection
// untouched, and they capture whatever their exact inverse needs while
// applying.
type Command interface {
	// Name is a short verb phrase for logs and error messages.
	Name() string

	// apply validates the command against c and, on success, performs the
	// mutation. It must not modify c when returning an error. A command that
	// applied successfully may be applied again after revert (redo evaluates
	// against a collection in exactly the pre-apply state).
	apply(c *shape.Collection) error

	// revert exactly undoes a successful apply. It is only called with c in
	// precisely the state apply left it in, and therefore cannot fail.
	revert(c *shape.Collection)
}

// resolveShape locates a shape by id for a command, translating a miss into
// the command's EditError.
func resolveShape(c *shape.Collection, command string, id int) (*shape.Shape, *EditError) {
	s, ok := c.ShapeByID(id)
	if !ok {
		return nil, editErr(command, ErrUnknownShape, "id %d", id)
	}
	return s, nil
}

// resolveVariant locates a scale variant within a shape for a command.
func resolveVariant(s *shape.Shape, command string, idx int) (*shape.ScaleVariant, *EditError) {
	if idx < 0 || idx >= len(s.Variants) {
		return nil, editErr(command, ErrUnknownVariant, "shape %d has %d variants, index %d", s.ID, len(s.Variants), idx)
	}
	return &s.Variants[idx], nil
}
