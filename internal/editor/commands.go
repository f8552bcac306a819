package editor

import (
	"math"
	"slices"
	"strings"

	"github.com/modsmith/shapeforge/internal/shape"
)

// NewAddShape returns a command that appends s to the collection. The shape
// must carry a fresh non-negative id and at least one valid scale variant.
func NewAddShape(s shape.Shape) Command {
	return &addShape{shape: s.Clone()}
}

type addShape struct {
	shape shape.Shape
	index int
}

func (cmd *addShape) Name() string { return "add shape" }

func (cmd *addShape) apply(c *shape.Collection) error {
	if cmd.shape.ID < 0 {
		return editErr(cmd.Name(), ErrBadCommand, "id %d is negative", cmd.shape.ID)
	}
	if c.IndexOf(cmd.shape.ID) >= 0 {
		return editErr(cmd.Name(), ErrDuplicateShapeID, "id %d", cmd.shape.ID)
	}
	if len(cmd.shape.Variants) == 0 {
		return editErr(cmd.Name(), ErrInvariantViolation, "shape %d needs at least one scale variant", cmd.shape.ID)
	}
	for i, sv := range cmd.shape.Variants {
		if v := shape.ValidateVariant(cmd.shape.ID, "variant", sv); v != nil {
			return editErr(cmd.Name(), ErrInvariantViolation, "variant %d: %s", i, v.Detail)
		}
	}
	cmd.index = len(c.Shapes)
	c.Shapes = append(c.Shapes, cmd.shape.Clone())
	return nil
}

func (cmd *addShape) revert(c *shape.Collection) {
	c.Shapes = slices.Delete(c.Shapes, cmd.index, cmd.index+1)
}

// NewRemoveShape returns a command that removes the shape with the given id.
func NewRemoveShape(id int) Command {
	return &removeShape{id: id}
}

type removeShape struct {
	id      int
	index   int
	removed shape.Shape
}

func (cmd *removeShape) Name() string { return "remove shape" }

func (cmd *removeShape) apply(c *shape.Collection) error {
	idx := c.IndexOf(cmd.id)
	if idx < 0 {
		return editErr(cmd.Name(), ErrUnknownShape, "id %d", cmd.id)
	}
	cmd.index = idx
	cmd.removed = c.Shapes[idx].Clone()
	c.Shapes = slices.Delete(c.Shapes, idx, idx+1)
	return nil
}

func (cmd *removeShape) revert(c *shape.Collection) {
	c.Shapes = slices.Insert(c.Shapes, cmd.index, cmd.removed.Clone())
}

// NewRenameShape returns a command that sets the shape's name. The name is
// re-exported as a line comment, so it must not contain a newline.
func NewRenameShape(id int, name string) Command {
	return &renameShape{id: id, newName: name}
}

type renameShape struct {
	id      int
	newName string
	oldName string
}

func (cmd *renameShape) Name() string { return "rename shape" }

func (cmd *renameShape) apply(c *shape.Collection) error {
	if strings.ContainsAny(cmd.newName, "\n\r") {
		return editErr(cmd.Name(), ErrBadCommand, "name must not contain a newline")
	}
	s, err := resolveShape(c, cmd.Name(), cmd.id)
	if err != nil {
		return err
	}
	cmd.oldName = s.Name
	s.Name = cmd.newName
	return nil
}

func (cmd *renameShape) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.id)
	s.Name = cmd.oldName
}

// NewAddScaleVariant returns a command that appends a scale variant to the
// shape with the given id.
func NewAddScaleVariant(shapeID int, sv shape.ScaleVariant) Command {
	return &addScaleVariant{shapeID: shapeID, variant: sv.Clone()}
}

type addScaleVariant struct {
	shapeID int
	variant shape.ScaleVariant
}

func (cmd *addScaleVariant) Name() string { return "add scale variant" }

func (cmd *addScaleVariant) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	if v := shape.ValidateVariant(cmd.shapeID, "variant", cmd.variant); v != nil {
		return editErr(cmd.Name(), ErrInvariantViolation, "%s", v.Detail)
	}
	s.Variants = append(s.Variants, cmd.variant.Clone())
	return nil
}

func (cmd *addScaleVariant) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	s.Variants = s.Variants[:len(s.Variants)-1]
}

// NewRemoveScaleVariant returns a command that removes the variant at the
// given index. A shape's last variant cannot be removed.
func NewRemoveScaleVariant(shapeID, index int) Command {
	return &removeScaleVariant{shapeID: shapeID, index: index}
}

type removeScaleVariant struct {
	shapeID int
	index   int
	removed shape.ScaleVariant
}

func (cmd *removeScaleVariant) Name() string { return "remove scale variant" }

func (cmd *removeScaleVariant) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	if cmd.index < 0 || cmd.index >= len(s.Variants) {
		return editErr(cmd.Name(), ErrUnknownVariant, "shape %d has %d variants, index %d", cmd.shapeID, len(s.Variants), cmd.index)
	}
	if len(s.Variants) == 1 {
		return editErr(cmd.Name(), ErrInvariantViolation, "shape %d needs at least one scale variant", cmd.shapeID)
	}
	cmd.removed = s.Variants[cmd.index].Clone()
	s.Variants = slices.Delete(s.Variants, cmd.index, cmd.index+1)
	return nil
}

func (cmd *removeScaleVariant) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	s.Variants = slices.Insert(s.Variants, cmd.index, cmd.removed.Clone())
}

// NewAddVertex returns a command that inserts a vertex at index within the
// variant's winding order. Ports on edges at or after the insertion point are
// re-indexed so they stay on the same physical edges.
func NewAddVertex(shapeID, variant, index int, v shape.Vertex) Command {
	return &addVertex{shapeID: shapeID, variant: variant, index: index, vertex: v}
}

type addVertex struct {
	shapeID int
	variant int
	index   int
	vertex  shape.Vertex
	shifted []int
}

func (cmd *addVertex) Name() string { return "add vertex" }

func (cmd *addVertex) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	sv, err := resolveVariant(s, cmd.Name(), cmd.variant)
	if err != nil {
		return err
	}
	if cmd.index < 0 || cmd.index > len(sv.Verts) {
		return editErr(cmd.Name(), ErrUnknownVertex, "insertion index %d not in [0, %d]", cmd.index, len(sv.Verts))
	}
	if err := validateVertexValue(cmd.Name(), cmd.vertex); err != nil {
		return err
	}
	cmd.shifted = cmd.shifted[:0]
	if cmd.index < len(sv.Verts) {
		for i := range sv.Ports {
			if sv.Ports[i].Edge >= cmd.index {
				sv.Ports[i].Edge++
				cmd.shifted = append(cmd.shifted, i)
			}
		}
	}
	sv.Verts = slices.Insert(sv.Verts, cmd.index, cmd.vertex)
	return nil
}

func (cmd *addVertex) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	sv := &s.Variants[cmd.variant]
	sv.Verts = slices.Delete(sv.Verts, cmd.index, cmd.index+1)
	for _, i := range cmd.shifted {
		sv.Ports[i].Edge--
	}
}

// NewRemoveVertex returns a command that removes the vertex at index. Ports
// on the removed edge are dropped and ports on later edges are re-indexed;
// the inverse restores both. Removing a vertex of a triangle is rejected.
func NewRemoveVertex(shapeID, variant, index int) Command {
	return &removeVertex{shapeID: shapeID, variant: variant, index: index}
}

type removeVertex struct {
	shapeID int
	variant int
	index   int
	removed shape.Vertex
	// prevPorts is the variant's full port list before the removal; the exact
	// inverse of "drop some ports, renumber the rest" is restoring it.
	prevPorts []shape.Port
}

func (cmd *removeVertex) Name() string { return "remove vertex" }

func (cmd *removeVertex) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	sv, err := resolveVariant(s, cmd.Name(), cmd.variant)
	if err != nil {
		return err
	}
	if cmd.index < 0 || cmd.index >= len(sv.Verts) {
		return editErr(cmd.Name(), ErrUnknownVertex, "index %d not in [0, %d)", cmd.index, len(sv.Verts))
	}
	if len(sv.Verts) <= 3 {
		return editErr(cmd.Name(), ErrInvariantViolation, "polygon needs at least 3 vertices")
	}

	cmd.removed = sv.Verts[cmd.index]
	cmd.prevPorts = slices.Clone(sv.Ports)

	kept := sv.Ports[:0]
	for _, p := range sv.Ports {
		switch {
		case p.Edge == cmd.index:
			// Port lived on the deleted edge; it goes with it.
		case p.Edge > cmd.index:
			p.Edge--
			kept = append(kept, p)
		default:
			kept = append(kept, p)
		}
	}
	sv.Ports = kept
	sv.Verts = slices.Delete(sv.Verts, cmd.index, cmd.index+1)
	return nil
}

func (cmd *removeVertex) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	sv := &s.Variants[cmd.variant]
	sv.Verts = slices.Insert(sv.Verts, cmd.index, cmd.removed)
	sv.Ports = slices.Clone(cmd.prevPorts)
}

// NewMoveVertex returns a command that moves the vertex at index to pos.
func NewMoveVertex(shapeID, variant, index int, pos shape.Vertex) Command {
	return &moveVertex{shapeID: shapeID, variant: variant, index: index, to: pos}
}

type moveVertex struct {
	shapeID int
	variant int
	index   int
	to      shape.Vertex
	from    shape.Vertex
}

func (cmd *moveVertex) Name() string { return "move vertex" }

func (cmd *moveVertex) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	sv, err := resolveVariant(s, cmd.Name(), cmd.variant)
	if err != nil {
		return err
	}
	if cmd.index < 0 || cmd.index >= len(sv.Verts) {
		return editErr(cmd.Name(), ErrUnknownVertex, "index %d not in [0, %d)", cmd.index, len(sv.Verts))
	}
	if err := validateVertexValue(cmd.Name(), cmd.to); err != nil {
		return err
	}
	cmd.from = sv.Verts[cmd.index]
	sv.Verts[cmd.index] = cmd.to
	return nil
}

func (cmd *moveVertex) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	s.Variants[cmd.variant].Verts[cmd.index] = cmd.from
}

// NewAddPort returns a command that appends a port to the variant. The port
// must sit on an existing edge at a position within [0, 1].
func NewAddPort(shapeID, variant int, p shape.Port) Command {
	return &addPort{shapeID: shapeID, variant: variant, port: p}
}

type addPort struct {
	shapeID int
	variant int
	port    shape.Port
}

func (cmd *addPort) Name() string { return "add port" }

func (cmd *addPort) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	sv, err := resolveVariant(s, cmd.Name(), cmd.variant)
	if err != nil {
		return err
	}
	if err := validatePortAgainst(cmd.Name(), cmd.port, len(sv.Verts)); err != nil {
		return err
	}
	sv.Ports = append(sv.Ports, cmd.port)
	return nil
}

func (cmd *addPort) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	sv := &s.Variants[cmd.variant]
	sv.Ports = sv.Ports[:len(sv.Ports)-1]
}

// NewRemovePort returns a command that removes the port at index.
func NewRemovePort(shapeID, variant, index int) Command {
	return &removePort{shapeID: shapeID, variant: variant, index: index}
}

type removePort struct {
	shapeID int
	variant int
	index   int
	removed shape.Port
}

func (cmd *removePort) Name() string { return "remove port" }

func (cmd *removePort) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	sv, err := resolveVariant(s, cmd.Name(), cmd.variant)
	if err != nil {
		return err
	}
	if cmd.index < 0 || cmd.index >= len(sv.Ports) {
		return editErr(cmd.Name(), ErrUnknownPort, "index %d not in [0, %d)", cmd.index, len(sv.Ports))
	}
	cmd.removed = sv.Ports[cmd.index]
	sv.Ports = slices.Delete(sv.Ports, cmd.index, cmd.index+1)
	return nil
}

func (cmd *removePort) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	sv := &s.Variants[cmd.variant]
	sv.Ports = slices.Insert(sv.Ports, cmd.index, cmd.removed)
}

// NewModifyPort returns a command that replaces the port at index with p.
func NewModifyPort(shapeID, variant, index int, p shape.Port) Command {
	return &modifyPort{shapeID: shapeID, variant: variant, index: index, port: p}
}

type modifyPort struct {
	shapeID int
	variant int
	index   int
	port    shape.Port
	old     shape.Port
}

func (cmd *modifyPort) Name() string { return "modify port" }

func (cmd *modifyPort) apply(c *shape.Collection) error {
	s, err := resolveShape(c, cmd.Name(), cmd.shapeID)
	if err != nil {
		return err
	}
	sv, err := resolveVariant(s, cmd.Name(), cmd.variant)
	if err != nil {
		return err
	}
	if cmd.index < 0 || cmd.index >= len(sv.Ports) {
		return editErr(cmd.Name(), ErrUnknownPort, "index %d not in [0, %d)", cmd.index, len(sv.Ports))
	}
	if err := validatePortAgainst(cmd.Name(), cmd.port, len(sv.Verts)); err != nil {
		return err
	}
	cmd.old = sv.Ports[cmd.index]
	sv.Ports[cmd.index] = cmd.port
	return nil
}

func (cmd *modifyPort) revert(c *shape.Collection) {
	s, _ := c.ShapeByID(cmd.shapeID)
	s.Variants[cmd.variant].Ports[cmd.index] = cmd.old
}

func validatePortAgainst(command string, p shape.Port, vertCount int) *EditError {
	if p.Edge < 0 || p.Edge >= vertCount {
		return editErr(command, ErrInvariantViolation, "edge index %d not in [0, %d)", p.Edge, vertCount)
	}
	// Negated form so NaN fails the check too.
	if !(p.Position >= 0.0 && p.Position <= 1.0) {
		return editErr(command, ErrInvariantViolation, "position %v not in [0, 1]", p.Position)
	}
	return nil
}

// validateVertexValue rejects coordinates the file format cannot express.
func validateVertexValue(command string, v shape.Vertex) *EditError {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return editErr(command, ErrBadCommand, "coordinates must be finite, got (%v, %v)", v.X, v.Y)
	}
	return nil
}
