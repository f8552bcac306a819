package shape

import (
	"fmt"
	"math"
)

// ViolationKind names which structural invariant a collection breaks.
type ViolationKind string

// The structural invariants every collection must satisfy.
const (
	ViolationDuplicateID        ViolationKind = "duplicate_id"
	ViolationNegativeID         ViolationKind = "negative_id"
	ViolationNoVariants         ViolationKind = "no_scale_variants"
	ViolationTooFewVertices     ViolationKind = "too_few_vertices"
	ViolationNonFiniteValue     ViolationKind = "non_finite_value"
	ViolationEdgeOutOfRange     ViolationKind = "edge_index_out_of_range"
	ViolationPositionOutOfRange ViolationKind = "port_position_out_of_range"
)

// Violation describes the first structural invariant a collection breaks.
type Violation struct {
	Kind ViolationKind
	// ShapeID is the offending shape's ID.
	ShapeID int
	// Field locates the offending value within the shape, e.g. "variants[0].verts".
	Field string
	// Detail is a human-readable elaboration.
	Detail string
}

func (v *Violation) String() string {
	return fmt.Sprintf("shape %d: %s: %s", v.ShapeID, v.Field, v.Detail)
}

// validatePort checks a single port against its owning variant's vertex count.
func validatePort(shapeID int, field string, p Port, vertCount int) *Violation {
	if p.Edge < 0 || p.Edge >= vertCount {
		return &Violation{
			Kind:    ViolationEdgeOutOfRange,
			ShapeID: shapeID,
			Field:   field,
			Detail:  fmt.Sprintf("edge index %d not in [0, %d)", p.Edge, vertCount),
		}
	}
	// Negated form so NaN fails the check too.
	if !(p.Position >= 0.0 && p.Position <= 1.0) {
		return &Violation{
			Kind:    ViolationPositionOutOfRange,
			ShapeID: shapeID,
			Field:   field,
			Detail:  fmt.Sprintf("position %v not in [0, 1]", p.Position),
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateVariant checks one scale variant in isolation: at least three
// vertices, every port on an existing edge at a normalized position.
func ValidateVariant(shapeID int, field string, sv ScaleVariant) *Violation {
	if len(sv.Verts) < 3 {
		return &Violation{
			Kind:    ViolationTooFewVertices,
			ShapeID: shapeID,
			Field:   field + ".verts",
			Detail:  fmt.Sprintf("polygon needs at least 3 vertices, has %d", len(sv.Verts)),
		}
	}
	// NaN and infinity have no textual form the file format can take back.
	for i, vert := range sv.Verts {
		if !finite(vert.X) || !finite(vert.Y) {
			return &Violation{
				Kind:    ViolationNonFiniteValue,
				ShapeID: shapeID,
				Field:   fmt.Sprintf("%s.verts[%d]", field, i),
				Detail:  fmt.Sprintf("coordinates must be finite, got (%v, %v)", vert.X, vert.Y),
			}
		}
	}
	for i, p := range sv.Ports {
		if v := validatePort(shapeID, fmt.Sprintf("%s.ports[%d]", field, i), p, len(sv.Verts)); v != nil {
			return v
		}
	}
	return nil
}

// Validate checks all structural invariants and returns the first violation,
// or nil when the collection is well-formed.
func (c *Collection) Validate() *Violation {
	seen := make(map[int]int, len(c.Shapes))
	for i, s := range c.Shapes {
		if s.ID < 0 {
			return &Violation{
				Kind:    ViolationNegativeID,
				ShapeID: s.ID,
				Field:   "id",
				Detail:  "shape IDs must be non-negative",
			}
		}
		if first, dup := seen[s.ID]; dup {
			return &Violation{
				Kind:    ViolationDuplicateID,
				ShapeID: s.ID,
				Field:   "id",
				Detail:  fmt.Sprintf("also defined at entry %d (this is entry %d)", first, i),
			}
		}
		seen[s.ID] = i
		if len(s.Variants) == 0 {
			return &Violation{
				Kind:    ViolationNoVariants,
				ShapeID: s.ID,
				Field:   "variants",
				Detail:  "shape needs at least one scale variant",
			}
		}
		for j, sv := range s.Variants {
			if v := ValidateVariant(s.ID, fmt.Sprintf("variants[%d]", j), sv); v != nil {
				return v
			}
		}
	}
	return nil
}
