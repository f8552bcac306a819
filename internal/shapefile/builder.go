package shapefile

import (
	"fmt"
	"math"

	"github.com/modsmith/shapeforge/internal/shape"
)

// Build walks a parsed value tree and produces a typed, validated shape
// collection. Builds are all-or-nothing: the first schema violation aborts
// the whole build and no collection is returned.
//
// Unknown port type identifiers are not errors; they are preserved on the
// port verbatim and reported as warnings, since the game may define port
// types this tool does not know about.
//
// Postcondition: returns (collection, warnings, nil) or (nil, nil, err) where
// err is always a *SchemaError.
func Build(doc *Value) (*shape.Collection, []Warning, error) {
	if doc.Kind != KindTable {
		return nil, nil, &SchemaError{
			Err:     ErrMalformedEntry,
			ShapeID: -1,
			Field:   "document",
			Pos:     doc.Pos,
			Detail:  fmt.Sprintf("expected a table of shapes, found %s", doc.Kind),
		}
	}

	b := &builder{}
	collection := shape.NewCollection()
	type shapePos struct {
		entry int
		pos   Pos
	}
	seen := make(map[int]shapePos)

	for i, entry := range doc.Positional() {
		s, pos, err := b.buildShape(entry)
		if err != nil {
			return nil, nil, err
		}
		if first, dup := seen[s.ID]; dup {
			return nil, nil, &SchemaError{
				Err:      ErrDuplicateID,
				ShapeID:  s.ID,
				Field:    "id",
				Pos:      pos,
				FirstPos: first.pos,
				Detail:   fmt.Sprintf("entries %d and %d define the same id", first.entry, i),
			}
		}
		seen[s.ID] = shapePos{entry: i, pos: pos}
		collection.Shapes = append(collection.Shapes, s)
	}

	if v := collection.Validate(); v != nil {
		return nil, nil, violationError(v)
	}
	return collection, b.warnings, nil
}

// violationError maps a model-level invariant violation onto the schema error
// taxonomy. Positions are not available here; structural checks that can
// point at source carry their own positions instead.
func violationError(v *shape.Violation) *SchemaError {
	var kind error
	switch v.Kind {
	case shape.ViolationDuplicateID:
		kind = ErrDuplicateID
	case shape.ViolationNegativeID:
		kind = ErrInvalidID
	case shape.ViolationNoVariants:
		kind = ErrNoScaleVariants
	case shape.ViolationTooFewVertices:
		kind = ErrTooFewVertices
	case shape.ViolationEdgeOutOfRange:
		kind = ErrEdgeOutOfRange
	case shape.ViolationPositionOutOfRange:
		kind = ErrPositionOutOfRange
	default:
		kind = ErrMalformedEntry
	}
	return &SchemaError{
		Err:     kind,
		ShapeID: v.ShapeID,
		Field:   v.Field,
		Detail:  v.Detail,
	}
}

type builder struct {
	warnings []Warning
}

// buildShape converts one top-level entry into a Shape. The entry must be a
// table whose first positional element is the id; the id entry's trailing
// comment, when present, is the shape's name.
func (b *builder) buildShape(entry Entry) (shape.Shape, Pos, error) {
	v := entry.Value
	if v.Kind != KindTable {
		return shape.Shape{}, v.Pos, &SchemaError{
			Err:     ErrMalformedEntry,
			ShapeID: -1,
			Field:   "shape",
			Pos:     v.Pos,
			Detail:  fmt.Sprintf("expected a shape table, found %s", v.Kind),
		}
	}

	positional := v.Positional()
	if len(positional) == 0 {
		return shape.Shape{}, v.Pos, &SchemaError{
			Err:     ErrMalformedEntry,
			ShapeID: -1,
			Field:   "shape",
			Pos:     v.Pos,
			Detail:  "shape table is empty",
		}
	}

	idEntry := positional[0]
	id, err := intFromValue(idEntry.Value)
	if err != nil || id < 0 {
		return shape.Shape{}, v.Pos, &SchemaError{
			Err:     ErrInvalidID,
			ShapeID: -1,
			Field:   "id",
			Pos:     idEntry.Value.Pos,
			Detail:  fmt.Sprintf("found %s", describeValue(idEntry.Value)),
		}
	}

	s := shape.Shape{ID: id}
	// The name comment usually trails the id entry; hand-edited files
	// sometimes put it on the outer entry instead.
	if idEntry.Comment != "" {
		s.Name = idEntry.Comment
	} else if entry.Comment != "" {
		s.Name = entry.Comment
	}

	variantIdx := 0
	for _, rest := range positional[1:] {
		switch rest.Value.Kind {
		case KindTable:
			// A table carrying a verts or ports key is a scale variant
			// itself; otherwise it is a container of scale variants.
			_, hasVerts := rest.Value.Keyed("verts")
			_, hasPorts := rest.Value.Keyed("ports")
			if hasVerts || hasPorts {
				sv, err := b.buildVariant(id, variantIdx, rest.Value)
				if err != nil {
					return shape.Shape{}, v.Pos, err
				}
				s.Variants = append(s.Variants, sv)
				variantIdx++
				continue
			}
			for _, ve := range rest.Value.Positional() {
				if ve.Value.Kind != KindTable {
					return shape.Shape{}, v.Pos, &SchemaError{
						Err:     ErrMalformedEntry,
						ShapeID: id,
						Field:   fmt.Sprintf("variants[%d]", variantIdx),
						Pos:     ve.Value.Pos,
						Detail:  fmt.Sprintf("expected a scale variant table, found %s", ve.Value.Kind),
					}
				}
				sv, err := b.buildVariant(id, variantIdx, ve.Value)
				if err != nil {
					return shape.Shape{}, v.Pos, err
				}
				s.Variants = append(s.Variants, sv)
				variantIdx++
			}
		case KindIdent:
			// Bare "launcher_radial" with no value means true.
			if rest.Value.Str == "launcher_radial" {
				s.LauncherRadial = true
				continue
			}
			return shape.Shape{}, v.Pos, &SchemaError{
				Err:     ErrMalformedEntry,
				ShapeID: id,
				Field:   "shape",
				Pos:     rest.Value.Pos,
				Detail:  fmt.Sprintf("unexpected identifier %q in shape table", rest.Value.Str),
			}
		default:
			return shape.Shape{}, v.Pos, &SchemaError{
				Err:     ErrMalformedEntry,
				ShapeID: id,
				Field:   "shape",
				Pos:     rest.Value.Pos,
				Detail:  fmt.Sprintf("unexpected %s in shape table", rest.Value.Kind),
			}
		}
	}

	if lr, ok := v.Keyed("launcher_radial"); ok {
		s.LauncherRadial = lr.Value.Kind == KindIdent && lr.Value.Str == "true"
	}

	return s, v.Pos, nil
}

// buildVariant converts one scale-variant table: a required keyed verts table
// and an optional keyed ports table.
func (b *builder) buildVariant(shapeID, idx int, v Value) (shape.ScaleVariant, error) {
	field := fmt.Sprintf("variants[%d]", idx)

	vertsEntry, ok := v.Keyed("verts")
	if !ok {
		return shape.ScaleVariant{}, &SchemaError{
			Err:     ErrMissingVerts,
			ShapeID: shapeID,
			Field:   field,
			Pos:     v.Pos,
		}
	}
	if vertsEntry.Value.Kind != KindTable {
		return shape.ScaleVariant{}, &SchemaError{
			Err:     ErrMalformedEntry,
			ShapeID: shapeID,
			Field:   field + ".verts",
			Pos:     vertsEntry.Value.Pos,
			Detail:  fmt.Sprintf("expected a table, found %s", vertsEntry.Value.Kind),
		}
	}

	var sv shape.ScaleVariant
	for i, ve := range vertsEntry.Value.Positional() {
		vert, err := vertexFromValue(shapeID, fmt.Sprintf("%s.verts[%d]", field, i), ve.Value)
		if err != nil {
			return shape.ScaleVariant{}, err
		}
		sv.Verts = append(sv.Verts, vert)
	}

	if portsEntry, ok := v.Keyed("ports"); ok {
		if portsEntry.Value.Kind != KindTable {
			return shape.ScaleVariant{}, &SchemaError{
				Err:     ErrMalformedEntry,
				ShapeID: shapeID,
				Field:   field + ".ports",
				Pos:     portsEntry.Value.Pos,
				Detail:  fmt.Sprintf("expected a table, found %s", portsEntry.Value.Kind),
			}
		}
		for i, pe := range portsEntry.Value.Positional() {
			port, err := b.portFromValue(shapeID, fmt.Sprintf("%s.ports[%d]", field, i), pe.Value)
			if err != nil {
				return shape.ScaleVariant{}, err
			}
			sv.Ports = append(sv.Ports, port)
		}
	}

	return sv, nil
}

// vertexFromValue converts a two-element numeric table into a Vertex.
func vertexFromValue(shapeID int, field string, v Value) (shape.Vertex, error) {
	malformed := func(detail string) error {
		return &SchemaError{
			Err:     ErrMalformedEntry,
			ShapeID: shapeID,
			Field:   field,
			Pos:     v.Pos,
			Detail:  detail,
		}
	}
	if v.Kind != KindTable {
		return shape.Vertex{}, malformed(fmt.Sprintf("expected a vertex pair table, found %s", v.Kind))
	}
	elems := v.Positional()
	if len(elems) != 2 {
		return shape.Vertex{}, malformed(fmt.Sprintf("vertex needs exactly 2 numbers, has %d elements", len(elems)))
	}
	if elems[0].Value.Kind != KindNumber || elems[1].Value.Kind != KindNumber {
		return shape.Vertex{}, malformed("vertex coordinates must be numbers")
	}
	return shape.Vertex{X: elems[0].Value.Num, Y: elems[1].Value.Num}, nil
}

// portFromValue converts a 2- or 3-element table into a Port: edge index,
// normalized position, optional type identifier.
func (b *builder) portFromValue(shapeID int, field string, v Value) (shape.Port, error) {
	malformed := func(detail string) error {
		return &SchemaError{
			Err:     ErrMalformedEntry,
			ShapeID: shapeID,
			Field:   field,
			Pos:     v.Pos,
			Detail:  detail,
		}
	}
	if v.Kind != KindTable {
		return shape.Port{}, malformed(fmt.Sprintf("expected a port table, found %s", v.Kind))
	}
	elems := v.Positional()
	if len(elems) < 2 || len(elems) > 3 {
		return shape.Port{}, malformed(fmt.Sprintf("port needs 2 or 3 elements, has %d", len(elems)))
	}
	edge, err := intFromValue(elems[0].Value)
	if err != nil || edge < 0 {
		return shape.Port{}, malformed(fmt.Sprintf("edge index must be a non-negative integer, found %s", describeValue(elems[0].Value)))
	}
	if elems[1].Value.Kind != KindNumber {
		return shape.Port{}, malformed(fmt.Sprintf("position must be a number, found %s", elems[1].Value.Kind))
	}
	port := shape.Port{Edge: edge, Position: elems[1].Value.Num, Type: shape.PortDefault}
	if len(elems) == 3 {
		tv := elems[2].Value
		if tv.Kind != KindIdent {
			return shape.Port{}, malformed(fmt.Sprintf("port type must be a bare identifier, found %s", tv.Kind))
		}
		pt, known := shape.ParsePortType(tv.Str)
		port.Type = pt
		if !known {
			b.warnings = append(b.warnings, Warning{
				Kind:    WarnUnknownPortType,
				ShapeID: shapeID,
				Field:   field,
				Detail:  tv.Str,
				Pos:     tv.Pos,
			})
		}
	}
	return port, nil
}

// intFromValue extracts an exact integer from a numeric value.
func intFromValue(v Value) (int, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("not a number")
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("not integral")
	}
	return int(v.Num), nil
}

func describeValue(v Value) string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("number %s", v.Str)
	case KindString:
		return fmt.Sprintf("string %q", v.Str)
	case KindIdent:
		return fmt.Sprintf("identifier %q", v.Str)
	default:
		return v.Kind.String()
	}
}
