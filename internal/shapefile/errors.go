package shapefile

import (
	"errors"
	"fmt"
)

// Parse error kinds. A *ParseError wraps exactly one of these, so callers can
// branch with errors.Is.
var (
	ErrUnbalancedBrace    = errors.New("unbalanced brace")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrInvalidNumber      = errors.New("invalid number")
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrTooDeep            = errors.New("table nesting too deep")
)

// ParseError is a fatal syntax error in the literal text. It always carries
// the source position of the failure.
type ParseError struct {
	Err    error
	Pos    Pos
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Pos, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Pos, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Schema error kinds. A *SchemaError wraps exactly one of these.
var (
	ErrInvalidID          = errors.New("shape id must be a non-negative integer")
	ErrMissingVerts       = errors.New("scale variant has no verts table")
	ErrMalformedEntry     = errors.New("malformed entry")
	ErrDuplicateID        = errors.New("duplicate shape id")
	ErrTooFewVertices     = errors.New("polygon needs at least 3 vertices")
	ErrEdgeOutOfRange     = errors.New("port edge index out of range")
	ErrPositionOutOfRange = errors.New("port position out of range")
	ErrNoScaleVariants    = errors.New("shape needs at least one scale variant")
)

// SchemaError is a fatal structural error: the literal parsed, but its
// contents violate the shape schema. Builds are all-or-nothing, so a
// SchemaError means no collection was produced at all.
type SchemaError struct {
	Err error
	// ShapeID is the offending shape's ID, or -1 when no ID could be read.
	ShapeID int
	// Field locates the offending value, e.g. "variants[0].ports[2].position".
	Field string
	// Pos is the source position of the offending value, when known.
	Pos Pos
	// FirstPos is the position of the earlier definition for duplicate IDs.
	FirstPos Pos
	Detail   string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("shape %d: %s: %v", e.ShapeID, e.Field, e.Err)
	if e.ShapeID < 0 {
		msg = fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Pos.Line > 0 {
		msg += " (" + e.Pos.String() + ")"
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

// WarningKind names a recoverable anomaly found during a build.
type WarningKind string

// Warning kinds.
const (
	WarnUnknownPortType WarningKind = "unknown_port_type"
)

// Warning is a non-fatal anomaly collected during a successful build.
type Warning struct {
	Kind    WarningKind
	ShapeID int
	Field   string
	// Detail carries the anomalous text, e.g. the unrecognized identifier.
	Detail string
	Pos    Pos
}

func (w Warning) String() string {
	return fmt.Sprintf("shape %d: %s: %s: %s", w.ShapeID, w.Field, w.Kind, w.Detail)
}
