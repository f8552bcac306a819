// Package shape defines the in-memory shape data model: collections of
// identified polygon shapes, each with one or more scale variants made of
// vertices and typed connection ports.
package shape

import (
	"fmt"
	"strings"
)

// PortType identifies what a connection port is for. Known values mirror the
// game's port vocabulary; any other value is an unrecognized tag carried
// through verbatim so re-export never loses it.
type PortType string

// Port types recognized by the game.
const (
	PortDefault     PortType = "DEFAULT"
	PortThrusterIn  PortType = "THRUSTER_IN"
	PortThrusterOut PortType = "THRUSTER_OUT"
	PortWeaponIn    PortType = "WEAPON_IN"
	PortWeaponOut   PortType = "WEAPON_OUT"
	PortMissile     PortType = "MISSILE"
	PortLauncher    PortType = "LAUNCHER"
	PortRoot        PortType = "ROOT"
	PortNone        PortType = "NONE"
)

// KnownPortTypes contains every port type the game defines.
var KnownPortTypes = []PortType{
	PortDefault, PortThrusterIn, PortThrusterOut,
	PortWeaponIn, PortWeaponOut,
	PortMissile, PortLauncher, PortRoot, PortNone,
}

// Known reports whether p is one of the game-defined port types.
func (p PortType) Known() bool {
	for _, k := range KnownPortTypes {
		if p == k {
			return true
		}
	}
	return false
}

// ParsePortType maps an identifier from a shape file to a PortType. Matching
// ignores case, mirroring the game's tolerance; unknown identifiers are
// preserved as-is and reported via the second return value, since the game
// may define port types this tool does not know about.
func ParsePortType(s string) (PortType, bool) {
	upper := PortType(strings.ToUpper(s))
	if upper.Known() {
		return upper, true
	}
	return PortType(s), false
}

// Vertex is one polygon corner in shape-local coordinates.
type Vertex struct {
	X float64
	Y float64
}

// Port is a typed connection point on a polygon edge.
type Port struct {
	// Edge is the zero-based index of the polygon edge the port lies on.
	Edge int
	// Position is the normalized location along the edge, in [0, 1].
	Position float64
	// Type is the port's connection type. Empty is treated as PortDefault.
	Type PortType
}

// EffectiveType returns the port's type, substituting PortDefault for empty.
func (p Port) EffectiveType() PortType {
	if p.Type == "" {
		return PortDefault
	}
	return p.Type
}

// ScaleVariant is one concrete polygon for a shape at a particular size tier.
// Vertex order is winding order; the polygon is closed implicitly, so the
// edge count equals the vertex count.
type ScaleVariant struct {
	Verts []Vertex
	Ports []Port
}

// Clone returns a deep copy of the variant.
func (sv ScaleVariant) Clone() ScaleVariant {
	out := ScaleVariant{
		Verts: make([]Vertex, len(sv.Verts)),
		Ports: make([]Port, len(sv.Ports)),
	}
	copy(out.Verts, sv.Verts)
	copy(out.Ports, sv.Ports)
	return out
}

// Equal reports structural equality with other.
func (sv ScaleVariant) Equal(other ScaleVariant) bool {
	if len(sv.Verts) != len(other.Verts) || len(sv.Ports) != len(other.Ports) {
		return false
	}
	for i, v := range sv.Verts {
		if v != other.Verts[i] {
			return false
		}
	}
	for i, p := range sv.Ports {
		q := other.Ports[i]
		if p.Edge != q.Edge || p.Position != q.Position || p.EffectiveType() != q.EffectiveType() {
			return false
		}
	}
	return true
}

// Shape is a named, identified polygon definition with one or more scale
// variants. The ID is the cross-reference key block definitions use; Name is
// recovered from a source comment and may be empty.
type Shape struct {
	ID   int
	Name string
	// LauncherRadial is an optional per-shape flag carried through from the
	// source file without interpretation.
	LauncherRadial bool
	Variants       []ScaleVariant
}

// DisplayName returns the shape's name, or a synthesized placeholder when the
// source file carried none.
func (s Shape) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Shape_%d", s.ID)
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := s
	out.Variants = make([]ScaleVariant, len(s.Variants))
	for i, sv := range s.Variants {
		out.Variants[i] = sv.Clone()
	}
	return out
}

// Equal reports structural equality with other.
func (s Shape) Equal(other Shape) bool {
	if s.ID != other.ID || s.Name != other.Name || s.LauncherRadial != other.LauncherRadial {
		return false
	}
	if len(s.Variants) != len(other.Variants) {
		return false
	}
	for i, sv := range s.Variants {
		if !sv.Equal(other.Variants[i]) {
			return false
		}
	}
	return true
}

// Collection is an ordered sequence of shapes. Order is file order and is
// preserved across re-export; IDs, not positions, are the referential key.
type Collection struct {
	Shapes []Shape
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{Shapes: make([]Shape, len(c.Shapes))}
	for i, s := range c.Shapes {
		out.Shapes[i] = s.Clone()
	}
	return out
}

// Equal reports structural equality with other.
func (c *Collection) Equal(other *Collection) bool {
	if len(c.Shapes) != len(other.Shapes) {
		return false
	}
	for i, s := range c.Shapes {
		if !s.Equal(other.Shapes[i]) {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the shape with the given ID, or -1.
func (c *Collection) IndexOf(id int) int {
	for i, s := range c.Shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// ShapeByID returns a pointer to the shape with the given ID, if present.
// The pointer is invalidated by any mutation that grows c.Shapes.
func (c *Collection) ShapeByID(id int) (*Shape, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return &c.Shapes[i], true
	}
	return nil, false
}
