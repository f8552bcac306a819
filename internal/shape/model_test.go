package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPortType_Known(t *testing.T) {
	for _, p := range KnownPortTypes {
		assert.True(t, p.Known(), "expected %q to be known", p)
	}
	assert.False(t, PortType("FOO_BAR").Known())
	assert.False(t, PortType("").Known())
}

func TestParsePortType(t *testing.T) {
	p, known := ParsePortType("THRUSTER_IN")
	assert.True(t, known)
	assert.Equal(t, PortThrusterIn, p)

	p, known = ParsePortType("FOO_BAR")
	assert.False(t, known)
	assert.Equal(t, PortType("FOO_BAR"), p, "unknown tags must survive verbatim")
}

func TestParsePortType_IgnoresCase(t *testing.T) {
	p, known := ParsePortType("default")
	assert.True(t, known)
	assert.Equal(t, PortDefault, p)

	p, known = ParsePortType("Thruster_In")
	assert.True(t, known)
	assert.Equal(t, PortThrusterIn, p)

	p, known = ParsePortType("foo_bar")
	assert.False(t, known)
	assert.Equal(t, PortType("foo_bar"), p, "unknown tags keep their original case")
}

func TestPort_EffectiveType(t *testing.T) {
	assert.Equal(t, PortDefault, Port{}.EffectiveType())
	assert.Equal(t, PortMissile, Port{Type: PortMissile}.EffectiveType())
}

func TestShape_DisplayName(t *testing.T) {
	assert.Equal(t, "Thruster_Mount", Shape{ID: 3, Name: "Thruster_Mount"}.DisplayName())
	assert.Equal(t, "Shape_42", Shape{ID: 42}.DisplayName())
}

func TestCollection_IndexOf(t *testing.T) {
	c := &Collection{Shapes: []Shape{{ID: 5}, {ID: 9}}}
	assert.Equal(t, 0, c.IndexOf(5))
	assert.Equal(t, 1, c.IndexOf(9))
	assert.Equal(t, -1, c.IndexOf(100))
}

func TestCollection_CloneIsDeep(t *testing.T) {
	c := validTestCollection()
	clone := c.Clone()
	assert.True(t, c.Equal(clone))

	clone.Shapes[0].Variants[0].Verts[0].X = 99
	clone.Shapes[0].Variants[0].Ports[0].Edge = 2
	assert.False(t, c.Equal(clone), "mutating the clone must not affect the original")
	assert.Equal(t, 5.0, c.Shapes[0].Variants[0].Verts[0].X)
	assert.Equal(t, 0, c.Shapes[0].Variants[0].Ports[0].Edge)
}

func TestCollection_EqualTreatsEmptyTypeAsDefault(t *testing.T) {
	a := validTestCollection()
	b := validTestCollection()
	b.Shapes[0].Variants[0].Ports[0].Type = PortDefault
	a.Shapes[0].Variants[0].Ports[0].Type = ""
	assert.True(t, a.Equal(b))
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, validTestCollection().Validate())
}

func TestValidate_DuplicateID(t *testing.T) {
	c := validTestCollection()
	c.Shapes = append(c.Shapes, c.Shapes[0].Clone())
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationDuplicateID, v.Kind)
	assert.Equal(t, 101, v.ShapeID)
}

func TestValidate_NegativeID(t *testing.T) {
	c := validTestCollection()
	c.Shapes[0].ID = -1
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationNegativeID, v.Kind)
}

func TestValidate_NoVariants(t *testing.T) {
	c := validTestCollection()
	c.Shapes[0].Variants = nil
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationNoVariants, v.Kind)
	assert.Equal(t, 101, v.ShapeID)
}

func TestValidate_TooFewVertices(t *testing.T) {
	c := validTestCollection()
	c.Shapes[0].Variants[0].Verts = c.Shapes[0].Variants[0].Verts[:2]
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationTooFewVertices, v.Kind)
}

func TestValidate_EdgeOutOfRange(t *testing.T) {
	c := validTestCollection()
	c.Shapes[0].Variants[0].Ports[0].Edge = 4
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationEdgeOutOfRange, v.Kind)
}

func TestValidate_PositionOutOfRange(t *testing.T) {
	c := validTestCollection()
	c.Shapes[0].Variants[0].Ports[0].Position = 1.5
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationPositionOutOfRange, v.Kind)
}

func TestValidate_NaNPosition(t *testing.T) {
	c := validTestCollection()
	c.Shapes[0].Variants[0].Ports[0].Position = math.NaN()
	v := c.Validate()
	assert.NotNil(t, v)
	assert.Equal(t, ViolationPositionOutOfRange, v.Kind)
}

func TestValidate_NonFiniteVertex(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c := validTestCollection()
		c.Shapes[0].Variants[0].Verts[1].X = bad
		v := c.Validate()
		assert.NotNil(t, v, "coordinate %v should be rejected", bad)
		assert.Equal(t, ViolationNonFiniteValue, v.Kind)
	}
}

func TestPropertyCloneEqualsOriginal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCollection(t)
		clone := c.Clone()
		if !c.Equal(clone) {
			t.Fatalf("clone differs from original")
		}
		if !clone.Equal(c) {
			t.Fatalf("equality is not symmetric")
		}
	})
}

// genCollection generates a random structurally valid collection.
func genCollection(t *rapid.T) *Collection {
	numShapes := rapid.IntRange(0, 5).Draw(t, "num_shapes")
	c := NewCollection()
	for i := 0; i < numShapes; i++ {
		s := Shape{
			ID:   i*10 + rapid.IntRange(0, 9).Draw(t, "id_offset"),
			Name: rapid.StringMatching(`[A-Za-z_][A-Za-z0-9_]{0,12}`).Draw(t, "name"),
		}
		numVariants := rapid.IntRange(1, 3).Draw(t, "num_variants")
		for j := 0; j < numVariants; j++ {
			s.Variants = append(s.Variants, genVariant(t))
		}
		c.Shapes = append(c.Shapes, s)
	}
	return c
}

func genVariant(t *rapid.T) ScaleVariant {
	numVerts := rapid.IntRange(3, 8).Draw(t, "num_verts")
	var sv ScaleVariant
	for i := 0; i < numVerts; i++ {
		sv.Verts = append(sv.Verts, Vertex{
			X: rapid.Float64Range(-100, 100).Draw(t, "x"),
			Y: rapid.Float64Range(-100, 100).Draw(t, "y"),
		})
	}
	numPorts := rapid.IntRange(0, 4).Draw(t, "num_ports")
	for i := 0; i < numPorts; i++ {
		sv.Ports = append(sv.Ports, Port{
			Edge:     rapid.IntRange(0, numVerts-1).Draw(t, "edge"),
			Position: rapid.Float64Range(0, 1).Draw(t, "position"),
			Type:     KnownPortTypes[rapid.IntRange(0, len(KnownPortTypes)-1).Draw(t, "type")],
		})
	}
	return sv
}

func validTestCollection() *Collection {
	return &Collection{
		Shapes: []Shape{
			{
				ID:   101,
				Name: "Shape_Name",
				Variants: []ScaleVariant{
					{
						Verts: []Vertex{{5, 5}, {5, -5}, {-5, -5}, {-5, 5}},
						Ports: []Port{
							{Edge: 0, Position: 0.5, Type: PortDefault},
							{Edge: 1, Position: 0.5, Type: PortThrusterIn},
						},
					},
				},
			},
		},
	}
}
