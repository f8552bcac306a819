package shapefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/modsmith/shapeforge/internal/shape"
)

func TestRender_CanonicalRoundTrip(t *testing.T) {
	original, _ := buildText(t, canonicalText)

	rebuilt, warnings, err := ParseAndBuild(Render(original))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, original.Equal(rebuilt), "round trip must preserve ids, names, geometry and ports")
}

func TestRender_DefaultPortTypeOmitted(t *testing.T) {
	c, _ := buildText(t, canonicalText)
	text := Render(c)
	assert.NotContains(t, text, "DEFAULT", "absent type already means default")
	assert.Contains(t, text, "THRUSTER_IN")
	assert.Contains(t, text, "THRUSTER_OUT")
}

func TestRender_NameEmittedAsComment(t *testing.T) {
	c, _ := buildText(t, canonicalText)
	assert.Contains(t, Render(c), "--Shape_Name")
}

func TestRender_UnnamedShapeEmitsNoComment(t *testing.T) {
	c := &shape.Collection{Shapes: []shape.Shape{{
		ID:       12,
		Variants: []shape.ScaleVariant{{Verts: []shape.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}}},
	}}}
	assert.NotContains(t, Render(c), "--")
}

func TestRender_LauncherRadial(t *testing.T) {
	c, _ := buildText(t, `{ {1, { { verts={ {0,0},{1,0},{0,1} } } }, launcher_radial=true } }`)
	text := Render(c)
	assert.Contains(t, text, "launcher_radial=true")

	rebuilt, _, err := ParseAndBuild(text)
	require.NoError(t, err)
	assert.True(t, rebuilt.Shapes[0].LauncherRadial)
}

func TestRender_NumbersRoundTripExactly(t *testing.T) {
	c := &shape.Collection{Shapes: []shape.Shape{{
		ID: 1,
		Variants: []shape.ScaleVariant{{
			Verts: []shape.Vertex{{X: 0.1, Y: -0.2}, {X: 1.0 / 3.0, Y: 5}, {X: -5, Y: 1e21}},
			Ports: []shape.Port{{Edge: 2, Position: 0.30000000000000004}},
		}},
	}}}
	rebuilt, _, err := ParseAndBuild(Render(c))
	require.NoError(t, err)
	assert.True(t, c.Equal(rebuilt))
}

func TestRender_IntegralFloatsHaveNoFraction(t *testing.T) {
	assert.Equal(t, "5", formatNum(5))
	assert.Equal(t, "-5", formatNum(-5))
	assert.Equal(t, "0", formatNum(0))
	assert.Equal(t, "0.5", formatNum(0.5))
}

func TestCheckLua_AcceptsRenderedOutput(t *testing.T) {
	c, _ := buildText(t, canonicalText)
	assert.NoError(t, CheckLua(Render(c)))
}

func TestCheckLua_AcceptsCanonicalText(t *testing.T) {
	assert.NoError(t, CheckLua(canonicalText))
}

func TestCheckLua_RejectsNonLua(t *testing.T) {
	assert.Error(t, CheckLua("{ this is not lua ("))
	assert.Error(t, CheckLua("nil"))
}

func TestPropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCollection(t)
		text := Render(c)

		rebuilt, warnings, err := ParseAndBuild(text)
		if err != nil {
			t.Fatalf("rendered output failed to import: %v\n%s", err, text)
		}
		for _, w := range warnings {
			if w.Kind != WarnUnknownPortType {
				t.Fatalf("unexpected warning: %s", w)
			}
		}
		if !c.Equal(rebuilt) {
			t.Fatalf("round trip changed the collection\n%s", text)
		}
	})
}

func TestPropertyRenderedOutputIsRealLua(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCollection(t)
		if err := CheckLua(Render(c)); err != nil {
			t.Fatalf("rendered output is not valid Lua: %v", err)
		}
	})
}

// genCollection generates a random structurally valid collection, unknown
// port types included.
func genCollection(t *rapid.T) *shape.Collection {
	numShapes := rapid.IntRange(0, 5).Draw(t, "num_shapes")
	c := shape.NewCollection()
	for i := 0; i < numShapes; i++ {
		s := shape.Shape{
			ID:             i*10 + rapid.IntRange(0, 9).Draw(t, "id_offset"),
			Name:           rapid.StringMatching(`([A-Za-z_][A-Za-z0-9_]{0,12})?`).Draw(t, "name"),
			LauncherRadial: rapid.Bool().Draw(t, "launcher_radial"),
		}
		numVariants := rapid.IntRange(1, 3).Draw(t, "num_variants")
		for j := 0; j < numVariants; j++ {
			s.Variants = append(s.Variants, genVariant(t))
		}
		c.Shapes = append(c.Shapes, s)
	}
	return c
}

func genVariant(t *rapid.T) shape.ScaleVariant {
	numVerts := rapid.IntRange(3, 8).Draw(t, "num_verts")
	var sv shape.ScaleVariant
	for i := 0; i < numVerts; i++ {
		sv.Verts = append(sv.Verts, shape.Vertex{
			X: rapid.Float64Range(-1000, 1000).Draw(t, "x"),
			Y: rapid.Float64Range(-1000, 1000).Draw(t, "y"),
		})
	}
	numPorts := rapid.IntRange(0, 4).Draw(t, "num_ports")
	for i := 0; i < numPorts; i++ {
		sv.Ports = append(sv.Ports, shape.Port{
			Edge:     rapid.IntRange(0, numVerts-1).Draw(t, "edge"),
			Position: rapid.Float64Range(0, 1).Draw(t, "position"),
			Type:     genPortType(t),
		})
	}
	return sv
}

func genPortType(t *rapid.T) shape.PortType {
	if rapid.IntRange(0, 9).Draw(t, "unknown_type") == 0 {
		return shape.PortType(rapid.StringMatching(`[A-Z][A-Z_]{2,10}`).Draw(t, "tag"))
	}
	idx := rapid.IntRange(0, len(shape.KnownPortTypes)-1).Draw(t, "type_idx")
	return shape.KnownPortTypes[idx]
}
