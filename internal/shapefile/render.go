package shapefile

import (
	"strconv"
	"strings"

	"github.com/modsmith/shapeforge/internal/shape"
)

// Render serializes a collection back to canonical shape-file text. Output is
// accepted by Parse and Build, and building the result yields a collection
// structurally equal to the input: ids, names, geometry, ports, and variant
// grouping all survive the round trip.
//
// Numbers render with the shortest digit sequence that parses back to the
// identical value. Port types render as bare identifiers; PortDefault is
// omitted entirely since an absent type already means default.
func Render(c *shape.Collection) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range c.Shapes {
		renderShape(&sb, s)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func renderShape(sb *strings.Builder, s shape.Shape) {
	sb.WriteString("  {")
	sb.WriteString(strconv.Itoa(s.ID))
	sb.WriteString(",")
	if s.Name != "" {
		sb.WriteString("  --")
		sb.WriteString(s.Name)
	}
	sb.WriteString("\n    {\n")
	for _, sv := range s.Variants {
		renderVariant(sb, sv)
	}
	sb.WriteString("    },\n")
	if s.LauncherRadial {
		sb.WriteString("    launcher_radial=true,\n")
	}
	sb.WriteString("  },\n")
}

func renderVariant(sb *strings.Builder, sv shape.ScaleVariant) {
	sb.WriteString("      { verts={ ")
	for i, v := range sv.Verts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("{")
		sb.WriteString(formatNum(v.X))
		sb.WriteString(",")
		sb.WriteString(formatNum(v.Y))
		sb.WriteString("}")
	}
	sb.WriteString(" }")
	if len(sv.Ports) > 0 {
		sb.WriteString(",\n        ports={ ")
		for i, p := range sv.Ports {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("{")
			sb.WriteString(strconv.Itoa(p.Edge))
			sb.WriteString(",")
			sb.WriteString(formatNum(p.Position))
			if t := p.EffectiveType(); t != shape.PortDefault {
				sb.WriteString(",")
				sb.WriteString(string(t))
			}
			sb.WriteString("}")
		}
		sb.WriteString(" }")
	}
	sb.WriteString(" },\n")
}

// formatNum renders a float with the minimal digits that round-trip exactly.
// Integral values come out without a fractional part.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
