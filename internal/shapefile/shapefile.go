package shapefile

import (
	"github.com/modsmith/shapeforge/internal/shape"
)

// ParseAndBuild is the composed import operation: text in, typed collection
// out. On any error nothing is produced, so the caller's existing collection
// is its fallback.
//
// Postcondition: returns (collection, warnings, nil), or (nil, nil, err)
// where err is a *ParseError or a *SchemaError.
func ParseAndBuild(text string) (*shape.Collection, []Warning, error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, nil, err
	}
	return Build(doc)
}
