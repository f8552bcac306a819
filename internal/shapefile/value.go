// Package shapefile reads and writes the restricted Lua table-literal format
// used for shape definition files. It provides the literal parser, the typed
// model builder, and the canonical serializer; together they guarantee that
// importing and re-exporting a file never silently changes its meaning.
package shapefile

import "fmt"

// Pos is a location in the source text.
type Pos struct {
	// Offset is the byte offset from the start of the text.
	Offset int
	// Line is the 1-based line number.
	Line int
	// Column is the 1-based column number in bytes.
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ValueKind discriminates the variants of Value.
type ValueKind int

// Value kinds produced by the parser.
const (
	KindNumber ValueKind = iota
	KindString
	KindIdent
	KindTable
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindIdent:
		return "identifier"
	case KindTable:
		return "table"
	default:
		return "invalid"
	}
}

// Value is one node of the untyped literal tree the parser produces. It is
// purely structural: numbers and identifiers are stored as written, never
// evaluated. Interpretation is the builder's job.
type Value struct {
	Kind ValueKind
	// Num holds the numeric value when Kind is KindNumber.
	Num float64
	// Str holds string content (unquoted) or identifier text.
	Str string
	// Entries holds the ordered table entries when Kind is KindTable.
	Entries []Entry
	// Pos is where the value starts in the source.
	Pos Pos
}

// Entry is one table entry: an optional key, the value, and any line comment
// the parser attached to it.
type Entry struct {
	// Key is the entry's identifier key; empty for positional entries.
	Key string
	// Comment is the text of a line comment attached to this entry, trimmed,
	// without the leading "--". Empty when no comment was attached.
	Comment string
	Value   Value
}

// Positional returns the positional (unkeyed) entries of a table value.
func (v *Value) Positional() []Entry {
	out := make([]Entry, 0, len(v.Entries))
	for _, e := range v.Entries {
		if e.Key == "" {
			out = append(out, e)
		}
	}
	return out
}

// Keyed returns the entry with the given key, if present.
func (v *Value) Keyed(key string) (Entry, bool) {
	for _, e := range v.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}
