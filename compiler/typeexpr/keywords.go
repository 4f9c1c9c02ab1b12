package typeexpr

import "strings"

// Composite type keywords take bracketed arguments: array[T],
// map[K,V], optional[T], reference[Entity], enum[a,b,c].
const (
	kwArray     = "array"
	kwMap       = "map"
	kwOptional  = "optional"
	kwReference = "reference"
	kwEnum      = "enum"
	kwObject    = "object"
)

// primitives are the built-in scalar type names. Anything else without
// brackets is recorded as a custom type reference and resolved later,
// since custom types may be declared anywhere in the document.
var primitives = map[string]bool{
	"string":    true,
	"text":      true,
	"int":       true,
	"integer":   true,
	"float":     true,
	"double":    true,
	"decimal":   true,
	"bool":      true,
	"boolean":   true,
	"uuid":      true,
	"date":      true,
	"datetime":  true,
	"time":      true,
	"timestamp": true,
	"duration":  true,
	"json":      true,
	"binary":    true,
	"bytes":     true,
	"email":     true,
	"url":       true,
}

// IsPrimitive reports whether name is a built-in scalar type.
// Matching is case-insensitive, so UUID and DateTime are primitives
// too; only names not in this set become custom type references.
func IsPrimitive(name string) bool {
	return primitives[strings.ToLower(name)]
}
