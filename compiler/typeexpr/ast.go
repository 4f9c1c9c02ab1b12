package typeexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind represents the kind of type expression node
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindArray
	KindMap
	KindOptional
	KindObject
	KindReference
	KindCustom
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindOptional:
		return "optional"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Constraint is one named constraint with a literal value, e.g.
// {min: 0} or {pattern: ^[A-Z]+$}. Values are int64, float64, bool or
// string.
type Constraint struct {
	Name  string
	Value any
}

// ObjectField is one field of an inline object type. Order is
// declaration order.
type ObjectField struct {
	Name string
	Type *Node
}

// Node is a parsed type expression. Exactly one shape is populated
// depending on Kind:
//   - KindPrimitive, KindCustom: Name
//   - KindReference: Name (the referenced entity)
//   - KindEnum: EnumValues
//   - KindArray, KindOptional: Elem
//   - KindMap: Key, Value
//   - KindObject: Fields
//
// Constraints may attach to any node; the parser attaches a trailing
// constraint block to the outermost node of the expression.
type Node struct {
	Kind        Kind
	Name        string
	Elem        *Node
	Key         *Node
	Value       *Node
	EnumValues  []string
	Fields      []ObjectField
	Constraints []Constraint
}

// NewPrimitive creates a primitive type node. The name is stored
// lowercase so the canonical rendering does not depend on the
// spelling in the source document.
func NewPrimitive(name string) *Node {
	return &Node{Kind: KindPrimitive, Name: strings.ToLower(name)}
}

// NewCustom creates a custom type reference node. The name resolves
// against entities first, then declared custom types.
func NewCustom(name string) *Node {
	return &Node{Kind: KindCustom, Name: name}
}

// NewReference creates an entity reference node
func NewReference(name string) *Node {
	return &Node{Kind: KindReference, Name: name}
}

// NewEnum creates an enum type node
func NewEnum(values []string) *Node {
	return &Node{Kind: KindEnum, EnumValues: values}
}

// NewArray creates an array type node
func NewArray(elem *Node) *Node {
	return &Node{Kind: KindArray, Elem: elem}
}

// NewMap creates a map type node
func NewMap(key, value *Node) *Node {
	return &Node{Kind: KindMap, Key: key, Value: value}
}

// NewOptional wraps a node in an optional. Wrapping an optional is a
// no-op so that "optional[T]?" does not double-wrap.
func NewOptional(elem *Node) *Node {
	if elem != nil && elem.Kind == KindOptional {
		return elem
	}
	return &Node{Kind: KindOptional, Elem: elem}
}

// NewObject creates an inline object type node
func NewObject(fields []ObjectField) *Node {
	return &Node{Kind: KindObject, Fields: fields}
}

// IsOptional returns true if the node is an optional wrapper
func (n *Node) IsOptional() bool {
	return n != nil && n.Kind == KindOptional
}

// Unwrap strips optional wrappers and returns the innermost node
func (n *Node) Unwrap() *Node {
	for n != nil && n.Kind == KindOptional {
		n = n.Elem
	}
	return n
}

// Constraint returns the value of a named constraint and whether it is
// present.
func (n *Node) Constraint(name string) (any, bool) {
	for _, c := range n.Constraints {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// ReferencedNames collects every name this expression refers to, in
// left-to-right order: entity references and custom type names at any
// nesting depth.
func (n *Node) ReferencedNames() []string {
	var names []string
	n.Walk(func(node *Node) {
		if node.Kind == KindReference || node.Kind == KindCustom {
			names = append(names, node.Name)
		}
	})
	return names
}

// Walk applies fn to the node and every nested node, outermost first,
// left to right.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	n.Elem.Walk(fn)
	n.Key.Walk(fn)
	n.Value.Walk(fn)
	for _, f := range n.Fields {
		f.Type.Walk(fn)
	}
}

// String renders the canonical form of the type expression. Parsing
// the canonical form yields an equal node, so serialization is
// idempotent.
func (n *Node) String() string {
	if n == nil {
		return ""
	}

	var sb strings.Builder
	switch n.Kind {
	case KindPrimitive, KindCustom:
		sb.WriteString(n.Name)
	case KindReference:
		sb.WriteString("reference[")
		sb.WriteString(n.Name)
		sb.WriteByte(']')
	case KindEnum:
		sb.WriteString("enum[")
		for i, v := range n.EnumValues {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeEnumValue(&sb, v)
		}
		sb.WriteByte(']')
	case KindArray:
		sb.WriteString("array[")
		sb.WriteString(n.Elem.String())
		sb.WriteByte(']')
	case KindMap:
		sb.WriteString("map[")
		sb.WriteString(n.Key.String())
		sb.WriteByte(',')
		sb.WriteString(n.Value.String())
		sb.WriteByte(']')
	case KindOptional:
		sb.WriteString("optional[")
		sb.WriteString(n.Elem.String())
		sb.WriteByte(']')
	case KindObject:
		sb.WriteString("object")
	}

	if len(n.Constraints) > 0 {
		sb.WriteByte('{')
		for i, c := range n.Constraints {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.Name)
			sb.WriteString(": ")
			sb.WriteString(formatConstraintValue(c.Value))
		}
		sb.WriteByte('}')
	}

	return sb.String()
}

// writeEnumValue quotes an enum value only when it contains characters
// the parser would otherwise misread.
func writeEnumValue(sb *strings.Builder, v string) {
	if strings.ContainsAny(v, ",[]{}\"' ") {
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(v, `"`, `\"`))
		sb.WriteByte('"')
		return
	}
	sb.WriteString(v)
}

func formatConstraintValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, ",{}") || val == "" {
			return `"` + strings.ReplaceAll(val, `"`, `\"`) + `"`
		}
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
