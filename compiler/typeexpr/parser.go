package typeexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrorKind distinguishes malformed type syntax from malformed
// constraint blocks. Syntax problems map to syntax diagnostics,
// constraint problems to schema diagnostics.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrConstraint
)

// ParseError is one problem found while parsing a type expression.
// Column is the 1-based rune offset within the expression string.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Column  int
}

// Error implements the error interface
func (e ParseError) Error() string {
	return fmt.Sprintf("col %d: %s", e.Column, e.Message)
}

// maxNestingDepth bounds recursion on pathological input like
// "array[array[array[...".
const maxNestingDepth = 32

// Parse parses a type expression string such as
// "array[map[string, optional[reference[Invoice]]]]{maxItems: 10}".
// Parsing is best-effort: a non-nil partial node is returned alongside
// any errors whenever a usable shape could be recovered, so callers
// can continue resolution on malformed documents.
func Parse(s string) (*Node, []ParseError) {
	p := &parser{source: []rune(s)}

	node := p.parseExpr(0)

	p.skipSpaces()
	if !p.isAtEnd() {
		p.errorf(ErrSyntax, "unexpected %q after type expression", string(p.peek()))
	}

	return node, p.errors
}

type parser struct {
	source  []rune
	current int
	errors  []ParseError
}

func (p *parser) parseExpr(depth int) *Node {
	if depth > maxNestingDepth {
		p.errorf(ErrSyntax, "type nesting too deep (max %d)", maxNestingDepth)
		return nil
	}

	p.skipSpaces()
	name := p.scanIdentifier()
	if name == "" {
		if p.isAtEnd() {
			p.errorf(ErrSyntax, "expected type, got end of expression")
		} else {
			p.errorf(ErrSyntax, "expected type, got %q", string(p.peek()))
		}
		return nil
	}

	node := p.parseNamed(name, depth)

	// "T?" is sugar for optional[T].
	p.skipSpaces()
	if p.peek() == '?' {
		p.advance()
		node = NewOptional(node)
	}

	// A trailing constraint block attaches to the node it follows;
	// for a whole expression that is the outermost node.
	p.skipSpaces()
	if p.peek() == '{' && node != nil {
		node.Constraints = p.parseConstraints()
	}

	// The sugar may also follow the constraint block.
	p.skipSpaces()
	if p.peek() == '?' {
		p.advance()
		node = NewOptional(node)
	}

	return node
}

// parseNamed handles the type name and its bracketed arguments, if any
func (p *parser) parseNamed(name string, depth int) *Node {
	p.skipSpaces()
	if p.peek() != '[' {
		if IsPrimitive(name) {
			return NewPrimitive(name)
		}
		if name == kwObject {
			return NewObject(nil)
		}
		switch name {
		case kwArray, kwMap, kwOptional, kwReference, kwEnum:
			p.errorf(ErrSyntax, "%s requires bracketed arguments, e.g. %s[...]", name, name)
			return NewCustom(name)
		}
		return NewCustom(name)
	}
	p.advance() // consume '['

	switch name {
	case kwArray:
		elem := p.parseExpr(depth + 1)
		p.expectClose(name)
		return NewArray(elem)

	case kwOptional:
		elem := p.parseExpr(depth + 1)
		p.expectClose(name)
		return NewOptional(elem)

	case kwMap:
		key := p.parseExpr(depth + 1)
		p.skipSpaces()
		if p.peek() == ',' {
			p.advance()
		} else {
			p.errorf(ErrSyntax, "map requires a key and a value type separated by ','")
		}
		value := p.parseExpr(depth + 1)
		p.expectClose(name)
		return NewMap(key, value)

	case kwReference:
		p.skipSpaces()
		target := p.scanIdentifier()
		if target == "" {
			p.errorf(ErrSyntax, "reference requires an entity name")
		}
		p.expectClose(name)
		return NewReference(target)

	case kwEnum:
		values := p.parseEnumValues()
		p.expectClose(name)
		if len(values) == 0 {
			p.errorf(ErrSyntax, "enum must have at least one value")
		}
		return NewEnum(values)

	default:
		// Unknown composite keywords are not fatal: scan past the
		// bracket group and record a custom type reference for the
		// resolver to judge.
		p.skipBracketGroup()
		if IsPrimitive(name) {
			p.errorf(ErrSyntax, "primitive type %s takes no arguments", name)
			return NewPrimitive(name)
		}
		return NewCustom(name)
	}
}

// parseEnumValues parses the comma-separated value list of an enum
func (p *parser) parseEnumValues() []string {
	var values []string
	for {
		p.skipSpaces()
		if p.peek() == ']' || p.isAtEnd() {
			return values
		}
		if p.peek() == '"' || p.peek() == '\'' {
			values = append(values, p.scanQuoted())
		} else {
			start := p.current
			for !p.isAtEnd() && p.peek() != ',' && p.peek() != ']' {
				p.advance()
			}
			v := strings.TrimSpace(string(p.source[start:p.current]))
			if v != "" {
				values = append(values, v)
			}
		}
		p.skipSpaces()
		if p.peek() == ',' {
			p.advance()
			continue
		}
		if p.peek() != ']' && !p.isAtEnd() {
			p.errorf(ErrSyntax, "expected ',' or ']' in enum values, got %q", string(p.peek()))
			p.advance()
		}
	}
}

// parseConstraints parses a trailing "{name: literal, ...}" block.
// Malformed constraints yield ErrConstraint errors but every
// well-formed pair before the problem is kept.
func (p *parser) parseConstraints() []Constraint {
	p.advance() // consume '{'

	var constraints []Constraint
	for {
		p.skipSpaces()
		if p.peek() == '}' {
			p.advance()
			return constraints
		}
		if p.isAtEnd() {
			p.errorf(ErrConstraint, "unterminated constraint block: missing '}'")
			return constraints
		}

		name := p.scanIdentifier()
		if name == "" {
			p.errorf(ErrConstraint, "expected constraint name, got %q", string(p.peek()))
			p.skipToConstraintBoundary()
			continue
		}

		p.skipSpaces()
		if p.peek() != ':' {
			p.errorf(ErrConstraint, "expected ':' after constraint %q", name)
			p.skipToConstraintBoundary()
			continue
		}
		p.advance()

		value, ok := p.scanConstraintValue()
		if !ok {
			p.errorf(ErrConstraint, "constraint %q has no value", name)
		} else {
			constraints = append(constraints, Constraint{Name: name, Value: value})
		}

		p.skipSpaces()
		if p.peek() == ',' {
			p.advance()
		}
	}
}

// scanConstraintValue reads a literal up to the next top-level ',' or
// '}'. Quoted strings keep their spelling; bare values are classified
// as bool, int, float or string in that order.
func (p *parser) scanConstraintValue() (any, bool) {
	p.skipSpaces()

	if p.peek() == '"' || p.peek() == '\'' {
		return p.scanQuoted(), true
	}

	start := p.current
	bracketDepth := 0
	for !p.isAtEnd() {
		c := p.peek()
		if bracketDepth == 0 && (c == ',' || c == '}') {
			break
		}
		if c == '[' {
			bracketDepth++
		} else if c == ']' && bracketDepth > 0 {
			bracketDepth--
		}
		p.advance()
	}

	raw := strings.TrimSpace(string(p.source[start:p.current]))
	if raw == "" {
		return nil, false
	}
	return classifyLiteral(raw), true
}

func classifyLiteral(raw string) any {
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// skipToConstraintBoundary recovers after a malformed constraint by
// skipping to the next ',' or '}'.
func (p *parser) skipToConstraintBoundary() {
	for !p.isAtEnd() && p.peek() != ',' && p.peek() != '}' {
		p.advance()
	}
	if p.peek() == ',' {
		p.advance()
	}
}

// skipBracketGroup consumes a balanced bracket group after an unknown
// composite keyword
func (p *parser) skipBracketGroup() {
	depth := 1
	for !p.isAtEnd() && depth > 0 {
		switch p.peek() {
		case '[':
			depth++
		case ']':
			depth--
		}
		p.advance()
	}
	if depth > 0 {
		p.errorf(ErrSyntax, "unbalanced brackets in type expression")
	}
}

func (p *parser) expectClose(context string) {
	p.skipSpaces()
	if p.peek() == ']' {
		p.advance()
		return
	}
	p.errorf(ErrSyntax, "expected ']' to close %s", context)
}

func (p *parser) scanIdentifier() string {
	p.skipSpaces()
	start := p.current
	for !p.isAtEnd() {
		c := p.peek()
		if unicode.IsLetter(c) || c == '_' || (p.current > start && unicode.IsDigit(c)) {
			p.advance()
			continue
		}
		break
	}
	return string(p.source[start:p.current])
}

func (p *parser) scanQuoted() string {
	quote := p.peek()
	p.advance()
	var sb strings.Builder
	for !p.isAtEnd() && p.peek() != quote {
		if p.peek() == '\\' {
			p.advance()
			if p.isAtEnd() {
				break
			}
		}
		sb.WriteRune(p.peek())
		p.advance()
	}
	if p.isAtEnd() {
		p.errorf(ErrSyntax, "unterminated string literal")
	} else {
		p.advance() // closing quote
	}
	return sb.String()
}

func (p *parser) skipSpaces() {
	for !p.isAtEnd() && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance()
	}
}

func (p *parser) peek() rune {
	if p.isAtEnd() {
		return 0
	}
	return p.source[p.current]
}

func (p *parser) advance() {
	if !p.isAtEnd() {
		p.current++
	}
}

func (p *parser) isAtEnd() bool {
	return p.current >= len(p.source)
}

func (p *parser) errorf(kind ErrorKind, format string, args ...any) {
	p.errors = append(p.errors, ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Column:  p.current + 1,
	})
}
