package typeexpr

import (
	"reflect"
	"testing"
)

// Helper to parse a type string and fail the test on any parse error
func mustParse(t *testing.T, source string) *Node {
	t.Helper()
	node, errs := Parse(source)
	if len(errs) > 0 {
		t.Fatalf("Expected no errors for %q, got: %v", source, errs)
	}
	if node == nil {
		t.Fatalf("Expected a node for %q, got nil", source)
	}
	return node
}

func TestParse_Primitives(t *testing.T) {
	for _, name := range []string{"string", "int", "bool", "uuid", "datetime", "decimal"} {
		node := mustParse(t, name)
		if node.Kind != KindPrimitive {
			t.Errorf("Expected %q to parse as primitive, got %s", name, node.Kind)
		}
		if node.Name != name {
			t.Errorf("Expected name %q, got %q", name, node.Name)
		}
	}
}

func TestParse_PrimitiveCaseInsensitive(t *testing.T) {
	tests := []struct {
		source    string
		canonical string
	}{
		{"UUID", "uuid"},
		{"DateTime", "datetime"},
		{"String", "string"},
		{"INT", "int"},
	}

	for _, tt := range tests {
		node := mustParse(t, tt.source)
		if node.Kind != KindPrimitive {
			t.Errorf("Expected %q to parse as primitive, got %s", tt.source, node.Kind)
			continue
		}
		if node.String() != tt.canonical {
			t.Errorf("Expected canonical %q for %q, got %q", tt.canonical, tt.source, node.String())
		}
		again := mustParse(t, node.String())
		if !reflect.DeepEqual(node, again) {
			t.Errorf("Canonical form of %q is not stable: %v vs %v", tt.source, node, again)
		}
	}
}

func TestParse_CustomType(t *testing.T) {
	node := mustParse(t, "Money")
	if node.Kind != KindCustom {
		t.Fatalf("Expected custom kind, got %s", node.Kind)
	}
	if node.Name != "Money" {
		t.Errorf("Expected name Money, got %q", node.Name)
	}
}

func TestParse_Reference(t *testing.T) {
	node := mustParse(t, "reference[Invoice]")
	if node.Kind != KindReference {
		t.Fatalf("Expected reference kind, got %s", node.Kind)
	}
	if node.Name != "Invoice" {
		t.Errorf("Expected name Invoice, got %q", node.Name)
	}
}

func TestParse_Enum(t *testing.T) {
	node := mustParse(t, "enum[draft, sent, paid]")
	if node.Kind != KindEnum {
		t.Fatalf("Expected enum kind, got %s", node.Kind)
	}
	expected := []string{"draft", "sent", "paid"}
	if !reflect.DeepEqual(node.EnumValues, expected) {
		t.Errorf("Expected values %v, got %v", expected, node.EnumValues)
	}
}

func TestParse_EnumQuotedValues(t *testing.T) {
	node := mustParse(t, `enum["in progress", "done"]`)
	expected := []string{"in progress", "done"}
	if !reflect.DeepEqual(node.EnumValues, expected) {
		t.Errorf("Expected values %v, got %v", expected, node.EnumValues)
	}
}

func TestParse_DeepNesting(t *testing.T) {
	node := mustParse(t, "array[map[string, optional[reference[Invoice]]]]")

	if node.Kind != KindArray {
		t.Fatalf("Expected array at top, got %s", node.Kind)
	}
	m := node.Elem
	if m.Kind != KindMap {
		t.Fatalf("Expected map element, got %s", m.Kind)
	}
	if m.Key.Kind != KindPrimitive || m.Key.Name != "string" {
		t.Errorf("Expected string key, got %v", m.Key)
	}
	opt := m.Value
	if opt.Kind != KindOptional {
		t.Fatalf("Expected optional value, got %s", opt.Kind)
	}
	ref := opt.Elem
	if ref.Kind != KindReference || ref.Name != "Invoice" {
		t.Errorf("Expected reference[Invoice], got %v", ref)
	}
}

func TestParse_OptionalSugar(t *testing.T) {
	tests := []struct {
		source string
		inner  Kind
	}{
		{"string?", KindPrimitive},
		{"Money?", KindCustom},
		{"reference[User]?", KindReference},
		{"array[int]?", KindArray},
	}

	for _, tt := range tests {
		node := mustParse(t, tt.source)
		if node.Kind != KindOptional {
			t.Errorf("%q: expected optional wrapper, got %s", tt.source, node.Kind)
			continue
		}
		if node.Elem.Kind != tt.inner {
			t.Errorf("%q: expected inner kind %s, got %s", tt.source, tt.inner, node.Elem.Kind)
		}
	}
}

func TestParse_ConstraintsAttachToOutermost(t *testing.T) {
	node := mustParse(t, "array[optional[Money]]{maxItems: 10}")

	if node.Kind != KindArray {
		t.Fatalf("Expected array, got %s", node.Kind)
	}
	if node.Elem.Kind != KindOptional || node.Elem.Elem.Kind != KindCustom {
		t.Fatalf("Expected Array(Optional(Custom)), got %v", node)
	}
	v, ok := node.Constraint("maxItems")
	if !ok {
		t.Fatal("Expected maxItems constraint on the array node")
	}
	if v != int64(10) {
		t.Errorf("Expected maxItems 10, got %v (%T)", v, v)
	}
	if len(node.Elem.Constraints) != 0 {
		t.Error("Expected no constraints on inner nodes")
	}
}

func TestParse_ConstraintLiterals(t *testing.T) {
	node := mustParse(t, `string{minLength: 1, pattern: ^[A-Z0-9_-]+$, unique: true, ratio: 0.5, label: "a,b"}`)

	expected := []Constraint{
		{Name: "minLength", Value: int64(1)},
		{Name: "pattern", Value: "^[A-Z0-9_-]+$"},
		{Name: "unique", Value: true},
		{Name: "ratio", Value: 0.5},
		{Name: "label", Value: "a,b"},
	}
	if !reflect.DeepEqual(node.Constraints, expected) {
		t.Errorf("Expected constraints %v, got %v", expected, node.Constraints)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		source string
	}{
		{""},
		{"array"},
		{"array[string"},
		{"map[string]"},
		{"reference[]"},
		{"enum[]"},
		{"string int"},
		{"[int]"},
	}

	for _, tt := range tests {
		_, errs := Parse(tt.source)
		if len(errs) == 0 {
			t.Errorf("Expected at least one error for %q", tt.source)
			continue
		}
		for _, e := range errs {
			if e.Column < 1 || e.Column > len([]rune(tt.source))+1 {
				t.Errorf("%q: error column %d out of range", tt.source, e.Column)
			}
		}
	}
}

func TestParse_MalformedConstraintsArePartial(t *testing.T) {
	node, errs := Parse("int{min: 0, max}")

	if node == nil {
		t.Fatal("Expected best-effort node despite malformed constraints")
	}
	if node.Kind != KindPrimitive || node.Name != "int" {
		t.Errorf("Expected int primitive, got %v", node)
	}
	if _, ok := node.Constraint("min"); !ok {
		t.Error("Expected well-formed min constraint to be kept")
	}

	found := false
	for _, e := range errs {
		if e.Kind == ErrConstraint {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a constraint error, got: %v", errs)
	}
}

func TestParse_UnterminatedConstraintBlock(t *testing.T) {
	node, errs := Parse("string{minLength: 1")

	if node == nil {
		t.Fatal("Expected best-effort node")
	}
	if _, ok := node.Constraint("minLength"); !ok {
		t.Error("Expected collected constraint to be kept")
	}
	if len(errs) == 0 {
		t.Error("Expected an error for the missing '}'")
	}
}

func TestParse_UnknownCompositeIsCustom(t *testing.T) {
	node, errs := Parse("set[int]")

	if node == nil || node.Kind != KindCustom || node.Name != "set" {
		t.Fatalf("Expected custom node for unknown composite, got %v", node)
	}
	// Unknown composites are deferred to resolution, not reported here.
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestParse_NestingDepthLimit(t *testing.T) {
	source := ""
	for i := 0; i < 40; i++ {
		source += "array["
	}
	source += "int"
	for i := 0; i < 40; i++ {
		source += "]"
	}

	_, errs := Parse(source)
	if len(errs) == 0 {
		t.Error("Expected an error for excessive nesting depth")
	}
}

func TestReferencedNames(t *testing.T) {
	node := mustParse(t, "map[string, array[reference[User]]]")
	names := node.ReferencedNames()
	if !reflect.DeepEqual(names, []string{"User"}) {
		t.Errorf("Expected [User], got %v", names)
	}

	node = mustParse(t, "map[Currency, reference[Account]]")
	names = node.ReferencedNames()
	if !reflect.DeepEqual(names, []string{"Currency", "Account"}) {
		t.Errorf("Expected [Currency Account], got %v", names)
	}
}

func TestSerialize_RoundTripIdempotent(t *testing.T) {
	sources := []string{
		"string",
		"Money",
		"string?",
		"reference[User]",
		"optional[array[Money]]",
		"array[map[string, optional[reference[Invoice]]]]",
		"enum[a, b, c]",
		"int{min: 0, max: 100}",
		"array[optional[Money]]{maxItems: 10}",
		`string{pattern: ^[a-z]+$}`,
	}

	for _, source := range sources {
		first := mustParse(t, source)
		canonical := first.String()
		second := mustParse(t, canonical)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("Round trip not idempotent for %q: canonical %q reparsed as %v, want %v",
				source, canonical, second, first)
		}
		if second.String() != canonical {
			t.Errorf("Canonical form unstable for %q: %q != %q", source, second.String(), canonical)
		}
	}
}

func TestUnwrap(t *testing.T) {
	node := mustParse(t, "optional[optional[int]]")
	inner := node.Unwrap()
	if inner.Kind != KindPrimitive || inner.Name != "int" {
		t.Errorf("Expected int after unwrap, got %v", inner)
	}
}
