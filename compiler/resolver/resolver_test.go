package resolver

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/loader"
)

// Helper to load YAML source and resolve it
func resolveSource(t *testing.T, source string) (*loader.Result, diag.List) {
	t.Helper()
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		t.Fatalf("YAML parse failed: %v", err)
	}
	result := loader.Load(&root)
	result.Table.Freeze()
	diags := Resolve(result.Table, result.Refs, result.PathRefs)
	return result, diags
}

func TestResolve_AllResolved(t *testing.T) {
	result, diags := resolveSource(t, `
domain:
  User:
    id: uuid
  Task:
    id: uuid
    assignee: optional[reference[User]]
`)

	if len(diags) != 0 {
		t.Fatalf("Expected no diagnostics, got %v", diags)
	}
	for _, ref := range result.Refs {
		if ref.State != document.RefResolved {
			t.Errorf("Expected %s resolved, got %s", ref.Name, ref.State)
		}
	}
}

func TestResolve_DanglingEntityReference(t *testing.T) {
	result, diags := resolveSource(t, `
domain:
  Task:
    id: uuid
    assignee: optional[reference[User]]
`)

	if len(diags) != 1 {
		t.Fatalf("Expected exactly one diagnostic, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Category != diag.Reference || d.Severity != diag.Error {
		t.Errorf("Expected reference/error, got %s/%s", d.Category, d.Severity)
	}
	if d.Location.Path != "domain.Task.assignee" {
		t.Errorf("Expected path domain.Task.assignee, got %q", d.Location.Path)
	}
	if !strings.Contains(d.Message, "User") {
		t.Errorf("Expected the dangling name in the message, got %q", d.Message)
	}

	var userRef *document.Ref
	for _, ref := range result.Refs {
		if ref.Name == "User" {
			userRef = ref
		}
	}
	if userRef == nil || !userRef.IsDangling() {
		t.Error("Expected the User ref marked dangling")
	}
}

func TestResolve_ForwardReferencesAreLegal(t *testing.T) {
	_, diags := resolveSource(t, `
domain:
  Task:
    owner: reference[User]
  User:
    id: uuid
`)

	if len(diags) != 0 {
		t.Errorf("Expected forward reference to resolve, got %v", diags)
	}
}

func TestResolve_EntityTriedBeforeCustomType(t *testing.T) {
	result, diags := resolveSource(t, `
domain:
  types:
    Money: decimal
  Invoice:
    total: Money
`)

	if len(diags) != 0 {
		t.Fatalf("Expected no diagnostics, got %v", diags)
	}

	total := result.Doc.Entity("Invoice").Field("total")
	ref := total.Refs[0]
	if ref.State != document.RefResolved {
		t.Fatal("Expected Money to resolve")
	}
	if _, ok := ref.Target.(*document.CustomType); !ok {
		t.Errorf("Expected resolution to the custom type, got %T", ref.Target)
	}
}

func TestResolve_ModifiesAgainstEntityNamespaceOnly(t *testing.T) {
	// Money is a custom type, not an entity: modifies must not
	// resolve against it.
	_, diags := resolveSource(t, `
domain:
  types:
    Money: decimal
logic:
  Convert:
    modifies: [Money]
`)

	if len(diags) != 1 {
		t.Fatalf("Expected one diagnostic, got %v", diags)
	}
	if diags[0].Category != diag.Reference {
		t.Errorf("Expected a reference diagnostic, got %s", diags[0].Category)
	}
}

func TestResolve_ErrorsAutoRegister(t *testing.T) {
	result, diags := resolveSource(t, `
logic:
  CreateInvoice:
    errors: [CustomerNotFound]
`)

	if len(diags) != 0 {
		t.Fatalf("Expected no diagnostics (errors declare on first use), got %v", diags)
	}
	op := result.Doc.Operation("CreateInvoice")
	if op.Errors[0].State != document.RefResolved {
		t.Error("Expected error name resolved")
	}
}

func TestResolve_WorkflowCallTargets(t *testing.T) {
	_, diags := resolveSource(t, `
logic:
  CreateInvoice:
    modifies: []
workflow:
  flow:
    steps:
      - call: CreateInvoice
      - call: MissingOp
`)

	if len(diags) != 1 {
		t.Fatalf("Expected one diagnostic for MissingOp, got %v", diags)
	}
	if !strings.Contains(diags[0].Message, "MissingOp") {
		t.Errorf("Expected MissingOp in message, got %q", diags[0].Message)
	}
}

func TestResolve_ResolutionContinuesPastDanglingRefs(t *testing.T) {
	// Three unrelated dangling names: all three must be reported in
	// one pass.
	_, diags := resolveSource(t, `
domain:
  Task:
    a: reference[Missing1]
    b: reference[Missing2]
    c: reference[Missing3]
`)

	if len(diags) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
}

func TestResolve_MappingPathThroughComponent(t *testing.T) {
	result, diags := resolveSource(t, `
logic:
  CreateInvoice:
    modifies: []
components:
  billing:
    kind: service
    responsibilities: [CreateInvoice]
mapping:
  CreateInvoice: billing.CreateInvoice
`)

	if len(diags) != 0 {
		t.Fatalf("Expected no diagnostics, got %v", diags)
	}
	target := result.Doc.Mappings[0].Target
	if target.State != document.RefResolved {
		t.Errorf("Expected mapping target resolved, got %s", target.State)
	}
	if _, ok := target.Target.(*document.Component); !ok {
		t.Errorf("Expected resolution to the component, got %T", target.Target)
	}
}

func TestResolve_MappingPathThroughIntegration(t *testing.T) {
	_, diags := resolveSource(t, `
logic:
  Charge:
    modifies: []
integrations:
  stripe:
    operations: [charge]
mapping:
  Charge: stripe.charge
`)

	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
}

func TestResolve_MappingPathFirstMissingSegment(t *testing.T) {
	_, diags := resolveSource(t, `
logic:
  Charge:
    modifies: []
components:
  billing:
    kind: service
    responsibilities: [Charge]
mapping:
  Charge: billing.refund
`)

	if len(diags) != 1 {
		t.Fatalf("Expected one diagnostic, got %v", diags)
	}
	// The full attempted path and the failing segment are both named.
	if !strings.Contains(diags[0].Message, "billing.refund") {
		t.Errorf("Expected full attempted path in message, got %q", diags[0].Message)
	}
	if !strings.Contains(diags[0].Message, "refund") {
		t.Errorf("Expected failing segment in message, got %q", diags[0].Message)
	}
}

func TestResolve_MappingPathUnknownHead(t *testing.T) {
	result, diags := resolveSource(t, `
logic:
  Charge:
    modifies: []
mapping:
  Charge: nowhere.charge
`)

	// One for the unresolvable path head. The mapping key itself
	// (Charge) resolves.
	if len(diags) != 1 {
		t.Fatalf("Expected one diagnostic, got %v", diags)
	}
	target := result.Doc.Mappings[0].Target
	if !strings.Contains(diags[0].Message, "nowhere") {
		t.Errorf("Expected head segment named, got %q", diags[0].Message)
	}
	if target.FailedAt != "nowhere" {
		t.Errorf("Expected FailedAt nowhere, got %q", target.FailedAt)
	}
}

func TestResolve_PanicsOnUnfrozenTable(t *testing.T) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte("domain:\n  User:\n    id: uuid\n"), &root); err != nil {
		t.Fatalf("YAML parse failed: %v", err)
	}
	result := loader.Load(&root)

	defer func() {
		if recover() == nil {
			t.Error("Expected resolve on an unfrozen table to panic")
		}
	}()
	Resolve(result.Table, result.Refs, result.PathRefs)
}
