package document

import (
	"encoding/json"
	"strings"

	"github.com/layered-lang/layered/compiler/diag"
)

// Namespace identifies the resolution space a reference belongs to.
// Entity and custom type names share one lexical space, so references
// recorded under NsEntityOrType are tried against entities first, then
// custom types.
type Namespace string

const (
	NsEntity       Namespace = "entity"
	NsCustomType   Namespace = "custom_type"
	NsEntityOrType Namespace = "entity_or_type"
	NsOperation    Namespace = "operation"
	NsComponent    Namespace = "component"
	NsRole         Namespace = "role"
	NsIntegration  Namespace = "integration"
	NsWorkflow     Namespace = "workflow"
	// NsError is declare-on-first-use: any error name referenced
	// anywhere is auto-registered, so these never dangle.
	NsError Namespace = "error"
)

// RefState tracks the lifecycle of a cross-layer reference
type RefState int

const (
	RefUnresolved RefState = iota
	RefResolved
	RefDangling
)

// String returns the string representation of the state
func (s RefState) String() string {
	switch s {
	case RefResolved:
		return "resolved"
	case RefDangling:
		return "dangling"
	default:
		return "unresolved"
	}
}

// MarshalJSON implements json.Marshaler for RefState
func (s RefState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Ref is a cross-layer reference recorded by a layer loader and
// settled by the resolver. Marking a Ref resolved or dangling is the
// only mutation the model permits after loading.
type Ref struct {
	Name      string        `json:"name"`
	Namespace Namespace     `json:"namespace"`
	State     RefState      `json:"state"`
	Location  diag.Location `json:"-"`

	// Target holds the resolved definition, nil while unresolved or
	// dangling.
	Target any `json:"-"`
}

// NewRef creates an unresolved reference
func NewRef(name string, ns Namespace, loc diag.Location) *Ref {
	return &Ref{Name: name, Namespace: ns, State: RefUnresolved, Location: loc}
}

// Resolve marks the reference resolved against the given definition
func (r *Ref) Resolve(target any) {
	r.State = RefResolved
	r.Target = target
}

// MarkDangling marks the reference as unresolvable
func (r *Ref) MarkDangling() {
	r.State = RefDangling
}

// IsDangling returns true if resolution failed for this reference
func (r *Ref) IsDangling() bool {
	return r.State == RefDangling
}

// PathRef is a dotted-path reference, used by mapping entries to bind
// an operation to a component or integration target such as
// "billing_service.create_invoice". Each segment must exist; the
// first missing one is recorded for reporting.
type PathRef struct {
	Raw      string        `json:"raw"`
	Segments []string      `json:"-"`
	State    RefState      `json:"state"`
	FailedAt string        `json:"failed_at,omitempty"`
	Location diag.Location `json:"-"`

	Target any `json:"-"`
}

// NewPathRef creates an unresolved dotted-path reference
func NewPathRef(raw string, loc diag.Location) *PathRef {
	return &PathRef{
		Raw:      raw,
		Segments: strings.Split(raw, "."),
		State:    RefUnresolved,
		Location: loc,
	}
}

// Resolve marks the path resolved against the given definition
func (p *PathRef) Resolve(target any) {
	p.State = RefResolved
	p.Target = target
}

// MarkDangling records the first segment that failed to resolve
func (p *PathRef) MarkDangling(failedAt string) {
	p.State = RefDangling
	p.FailedAt = failedAt
}

var _ json.Marshaler = RefState(0)
