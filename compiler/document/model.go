// Package document defines the typed in-memory model of one LayeredDSL
// document: every layer's declarations with type strings replaced by
// parsed type expressions and cross-references replaced by Ref cells.
// All values are immutable once the validator returns them; the only
// mutations during validation are diagnostic accumulation and marking
// references resolved or dangling.
package document

import (
	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/typeexpr"
)

// Document is the fully loaded model of one document
type Document struct {
	Project        Project          `json:"project"`
	Entities       []*Entity        `json:"entities"`
	CustomTypes    []*CustomType    `json:"custom_types,omitempty"`
	Relationships  []*Relationship  `json:"relationships,omitempty"`
	Operations     []*Operation     `json:"operations"`
	Components     []*Component     `json:"components"`
	Workflows      []*Workflow      `json:"workflows,omitempty"`
	Pages          []*Page          `json:"pages,omitempty"`
	Security       *Security        `json:"security,omitempty"`
	Infrastructure []*InfraResource `json:"infrastructure,omitempty"`
	Integrations   []*Integration   `json:"integrations,omitempty"`
	Mappings       []*MappingEntry  `json:"mappings,omitempty"`

	// UnmappedAccepted lists operations the document explicitly
	// declares as having no mapping target.
	UnmappedAccepted []string `json:"unmapped_accepted,omitempty"`

	// ErrorNames is the declare-on-first-use error namespace in
	// first-use order.
	ErrorNames []string `json:"error_names,omitempty"`
}

// Project holds the document-level metadata section
type Project struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Goals       []string `json:"goals,omitempty"`
}

// Entity is a declared data shape in the domain layer
type Entity struct {
	Name     string           `json:"name"`
	Fields   []*Field         `json:"fields"`
	Rules    []ValidationRule `json:"rules,omitempty"`
	Location diag.Location    `json:"-"`
}

// Field returns the named field or nil
func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is one entity field. Refs holds a cell per entity or custom
// type name the field's type expression mentions, in left-to-right
// order.
type Field struct {
	Name     string         `json:"name"`
	Type     *typeexpr.Node `json:"type"`
	Refs     []*Ref         `json:"refs,omitempty"`
	Location diag.Location  `json:"-"`
}

// ValidationRule is stored and echoed, never evaluated
type ValidationRule struct {
	Description string `json:"description,omitempty"`
	Expression  string `json:"expression"`
}

// CustomType is a named type alias declared in the domain layer
type CustomType struct {
	Name     string         `json:"name"`
	Type     *typeexpr.Node `json:"type"`
	Refs     []*Ref         `json:"refs,omitempty"`
	Location diag.Location  `json:"-"`
}

// RelKind is the cardinality of a derived relationship
type RelKind string

const (
	OneToOne   RelKind = "one-to-one"
	OneToMany  RelKind = "one-to-many"
	ManyToOne  RelKind = "many-to-one"
	ManyToMany RelKind = "many-to-many"
)

// Relationship is derived from entity fields whose type references
// another entity. Many-to-many relationships record a synthesized
// junction name; no junction entity is materialized.
type Relationship struct {
	From     string  `json:"from"`
	Field    string  `json:"field"`
	Target   *Ref    `json:"target"`
	Kind     RelKind `json:"kind"`
	Junction string  `json:"junction,omitempty"`
}

// Param is one ordered operation input
type Param struct {
	Name string         `json:"name"`
	Type *typeexpr.Node `json:"type"`
	Refs []*Ref         `json:"refs,omitempty"`
}

// Operation is a declared business action in the logic layer
type Operation struct {
	Name       string         `json:"name"`
	Inputs     []Param        `json:"inputs,omitempty"`
	Output     *typeexpr.Node `json:"output,omitempty"`
	OutputRefs []*Ref         `json:"-"`
	Modifies   []*Ref         `json:"modifies,omitempty"`
	Errors     []*Ref         `json:"errors,omitempty"`
	Pre        []string       `json:"preconditions,omitempty"`
	Post       []string       `json:"postconditions,omitempty"`
	Async      bool           `json:"async,omitempty"`
	Idempotent bool           `json:"idempotent,omitempty"`
	Retryable  bool           `json:"retryable,omitempty"`
	Location   diag.Location  `json:"-"`
}

// ComponentKind classifies a component declaration
type ComponentKind string

const (
	KindService     ComponentKind = "service"
	KindModule      ComponentKind = "module"
	KindLibrary     ComponentKind = "library"
	KindFrontend    ComponentKind = "frontend"
	KindExternalAPI ComponentKind = "external_api"
)

// ValidComponentKind reports whether s names a known component kind
func ValidComponentKind(s string) bool {
	switch ComponentKind(s) {
	case KindService, KindModule, KindLibrary, KindFrontend, KindExternalAPI:
		return true
	}
	return false
}

// Component is an architectural unit. DependsOn edges must form a DAG.
type Component struct {
	ID               string        `json:"id"`
	Kind             ComponentKind `json:"kind"`
	Responsibilities []*Ref        `json:"responsibilities,omitempty"`
	DependsOn        []*Ref        `json:"depends_on,omitempty"`
	Location         diag.Location `json:"-"`
}

// Page is one UI layer entry; routes must be unique across the layer
type Page struct {
	Name     string        `json:"name"`
	Route    string        `json:"route"`
	Entity   *Ref          `json:"entity,omitempty"`
	Location diag.Location `json:"-"`
}

// Role is one security layer role. Inherits edges must be acyclic.
type Role struct {
	Name     string        `json:"name"`
	Inherits []*Ref        `json:"inherits,omitempty"`
	Location diag.Location `json:"-"`
}

// Permission grants an action to a set of roles
type Permission struct {
	Action     string        `json:"action"`
	Roles      []*Ref        `json:"allowed_roles"`
	RateLimit  string        `json:"rate_limit,omitempty"`
	DataFilter string        `json:"data_filter,omitempty"`
	Location   diag.Location `json:"-"`
}

// FieldAccess restricts reads and writes of one entity field
type FieldAccess struct {
	Entity   *Ref          `json:"entity"`
	Field    string        `json:"field"`
	Read     []*Ref        `json:"read_roles,omitempty"`
	Write    []*Ref        `json:"write_roles,omitempty"`
	Location diag.Location `json:"-"`
}

// Security is the security layer: roles, permissions, field access
type Security struct {
	Roles       []*Role        `json:"roles,omitempty"`
	Permissions []*Permission  `json:"permissions,omitempty"`
	FieldAccess []*FieldAccess `json:"field_access,omitempty"`
}

// Role returns the named role or nil
func (s *Security) Role(name string) *Role {
	for _, r := range s.Roles {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// InfraResource is one infrastructure layer entry, kept loosely typed;
// the validator only records it.
type InfraResource struct {
	Name     string            `json:"name"`
	Kind     string            `json:"kind,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Location diag.Location     `json:"-"`
}

// Integration declares an external system and the operations it
// exposes; mapping paths may terminate inside it.
type Integration struct {
	Name       string        `json:"name"`
	Kind       string        `json:"kind,omitempty"`
	BaseURL    string        `json:"base_url,omitempty"`
	Operations []string      `json:"operations,omitempty"`
	Location   diag.Location `json:"-"`
}

// Operation reports whether the integration exposes the named
// operation.
func (i *Integration) Operation(name string) bool {
	for _, op := range i.Operations {
		if op == name {
			return true
		}
	}
	return false
}

// MappingEntry binds one logic operation to a dotted path into the
// component or integration namespaces.
type MappingEntry struct {
	Operation *Ref          `json:"operation"`
	Target    *PathRef      `json:"target"`
	Location  diag.Location `json:"-"`
}

// Entity returns the named entity or nil
func (d *Document) Entity(name string) *Entity {
	for _, e := range d.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Operation returns the named operation or nil
func (d *Document) Operation(name string) *Operation {
	for _, op := range d.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// Component returns the component with the given id or nil
func (d *Document) Component(id string) *Component {
	for _, c := range d.Components {
		if c.ID == id {
			return c
		}
	}
	return nil
}
