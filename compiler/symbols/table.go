// Package symbols implements the namespaced symbol table the layer
// loaders populate and the resolver reads. The table is exclusively
// owned by the loading pipeline and frozen before resolution begins.
package symbols

import (
	"fmt"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// Symbol is one declared definition
type Symbol struct {
	Name      string
	Namespace document.Namespace
	Location  diag.Location

	// Definition is the typed declaration: *document.Entity,
	// *document.Operation, *document.Component and so on.
	Definition any
}

// Table maps fully-qualified names to declarations, one map per
// namespace. Define keeps the first definition on duplicates; the
// caller reports the clash.
type Table struct {
	namespaces map[document.Namespace]map[string]*Symbol

	// errorNames keeps the declare-on-first-use error namespace in
	// first-use order.
	errorNames []string
	frozen     bool
}

// New creates an empty symbol table
func New() *Table {
	return &Table{
		namespaces: make(map[document.Namespace]map[string]*Symbol),
	}
}

// Define registers a definition. On a duplicate name within the same
// namespace the first definition wins: the existing symbol is
// returned and ok is false so the caller can emit a consistency
// diagnostic. Defining on a frozen table panics; that is a pipeline
// bug, not a document problem.
func (t *Table) Define(ns document.Namespace, name string, def any, loc diag.Location) (existing *Symbol, ok bool) {
	if t.frozen {
		panic(fmt.Sprintf("symbols: define %s/%s on frozen table", ns, name))
	}

	space := t.namespaces[ns]
	if space == nil {
		space = make(map[string]*Symbol)
		t.namespaces[ns] = space
	}

	if prior, exists := space[name]; exists {
		return prior, false
	}

	space[name] = &Symbol{
		Name:       name,
		Namespace:  ns,
		Location:   loc,
		Definition: def,
	}
	return space[name], true
}

// Lookup returns the definition for name in the given namespace, or
// nil and false when undefined.
func (t *Table) Lookup(ns document.Namespace, name string) (*Symbol, bool) {
	space := t.namespaces[ns]
	if space == nil {
		return nil, false
	}
	sym, exists := space[name]
	return sym, exists
}

// LookupEntityOrType tries the entity namespace first, then custom
// types. Type expressions cannot tell the two apart lexically, so this
// is the shared resolution space references against NsEntityOrType
// use.
func (t *Table) LookupEntityOrType(name string) (*Symbol, bool) {
	if sym, ok := t.Lookup(document.NsEntity, name); ok {
		return sym, true
	}
	return t.Lookup(document.NsCustomType, name)
}

// RegisterError adds a name to the declare-on-first-use error
// namespace. Registering an already-known name is a no-op, never a
// clash.
func (t *Table) RegisterError(name string) {
	if t.frozen {
		panic(fmt.Sprintf("symbols: register error %q on frozen table", name))
	}
	if _, ok := t.Lookup(document.NsError, name); ok {
		return
	}
	t.Define(document.NsError, name, nil, diag.Location{})
	t.errorNames = append(t.errorNames, name)
}

// ErrorNames returns the registered error names in first-use order
func (t *Table) ErrorNames() []string {
	out := make([]string, len(t.errorNames))
	copy(out, t.errorNames)
	return out
}

// Freeze makes the table read-only. Called once loading completes,
// before the resolver runs.
func (t *Table) Freeze() {
	t.frozen = true
}

// Frozen reports whether the table has been frozen
func (t *Table) Frozen() bool {
	return t.frozen
}
