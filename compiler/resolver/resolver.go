// Package resolver settles every deferred cross-layer reference
// against the frozen symbol table. Resolution is one pass over all
// references: a dangling name produces exactly one reference
// diagnostic and never stops the others from resolving, so every
// problem in a document surfaces at once.
package resolver

import (
	"strings"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/symbols"
)

// Resolve marks every reference resolved or dangling. The table must
// be frozen by the caller before resolution begins.
func Resolve(table *symbols.Table, refs []*document.Ref, pathRefs []*document.PathRef) diag.List {
	if !table.Frozen() {
		panic("resolver: symbol table must be frozen before resolution")
	}

	var diags diag.List
	for _, ref := range refs {
		resolveRef(table, ref, &diags)
	}
	for _, ref := range pathRefs {
		resolvePath(table, ref, &diags)
	}
	return diags
}

func resolveRef(table *symbols.Table, ref *document.Ref, diags *diag.List) {
	var sym *symbols.Symbol
	var ok bool

	switch ref.Namespace {
	case document.NsEntityOrType:
		// Type expressions cannot distinguish entities from custom
		// types lexically: try entities first, then custom types.
		sym, ok = table.LookupEntityOrType(ref.Name)
	case document.NsError:
		// Error names declare themselves on first use, so they
		// always resolve.
		sym, ok = table.Lookup(document.NsError, ref.Name)
		if !ok {
			ref.Resolve(nil)
			return
		}
	default:
		sym, ok = table.Lookup(ref.Namespace, ref.Name)
	}

	if !ok {
		ref.MarkDangling()
		diags.Add(diag.Newf(diag.Reference, diag.Error, ref.Location,
			"unresolved reference: %s", ref.Name).
			WithSuggestion(suggestionFor(ref.Namespace, ref.Name)))
		return
	}
	ref.Resolve(sym.Definition)
}

func suggestionFor(ns document.Namespace, name string) string {
	switch ns {
	case document.NsEntity:
		return "declare entity " + name + " in the domain layer"
	case document.NsEntityOrType:
		return "declare " + name + " as a domain entity or under domain.types"
	case document.NsOperation:
		return "declare operation " + name + " in the logic layer"
	case document.NsComponent:
		return "declare component " + name + " in the components layer"
	case document.NsRole:
		return "declare role " + name + " under security.roles"
	case document.NsIntegration:
		return "declare integration " + name + " in the integrations layer"
	default:
		return ""
	}
}

// resolvePath walks a dotted mapping target through the component and
// integration namespaces. Every segment must exist; the first missing
// one is reported with the full attempted path.
func resolvePath(table *symbols.Table, ref *document.PathRef, diags *diag.List) {
	if len(ref.Segments) == 0 || ref.Segments[0] == "" {
		ref.MarkDangling(ref.Raw)
		diags.Addf(diag.Reference, diag.Error, ref.Location,
			"empty mapping target path %q", ref.Raw)
		return
	}

	head := ref.Segments[0]
	rest := ref.Segments[1:]

	if sym, ok := table.Lookup(document.NsComponent, head); ok {
		component := sym.Definition.(*document.Component)
		for _, segment := range rest {
			if !componentResponds(component, segment) {
				markPathDangling(ref, segment, diags,
					"component %q has no responsibility %q", head, segment)
				return
			}
		}
		ref.Resolve(component)
		return
	}

	if sym, ok := table.Lookup(document.NsIntegration, head); ok {
		integration := sym.Definition.(*document.Integration)
		for _, segment := range rest {
			if !integration.Operation(segment) {
				markPathDangling(ref, segment, diags,
					"integration %q does not expose operation %q", head, segment)
				return
			}
		}
		ref.Resolve(integration)
		return
	}

	markPathDangling(ref, head, diags,
		"%q is neither a component nor an integration", head)
}

func componentResponds(c *document.Component, name string) bool {
	for _, r := range c.Responsibilities {
		if r.Name == name {
			return true
		}
	}
	return false
}

func markPathDangling(ref *document.PathRef, segment string, diags *diag.List, format string, args ...any) {
	ref.MarkDangling(segment)
	detail := diag.Newf(diag.Reference, diag.Error, ref.Location, format, args...)
	detail.Message = "cannot resolve mapping target " + quotePath(ref.Raw) + ": " + detail.Message
	diags.Add(detail)
}

func quotePath(raw string) string {
	return `"` + strings.ReplaceAll(raw, `"`, `\"`) + `"`
}
