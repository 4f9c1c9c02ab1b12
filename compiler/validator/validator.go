// Package validator orchestrates the full pipeline: layer loading,
// reference resolution, dependency graph checks and the remaining
// cross-cutting consistency rules. It never fails with a Go error on
// document problems; everything surfaces as diagnostics and the
// caller decides what severities block further processing.
package validator

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/depgraph"
	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/loader"
	"github.com/layered-lang/layered/compiler/resolver"
)

// Validate runs the pipeline over a parsed YAML tree and returns the
// document model with the full, order-stable diagnostics list.
func Validate(root *yaml.Node) (*document.Document, diag.List) {
	result := loader.Load(root)
	diags := result.Diagnostics

	if diags.HasFatal() {
		return result.Doc, diags
	}

	// Loading is done; the table is read-only from here on.
	result.Table.Freeze()
	diags.Merge(resolver.Resolve(result.Table, result.Refs, result.PathRefs))

	doc := result.Doc
	checkComponentCycles(doc, &diags)
	checkRoleCycles(doc, &diags)
	checkOperationCoverage(doc, &diags)
	checkRouteUniqueness(doc, &diags)
	checkMappingCompleteness(doc, &diags)
	checkFieldAccess(doc, &diags)

	return doc, diags
}

// ValidateSource parses YAML source and validates it. Unparseable
// input yields a single fatal syntax diagnostic and an empty model,
// mirroring the empty-root policy.
func ValidateSource(data []byte) (*document.Document, diag.List) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return &document.Document{}, diag.List{
			diag.Newf(diag.Syntax, diag.Fatal, diag.Location{Line: 1, Column: 1},
				"cannot parse document: %v", err),
		}
	}
	return Validate(&root)
}

// checkComponentCycles builds the dependency graph over component ids
// and reports one consistency error per cycle, naming the closed
// path. Dangling dependency edges were already reported by the
// resolver and are left out of the graph.
func checkComponentCycles(doc *document.Document, diags *diag.List) {
	graph := depgraph.New()
	for _, c := range doc.Components {
		graph.AddNode(c.ID)
	}
	for _, c := range doc.Components {
		for _, dep := range c.DependsOn {
			if !dep.IsDangling() {
				graph.AddEdge(c.ID, dep.Name)
			}
		}
	}

	for _, cycle := range graph.FindCycles() {
		loc := diag.Location{Path: "components"}
		if c := doc.Component(cycle[0]); c != nil {
			loc = c.Location
		}
		diags.Addf(diag.Consistency, diag.Error, loc,
			"component dependency cycle: %s", strings.Join(cycle, " -> "))
	}
}

// checkRoleCycles runs cycle detection over the role inheritance
// graph.
func checkRoleCycles(doc *document.Document, diags *diag.List) {
	if doc.Security == nil {
		return
	}

	graph := depgraph.New()
	for _, r := range doc.Security.Roles {
		graph.AddNode(r.Name)
	}
	for _, r := range doc.Security.Roles {
		for _, parent := range r.Inherits {
			if !parent.IsDangling() {
				graph.AddEdge(r.Name, parent.Name)
			}
		}
	}

	for _, cycle := range graph.FindCycles() {
		loc := diag.Location{Path: "security.roles"}
		if r := doc.Security.Role(cycle[0]); r != nil {
			loc = r.Location
		}
		diags.Addf(diag.Consistency, diag.Error, loc,
			"role inheritance cycle: %s", strings.Join(cycle, " -> "))
	}
}

// checkOperationCoverage warns for every operation no component lists
// among its responsibilities.
func checkOperationCoverage(doc *document.Document, diags *diag.List) {
	covered := make(map[string]bool)
	for _, c := range doc.Components {
		for _, r := range c.Responsibilities {
			covered[r.Name] = true
		}
	}

	for _, op := range doc.Operations {
		if !covered[op.Name] {
			diags.Add(diag.Newf(diag.Consistency, diag.Warning, op.Location,
				"unmapped operation: %s", op.Name).
				WithSuggestion("add " + op.Name + " to a component's responsibilities"))
		}
	}
}

// checkRouteUniqueness reports duplicate UI routes
func checkRouteUniqueness(doc *document.Document, diags *diag.List) {
	seen := make(map[string]*document.Page)
	for _, page := range doc.Pages {
		if page.Route == "" {
			continue
		}
		if first, dup := seen[page.Route]; dup {
			diags.Addf(diag.Consistency, diag.Error, page.Location,
				"duplicate route %q, already used by page %s", page.Route, first.Name)
			continue
		}
		seen[page.Route] = page
	}
}

// checkMappingCompleteness enforces exactly one mapping entry per
// operation, unless the operation is on the mapping layer's accepted
// unmapped list.
func checkMappingCompleteness(doc *document.Document, diags *diag.List) {
	accepted := make(map[string]bool, len(doc.UnmappedAccepted))
	for _, name := range doc.UnmappedAccepted {
		accepted[name] = true
	}

	entries := make(map[string][]*document.MappingEntry)
	for _, m := range doc.Mappings {
		entries[m.Operation.Name] = append(entries[m.Operation.Name], m)
	}

	for _, op := range doc.Operations {
		bound := entries[op.Name]
		switch {
		case len(bound) == 0 && !accepted[op.Name]:
			diags.Add(diag.Newf(diag.Consistency, diag.Error, op.Location,
				"operation %s has no mapping entry", op.Name).
				WithSuggestion("bind it under mapping, or list it under mapping.unmapped"))
		case len(bound) > 1:
			diags.Addf(diag.Consistency, diag.Error, bound[1].Location,
				"operation %s has %d mapping entries, expected exactly one", op.Name, len(bound))
		case len(bound) == 1 && accepted[op.Name]:
			diags.Addf(diag.Consistency, diag.Warning, bound[0].Location,
				"operation %s is listed as unmapped but has a mapping entry", op.Name)
		}
	}

	for _, name := range doc.UnmappedAccepted {
		if doc.Operation(name) == nil {
			diags.Addf(diag.Consistency, diag.Warning, diag.Location{Path: "mapping.unmapped"},
				"unmapped list names unknown operation %s", name)
		}
	}
}

// checkFieldAccess verifies that field-level access rules name real
// fields of their resolved entities.
func checkFieldAccess(doc *document.Document, diags *diag.List) {
	if doc.Security == nil {
		return
	}

	for _, access := range doc.Security.FieldAccess {
		if access.Entity == nil || access.Entity.IsDangling() || access.Field == "" {
			continue
		}
		entity, ok := access.Entity.Target.(*document.Entity)
		if !ok {
			continue
		}
		if entity.Field(access.Field) == nil {
			diags.Addf(diag.Reference, diag.Error, access.Location,
				"entity %s has no field %s", entity.Name, access.Field)
		}
	}
}
