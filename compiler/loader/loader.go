// Package loader converts the raw YAML tree of a LayeredDSL document
// into the typed document model. Each layer loader registers
// declarations in the symbol table and records deferred references;
// nothing is resolved here. Layers are processed in a fixed order so
// diagnostics are reproducible regardless of section order in the
// file.
package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/symbols"
	"github.com/layered-lang/layered/compiler/typeexpr"
)

// Result carries everything the resolver and validator need: the
// partially built model, the populated symbol table, every deferred
// reference, and the diagnostics found so far.
type Result struct {
	Doc         *document.Document
	Table       *symbols.Table
	Refs        []*document.Ref
	PathRefs    []*document.PathRef
	Diagnostics diag.List
}

// layerOrder is the fixed processing order. Domain loads before logic
// because logic validation needs entity definitions; forward
// references between domain entities themselves are legal and
// deferred.
var layerOrder = []string{
	"project",
	"domain",
	"logic",
	"components",
	"workflow",
	"ui",
	"security",
	"infrastructure",
	"integrations",
	"mapping",
}

// knownSections includes layers plus sections the loader accepts but
// does not model.
var knownSections = map[string]bool{
	"project":        true,
	"domain":         true,
	"logic":          true,
	"components":     true,
	"workflow":       true,
	"ui":             true,
	"security":       true,
	"infrastructure": true,
	"integrations":   true,
	"mapping":        true,
	"metadata":       true,
}

// Load processes a parsed YAML document. A nil, empty or non-mapping
// root yields a single fatal syntax diagnostic and an empty model;
// every other problem is accumulated without aborting.
func Load(root *yaml.Node) *Result {
	l := &loader{
		doc:   &document.Document{},
		table: symbols.New(),
	}

	root = documentRoot(root)
	if !isMapping(root) {
		l.diags.Add(diag.New(diag.Syntax, diag.Fatal, locOf(root, ""),
			"document root must be a mapping of layer sections"))
		return l.result()
	}

	sections := make(map[string]*yaml.Node)
	for _, p := range mappingPairs(root, "", &l.diags) {
		if !knownSections[p.key] {
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, p.key),
				"unknown section %q ignored", p.key)
			continue
		}
		if _, dup := sections[p.key]; dup {
			l.diags.Addf(diag.Consistency, diag.Error, locOf(p.keyNode, p.key),
				"duplicate section %q, first occurrence wins", p.key)
			continue
		}
		sections[p.key] = p.value
	}

	for _, layer := range layerOrder {
		node, present := sections[layer]
		if !present || isNull(node) {
			continue
		}
		switch layer {
		case "project":
			l.loadProject(node)
		case "domain":
			l.loadDomain(node)
		case "logic":
			l.loadLogic(node)
		case "components":
			l.loadComponents(node)
		case "workflow":
			l.loadWorkflow(node)
		case "ui":
			l.loadUI(node)
		case "security":
			l.loadSecurity(node)
		case "infrastructure":
			l.loadInfrastructure(node)
		case "integrations":
			l.loadIntegrations(node)
		case "mapping":
			l.loadMapping(node)
		}
	}

	l.doc.ErrorNames = l.table.ErrorNames()
	return l.result()
}

// documentRoot unwraps the yaml document node to its content
func documentRoot(root *yaml.Node) *yaml.Node {
	root = deref(root)
	if root != nil && root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = deref(root.Content[0])
	}
	return root
}

type loader struct {
	doc      *document.Document
	table    *symbols.Table
	refs     []*document.Ref
	pathRefs []*document.PathRef
	diags    diag.List
}

func (l *loader) result() *Result {
	return &Result{
		Doc:         l.doc,
		Table:       l.table,
		Refs:        l.refs,
		PathRefs:    l.pathRefs,
		Diagnostics: l.diags,
	}
}

// newRef records a deferred reference for the resolver
func (l *loader) newRef(name string, ns document.Namespace, loc diag.Location) *document.Ref {
	ref := document.NewRef(name, ns, loc)
	l.refs = append(l.refs, ref)
	return ref
}

// newPathRef records a deferred dotted-path reference
func (l *loader) newPathRef(raw string, loc diag.Location) *document.PathRef {
	ref := document.NewPathRef(raw, loc)
	l.pathRefs = append(l.pathRefs, ref)
	return ref
}

// refList records one deferred reference per item of a scalar list
func (l *loader) refList(n *yaml.Node, path string, ns document.Namespace) []*document.Ref {
	items := stringSeq(n, path, &l.diags)
	refs := make([]*document.Ref, 0, len(items))
	for i, item := range items {
		refs = append(refs, l.newRef(item.value, ns, locOf(item.node, seqPath(path, i))))
	}
	return refs
}

// parseType parses a type expression string, converting parse errors
// into positioned diagnostics. Column offsets point into the original
// line: the expression's own column plus the in-string offset.
func (l *loader) parseType(s string, node *yaml.Node, path string) *typeexpr.Node {
	parsed, errs := typeexpr.Parse(s)
	for _, e := range errs {
		category := diag.Syntax
		if e.Kind == typeexpr.ErrConstraint {
			category = diag.Schema
		}
		loc := locOf(node, path)
		if node != nil && node.Style == 0 {
			// Plain scalars start exactly at node.Column.
			loc.Column = node.Column + e.Column - 1
		}
		l.diags.Addf(category, diag.Error, loc, "invalid type expression %q: %s", s, e.Message)
	}
	return parsed
}

// typeRefs records one deferred reference per entity or custom type
// name a type expression mentions. Explicit reference[...] nodes
// resolve against entities only; bare names try entities first, then
// custom types.
func (l *loader) typeRefs(t *typeexpr.Node, loc diag.Location) []*document.Ref {
	var refs []*document.Ref
	t.Walk(func(n *typeexpr.Node) {
		switch n.Kind {
		case typeexpr.KindReference:
			refs = append(refs, l.newRef(n.Name, document.NsEntity, loc))
		case typeexpr.KindCustom:
			refs = append(refs, l.newRef(n.Name, document.NsEntityOrType, loc))
		}
	})
	return refs
}

// loadProject reads the project metadata section
func (l *loader) loadProject(n *yaml.Node) {
	for _, p := range mappingPairs(n, "project", &l.diags) {
		path := joinPath("project", p.key)
		switch p.key {
		case "name":
			l.doc.Project.Name = stringValue(p.value, path, &l.diags)
		case "version":
			l.doc.Project.Version = stringValue(p.value, path, &l.diags)
		case "description":
			l.doc.Project.Description = stringValue(p.value, path, &l.diags)
		case "goals":
			for _, item := range stringSeq(p.value, path, &l.diags) {
				l.doc.Project.Goals = append(l.doc.Project.Goals, item.value)
			}
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, path),
				"unknown project attribute %q ignored", p.key)
		}
	}
}
