package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// loadComponents reads the components layer: one component per key,
// with kind, responsibilities and dependencies.
func (l *loader) loadComponents(n *yaml.Node) {
	for _, p := range mappingPairs(n, "components", &l.diags) {
		l.loadComponent(p.key, p.keyNode, p.value)
	}
}

func (l *loader) loadComponent(id string, keyNode, value *yaml.Node) {
	path := joinPath("components", id)
	loc := locOf(keyNode, path)

	component := &document.Component{ID: id, Kind: document.KindService, Location: loc}

	for _, p := range mappingPairs(value, path, &l.diags) {
		attrPath := joinPath(path, p.key)
		switch p.key {
		case "kind", "type":
			kind := stringValue(p.value, attrPath, &l.diags)
			if kind != "" && !document.ValidComponentKind(kind) {
				l.diags.Add(diag.Newf(diag.Schema, diag.Error, locOf(p.value, attrPath),
					"unknown component kind %q", kind).
					WithSuggestion("use one of: service, module, library, frontend, external_api"))
				continue
			}
			if kind != "" {
				component.Kind = document.ComponentKind(kind)
			}
		case "responsibilities":
			component.Responsibilities = l.refList(p.value, attrPath, document.NsOperation)
		case "dependencies":
			component.DependsOn = l.refList(p.value, attrPath, document.NsComponent)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
				"unknown component attribute %q ignored", p.key)
		}
	}

	if existing, ok := l.table.Define(document.NsComponent, id, component, loc); !ok {
		l.diags.Addf(diag.Consistency, diag.Error, loc,
			"duplicate component %q, first definition at line %d wins",
			id, existing.Location.Line)
		return
	}
	l.doc.Components = append(l.doc.Components, component)
}
