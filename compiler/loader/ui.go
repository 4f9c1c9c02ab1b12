package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// loadUI reads the ui layer: one page per key with a route and an
// optional backing entity. Route uniqueness is a validator rule, not
// checked here.
func (l *loader) loadUI(n *yaml.Node) {
	for _, p := range mappingPairs(n, "ui", &l.diags) {
		path := joinPath("ui", p.key)
		page := &document.Page{Name: p.key, Location: locOf(p.keyNode, path)}

		for _, attr := range mappingPairs(p.value, path, &l.diags) {
			attrPath := joinPath(path, attr.key)
			switch attr.key {
			case "route":
				page.Route = stringValue(attr.value, attrPath, &l.diags)
			case "entity":
				name := stringValue(attr.value, attrPath, &l.diags)
				if name != "" {
					page.Entity = l.newRef(name, document.NsEntity, locOf(attr.value, attrPath))
				}
			default:
				l.diags.Addf(diag.Schema, diag.Warning, locOf(attr.keyNode, attrPath),
					"unknown page attribute %q ignored", attr.key)
			}
		}

		if page.Route == "" {
			l.diags.Addf(diag.Schema, diag.Error, page.Location,
				"page %s has no route", p.key)
		}
		l.doc.Pages = append(l.doc.Pages, page)
	}
}
