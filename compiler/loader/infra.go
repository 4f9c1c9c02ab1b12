package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// loadInfrastructure reads the infrastructure layer. Entries are
// recorded loosely: the validator models them but applies no rules
// beyond shape.
func (l *loader) loadInfrastructure(n *yaml.Node) {
	for _, p := range mappingPairs(n, "infrastructure", &l.diags) {
		path := joinPath("infrastructure", p.key)
		resource := &document.InfraResource{
			Name:     p.key,
			Props:    map[string]string{},
			Location: locOf(p.keyNode, path),
		}

		for _, attr := range mappingPairs(p.value, path, &l.diags) {
			if attr.key == "kind" || attr.key == "type" {
				resource.Kind = stringValue(attr.value, joinPath(path, attr.key), &l.diags)
				continue
			}
			resource.Props[attr.key] = propString(attr.value)
		}

		l.doc.Infrastructure = append(l.doc.Infrastructure, resource)
	}
}

// loadIntegrations reads the integrations layer. Integration names
// form a namespace mapping paths can terminate in.
func (l *loader) loadIntegrations(n *yaml.Node) {
	for _, p := range mappingPairs(n, "integrations", &l.diags) {
		path := joinPath("integrations", p.key)
		loc := locOf(p.keyNode, path)
		integration := &document.Integration{Name: p.key, Location: loc}

		for _, attr := range mappingPairs(p.value, path, &l.diags) {
			attrPath := joinPath(path, attr.key)
			switch attr.key {
			case "kind", "type":
				integration.Kind = stringValue(attr.value, attrPath, &l.diags)
			case "base_url":
				integration.BaseURL = stringValue(attr.value, attrPath, &l.diags)
			case "operations":
				for _, item := range stringSeq(attr.value, attrPath, &l.diags) {
					integration.Operations = append(integration.Operations, item.value)
				}
			default:
				l.diags.Addf(diag.Schema, diag.Warning, locOf(attr.keyNode, attrPath),
					"unknown integration attribute %q ignored", attr.key)
			}
		}

		if existing, ok := l.table.Define(document.NsIntegration, p.key, integration, loc); !ok {
			l.diags.Addf(diag.Consistency, diag.Error, loc,
				"duplicate integration %q, first definition at line %d wins",
				p.key, existing.Location.Line)
			continue
		}
		l.doc.Integrations = append(l.doc.Integrations, integration)
	}
}

// loadMapping reads the mapping layer: operation name to dotted
// target path, plus the reserved "unmapped" accept-list for
// operations the document deliberately leaves unbound.
func (l *loader) loadMapping(n *yaml.Node) {
	for _, p := range mappingPairs(n, "mapping", &l.diags) {
		path := joinPath("mapping", p.key)

		if p.key == "unmapped" {
			for _, item := range stringSeq(p.value, path, &l.diags) {
				l.doc.UnmappedAccepted = append(l.doc.UnmappedAccepted, item.value)
			}
			continue
		}

		target, ok := scalarString(p.value)
		if !ok || target == "" {
			l.diags.Addf(diag.Schema, diag.Error, locOf(p.value, path),
				"mapping for %s must be a dotted component or integration path", p.key)
			continue
		}

		entry := &document.MappingEntry{
			Operation: l.newRef(p.key, document.NsOperation, locOf(p.keyNode, path)),
			Target:    l.newPathRef(target, locOf(p.value, path)),
			Location:  locOf(p.keyNode, path),
		}
		l.doc.Mappings = append(l.doc.Mappings, entry)
	}
}
