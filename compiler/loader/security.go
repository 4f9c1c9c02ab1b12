package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// loadSecurity reads the security layer: roles with inheritance,
// permissions, and field-level access rules.
func (l *loader) loadSecurity(n *yaml.Node) {
	security := &document.Security{}

	for _, p := range mappingPairs(n, "security", &l.diags) {
		path := joinPath("security", p.key)
		switch p.key {
		case "roles":
			l.loadRoles(security, p.value, path)
		case "permissions":
			l.loadPermissions(security, p.value, path)
		case "field_access":
			l.loadFieldAccess(security, p.value, path)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, path),
				"unknown security attribute %q ignored", p.key)
		}
	}

	l.doc.Security = security
}

// loadRoles accepts a mapping of role name to {inherits} or a plain
// list of role names.
func (l *loader) loadRoles(security *document.Security, n *yaml.Node, basePath string) {
	n = deref(n)

	if isSequence(n) {
		for i, item := range stringSeq(n, basePath, &l.diags) {
			l.defineRole(security, item.value, locOf(item.node, seqPath(basePath, i)), nil)
		}
		return
	}

	for _, p := range mappingPairs(n, basePath, &l.diags) {
		path := joinPath(basePath, p.key)
		loc := locOf(p.keyNode, path)

		var inherits []*document.Ref
		if !isNull(p.value) {
			for _, attr := range mappingPairs(p.value, path, &l.diags) {
				attrPath := joinPath(path, attr.key)
				switch attr.key {
				case "inherits":
					inherits = l.refList(attr.value, attrPath, document.NsRole)
				default:
					l.diags.Addf(diag.Schema, diag.Warning, locOf(attr.keyNode, attrPath),
						"unknown role attribute %q ignored", attr.key)
				}
			}
		}
		l.defineRole(security, p.key, loc, inherits)
	}
}

func (l *loader) defineRole(security *document.Security, name string, loc diag.Location, inherits []*document.Ref) {
	role := &document.Role{Name: name, Inherits: inherits, Location: loc}
	if existing, ok := l.table.Define(document.NsRole, name, role, loc); !ok {
		l.diags.Addf(diag.Consistency, diag.Error, loc,
			"duplicate role %q, first definition at line %d wins",
			name, existing.Location.Line)
		return
	}
	security.Roles = append(security.Roles, role)
}

func (l *loader) loadPermissions(security *document.Security, n *yaml.Node, basePath string) {
	n = deref(n)
	if !isSequence(n) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, basePath),
			"expected a list of permissions at %s", basePath)
		return
	}

	for i, item := range n.Content {
		path := seqPath(basePath, i)
		permission := &document.Permission{Location: locOf(deref(item), path)}

		for _, p := range mappingPairs(item, path, &l.diags) {
			attrPath := joinPath(path, p.key)
			switch p.key {
			case "action":
				permission.Action = stringValue(p.value, attrPath, &l.diags)
			case "allowed_roles", "roles":
				permission.Roles = l.refList(p.value, attrPath, document.NsRole)
			case "rate_limit":
				permission.RateLimit = stringValue(p.value, attrPath, &l.diags)
			case "data_filter":
				permission.DataFilter = stringValue(p.value, attrPath, &l.diags)
			default:
				l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
					"unknown permission attribute %q ignored", p.key)
			}
		}

		if permission.Action == "" {
			l.diags.Addf(diag.Schema, diag.Error, permission.Location,
				"permission at %s has no action", path)
		}
		security.Permissions = append(security.Permissions, permission)
	}
}

func (l *loader) loadFieldAccess(security *document.Security, n *yaml.Node, basePath string) {
	n = deref(n)
	if !isSequence(n) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, basePath),
			"expected a list of field access rules at %s", basePath)
		return
	}

	for i, item := range n.Content {
		path := seqPath(basePath, i)
		access := &document.FieldAccess{Location: locOf(deref(item), path)}

		for _, p := range mappingPairs(item, path, &l.diags) {
			attrPath := joinPath(path, p.key)
			switch p.key {
			case "entity":
				name := stringValue(p.value, attrPath, &l.diags)
				if name != "" {
					access.Entity = l.newRef(name, document.NsEntity, locOf(p.value, attrPath))
				}
			case "field":
				access.Field = stringValue(p.value, attrPath, &l.diags)
			case "read", "read_roles":
				access.Read = l.refList(p.value, attrPath, document.NsRole)
			case "write", "write_roles":
				access.Write = l.refList(p.value, attrPath, document.NsRole)
			default:
				l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
					"unknown field access attribute %q ignored", p.key)
			}
		}

		if access.Entity == nil || access.Field == "" {
			l.diags.Addf(diag.Schema, diag.Error, access.Location,
				"field access rule at %s requires an entity and a field", path)
		}
		security.FieldAccess = append(security.FieldAccess, access)
	}
}
