package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
	"github.com/layered-lang/layered/compiler/typeexpr"
)

// loadDomain reads the domain layer: custom types under the reserved
// "types" key, everything else an entity. Entities accept a plain
// field map or the structured {fields, validations} form.
func (l *loader) loadDomain(n *yaml.Node) {
	pairs := mappingPairs(n, "domain", &l.diags)

	// Custom types first so that an entity clashing with a type is
	// reported on the entity regardless of section order.
	for _, p := range pairs {
		if p.key == "types" {
			l.loadCustomTypes(p.value)
		}
	}
	for _, p := range pairs {
		if p.key == "types" {
			continue
		}
		l.loadEntity(p.key, p.keyNode, p.value)
	}
}

func (l *loader) loadCustomTypes(n *yaml.Node) {
	for _, p := range mappingPairs(n, "domain.types", &l.diags) {
		path := joinPath("domain.types", p.key)
		loc := locOf(p.keyNode, path)

		typeStr, ok := scalarString(p.value)
		if !ok {
			l.diags.Addf(diag.Schema, diag.Error, locOf(p.value, path),
				"custom type %s must be a type expression string", p.key)
			continue
		}

		ct := &document.CustomType{
			Name:     p.key,
			Type:     l.parseType(typeStr, p.value, path),
			Location: loc,
		}
		ct.Refs = l.typeRefs(ct.Type, locOf(p.value, path))

		if existing, ok := l.table.Define(document.NsCustomType, p.key, ct, loc); !ok {
			l.diags.Addf(diag.Consistency, diag.Error, loc,
				"duplicate custom type %q, first definition at line %d wins",
				p.key, existing.Location.Line)
			continue
		}
		l.doc.CustomTypes = append(l.doc.CustomTypes, ct)
	}
}

func (l *loader) loadEntity(name string, keyNode, value *yaml.Node) {
	path := joinPath("domain", name)
	loc := locOf(keyNode, path)

	entity := &document.Entity{Name: name, Location: loc}

	value = deref(value)
	if !isMapping(value) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(value, path),
			"entity %s must be a mapping of fields", name)
	} else if fieldsNode := childValue(value, "fields"); fieldsNode != nil {
		// Structured form: {fields, validations}.
		l.loadEntityFields(entity, fieldsNode, joinPath(path, "fields"))
		if v := childValue(value, "validations"); v != nil {
			l.loadValidations(entity, v, joinPath(path, "validations"))
		}
	} else {
		l.loadEntityFields(entity, value, path)
	}

	// Entity and custom type names share one resolution space; a
	// clash is a consistency problem even though the namespaces are
	// stored separately.
	if prior, ok := l.table.Lookup(document.NsCustomType, name); ok {
		l.diags.Addf(diag.Consistency, diag.Error, loc,
			"%q is already declared as a custom type at line %d; entity declaration ignored for resolution",
			name, prior.Location.Line)
	}

	if existing, ok := l.table.Define(document.NsEntity, name, entity, loc); !ok {
		l.diags.Addf(diag.Consistency, diag.Error, loc,
			"duplicate entity %q, first definition at line %d wins",
			name, existing.Location.Line)
		return
	}
	l.doc.Entities = append(l.doc.Entities, entity)
	l.deriveRelationships(entity)
}

func (l *loader) loadEntityFields(entity *document.Entity, n *yaml.Node, basePath string) {
	for _, p := range mappingPairs(n, basePath, &l.diags) {
		path := joinPath(basePath, p.key)

		typeStr, ok := scalarString(p.value)
		if !ok {
			l.diags.Addf(diag.Schema, diag.Error, locOf(p.value, path),
				"field %s must be a type expression string", path)
			continue
		}

		field := &document.Field{
			Name:     p.key,
			Type:     l.parseType(typeStr, p.value, path),
			Location: locOf(p.keyNode, path),
		}
		field.Refs = l.typeRefs(field.Type, locOf(p.value, path))

		if entity.Field(p.key) != nil {
			l.diags.Addf(diag.Consistency, diag.Error, field.Location,
				"duplicate field %q on entity %s, first definition wins", p.key, entity.Name)
			continue
		}
		entity.Fields = append(entity.Fields, field)
	}
}

// loadValidations stores validation rules verbatim; expressions are
// never evaluated. A rule with no expression is malformed and echoed
// in the diagnostic.
func (l *loader) loadValidations(entity *document.Entity, n *yaml.Node, basePath string) {
	n = deref(n)
	if !isSequence(n) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, basePath),
			"expected a list of validation rules at %s", basePath)
		return
	}

	for i, item := range n.Content {
		path := seqPath(basePath, i)
		item = deref(item)

		if s, ok := scalarString(item); ok {
			entity.Rules = append(entity.Rules, document.ValidationRule{Expression: s})
			continue
		}
		if !isMapping(item) {
			l.diags.Addf(diag.Schema, diag.Error, locOf(item, path),
				"validation rule must be an expression string or a {description, rule} mapping")
			continue
		}

		var rule document.ValidationRule
		for _, p := range mappingPairs(item, path, &l.diags) {
			switch p.key {
			case "description":
				rule.Description = stringValue(p.value, joinPath(path, p.key), &l.diags)
			case "rule", "expression":
				rule.Expression = stringValue(p.value, joinPath(path, p.key), &l.diags)
			}
		}
		if rule.Expression == "" {
			l.diags.Addf(diag.Schema, diag.Error, locOf(item, path),
				"validation rule %q has no expression", rule.Description)
		}
		entity.Rules = append(entity.Rules, rule)
	}
}

// deriveRelationships infers relationships from fields whose type
// references another entity or carries a relation constraint.
// Many-to-many records a synthesized junction name only; no entity is
// materialized for it.
func (l *loader) deriveRelationships(entity *document.Entity) {
	for _, field := range entity.Fields {
		base := field.Type.Unwrap()
		if base == nil {
			continue
		}

		var target string
		var kind document.RelKind

		switch {
		case base.Kind == typeexpr.KindReference:
			target = base.Name
			kind = document.ManyToOne
		case base.Kind == typeexpr.KindArray:
			elem := base.Elem.Unwrap()
			if elem == nil || elem.Kind != typeexpr.KindReference {
				continue
			}
			target = elem.Name
			kind = document.OneToMany
		default:
			continue
		}

		if rel, ok := field.Type.Constraint("relation"); ok {
			kind = l.relationKind(rel, field, kind)
		} else if rel, ok := base.Constraint("relation"); ok {
			kind = l.relationKind(rel, field, kind)
		}

		// Reuse the field's reference cell so a dangling target is
		// reported exactly once.
		targetRef := findRef(field.Refs, target, document.NsEntity)
		if targetRef == nil {
			targetRef = l.newRef(target, document.NsEntity, field.Location)
		}
		relationship := &document.Relationship{
			From:   entity.Name,
			Field:  field.Name,
			Target: targetRef,
			Kind:   kind,
		}
		if kind == document.ManyToMany {
			relationship.Junction = entity.Name + "_" + target
		}
		l.doc.Relationships = append(l.doc.Relationships, relationship)
	}
}

func (l *loader) relationKind(value any, field *document.Field, fallback document.RelKind) document.RelKind {
	s, _ := value.(string)
	switch document.RelKind(s) {
	case document.OneToOne, document.OneToMany, document.ManyToOne, document.ManyToMany:
		return document.RelKind(s)
	}
	l.diags.Addf(diag.Schema, diag.Error, field.Location,
		"unknown relation kind %v on field %s", value, field.Name)
	return fallback
}

// findRef returns the first ref matching name and namespace, or nil
func findRef(refs []*document.Ref, name string, ns document.Namespace) *document.Ref {
	for _, r := range refs {
		if r.Name == name && r.Namespace == ns {
			return r
		}
	}
	return nil
}

// childValue returns the value for a key of a mapping node, or nil
func childValue(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := deref(n.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
