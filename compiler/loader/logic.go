package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// loadLogic reads the logic layer: one operation per key.
func (l *loader) loadLogic(n *yaml.Node) {
	for _, p := range mappingPairs(n, "logic", &l.diags) {
		l.loadOperation(p.key, p.keyNode, p.value)
	}
}

func (l *loader) loadOperation(name string, keyNode, value *yaml.Node) {
	path := joinPath("logic", name)
	loc := locOf(keyNode, path)

	op := &document.Operation{Name: name, Location: loc}

	for _, p := range mappingPairs(value, path, &l.diags) {
		attrPath := joinPath(path, p.key)
		switch p.key {
		case "inputs":
			l.loadOperationInputs(op, p.value, attrPath)
		case "output":
			typeStr, ok := scalarString(p.value)
			if !ok {
				l.diags.Addf(diag.Schema, diag.Error, locOf(p.value, attrPath),
					"output of %s must be a type expression string", name)
				continue
			}
			op.Output = l.parseType(typeStr, p.value, attrPath)
			op.OutputRefs = l.typeRefs(op.Output, locOf(p.value, attrPath))
		case "modifies":
			op.Modifies = l.refList(p.value, attrPath, document.NsEntity)
		case "errors":
			// Error names are declared by first use: register each in
			// the error namespace so the reference always resolves.
			items := stringSeq(p.value, attrPath, &l.diags)
			for i, item := range items {
				l.table.RegisterError(item.value)
				op.Errors = append(op.Errors,
					l.newRef(item.value, document.NsError, locOf(item.node, seqPath(attrPath, i))))
			}
		case "preconditions":
			for _, item := range stringSeq(p.value, attrPath, &l.diags) {
				op.Pre = append(op.Pre, item.value)
			}
		case "postconditions":
			for _, item := range stringSeq(p.value, attrPath, &l.diags) {
				op.Post = append(op.Post, item.value)
			}
		case "async":
			op.Async = boolValue(p.value, attrPath, &l.diags)
		case "idempotent":
			op.Idempotent = boolValue(p.value, attrPath, &l.diags)
		case "retryable":
			op.Retryable = boolValue(p.value, attrPath, &l.diags)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
				"unknown operation attribute %q ignored", p.key)
		}
	}

	if existing, ok := l.table.Define(document.NsOperation, name, op, loc); !ok {
		l.diags.Addf(diag.Consistency, diag.Error, loc,
			"duplicate operation %q, first definition at line %d wins",
			name, existing.Location.Line)
		return
	}
	l.doc.Operations = append(l.doc.Operations, op)
}

// loadOperationInputs reads the ordered input parameter mapping
func (l *loader) loadOperationInputs(op *document.Operation, n *yaml.Node, basePath string) {
	for _, p := range mappingPairs(n, basePath, &l.diags) {
		path := joinPath(basePath, p.key)

		typeStr, ok := scalarString(p.value)
		if !ok {
			l.diags.Addf(diag.Schema, diag.Error, locOf(p.value, path),
				"input %s must be a type expression string", path)
			continue
		}

		param := document.Param{
			Name: p.key,
			Type: l.parseType(typeStr, p.value, path),
		}
		param.Refs = l.typeRefs(param.Type, locOf(p.value, path))
		op.Inputs = append(op.Inputs, param)
	}
}
