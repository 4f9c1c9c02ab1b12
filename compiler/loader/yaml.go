package loader

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
)

// deref follows alias nodes to their anchor
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isMapping(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

func isSequence(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n == nil || (n.Kind == yaml.ScalarNode && (n.Tag == "!!null" || n.Value == ""))
}

// locOf builds a diagnostic location from a node and a dotted document
// path
func locOf(n *yaml.Node, path string) diag.Location {
	loc := diag.Location{Path: path}
	if n != nil {
		loc.Line = n.Line
		loc.Column = n.Column
	}
	return loc
}

// pair is one ordered key/value of a YAML mapping
type pair struct {
	key     string
	keyNode *yaml.Node
	value   *yaml.Node
}

// mappingPairs returns the ordered entries of a mapping node.
// Non-scalar keys are skipped with a syntax diagnostic; a non-mapping
// node yields a schema diagnostic and no pairs.
func mappingPairs(n *yaml.Node, path string, diags *diag.List) []pair {
	n = deref(n)
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		diags.Addf(diag.Schema, diag.Error, locOf(n, path),
			"expected a mapping at %s", path)
		return nil
	}

	pairs := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := deref(n.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			diags.Addf(diag.Syntax, diag.Error, locOf(keyNode, path),
				"mapping keys at %s must be scalars", path)
			continue
		}
		pairs = append(pairs, pair{
			key:     keyNode.Value,
			keyNode: keyNode,
			value:   n.Content[i+1],
		})
	}
	return pairs
}

// scalarString returns the node's scalar value, or false for
// non-scalars
func scalarString(n *yaml.Node) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// stringValue coerces a scalar to a string, reporting anything else
func stringValue(n *yaml.Node, path string, diags *diag.List) string {
	if s, ok := scalarString(n); ok {
		return s
	}
	diags.Addf(diag.Schema, diag.Error, locOf(n, path),
		"expected a string at %s", path)
	return ""
}

// boolValue coerces a scalar to a bool, reporting anything else
func boolValue(n *yaml.Node, path string, diags *diag.List) bool {
	s, ok := scalarString(n)
	if ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	diags.Addf(diag.Schema, diag.Error, locOf(n, path),
		"expected true or false at %s", path)
	return false
}

// intValue coerces a scalar to an int, reporting anything else
func intValue(n *yaml.Node, path string, diags *diag.List) int {
	s, ok := scalarString(n)
	if ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	diags.Addf(diag.Schema, diag.Error, locOf(n, path),
		"expected an integer at %s", path)
	return 0
}

// stringItem is one entry of a scalar sequence, keeping its node for
// location reporting
type stringItem struct {
	value string
	node  *yaml.Node
}

// stringSeq reads a sequence of scalars. A single scalar is accepted
// as a one-element list, matching common YAML shorthand.
func stringSeq(n *yaml.Node, path string, diags *diag.List) []stringItem {
	n = deref(n)
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		return []stringItem{{value: n.Value, node: n}}
	}
	if n.Kind != yaml.SequenceNode {
		diags.Addf(diag.Schema, diag.Error, locOf(n, path),
			"expected a list at %s", path)
		return nil
	}

	items := make([]stringItem, 0, len(n.Content))
	for i, item := range n.Content {
		item = deref(item)
		if item.Kind != yaml.ScalarNode {
			diags.Addf(diag.Schema, diag.Error, locOf(item, seqPath(path, i)),
				"expected a string at %s", seqPath(path, i))
			continue
		}
		items = append(items, stringItem{value: item.Value, node: item})
	}
	return items
}

// joinPath extends a dotted document path
func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// seqPath extends a dotted path with a sequence index
func seqPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// propString renders any scalar as a string for loosely typed
// sections like infrastructure
func propString(n *yaml.Node) string {
	n = deref(n)
	if n == nil {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	if err := enc.Encode(n); err != nil {
		return ""
	}
	enc.Close()
	return strings.TrimSpace(sb.String())
}
