package typeexpr

import "encoding/json"

// jsonNode is the serialized shape of a Node. The canonical string
// form rides along so downstream consumers can show types without
// rebuilding them.
type jsonNode struct {
	Kind        Kind              `json:"kind"`
	Name        string            `json:"name,omitempty"`
	Elem        *Node             `json:"elem,omitempty"`
	Key         *Node             `json:"key,omitempty"`
	Value       *Node             `json:"value,omitempty"`
	EnumValues  []string          `json:"values,omitempty"`
	Fields      []jsonObjectField `json:"fields,omitempty"`
	Constraints []jsonConstraint  `json:"constraints,omitempty"`
	Canonical   string            `json:"canonical"`
}

type jsonObjectField struct {
	Name string `json:"name"`
	Type *Node  `json:"type"`
}

type jsonConstraint struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// MarshalJSON implements json.Marshaler for Kind
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// MarshalJSON implements json.Marshaler for Node
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}

	out := jsonNode{
		Kind:       n.Kind,
		Name:       n.Name,
		Elem:       n.Elem,
		Key:        n.Key,
		Value:      n.Value,
		EnumValues: n.EnumValues,
		Canonical:  n.String(),
	}
	for _, f := range n.Fields {
		out.Fields = append(out.Fields, jsonObjectField{Name: f.Name, Type: f.Type})
	}
	for _, c := range n.Constraints {
		out.Constraints = append(out.Constraints, jsonConstraint{Name: c.Name, Value: c.Value})
	}
	return json.Marshal(out)
}
