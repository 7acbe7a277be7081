package data

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads one config document. The top level must be a mapping;
// derive_from must be a string and components a mapping of mappings.
// An empty source is an empty document.
func Parse(name string, src []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		line, msg := splitYAMLError(err)
		return nil, &ParseError{Name: name, Line: line, Msg: msg, Err: err}
	}

	fields := NewMapping()
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		top := root.Content[0]
		if top.Kind != yaml.MappingNode {
			return nil, parseErrorAt(name, top, "top level must be a mapping, got %s", nodeKindName(top))
		}
		v, err := convertNode(name, top)
		if err != nil {
			return nil, err
		}
		fields, _ = v.AsMap()
	}

	doc := &Document{Name: name}

	if v, ok := fields.Get(KeyDeriveFrom); ok {
		parent, ok := v.AsString()
		if !ok || strings.TrimSpace(parent) == "" {
			return nil, &ParseError{Name: name, Msg: fmt.Sprintf("%s must be a non-empty string, got %s", KeyDeriveFrom, v.Kind())}
		}
		doc.DeriveFrom = parent
		fields = fields.Without(KeyDeriveFrom)
	}

	if v, ok := fields.Get(KeyComponents); ok {
		block, err := normaliseComponents(name, v)
		if err != nil {
			return nil, err
		}
		fields.set(KeyComponents, Map(block))
	}

	doc.Fields = fields
	return doc, nil
}

// normaliseComponents checks the components block shape and replaces empty
// component entries (`ExplodesOnDeath:`) with empty mappings.
func normaliseComponents(name string, v Value) (*Mapping, error) {
	if v.IsNull() {
		return NewMapping(), nil
	}
	block, ok := v.AsMap()
	if !ok {
		return nil, &ParseError{Name: name, Msg: fmt.Sprintf("%s must be a mapping, got %s", KeyComponents, v.Kind())}
	}
	out := NewMapping()
	var err error
	block.Each(func(typeName string, params Value) bool {
		switch params.Kind() {
		case KindNull:
			out.set(typeName, Map(NewMapping()))
		case KindMap:
			out.set(typeName, params)
		default:
			err = &ParseError{Name: name, Msg: fmt.Sprintf("component %s must be a mapping, got %s", typeName, params.Kind())}
			return false
		}
		return true
	})
	return out, err
}

func convertNode(name string, n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convertNode(name, n.Alias)

	case yaml.ScalarNode:
		return convertScalar(name, n)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convertNode(name, c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindSeq, seq: items}, nil

	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Value{}, parseErrorAt(name, k, "mapping keys must be scalars")
			}
			if k.ShortTag() == "!!merge" {
				return Value{}, parseErrorAt(name, k, "merge keys are not supported, use derive_from")
			}
			if m.Has(k.Value) {
				return Value{}, parseErrorAt(name, k, "duplicate key %q", k.Value)
			}
			v, err := convertNode(name, val)
			if err != nil {
				return Value{}, err
			}
			m.set(k.Value, v)
		}
		return Map(m), nil
	}
	return Value{}, parseErrorAt(name, n, "unexpected %s", nodeKindName(n))
}

func convertScalar(name string, n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, parseErrorAt(name, n, "invalid bool %q", n.Value)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, parseErrorAt(name, n, "invalid integer %q", n.Value)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, parseErrorAt(name, n, "invalid float %q", n.Value)
		}
		return Float(f), nil
	}
	// !!str, !!timestamp, !!binary and custom tags keep their literal text.
	return String(n.Value), nil
}

func parseErrorAt(name string, n *yaml.Node, format string, args ...any) *ParseError {
	return &ParseError{Name: name, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

func nodeKindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}

// splitYAMLError pulls the line number out of "yaml: line N: msg".
func splitYAMLError(err error) (int, string) {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	rest, ok := strings.CutPrefix(msg, "line ")
	if !ok {
		return 0, msg
	}
	num, tail, ok := strings.Cut(rest, ": ")
	if !ok {
		return 0, msg
	}
	line, convErr := strconv.Atoi(num)
	if convErr != nil {
		return 0, msg
	}
	return line, tail
}

// Encode renders a mapping as canonical YAML: keys in mapping order,
// two-space indent, floats always carrying a decimal point.
func Encode(m *Mapping) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(encodeNode(Map(m))); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeNode(v Value) *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.i, 10)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v.f)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindSeq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.seq {
			n.Content = append(n.Content, encodeNode(item))
		}
		return n
	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.m.Each(func(k string, item Value) bool {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				encodeNode(item))
			return true
		})
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
