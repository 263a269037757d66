// Package hayaml loads Home Assistant YAML documents into a generic,
// read-only configuration tree.
//
// # Tree Model
//
// A parsed document is a Node, which is exactly one of:
//
//   - *Mapping  - ordered string-keyed mapping
//   - *Sequence - ordered list
//   - *Scalar   - string, integer, float, bool, or null leaf
//
// The tagged variant keeps traversal code total: every walk is a three-case
// type switch with no reflection and no surprise shapes.
//
// # Home Assistant Tags
//
// Home Assistant extends YAML with tags like !secret, !input and the
// !include family. The loader does not resolve them; a tagged scalar is
// preserved as the string "!<tag> <value>" so downstream classification can
// recognize and skip it. This mirrors how the registries' own tooling
// treats these tags during offline validation.
package hayaml

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is a value in a parsed configuration tree.
type Node interface {
	isNode()
}

// Mapping is an ordered string-keyed mapping node.
type Mapping struct {
	Pairs []Pair
}

// Pair is a single key/value entry of a Mapping.
type Pair struct {
	Key   string
	Value Node
}

// Sequence is an ordered list node.
type Sequence struct {
	Items []Node
}

// Scalar is a leaf node holding a string, int64, float64, bool, or nil.
type Scalar struct {
	Value any
}

func (*Mapping) isNode()  {}
func (*Sequence) isNode() {}
func (*Scalar) isNode()   {}

// Get returns the value for key and whether it was present.
func (m *Mapping) Get(key string) (Node, bool) {
	for _, p := range m.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Str returns the scalar's string value; ok is false for non-string scalars.
func (s *Scalar) Str() (string, bool) {
	v, ok := s.Value.(string)
	return v, ok
}

// StringValue returns the string held by a Node if it is a string scalar.
func StringValue(n Node) (string, bool) {
	if s, ok := n.(*Scalar); ok {
		return s.Str()
	}
	return "", false
}

// LoadFile reads and parses a YAML document from disk.
// An empty document yields a nil Node and no error.
func LoadFile(path string) (Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	node, err := LoadBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return node, nil
}

// LoadBytes parses a YAML document from memory.
func LoadBytes(raw []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0] == nil {
		return nil, nil
	}
	return convert(doc.Content[0])
}

func convert(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convert(n.Alias)

	case yaml.MappingNode:
		m := &Mapping{Pairs: make([]Pair, 0, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: non-scalar mapping key", key.Line)
			}
			value, err := convert(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Pairs = append(m.Pairs, Pair{Key: key.Value, Value: value})
		}
		return m, nil

	case yaml.SequenceNode:
		s := &Sequence{Items: make([]Node, 0, len(n.Content))}
		for _, item := range n.Content {
			value, err := convert(item)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, value)
		}
		return s, nil

	case yaml.ScalarNode:
		return convertScalar(n), nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func convertScalar(n *yaml.Node) *Scalar {
	// Application tags (!secret, !input, !include...) are preserved as
	// "!<tag> <value>" strings so classification can skip them.
	if tag, ok := strings.CutPrefix(n.Tag, "!"); ok && !strings.HasPrefix(n.Tag, "!!") {
		return &Scalar{Value: "!" + tag + " " + n.Value}
	}

	switch n.Tag {
	case "!!null", "":
		if n.Value == "" || n.Value == "~" || n.Value == "null" {
			return &Scalar{Value: nil}
		}
		return &Scalar{Value: n.Value}
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err == nil {
			return &Scalar{Value: b}
		}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err == nil {
			return &Scalar{Value: i}
		}
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err == nil {
			return &Scalar{Value: f}
		}
	}
	return &Scalar{Value: n.Value}
}
