package generator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a parsed Compose template. Each Render works on a fresh
// copy decoded from the original bytes.
type Template struct {
	Path string
	raw  []byte
}

// ParseTemplate parses Compose YAML from data. path names the source in
// error messages.
func ParseTemplate(path string, data []byte) (*Template, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("template %s: top level must be a mapping", path)
	}
	return &Template{Path: path, raw: data}, nil
}

func (t *Template) document() (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(t.raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", t.Path, err)
	}
	return &Document{root: &root}, nil
}

// Document is one rendered Compose file. Key order and comments of the
// template are preserved.
type Document struct {
	root *yaml.Node
}

// FieldError reports a template that lacks a field the renderer sets.
type FieldError struct {
	Path string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("template is missing %s", e.Path)
}

// Set assigns a string scalar at a dotted path such as
// "services.srsenb.volumes.0". Every parent must exist in the template.
// A missing final mapping key is added; a missing final sequence item is
// an error.
func (d *Document) Set(path, value string) error {
	segs := strings.Split(path, ".")
	node := d.root.Content[0]

	for i, seg := range segs {
		last := i == len(segs)-1
		switch node.Kind {
		case yaml.MappingNode:
			child := mappingValue(node, seg)
			if child == nil {
				if !last {
					return &FieldError{Path: strings.Join(segs[:i+1], ".")}
				}
				node.Content = append(node.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: seg},
					scalar(value))
				return nil
			}
			if last {
				setScalar(child, value)
				return nil
			}
			node = child

		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node.Content) {
				return &FieldError{Path: strings.Join(segs[:i+1], ".")}
			}
			if last {
				setScalar(node.Content[idx], value)
				return nil
			}
			node = node.Content[idx]

		default:
			return &FieldError{Path: strings.Join(segs[:i+1], ".")}
		}
	}
	return nil
}

// Get returns the scalar at a dotted path.
func (d *Document) Get(path string) (string, bool) {
	node := d.root.Content[0]
	for _, seg := range strings.Split(path, ".") {
		switch node.Kind {
		case yaml.MappingNode:
			node = mappingValue(node, seg)
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node.Content) {
				return "", false
			}
			node = node.Content[idx]
		default:
			return "", false
		}
		if node == nil {
			return "", false
		}
	}
	if node.Kind != yaml.ScalarNode {
		return "", false
	}
	return node.Value, true
}

// Marshal encodes the document as YAML with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// setScalar replaces n in place so anchors and comments on it survive.
func setScalar(n *yaml.Node, value string) {
	n.Kind = yaml.ScalarNode
	n.Tag = "!!str"
	n.Value = value
	n.Style = 0
	n.Content = nil
}
