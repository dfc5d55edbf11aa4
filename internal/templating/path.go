package templating

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Path replaces scalar values addressed by dotted key paths.
type Path struct {
	keys map[string][]string
}

// NewPath builds a Path from a field to dotted key mapping.
func NewPath(keys map[string]string) (*Path, error) {
	if len(keys) == 0 {
		return nil, errors.New("path strategy: no fields configured")
	}
	parsed := make(map[string][]string, len(keys))
	for field, key := range keys {
		segments := strings.Split(strings.TrimSpace(key), ".")
		for _, segment := range segments {
			if segment == "" {
				return nil, fmt.Errorf("path strategy: field %q has invalid key %q", field, key)
			}
		}
		parsed[field] = segments
	}
	return &Path{keys: parsed}, nil
}

func (p *Path) Name() string { return "path" }

// target is a located scalar and the value it should receive.
type target struct {
	field    string
	value    string
	segments []string
	node     *yaml.Node
	// flow is set when any enclosing mapping uses flow style.
	flow bool
}

func (p *Path) Render(doc Document, subs Substitutions) (Result, error) {
	root, err := parseTree(doc.Bytes())
	if err != nil {
		return Result{}, err
	}

	var (
		targets []target
		missing []string
	)
	for _, field := range subs.Fields() {
		segments, ok := p.keys[field]
		if !ok {
			missing = append(missing, field)
			continue
		}
		t, ok := locate(root, segments)
		if !ok {
			missing = append(missing, field)
			continue
		}
		t.field = field
		t.value = subs[field]
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return Result{Output: doc.Bytes(), Missing: missing}, nil
	}

	if out, ok := splice(doc.Bytes(), targets); ok && applied(out, targets) {
		return Result{Output: out, Missing: missing}, nil
	}

	out, err := reencode(doc, root, targets)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out, Missing: missing}, nil
}

func (p *Path) Check(doc Document) []string {
	fields := sortedKeys(p.keys)
	root, err := parseTree(doc.Bytes())
	if err != nil {
		return fields
	}
	var missing []string
	for _, field := range fields {
		if _, ok := locate(root, p.keys[field]); !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

func parseTree(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &root, nil
}

// locate walks mapping keys from the document root. Aliases, sequences and
// collections at the final segment do not count as a match.
func locate(root *yaml.Node, segments []string) (target, bool) {
	if root == nil || root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return target{}, false
	}
	node := root.Content[0]
	flow := false
	for _, segment := range segments {
		if node.Kind != yaml.MappingNode {
			return target{}, false
		}
		if node.Style&yaml.FlowStyle != 0 {
			flow = true
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == segment {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return target{}, false
		}
		node = next
	}
	if node.Kind != yaml.ScalarNode {
		return target{}, false
	}
	return target{segments: segments, node: node, flow: flow}, true
}

// applied re-parses out and confirms every target holds its new value.
func applied(out []byte, targets []target) bool {
	root, err := parseTree(out)
	if err != nil {
		return false
	}
	for _, t := range targets {
		got, ok := locate(root, t.segments)
		if !ok || got.node.Value != t.value {
			return false
		}
	}
	return true
}

// reencode mutates the parsed tree and serializes it. yaml.v3 keeps mapping
// order and each node's style, and the indent is pinned to the template's.
func reencode(doc Document, root *yaml.Node, targets []target) ([]byte, error) {
	for _, t := range targets {
		t.node.Value = t.value
		t.node.Tag = "!!str"
		if t.node.Style&(yaml.LiteralStyle|yaml.FoldedStyle) == 0 {
			t.node.Style = 0
		}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(detectIndent(doc.Lines()))
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return buf.Bytes(), nil
}

// detectIndent returns the indent of the first nested mapping line, or 2.
func detectIndent(lines []string) int {
	prevOpensBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if prevOpensBlock && indent > 0 {
			if indent > 8 {
				return 8
			}
			if indent < 2 {
				return 2
			}
			return indent
		}
		prevOpensBlock = strings.HasSuffix(trimmed, ":")
	}
	return 2
}
