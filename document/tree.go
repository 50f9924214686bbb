// Package document provides a read-only syntax tree over template
// documents. YAML is a superset of JSON, so a single yaml.v3 parse
// covers both document types; positions are exposed in zero-based LSP
// coordinates.
package document

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// DocType distinguishes the two template syntaxes.
type DocType string

// Document types.
const (
	JSON DocType = "json"
	YAML DocType = "yaml"
)

// DetectType determines the document type from the editor language ID,
// the file extension, or finally the text itself.
func DetectType(languageID, uri, text string) DocType {
	switch languageID {
	case "json", "jsonc":
		return JSON
	case "yaml", "yml":
		return YAML
	}

	lower := strings.ToLower(uri)
	if strings.HasSuffix(lower, ".json") {
		return JSON
	}

	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return YAML
	}

	if strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "{") {
		return JSON
	}

	return YAML
}

// Tree is a parsed template document. A Tree is always produced, even
// when the text does not parse: the root is nil in that case and
// location falls back to line-based scanning.
type Tree struct {
	root    *yaml.Node
	docType DocType
	lines   []string
}

// Parse parses text into a Tree. The returned error reports a parse
// failure but the Tree remains usable for best-effort location.
func Parse(text string, docType DocType) (*Tree, error) {
	t := &Tree{
		docType: docType,
		lines:   strings.Split(text, "\n"),
	}

	var doc yaml.Node

	err := yaml.Unmarshal([]byte(text), &doc)
	if err == nil && doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		t.root = doc.Content[0]
	}

	return t, err
}

// Type returns the document type the tree was parsed as.
func (t *Tree) Type() DocType { return t.docType }

// Root returns the document's top-level node, or nil when the text did
// not parse.
func (t *Tree) Root() *yaml.Node { return t.root }

// Line returns the text of the i'th line, or "" when out of range.
func (t *Tree) Line(i int) string {
	if i < 0 || i >= len(t.lines) {
		return ""
	}

	return t.lines[i]
}

// LineCount returns the number of lines in the document.
func (t *Tree) LineCount() int { return len(t.lines) }

// TopLevelSections returns the set of section keys declared at the top
// level of the document. When the document did not parse, the set is
// recovered by scanning for zero-indent keys.
func (t *Tree) TopLevelSections() map[string]bool {
	out := map[string]bool{}

	if t.root != nil && t.root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(t.root.Content); i += 2 {
			out[t.root.Content[i].Value] = true
		}

		return out
	}

	for _, line := range t.lines {
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}

		if idx := strings.Index(line, ":"); idx > 0 {
			key := strings.Trim(strings.TrimSpace(line[:idx]), `"'`)
			if key != "" && !strings.ContainsAny(key, " {[") {
				out[key] = true
			}
		}
	}

	return out
}

// NodeAtPath walks the parsed tree by path segments and returns the
// node at that location, or nil when any hop is missing.
func (t *Tree) NodeAtPath(path []Segment) *yaml.Node {
	n := t.root

	for _, seg := range path {
		n = childAt(n, seg)
		if n == nil {
			return nil
		}
	}

	return n
}

// childAt resolves one path segment against a container node.
func childAt(n *yaml.Node, seg Segment) *yaml.Node {
	if n == nil {
		return nil
	}

	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	switch n.Kind {
	case yaml.MappingNode:
		if seg.IsIndex {
			return nil
		}

		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == seg.Key {
				return n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(n.Content) {
			return nil
		}

		return n.Content[seg.Index]
	}

	return nil
}

// MappingKeys returns the keys of a mapping node in document order.
func MappingKeys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}

	return keys
}

// Span computes the document range a node covers. Scalar ends are
// derived from the value text; container ends from the last child.
func Span(n *yaml.Node) Range {
	start := fromYAML(n.Line, n.Column)
	end := start

	switch n.Kind {
	case yaml.ScalarNode:
		val := n.Value
		if n.Style == yaml.DoubleQuotedStyle || n.Style == yaml.SingleQuotedStyle {
			end.Character += 2
		}

		if i := strings.IndexByte(val, '\n'); i >= 0 {
			rest := val
			for {
				j := strings.IndexByte(rest, '\n')
				if j < 0 {
					break
				}

				end.Line++
				rest = rest[j+1:]
			}

			end.Character = uint32(len(rest))
		} else {
			end.Character += uint32(len(val))
		}
	case yaml.MappingNode, yaml.SequenceNode:
		for _, c := range n.Content {
			if ce := Span(c).End; end.Before(ce) {
				end = ce
			}
		}
	case yaml.AliasNode:
		end.Character += uint32(len(n.Value)) + 1
	}

	return Range{Start: start, End: end}
}
