package document

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Segment is one hop of a property path: a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key builds a mapping-key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index builds a sequence-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// String renders a segment for logs and error messages.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}

	return s.Key
}

// PathString renders a path slash-separated, JSON-pointer style.
func PathString(path []Segment) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = s.String()
	}

	return "/" + strings.Join(parts, "/")
}

// Location describes where in the document structure a cursor position
// falls. It is the raw material the completion classifier works from.
type Location struct {
	// Node is the deepest parsed node containing the cursor. Nil when
	// the location was synthesized from line text.
	Node *yaml.Node

	// Ancestry holds the parsed container nodes from the document root
	// down to (and including) Node's parent. Empty for synthesized
	// locations.
	Ancestry []*yaml.Node

	// Path is the key/index trail from the root to the cursor's
	// enclosing value. For a cursor on a mapping key, the key itself is
	// the final segment.
	Path []Segment

	// OnKey reports the cursor sits on (or is typing) a mapping key.
	OnKey bool

	// AfterColon reports the cursor sits in the value position of the
	// final path segment.
	AfterColon bool

	// KeyOrValue reports an empty entry where key and value position
	// cannot be distinguished yet.
	KeyOrValue bool

	// Synthetic reports the path was recovered from line text rather
	// than the parsed tree.
	Synthetic bool
}

// Locate maps a cursor position to a Location. The parsed tree is
// consulted first; when it cannot place the cursor (mid-edit text,
// parse failure, cursor below the last parsed entry) an indentation
// scan of the raw lines takes over. The longer of the two paths wins.
func (t *Tree) Locate(pos Position) *Location {
	var walked *Location
	if t.root != nil {
		walked = walk(t.root, pos, nil, nil)
	}

	scanned := t.locateByIndent(pos)

	if walked == nil {
		return scanned
	}

	if scanned != nil && len(scanned.Path) > len(walked.Path) {
		return scanned
	}

	return walked
}

// walk descends the parsed tree looking for the deepest node that
// contains pos.
func walk(n *yaml.Node, pos Position, path []Segment, ancestry []*yaml.Node) *Location {
	if n == nil {
		return nil
	}

	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]

			if Span(k).Contains(pos) {
				return &Location{
					Node:     k,
					Ancestry: append(ancestry, n),
					Path:     append(path, Key(k.Value)),
					OnKey:    true,
				}
			}

			if v.Kind == yaml.ScalarNode && !isNullNode(v) && Span(v).Contains(pos) {
				loc := &Location{
					Node:     v,
					Ancestry: append(ancestry, n),
					Path:     append(path, Key(k.Value)),
				}

				// A plain scalar on its own line below the key is
				// ambiguous: it may be a value, or a new key still
				// missing its colon.
				if v.Style == 0 && Span(k).Start.Line != Span(v).Start.Line {
					loc.KeyOrValue = true
				} else {
					loc.AfterColon = true
				}

				return loc
			}

			if !isNullNode(v) && Span(v).Contains(pos) {
				return walk(v, pos, append(path, Key(k.Value)), append(ancestry, n))
			}

			// Cursor on the key's line, past the colon, with no parsed
			// value to land on: value position of this key.
			if pos.Line == Span(k).Start.Line && Span(k).End.Before(pos) && (isNullNode(v) || pos.Line < Span(v).Start.Line) {
				return &Location{
					Node:       v,
					Ancestry:   append(ancestry, n),
					Path:       append(path, Key(k.Value)),
					AfterColon: true,
				}
			}
		}

		if Span(n).Contains(pos) {
			// Inside the mapping but on none of its entries: a new key
			// is being introduced here.
			return &Location{
				Node:     n,
				Ancestry: append(ancestry, n),
				Path:     path,
				OnKey:    true,
			}
		}

		return nil
	case yaml.SequenceNode:
		for i, c := range n.Content {
			if Span(c).Contains(pos) {
				return walk(c, pos, append(path, Index(i)), append(ancestry, n))
			}
		}

		if Span(n).Contains(pos) {
			return &Location{
				Node:     n,
				Ancestry: append(ancestry, n),
				Path:     append(path, Index(len(n.Content))),
			}
		}

		return nil
	case yaml.ScalarNode:
		if Span(n).Contains(pos) {
			return &Location{Node: n, Ancestry: ancestry, Path: path}
		}

		return nil
	}

	return nil
}

func isNullNode(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null" && n.Value == "")
}

// indentFrame is one level of the indentation stack used by the
// line-based fallback.
type indentFrame struct {
	indent   int
	seg      Segment
	seqCount int
}

// locateByIndent recovers a best-effort Location from raw line text.
// It tracks mapping keys and sequence dashes by indentation, which
// keeps completion working while the document is syntactically broken.
func (t *Tree) locateByIndent(pos Position) *Location {
	if int(pos.Line) >= len(t.lines) {
		return nil
	}

	var stack []indentFrame

	push := func(indent int, seg Segment) {
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		stack = append(stack, indentFrame{indent: indent, seg: seg})
	}

	for i := 0; i < int(pos.Line); i++ {
		line := t.lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		rest := trimmed

		if rest == "-" || strings.HasPrefix(rest, "- ") {
			for len(stack) > 0 && stack[len(stack)-1].indent > indent {
				stack = stack[:len(stack)-1]
			}

			idx := 0
			if len(stack) > 0 && stack[len(stack)-1].indent == indent && stack[len(stack)-1].seg.IsIndex {
				idx = stack[len(stack)-1].seqCount + 1
				stack = stack[:len(stack)-1]
			}

			stack = append(stack, indentFrame{indent: indent, seg: Index(idx), seqCount: idx})

			rest = strings.TrimSpace(strings.TrimPrefix(rest, "-"))
			indent += 2
		}

		if key, hasValue, ok := splitKeyLine(rest); ok && !hasValue {
			push(indent, Key(key))
		}
	}

	line := t.Line(int(pos.Line))

	// The cursor column is kept even past the line end: on an empty
	// line it is the indent the editor will give the next keystroke.
	col := int(pos.Character)

	cut := col
	if cut > len(line) {
		cut = len(line)
	}

	before := line[:cut]
	unindented := strings.TrimLeft(before, " ")
	onDash := strings.HasPrefix(unindented, "- ") || unindented == "-"
	trimmed := strings.TrimLeft(unindented, "- ")
	indent := len(before) - len(trimmed)

	for len(stack) > 0 && stack[len(stack)-1].indent >= indent && trimmed != "" {
		stack = stack[:len(stack)-1]
	}

	for len(stack) > 0 && trimmed == "" && stack[len(stack)-1].indent >= col {
		stack = stack[:len(stack)-1]
	}

	path := make([]Segment, 0, len(stack)+2)
	for _, f := range stack {
		path = append(path, f.seg)
	}

	if onDash {
		path = append(path, Index(0))
	}

	loc := &Location{Path: path, Synthetic: true}

	if trimmed == "" {
		loc.KeyOrValue = true
		return loc
	}

	// A completed "Key:" behind the cursor puts it in that key's value
	// position; otherwise the cursor is still inside the key itself.
	if key, _, ok := splitKeyLine(trimmed); ok {
		loc.Path = append(loc.Path, Key(key))
		loc.AfterColon = true
	} else {
		loc.OnKey = true
	}

	return loc
}

// splitKeyLine parses a "Key:" or "Key: value" line fragment. ok is
// false when the fragment is not a mapping entry.
func splitKeyLine(s string) (key string, hasValue bool, ok bool) {
	idx := -1

	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}

		// "::" is part of an identifier (Fn::GetAtt, AWS::S3::Bucket),
		// not a key separator.
		if i+1 < len(s) && s[i+1] == ':' {
			i++
			continue
		}

		if i+1 == len(s) || s[i+1] == ' ' {
			idx = i
			break
		}
	}

	if idx <= 0 {
		return "", false, false
	}

	key = strings.Trim(strings.TrimSpace(s[:idx]), `"'`)
	rest := strings.TrimSpace(s[idx+1:])

	return key, rest != "" && !strings.HasPrefix(rest, "#"), key != ""
}
