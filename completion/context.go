// Package completion implements the completion pipeline: classifying a
// cursor position into a structured context, generating candidates per
// context shape, and ranking/formatting them into editor completion
// items.
package completion

import (
	"strings"

	"gopkg.in/yaml.v3"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
)

// PositionKind distinguishes key, value, and ambiguous positions.
type PositionKind int

// Position kinds. KeyOrValue occurs only at an empty or colon-less
// mapping entry, where the parser cannot yet tell the two apart.
const (
	Key PositionKind = iota
	Value
	KeyOrValue
)

func (k PositionKind) String() string {
	switch k {
	case Key:
		return "key"
	case Value:
		return "value"
	default:
		return "key_or_value"
	}
}

// IsKeyish reports whether keys may be completed at this position.
func (k PositionKind) IsKeyish() bool { return k == Key || k == KeyOrValue }

// IsValueish reports whether values may be completed at this position.
func (k PositionKind) IsValueish() bool { return k == Value || k == KeyOrValue }

// EditorSettings are the client-side indentation preferences attached
// to a request. The zero value means "unspecified": snippet rendering
// then falls back to two-space indentation.
type EditorSettings struct {
	// TabSize is the indent width in columns.
	TabSize int

	// InsertSpaces selects space indentation; false renders each
	// indent unit as a tab.
	InsertSpaces bool
}

// IntrinsicContext describes the intrinsic-function invocation enclosing
// the cursor, when there is one.
type IntrinsicContext struct {
	// Fn is the canonical long-form function name (e.g. "Fn::GetAtt").
	Fn string

	// Args holds the already-parsed argument nodes; each may itself be
	// a nested intrinsic call.
	Args []*yaml.Node

	// ArgIndex is the argument slot containing the cursor.
	ArgIndex int
}

// Context is the classified semantic location of one completion
// request. It lives only for the duration of that request.
type Context struct {
	DocType document.DocType

	// Section is the enclosing top-level section name, or "" when it
	// cannot be determined yet.
	Section string

	EntityKind cfnls.EntityKind

	// LogicalID names the entity instance enclosing the cursor.
	LogicalID string

	// Path is the property path from the document root. For key and
	// key-or-value positions it addresses the enclosing mapping; for
	// value positions its final segment is the key whose value is being
	// completed.
	Path []document.Segment

	// EntityStart is the path offset at which the entity's own body
	// begins: 2 for plain entities, 4 under a Fn::ForEach wrapper.
	EntityStart int

	// EntitySection is the first path segment under the entity
	// ("Properties", "Type", a resource attribute), or "".
	EntitySection string

	// ResourceType is the declared Type of the enclosing resource, or "".
	ResourceType string

	PositionKind PositionKind

	// Intrinsic is set when the cursor is inside an intrinsic-function
	// invocation.
	Intrinsic *IntrinsicContext

	// RawText is the partial token at the cursor, used for fuzzy
	// filtering and replacement-range computation.
	RawText string

	// Range is the span RawText occupies in the document.
	Range document.Range

	// Tree gives providers read access to the parsed document.
	Tree *document.Tree

	// Editor carries the client's indentation preferences, consulted
	// when the document itself does not reveal its indent unit yet.
	Editor EditorSettings

	// intrinsics is the full invocation chain, innermost first;
	// Intrinsic aliases its head.
	intrinsics []*IntrinsicContext
}

// EntityPath returns the path segments below the entity start (the path
// within the entity's own body).
func (c *Context) EntityPath() []document.Segment {
	if len(c.Path) <= c.EntityStart {
		return nil
	}

	return c.Path[c.EntityStart:]
}

// PropertyPath returns the path below the entity's "Properties" key,
// or nil when the cursor is not inside Properties.
func (c *Context) PropertyPath() []document.Segment {
	ep := c.EntityPath()
	if len(ep) == 0 || ep[0].Key != "Properties" {
		return nil
	}

	return ep[1:]
}

// AtEntityKeyLevel reports whether the cursor is choosing among the
// entity's own field names (Type, Properties, attributes...).
func (c *Context) AtEntityKeyLevel() bool {
	return c.PositionKind.IsKeyish() && c.LogicalID != "" && len(c.Path) == c.EntityStart
}

// AtFunctionName reports whether the raw token itself looks like an
// intrinsic function name being typed (short form, colon trigger, or
// namespace trigger).
func (c *Context) AtFunctionName() bool {
	raw := c.RawText

	if strings.HasPrefix(raw, "!") {
		return true
	}

	if raw == "Fn" && c.PositionKind.IsValueish() {
		return true
	}

	return strings.HasPrefix(raw, "Fn:")
}

// DeclaredConditions returns the names declared in the Conditions
// section of the document.
func (c *Context) DeclaredConditions() []string {
	if c.Tree == nil {
		return nil
	}

	return document.MappingKeys(c.Tree.NodeAtPath([]document.Segment{document.Key(cfnls.SectionConditions)}))
}

// DeclaredParameters returns the logical IDs declared in Parameters.
func (c *Context) DeclaredParameters() []string {
	if c.Tree == nil {
		return nil
	}

	return document.MappingKeys(c.Tree.NodeAtPath([]document.Segment{document.Key(cfnls.SectionParameters)}))
}

// DeclaredResources returns the logical IDs declared in Resources.
func (c *Context) DeclaredResources() []string {
	if c.Tree == nil {
		return nil
	}

	return document.MappingKeys(c.Tree.NodeAtPath([]document.Segment{document.Key(cfnls.SectionResources)}))
}

// siblingKeysByIndent recovers the keys already written at the cursor's
// nesting level by scanning neighbouring lines with the same
// indentation. Used when the parsed tree cannot represent the mid-edit
// document.
func (c *Context) siblingKeysByIndent() []string {
	if c.Tree == nil {
		return nil
	}

	cursorLine := int(c.Range.Start.Line)
	indent := int(c.Range.Start.Character)

	var keys []string

	collect := func(line string) bool {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return true
		}

		lineIndent := len(line) - len(trimmed)
		if lineIndent < indent {
			return false
		}

		if lineIndent == indent {
			if i := strings.IndexByte(trimmed, ':'); i > 0 {
				keys = append(keys, strings.Trim(strings.TrimSpace(trimmed[:i]), `"'`))
			}
		}

		return true
	}

	for i := cursorLine - 1; i >= 0; i-- {
		if !collect(c.Tree.Line(i)) {
			break
		}
	}

	for i := cursorLine + 1; i < c.Tree.LineCount(); i++ {
		if !collect(c.Tree.Line(i)) {
			break
		}
	}

	return keys
}

// HasTransform reports whether the template declares the given macro in
// its Transform section (scalar or list form).
func (c *Context) HasTransform(name string) bool {
	if c.Tree == nil {
		return false
	}

	n := c.Tree.NodeAtPath([]document.Segment{document.Key(cfnls.SectionTransform)})
	if n == nil {
		return false
	}

	if n.Kind == yaml.ScalarNode {
		return n.Value == name
	}

	if n.Kind == yaml.SequenceNode {
		for _, item := range n.Content {
			if item.Value == name {
				return true
			}
		}
	}

	return false
}
