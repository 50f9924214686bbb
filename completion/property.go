package completion

import (
	"strings"

	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

// ResourcePropertyProvider completes property names and values inside a
// resource's Properties block by resolving the property path against
// the resource-type schema.
//
// Path handling relies on the classifier's normalization: for key and
// key-or-value positions Context.Path already addresses the enclosing
// mapping, and for value positions it ends at the current key, so the
// same resolution path serves both shapes.
type ResourcePropertyProvider struct {
	Store schema.Store
}

// Provide implements Provider.
func (p ResourcePropertyProvider) Provide(ctx *Context) []Candidate {
	if p.Store == nil || ctx.ResourceType == "" {
		return nil
	}

	rs, ok := p.Store.ResourceSchema(ctx.ResourceType)
	if !ok {
		return nil
	}

	pp := ctx.PropertyPath()
	if ctx.EntitySection != "Properties" {
		return nil
	}

	if ctx.PositionKind == Value {
		return p.valueCandidates(rs, pp)
	}

	return p.keyCandidates(ctx, rs, pp)
}

// keyCandidates lists the schema properties admissible at the path that
// the document does not already set, applying the required-first gate:
// while required properties remain unset and no text has been typed,
// optional properties stay hidden.
func (p ResourcePropertyProvider) keyCandidates(ctx *Context, rs *schema.ResourceSchema, pp []document.Segment) []Candidate {
	frags := schema.ResolvePath(rs, pp, schema.ResolveOptions{ExcludeReadOnly: true})
	if len(frags) == 0 {
		return nil
	}

	names, props, required := schema.Merged(frags)

	existing := map[string]bool{}
	for _, k := range p.authoredKeys(ctx) {
		existing[k] = true
	}

	missingRequired := false

	for name := range required {
		if !existing[name] {
			missingRequired = true
			break
		}
	}

	requiredOnly := missingRequired && ctx.RawText == ""

	var out []Candidate

	for _, name := range names {
		if existing[name] && name != ctx.RawText {
			continue
		}

		if rs.IsReadOnly(schema.Pointer(append(pp, document.Key(name)))) {
			continue
		}

		if requiredOnly && !required[name] {
			continue
		}

		c := Candidate{
			Label:    name,
			Kind:     CandidateProperty,
			Required: required[name],
		}

		if prop := props[name]; prop != nil {
			c.Doc = prop.Description
			c.Detail = strings.Join(prop.Type, "|")

			switch {
			case prop.IsArray():
				c.Shape = ShapeArray
			case prop.IsObject():
				c.Shape = ShapeObject
			}
		}

		if c.Required {
			c.SortWeight = -1
		}

		out = append(out, c)
	}

	return out
}

// valueCandidates lists admissible literal values at the path: declared
// enums, or the synthesized boolean pair.
func (p ResourcePropertyProvider) valueCandidates(rs *schema.ResourceSchema, pp []document.Segment) []Candidate {
	frags := schema.ResolvePath(rs, pp, schema.ResolveOptions{})

	var out []Candidate

	seen := map[string]bool{}

	for _, f := range frags {
		values, exact := schema.EnumValues(f)
		for _, v := range values {
			if seen[v] {
				continue
			}

			seen[v] = true
			out = append(out, Candidate{
				Label: v,
				Kind:  CandidateEnumValue,
				Exact: exact,
			})
		}
	}

	return out
}

// authoredKeys returns the property names already present at the
// current nesting level, taken from the parsed entity when available
// and from sibling keys in the current mapping otherwise.
func (p ResourcePropertyProvider) authoredKeys(ctx *Context) []string {
	if ctx.Tree == nil {
		return nil
	}

	if n := ctx.Tree.NodeAtPath(ctx.Path); n != nil {
		return document.MappingKeys(n)
	}

	// The typed representation is unavailable (mid-edit); fall back to
	// scanning sibling lines at the cursor's indentation.
	return ctx.siblingKeysByIndent()
}

// Match implements Matcher.
func (ResourcePropertyProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 6, MinMatchLen: 1}
}
