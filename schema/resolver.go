package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cfnlang/cfn-ls/document"
)

// ResolveOptions tune ResolvePath.
type ResolveOptions struct {
	// ExcludeReadOnly drops terminal fragments whose pointer is listed
	// in the schema's readOnlyProperties.
	ExcludeReadOnly bool

	// RequireFullyResolved drops terminal fragments that carry no type
	// information at all (no type, properties, items, or enum), which
	// happens when a schema leaves a definition opaque.
	RequireFullyResolved bool
}

// refDepthLimit bounds $ref chains so cyclic definitions cannot hang a
// request.
const refDepthLimit = 16

// deref follows $ref indirections through the schema's definitions
// table. An unresolved ref yields nil: the fragment is dropped, not an
// error.
func deref(rs *ResourceSchema, p *Property) *Property {
	for depth := 0; p != nil && p.Ref != ""; depth++ {
		if depth >= refDepthLimit {
			return nil
		}

		p = rs.definition(p.Ref)
	}

	return p
}

// ResolvePath navigates a resource schema along a property path and
// returns every schema fragment admissible at that location. The result
// is a list because array-item unwrapping and $ref indirection can leave
// more than one candidate; callers merge fragments first-definition-wins
// for property names and union for required sets.
//
// The function is pure over immutable inputs: identical calls yield
// identical ordered results.
func ResolvePath(rs *ResourceSchema, path []document.Segment, opts ResolveOptions) []*Property {
	if rs == nil {
		return nil
	}

	root := &Property{
		Type:       TypeSet{"object"},
		Properties: rs.Properties,
		Required:   rs.Required,
	}

	frags := []*Property{root}

	for _, seg := range path {
		var next []*Property

		for _, f := range frags {
			f = deref(rs, f)
			if f == nil {
				continue
			}

			if seg.IsIndex {
				// An index hop moves into the array's element schema.
				if f.Items != nil {
					next = append(next, f.Items)
				}

				continue
			}

			// Properties may live on the fragment directly and behind
			// an array wrapper at the same time while a document is in
			// flux; check the direct map only.
			if p, ok := f.Properties[seg.Key]; ok {
				next = append(next, p)
			}
		}

		frags = next
		if len(frags) == 0 {
			return nil
		}
	}

	var out []*Property

	for _, f := range frags {
		f = deref(rs, f)
		if f == nil {
			continue
		}

		// Completions at an array position operate on elements, so a
		// terminal array unwraps to its items schema.
		if f.IsArray() && f.Items != nil {
			f = deref(rs, f.Items)
			if f == nil {
				continue
			}
		}

		if opts.RequireFullyResolved && len(f.Type) == 0 && len(f.Properties) == 0 && f.Items == nil && len(f.Enum) == 0 {
			continue
		}

		out = append(out, f)
	}

	if opts.ExcludeReadOnly && rs.IsReadOnly(Pointer(path)) {
		return nil
	}

	return out
}

// Pointer renders a property path as the slash-joined pointer form used
// by readOnlyProperties lists; index segments are elided.
func Pointer(path []document.Segment) string {
	var b strings.Builder

	b.WriteString("/properties")

	for _, seg := range path {
		if seg.IsIndex {
			continue
		}

		b.WriteByte('/')
		b.WriteString(seg.Key)
	}

	return b.String()
}

// Merged flattens resolved fragments into the completion inputs: sorted
// property names with first-definition-wins schemas, and the union of
// all fragments' required sets.
func Merged(frags []*Property) (names []string, props map[string]*Property, required map[string]bool) {
	props = map[string]*Property{}
	required = map[string]bool{}

	for _, f := range frags {
		if f == nil {
			continue
		}

		for name, p := range f.Properties {
			if _, seen := props[name]; !seen {
				props[name] = p
				names = append(names, name)
			}
		}

		for _, r := range f.Required {
			required[r] = true
		}
	}

	sort.Strings(names)

	return names, props, required
}

// EnumValues extracts the admissible literal values of a fragment. A
// boolean-typed fragment synthesizes {"true","false"} even without a
// declared enum; exact is true in that case and the candidate set must
// bypass fuzzy ranking entirely.
func EnumValues(p *Property) (values []string, exact bool) {
	if p == nil {
		return nil, false
	}

	if len(p.Enum) > 0 {
		values = make([]string, 0, len(p.Enum))
		for _, v := range p.Enum {
			values = append(values, renderEnum(v))
		}

		return values, false
	}

	if p.Type.Has("boolean") {
		return []string{"true", "false"}, true
	}

	return nil, false
}

// renderEnum formats one enum literal for insertion.
func renderEnum(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}

		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
