package completion

import (
	"strings"

	"gopkg.in/yaml.v3"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
)

// Classify maps a cursor position to a Context. The second result is
// false only when there is no syntax tree at all; malformed documents
// still produce a best-effort context.
func Classify(tree *document.Tree, pos document.Position) (*Context, bool) {
	if tree == nil {
		return nil, false
	}

	loc := tree.Locate(pos)
	if loc == nil {
		loc = &document.Location{KeyOrValue: true, Synthetic: true}
	}

	raw, rng := tree.TokenAt(pos)

	ctx := &Context{
		DocType:     tree.Type(),
		EntityKind:  cfnls.EntityUnknown,
		EntityStart: 2,
		Tree:        tree,
	}

	switch {
	case loc.KeyOrValue:
		ctx.PositionKind = KeyOrValue
	case loc.OnKey:
		ctx.PositionKind = Key
	default:
		ctx.PositionKind = Value
	}

	ctx.intrinsics = detectIntrinsics(loc)
	if len(ctx.intrinsics) > 0 {
		ctx.Intrinsic = ctx.intrinsics[0]
	}

	path := loc.Path

	// A key position's own partial segment belongs to RawText, not to
	// the path: normalize to the enclosing mapping.
	if loc.OnKey && !loc.Synthetic && len(path) > 0 &&
		loc.Node != nil && loc.Node.Kind == yaml.ScalarNode {
		path = path[:len(path)-1]
	}

	ctx.Path = path
	ctx.RawText, ctx.Range = normalizeRaw(raw, rng, ctx.PositionKind)

	classifySection(ctx)

	return ctx, true
}

// normalizeRaw trims the mapping colon off a key token so fuzzy
// matching sees the identifier alone. Intrinsic triggers ("Fn:", "Fn::",
// long-form names) keep their colons: the trigger shape matters there.
func normalizeRaw(raw string, rng document.Range, kind PositionKind) (string, document.Range) {
	if !kind.IsKeyish() || !strings.HasSuffix(raw, ":") {
		return raw, rng
	}

	trimmed := strings.TrimRight(raw, ":")
	if trimmed == "Fn" || strings.Contains(trimmed, "::") || strings.HasPrefix(trimmed, "!") {
		return raw, rng
	}

	rng.End.Character -= uint32(len(raw) - len(trimmed))

	return trimmed, rng
}

// classifySection fills section, entity, and resource-type fields from
// the path.
func classifySection(ctx *Context) {
	path := ctx.Path
	if len(path) == 0 || path[0].IsIndex {
		return
	}

	if !cfnls.IsTopLevelSection(path[0].Key) {
		return
	}

	ctx.Section = path[0].Key
	ctx.EntityKind = cfnls.EntityKindForSection(ctx.Section)

	if ctx.EntityKind == cfnls.EntityUnknown || len(path) < 2 {
		return
	}

	// A Fn::ForEach wrapper inserts two extra path levels between the
	// section and the generated entity: the ForEach key and the output
	// slot index.
	if canonical, ok := cfnls.NormalizeIntrinsic(path[1].Key); ok && canonical == cfnls.FnForEach {
		if ctx.Section == cfnls.SectionResources {
			ctx.EntityKind = cfnls.EntityForEachResource
		}

		ctx.EntityStart = 4

		if len(path) > 3 && !path[3].IsIndex {
			ctx.LogicalID = path[3].Key
		}
	} else {
		ctx.LogicalID = path[1].Key
	}

	if len(path) > ctx.EntityStart && !path[ctx.EntityStart].IsIndex {
		ctx.EntitySection = path[ctx.EntityStart].Key
	}

	if (ctx.EntityKind == cfnls.EntityResource || ctx.EntityKind == cfnls.EntityForEachResource) &&
		ctx.LogicalID != "" && len(path) >= ctx.EntityStart {
		typePath := append(append([]document.Segment{}, path[:ctx.EntityStart]...), document.Key("Type"))
		if n := ctx.Tree.NodeAtPath(typePath); n != nil && n.Kind == yaml.ScalarNode {
			ctx.ResourceType = n.Value
		}
	}
}

// isIntrinsicTag reports whether a YAML tag is a short-form intrinsic
// ("!GetAtt"), as opposed to a core tag ("!!str").
func isIntrinsicTag(tag string) bool {
	return strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!")
}

// detectIntrinsics collects the intrinsic invocations enclosing the
// cursor, innermost first. Both notations are recognized: the YAML
// short form via node tags and the long form via single-key mappings.
func detectIntrinsics(loc *document.Location) []*IntrinsicContext {
	var chain []*IntrinsicContext

	// Ancestry runs root-down; prepending keeps the chain innermost
	// first.
	prepend := func(ic *IntrinsicContext) {
		chain = append([]*IntrinsicContext{ic}, chain...)
	}

	for i := 0; i < len(loc.Ancestry); i++ {
		n := loc.Ancestry[i]
		if i >= len(loc.Path) {
			break
		}

		seg := loc.Path[i]

		// Short form on a container: !GetAtt [A, B], !If [...].
		if isIntrinsicTag(n.Tag) {
			if canonical, ok := cfnls.NormalizeIntrinsic(n.Tag); ok {
				ic := &IntrinsicContext{Fn: canonical}
				if n.Kind == yaml.SequenceNode {
					ic.Args = n.Content
					if seg.IsIndex {
						ic.ArgIndex = seg.Index
					}
				}

				prepend(ic)
			}
		}

		// Long form: a mapping entered through an "Fn::X"/"Ref" key.
		// The cursor sitting on that key itself is the function-name
		// position, not an argument.
		if n.Kind != yaml.MappingNode || seg.IsIndex {
			continue
		}

		if loc.OnKey && i == len(loc.Ancestry)-1 && loc.Node != nil && loc.Node.Kind == yaml.ScalarNode {
			continue
		}

		canonical, ok := cfnls.NormalizeIntrinsic(seg.Key)
		if !ok {
			continue
		}

		ic := &IntrinsicContext{Fn: canonical}

		var value *yaml.Node
		if i+1 < len(loc.Ancestry) {
			value = loc.Ancestry[i+1]
		} else if loc.Node != nil && !loc.OnKey {
			value = loc.Node
		}

		if value != nil && value.Kind == yaml.SequenceNode {
			ic.Args = value.Content
			if i+1 < len(loc.Path) && loc.Path[i+1].IsIndex {
				ic.ArgIndex = loc.Path[i+1].Index
			}
		} else if value != nil {
			ic.Args = []*yaml.Node{value}
		}

		prepend(ic)
	}

	// The deepest node itself: a tagged scalar like `!Ref par` with the
	// cursor inside the argument text.
	if n := loc.Node; n != nil && n.Kind == yaml.ScalarNode && isIntrinsicTag(n.Tag) && !loc.OnKey {
		if canonical, ok := cfnls.NormalizeIntrinsic(n.Tag); ok {
			prepend(&IntrinsicContext{Fn: canonical, Args: []*yaml.Node{n}})
		}
	}

	return chain
}

// Condition usage is decided by three independent checks; any single
// match suffices.
func (c *Context) InConditionUsage() bool {
	// (a) the value of a literal Condition key directly under a
	// resource, its UpdatePolicy or Metadata attribute, or an output.
	if c.conditionKeyValue() {
		return true
	}

	// (b) the first argument of Fn::If.
	if c.Intrinsic != nil && c.Intrinsic.Fn == cfnls.FnIf && c.Intrinsic.ArgIndex == 0 {
		return true
	}

	// (c) a Condition operand nested inside a condition-consuming
	// intrinsic (Fn::And, Fn::Or, Fn::Not, Fn::Equals).
	if c.Intrinsic != nil && c.Intrinsic.Fn == cfnls.FnCondition {
		for _, ic := range c.intrinsics[1:] {
			if cfnls.ConditionConsumers[ic.Fn] {
				return true
			}
		}
	}

	return false
}

func (c *Context) conditionKeyValue() bool {
	if !c.PositionKind.IsValueish() || len(c.Path) == 0 {
		return false
	}

	last := c.Path[len(c.Path)-1]
	if last.IsIndex || last.Key != "Condition" {
		return false
	}

	switch c.EntityKind {
	case cfnls.EntityResource, cfnls.EntityForEachResource:
		// Directly on the resource, or nested under UpdatePolicy or
		// Metadata.
		if len(c.Path) == c.EntityStart+1 {
			return true
		}

		return c.EntitySection == "UpdatePolicy" || c.EntitySection == "Metadata"
	case cfnls.EntityOutput:
		return len(c.Path) == c.EntityStart+1
	default:
		return false
	}
}
