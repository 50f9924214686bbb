package completion

import (
	"strings"

	"gopkg.in/yaml.v3"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

// IntrinsicArgumentProvider completes the argument slots of intrinsic
// invocations: Ref targets, GetAtt attribute paths, FindInMap keys,
// condition names for the condition-consuming slots. An empty result
// lets the router fall through to the other families.
type IntrinsicArgumentProvider struct {
	Store schema.Store
}

// Provide implements Provider.
func (p IntrinsicArgumentProvider) Provide(ctx *Context) []Candidate {
	ic := ctx.Intrinsic
	if ic == nil {
		return nil
	}

	if ctx.InConditionUsage() {
		return ConditionProvider{}.Provide(ctx)
	}

	switch ic.Fn {
	case cfnls.FnRef:
		return p.refTargets(ctx)
	case cfnls.FnGetAtt:
		return p.getAttTargets(ctx, ic)
	case cfnls.FnFindInMap:
		return p.findInMapKeys(ctx, ic)
	default:
		return nil
	}
}

// refTargets lists everything Ref can name: declared parameters first,
// then resources, then pseudo parameters.
func (p IntrinsicArgumentProvider) refTargets(ctx *Context) []Candidate {
	var out []Candidate

	for _, name := range ctx.DeclaredParameters() {
		out = append(out, Candidate{
			Label:      name,
			Kind:       CandidateReference,
			Detail:     "parameter",
			SortWeight: -2,
		})
	}

	for _, name := range ctx.DeclaredResources() {
		if name == ctx.LogicalID {
			continue
		}

		out = append(out, Candidate{
			Label:      name,
			Kind:       CandidateReference,
			Detail:     "resource",
			SortWeight: -1,
		})
	}

	for _, name := range cfnls.PseudoParameters() {
		out = append(out, Candidate{
			Label:  name,
			Kind:   CandidateReference,
			Detail: "pseudo parameter",
		})
	}

	return out
}

// getAttTargets completes GetAtt's dotted form: the resource logical ID
// before the first dot, the attribute name after it. Attribute names
// come from the resource schema's read-only property pointers.
func (p IntrinsicArgumentProvider) getAttTargets(ctx *Context, ic *IntrinsicContext) []Candidate {
	raw := strings.TrimPrefix(ctx.RawText, "!GetAtt")
	raw = strings.TrimSpace(raw)

	// List form: !GetAtt [Resource, Attribute] / Fn::GetAtt: [R, A].
	if len(ic.Args) > 1 || (len(ic.Args) == 1 && ic.Args[0].Kind == yaml.SequenceNode) {
		if ic.ArgIndex == 0 {
			return p.resourceIDs(ctx)
		}

		return p.attributeNames(ctx, resolveArgValue(ic.Args, 0))
	}

	// Dotted form: Resource.Attribute in one scalar.
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		return p.attributeNames(ctx, raw[:dot])
	}

	return p.resourceIDs(ctx)
}

func (p IntrinsicArgumentProvider) resourceIDs(ctx *Context) []Candidate {
	var out []Candidate

	for _, name := range ctx.DeclaredResources() {
		if name == ctx.LogicalID {
			continue
		}

		out = append(out, Candidate{Label: name, Kind: CandidateReference, Detail: "resource"})
	}

	return out
}

// attributeNames lists the GetAtt-able attributes of the named
// resource, derived from its schema's readOnlyProperties.
func (p IntrinsicArgumentProvider) attributeNames(ctx *Context, logicalID string) []Candidate {
	if p.Store == nil || ctx.Tree == nil || logicalID == "" {
		return nil
	}

	typeNode := ctx.Tree.NodeAtPath([]document.Segment{
		document.Key(cfnls.SectionResources),
		document.Key(logicalID),
		document.Key("Type"),
	})
	if typeNode == nil {
		return nil
	}

	rs, ok := p.Store.ResourceSchema(typeNode.Value)
	if !ok {
		return nil
	}

	out := make([]Candidate, 0, len(rs.ReadOnlyProperties))

	for _, ptr := range rs.ReadOnlyProperties {
		attr := strings.TrimPrefix(ptr, "/properties/")
		attr = strings.ReplaceAll(attr, "/", ".")

		out = append(out, Candidate{
			Label:  attr,
			Insert: logicalID + "." + attr,
			Kind:   CandidateReference,
			Detail: typeNode.Value,
		})
	}

	return out
}

// findInMapKeys completes FindInMap's first slot from the Mappings
// section, and the second slot from the chosen map's top-level keys.
func (p IntrinsicArgumentProvider) findInMapKeys(ctx *Context, ic *IntrinsicContext) []Candidate {
	if ctx.Tree == nil {
		return nil
	}

	switch ic.ArgIndex {
	case 0:
		maps := document.MappingKeys(ctx.Tree.NodeAtPath([]document.Segment{
			document.Key(cfnls.SectionMappings),
		}))

		out := make([]Candidate, 0, len(maps))
		for _, name := range maps {
			out = append(out, Candidate{Label: name, Kind: CandidateReference, Detail: "mapping"})
		}

		return out
	case 1:
		mapName := resolveArgValue(ic.Args, 0)
		if mapName == "" {
			return nil
		}

		keys := document.MappingKeys(ctx.Tree.NodeAtPath([]document.Segment{
			document.Key(cfnls.SectionMappings),
			document.Key(mapName),
		}))

		out := make([]Candidate, 0, len(keys))
		for _, k := range keys {
			out = append(out, Candidate{Label: k, Kind: CandidateReference})
		}

		return out
	default:
		return nil
	}
}

// resolveArgValue extracts the scalar text of argument slot i, when it
// has already been parsed as one.
func resolveArgValue(args []*yaml.Node, i int) string {
	if len(args) == 1 && args[0].Kind == yaml.SequenceNode {
		args = args[0].Content
	}

	if i < 0 || i >= len(args) || args[i].Kind != yaml.ScalarNode {
		return ""
	}

	return args[i].Value
}

// Match implements Matcher.
func (IntrinsicArgumentProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 8, MinMatchLen: 1}
}
