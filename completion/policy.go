package completion

import (
	"github.com/cfnlang/cfn-ls/schema"
)

// AttributePolicyProvider completes the purely declarative resource
// attributes (CreationPolicy, UpdatePolicy, DeletionPolicy,
// UpdateReplacePolicy) from the hand-maintained policy schema, gating
// top-level policy names on the enclosing resource's type.
type AttributePolicyProvider struct{}

// Provide implements Provider.
func (AttributePolicyProvider) Provide(ctx *Context) []Candidate {
	attr := ctx.EntitySection

	if _, ok := schema.AttributePolicyRoot(attr); !ok {
		return nil
	}

	ep := ctx.EntityPath()
	if len(ep) == 0 {
		return nil
	}

	// Path below the attribute key.
	sub := ep[1:]

	node := schema.ResolveAttributePolicy(attr, ctx.ResourceType, sub)
	if node == nil {
		return nil
	}

	if ctx.PositionKind == Value {
		return policyValues(node)
	}

	names := schema.PolicyChildNames(node, ctx.ResourceType, len(sub) == 0)
	out := make([]Candidate, 0, len(names))

	for _, name := range names {
		c := Candidate{Label: name, Kind: CandidateProperty}

		if child := node.Children[name]; child != nil {
			c.Doc = child.Doc
			if len(child.Children) > 0 {
				c.Shape = ShapeObject
			}
		}

		out = append(out, c)
	}

	return out
}

// policyValues renders a leaf's admissible values: a declared enum, or
// the boolean pair.
func policyValues(node *schema.PolicyNode) []Candidate {
	switch {
	case len(node.Enum) > 0:
		out := make([]Candidate, 0, len(node.Enum))
		for _, v := range node.Enum {
			out = append(out, Candidate{Label: v, Kind: CandidateEnumValue})
		}

		return out
	case node.Boolean:
		return []Candidate{
			{Label: "true", Kind: CandidateEnumValue, Exact: true},
			{Label: "false", Kind: CandidateEnumValue, Exact: true},
		}
	default:
		return nil
	}
}

// Match implements Matcher.
func (AttributePolicyProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 6, MinMatchLen: 1}
}
