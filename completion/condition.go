package completion

import cfnls "github.com/cfnlang/cfn-ls"

// ConditionProvider lists declared condition names. While the cursor is
// inside the Conditions section defining condition C, C itself is
// excluded; everywhere else self-reference is allowed.
type ConditionProvider struct{}

// Provide implements Provider.
func (ConditionProvider) Provide(ctx *Context) []Candidate {
	names := ctx.DeclaredConditions()

	var out []Candidate

	for _, name := range names {
		if ctx.Section == cfnls.SectionConditions && name == ctx.LogicalID {
			continue
		}

		out = append(out, Candidate{
			Label: name,
			Kind:  CandidateReference,
		})
	}

	return out
}

// Match implements Matcher.
func (ConditionProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 8, MinMatchLen: 1}
}
