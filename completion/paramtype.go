package completion

import cfnls "github.com/cfnlang/cfn-ls"

// ParameterTypeProvider completes the Type field of a Parameters
// entity with the known parameter types.
type ParameterTypeProvider struct{}

// Provide implements Provider.
func (ParameterTypeProvider) Provide(ctx *Context) []Candidate {
	types := cfnls.ParameterTypes()

	out := make([]Candidate, 0, len(types))
	for _, t := range types {
		out = append(out, Candidate{Label: t, Kind: CandidateEnumValue})
	}

	return out
}

// Match implements Matcher.
func (ParameterTypeProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: -1, MinMatchLen: 2}
}
