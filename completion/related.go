package completion

// RelatedResourcesProvider completes DependsOn values with the other
// logical IDs declared in the Resources section. The enclosing
// resource never depends on itself.
type RelatedResourcesProvider struct{}

// Provide implements Provider.
func (RelatedResourcesProvider) Provide(ctx *Context) []Candidate {
	var out []Candidate

	for _, name := range ctx.DeclaredResources() {
		if name == ctx.LogicalID {
			continue
		}

		out = append(out, Candidate{
			Label:  name,
			Kind:   CandidateReference,
			Detail: "resource",
		})
	}

	return out
}

// Match implements Matcher.
func (RelatedResourcesProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 8, MinMatchLen: 1}
}
