package completion

import (
	"strings"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/schema"
)

// ResourceTypeProvider offers every resource type the schema store
// knows. The Serverless namespace stays hidden until the template
// declares the corresponding macro transform.
type ResourceTypeProvider struct {
	Store schema.Store
}

// Provide implements Provider.
func (p ResourceTypeProvider) Provide(ctx *Context) []Candidate {
	if p.Store == nil {
		return nil
	}

	serverless := ctx.HasTransform(cfnls.ServerlessTransform)

	types := p.Store.Types()
	out := make([]Candidate, 0, len(types))

	for _, name := range types {
		if strings.HasPrefix(name, cfnls.ServerlessPrefix) && !serverless {
			continue
		}

		out = append(out, Candidate{
			Label: name,
			Kind:  CandidateResourceType,
		})
	}

	return out
}

// Match implements Matcher. The population is hundreds of long names;
// demand a little typed text and keep the distance cutoff off so
// subsequence matching does the narrowing.
func (ResourceTypeProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: -1, MinMatchLen: 2}
}
