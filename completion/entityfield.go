package completion

import (
	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
)

// EntityFieldProvider offers the declared-but-unset field names of the
// entity enclosing the cursor: Type/Properties/attributes for a
// resource, Value/Description/Export for an output, and so on.
type EntityFieldProvider struct{}

// objectShaped marks entity fields whose value is a nested mapping.
var objectShaped = map[string]bool{
	"Properties":     true,
	"Metadata":       true,
	"CreationPolicy": true,
	"UpdatePolicy":   true,
	"Export":         true,
}

// Provide implements Provider.
func (EntityFieldProvider) Provide(ctx *Context) []Candidate {
	var fields []string

	switch ctx.EntityKind {
	case cfnls.EntityResource, cfnls.EntityForEachResource:
		fields = append([]string{"Type", "Properties"}, cfnls.ResourceAttributes...)
	case cfnls.EntityOutput:
		fields = cfnls.OutputFields
	case cfnls.EntityParameter:
		fields = cfnls.ParameterFields
	default:
		return nil
	}

	existing := map[string]bool{}
	if ctx.Tree != nil {
		for _, k := range document.MappingKeys(ctx.Tree.NodeAtPath(ctx.Path)) {
			existing[k] = true
		}
	}

	out := make([]Candidate, 0, len(fields))

	for _, f := range fields {
		if existing[f] && f != ctx.RawText {
			continue
		}

		c := Candidate{Label: f, Kind: CandidateProperty}

		if objectShaped[f] {
			c.Shape = ShapeObject
		}

		// Fixed priority: Type first, Properties second, the rest in
		// list order under fuzzy rank.
		switch f {
		case "Type":
			c.SortWeight = -2
		case "Properties":
			c.SortWeight = -1
		}

		out = append(out, c)
	}

	return out
}

// Match implements Matcher. Field identifiers are short; per-entity
// tuning widens tolerance for the small Output/Parameter populations
// and keeps Resource tight so the field list does not over-match.
func (EntityFieldProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 8, MinMatchLen: 1}
}

// MatchFor returns the per-entity tuning used instead of Match when the
// entity kind is known.
func (EntityFieldProvider) MatchFor(kind cfnls.EntityKind) MatchConfig {
	switch kind {
	case cfnls.EntityResource, cfnls.EntityForEachResource:
		return MatchConfig{MaxDistance: 4, MinMatchLen: 1}
	default:
		return MatchConfig{MaxDistance: 8, MinMatchLen: 1}
	}
}
