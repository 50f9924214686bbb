package completion

import (
	"strings"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
)

// IntrinsicFunctionProvider completes intrinsic function names. The
// trigger shape decides how the same underlying name is rendered:
//
//	!GetA   -> label "!GetAtt",    insert "!GetAtt"     (YAML short form)
//	Fn:     -> label "GetAtt",     insert "Fn::GetAtt"  (colon trigger)
//	Fn::Get -> label "Fn::GetAtt", insert "Fn::GetAtt"  (namespace trigger)
//
// Without a trigger prefix the document type picks the notation: short
// form for YAML, long form for JSON.
type IntrinsicFunctionProvider struct{}

// Provide implements Provider.
func (IntrinsicFunctionProvider) Provide(ctx *Context) []Candidate {
	raw := ctx.RawText

	var out []Candidate

	for _, in := range cfnls.Intrinsics {
		if in.Name == cfnls.FnCondition {
			continue
		}

		short := strings.TrimPrefix(in.Name, "Fn::")

		c := Candidate{Kind: CandidateFunction, Doc: in.Doc, Detail: in.Name}

		switch {
		case strings.HasPrefix(raw, "!"):
			c.Label = cfnls.ShortForm(in.Name)
			c.Insert = cfnls.ShortForm(in.Name)
		case raw == "Fn:" || strings.HasSuffix(raw, ":Fn:"):
			// Colon trigger: short labels, long-form insertion
			// replacing the "Fn:" token.
			if in.Name == cfnls.FnRef {
				c.Label = "Ref"
				c.Insert = "Ref"
			} else {
				c.Label = short
				c.Insert = in.Name
			}
		case strings.HasPrefix(raw, "Fn:"):
			if in.Name == cfnls.FnRef {
				continue
			}

			c.Label = in.Name
			c.Insert = in.Name
		default:
			if ctx.DocType == document.YAML {
				c.Label = cfnls.ShortForm(in.Name)
				c.Insert = cfnls.ShortForm(in.Name)
			} else {
				c.Label = in.Name
				c.Insert = in.Name
			}
		}

		out = append(out, c)
	}

	return out
}

// Match implements Matcher. Function names are matched with the trigger
// prefix still attached to the raw text, so the cutoff stays loose.
func (IntrinsicFunctionProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: -1, MinMatchLen: 1}
}
