package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

// ResourceStateProvider suggests property values observed on the live
// resource the template entity maps to. It reads the primary
// identifier the user already authored, fetches the remote state, and
// offers the value at the property path under the cursor.
type ResourceStateProvider struct {
	Store  schema.Store
	Lookup schema.StateLookup
	Log    *zap.Logger

	// Timeout bounds the remote fetch; zero means DefaultStateTimeout.
	Timeout time.Duration
}

// DefaultStateTimeout bounds the remote state fetch when the provider
// is not configured with one.
const DefaultStateTimeout = 2 * time.Second

// ProvideAsync implements AsyncProvider.
func (p ResourceStateProvider) ProvideAsync(stdctx context.Context, ctx *Context) ([]Candidate, error) {
	if p.Lookup == nil || p.Store == nil || ctx.Tree == nil {
		return nil, nil
	}
	if ctx.ResourceType == "" || !ctx.PositionKind.IsValueish() {
		return nil, nil
	}

	rs, ok := p.Store.ResourceSchema(ctx.ResourceType)
	if !ok || len(rs.PrimaryIdentifier) == 0 {
		return nil, nil
	}

	id := p.authoredIdentifier(ctx, rs)
	if id == "" {
		return nil, nil
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultStateTimeout
	}

	stdctx, cancel := context.WithTimeout(stdctx, timeout)
	defer cancel()

	state, err := p.Lookup.Fetch(stdctx, ctx.ResourceType, id)
	if err != nil {
		return nil, fmt.Errorf("fetching state for %s %q: %w", ctx.ResourceType, id, err)
	}

	value, ok := navigateState(state, ctx.PropertyPath())
	if !ok {
		return nil, nil
	}

	if p.Log != nil {
		p.Log.Debug("resource state hit",
			zap.String("type", ctx.ResourceType),
			zap.String("identifier", id))
	}

	return renderStateValue(value, ctx.DocType), nil
}

// authoredIdentifier reads the primary-identifier property the user
// already typed into the entity, so the fetch targets the resource the
// template actually describes.
func (p ResourceStateProvider) authoredIdentifier(ctx *Context, rs *schema.ResourceSchema) string {
	// Multi-part identifiers need every part authored; completing from
	// a partially identified resource would guess.
	if len(ctx.Path) < ctx.EntityStart {
		return ""
	}

	prefix := ctx.Path[:ctx.EntityStart]
	parts := make([]string, 0, len(rs.PrimaryIdentifier))

	for _, ptr := range rs.PrimaryIdentifier {
		prop := strings.TrimPrefix(ptr, "/properties/")

		path := make([]document.Segment, 0, len(prefix)+4)
		path = append(path, prefix...)
		path = append(path, document.Key("Properties"))
		for _, seg := range strings.Split(prop, "/") {
			path = append(path, document.Key(seg))
		}

		n := ctx.Tree.NodeAtPath(path)
		if n == nil || n.Value == "" {
			return ""
		}

		parts = append(parts, n.Value)
	}

	return strings.Join(parts, "|")
}

// navigateState walks the fetched state map along the cursor's
// property path.
func navigateState(state map[string]any, path []document.Segment) (any, bool) {
	var cur any = state

	for _, seg := range path {
		if seg.IsIndex {
			list, ok := cur.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(list) {
				return nil, false
			}

			cur = list[seg.Index]
			continue
		}

		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = m[seg.Key]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// renderStateValue turns the remote value into candidates. Scalars
// become one exact candidate; maps and lists are embedded as a block
// in the document's own syntax. State candidates sort ahead of
// schema-derived ones.
func renderStateValue(value any, docType document.DocType) []Candidate {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []Candidate{stateCandidate(v, v)}
	case bool:
		return []Candidate{stateCandidate(fmt.Sprintf("%t", v), fmt.Sprintf("%t", v))}
	case float64:
		s := formatNumber(v)
		return []Candidate{stateCandidate(s, s)}
	case map[string]any, []any:
		body, err := marshalStateBody(v, docType)
		if err != nil {
			return nil
		}

		return []Candidate{stateCandidate(stateLabel(v), body)}
	default:
		s := fmt.Sprintf("%v", v)
		return []Candidate{stateCandidate(s, s)}
	}
}

func stateCandidate(label, insert string) Candidate {
	return Candidate{
		Label:      label,
		Insert:     insert,
		Kind:       CandidateEnumValue,
		Detail:     "live resource state",
		Exact:      true,
		SortWeight: -10,
	}
}

func stateLabel(v any) string {
	switch v.(type) {
	case map[string]any:
		return "{...} (live state)"
	default:
		return "[...] (live state)"
	}
}

func marshalStateBody(v any, docType document.DocType) (string, error) {
	if docType == document.JSON {
		b, err := json.MarshalIndent(v, "", "\t")
		if err != nil {
			return "", err
		}

		return string(b), nil
	}

	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(b), "\n"), nil
}

// formatNumber formats a JSON number without a trailing ".0" for
// integral values.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}

	return fmt.Sprintf("%g", f)
}
