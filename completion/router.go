package completion

import (
	"context"

	"go.uber.org/zap"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/schema"
)

// Router dispatches a classified context to the provider families that
// apply to it and merges their candidates.
type Router struct {
	Store schema.Store
	State *ResourceStateProvider
	Log   *zap.Logger
}

// NewRouter wires a router over the given schema store. state may be
// nil when no live-state lookup is configured.
func NewRouter(store schema.Store, state *ResourceStateProvider, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}

	return &Router{Store: store, State: state, Log: log}
}

// Result carries the merged candidates together with the fuzzy tuning
// of the provider family that produced them.
type Result struct {
	Candidates []Candidate
	Match      MatchConfig
}

func result(p Provider, ctx *Context) Result {
	r := Result{Candidates: p.Provide(ctx), Match: DefaultMatch}
	if m, ok := p.(Matcher); ok {
		r.Match = m.Match()
	}

	return r
}

// Route selects providers for the context. The intrinsic-argument
// family short-circuits everything else: inside an invocation only
// argument-level suggestions make sense, except while the function
// name itself is still being typed.
func (r *Router) Route(stdctx context.Context, ctx *Context) Result {
	if ctx == nil {
		return Result{}
	}

	if ctx.Intrinsic != nil && !ctx.AtFunctionName() {
		res := result(IntrinsicArgumentProvider{Store: r.Store}, ctx)
		if len(res.Candidates) > 0 {
			return res
		}
	}

	if ctx.Section == "" && len(ctx.Path) == 0 && ctx.PositionKind.IsKeyish() {
		return result(TopLevelSectionProvider{}, ctx)
	}

	if ctx.AtFunctionName() && ctx.PositionKind.IsValueish() {
		return result(IntrinsicFunctionProvider{}, ctx)
	}

	if ctx.InConditionUsage() && ctx.PositionKind.IsValueish() {
		return result(ConditionProvider{}, ctx)
	}

	switch ctx.Section {
	case cfnls.SectionResources:
		return r.routeResource(stdctx, ctx)
	case cfnls.SectionParameters:
		return r.routeParameter(ctx)
	case cfnls.SectionOutputs, cfnls.SectionConditions:
		if ctx.AtEntityKeyLevel() {
			return entityFields(ctx)
		}
	}

	return Result{}
}

// routeResource handles everything under the Resources section: the
// entity's own field names, its Type value, resource attributes, and
// the schema-driven Properties subtree.
func (r *Router) routeResource(stdctx context.Context, ctx *Context) Result {
	if ctx.AtEntityKeyLevel() {
		return entityFields(ctx)
	}

	switch ctx.EntitySection {
	case "Type":
		if ctx.PositionKind.IsValueish() {
			return result(ResourceTypeProvider{Store: r.Store}, ctx)
		}
	case "DependsOn":
		if ctx.PositionKind.IsValueish() || isSequencePosition(ctx) {
			return result(RelatedResourcesProvider{}, ctx)
		}
	case "CreationPolicy", "UpdatePolicy", "DeletionPolicy", "UpdateReplacePolicy":
		return result(AttributePolicyProvider{}, ctx)
	case "Properties":
		return r.routeProperties(stdctx, ctx)
	}

	return Result{}
}

// routeProperties merges schema-derived candidates with live resource
// state. The state fetch runs concurrently with schema resolution so
// its network round trip never delays the rest of the request; state
// results lead when available, and a failed or slow fetch degrades to
// schema-only results rather than failing the request.
func (r *Router) routeProperties(stdctx context.Context, ctx *Context) Result {
	type stateFetch struct {
		cands []Candidate
		err   error
	}

	var fetch chan stateFetch

	if r.State != nil && ctx.PositionKind.IsValueish() {
		fetch = make(chan stateFetch, 1)

		go func() {
			cands, err := r.State.ProvideAsync(stdctx, ctx)
			fetch <- stateFetch{cands, err}
		}()
	}

	res := result(ResourcePropertyProvider{Store: r.Store}, ctx)

	if fetch == nil {
		return res
	}

	state := <-fetch
	if state.err != nil {
		r.Log.Debug("resource state lookup failed", zap.Error(state.err))
		return res
	}

	if len(state.cands) > 0 {
		res.Candidates = append(state.cands, res.Candidates...)
	}

	return res
}

func (r *Router) routeParameter(ctx *Context) Result {
	if ctx.AtEntityKeyLevel() {
		return entityFields(ctx)
	}

	if ctx.EntitySection == "Type" && ctx.PositionKind.IsValueish() {
		return result(ParameterTypeProvider{}, ctx)
	}

	return Result{}
}

func entityFields(ctx *Context) Result {
	p := EntityFieldProvider{}

	return Result{Candidates: p.Provide(ctx), Match: p.MatchFor(ctx.EntityKind)}
}

// isSequencePosition reports a cursor inside a sequence item, where the
// list form of DependsOn puts its values.
func isSequencePosition(ctx *Context) bool {
	ep := ctx.EntityPath()

	return len(ep) >= 2 && ep[len(ep)-1].IsIndex
}
