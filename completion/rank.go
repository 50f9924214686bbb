package completion

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	cfnls "github.com/cfnlang/cfn-ls"
)

// MaxCandidates caps one response; editors re-query as the user types,
// so a truncated list is marked incomplete rather than grown.
const MaxCandidates = 250

// FilterText derives the fuzzy-filter input from the raw token. The
// colon trigger shapes ("Fn", "Fn:") filter nothing themselves: the
// token is a namespace opener, not a partial name.
func FilterText(ctx *Context) string {
	raw := ctx.RawText
	if raw == "Fn" || raw == "Fn:" {
		return ""
	}

	// GetAtt's dotted form: after "Resource." only the attribute part
	// filters the attribute candidates.
	if ctx.Intrinsic != nil && ctx.Intrinsic.Fn == cfnls.FnGetAtt {
		if dot := strings.LastIndexByte(raw, '.'); dot >= 0 {
			return raw[dot+1:]
		}
	}

	return raw
}

// Rank filters and orders candidates against the typed text. Exact
// candidates survive filtering unconditionally. The returned bool
// reports truncation.
func Rank(cands []Candidate, raw string, cfg MatchConfig) ([]Candidate, bool) {
	if cfg.Exact || raw == "" || len(raw) < cfg.MinMatchLen {
		return truncate(orderNatural(cands))
	}

	labels := make([]string, len(cands))
	for i, c := range cands {
		labels[i] = c.Label
	}

	distance := make(map[int]int, len(cands))

	for _, r := range fuzzy.RankFindFold(raw, labels) {
		if cfg.MaxDistance >= 0 && r.Distance > cfg.MaxDistance {
			continue
		}

		distance[r.OriginalIndex] = r.Distance
	}

	type scored struct {
		c Candidate
		d int
	}

	kept := make([]scored, 0, len(distance))

	for i, c := range cands {
		d, ok := distance[i]

		switch {
		case ok:
		case c.Exact:
			// Unmatched but pinned: rank after every real match.
			d = 1 << 20
		default:
			continue
		}

		kept = append(kept, scored{c: c, d: d})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].c.SortWeight != kept[j].c.SortWeight {
			return kept[i].c.SortWeight < kept[j].c.SortWeight
		}
		if kept[i].d != kept[j].d {
			return kept[i].d < kept[j].d
		}

		return strings.ToLower(kept[i].c.Label) < strings.ToLower(kept[j].c.Label)
	})

	out := make([]Candidate, len(kept))
	for i, s := range kept {
		out[i] = s.c
	}

	return truncate(out)
}

func orderNatural(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortWeight < out[j].SortWeight
	})

	return out
}

func truncate(cands []Candidate) ([]Candidate, bool) {
	if len(cands) > MaxCandidates {
		return cands[:MaxCandidates], true
	}

	return cands, false
}
