package completion

import "context"

// CandidateKind tags what a candidate is, which maps to the editor-side
// completion item kind.
type CandidateKind int

// Candidate kinds.
const (
	CandidateProperty CandidateKind = iota
	CandidateEnumValue
	CandidateResourceType
	CandidateSection
	CandidateFunction
	CandidateReference
	CandidateSnippet
)

// ValueShape hints what kind of value a property expects, driving
// snippet generation for key completions.
type ValueShape int

// Value shapes.
const (
	ShapeSimple ValueShape = iota
	ShapeObject
	ShapeArray
)

// Candidate is one raw completion suggestion, before ranking and
// editor formatting.
type Candidate struct {
	Label string

	// Insert overrides Label as the inserted text when non-empty.
	Insert string

	// Snippet is a tab-stop snippet body; mutually exclusive with
	// Insert. Bodies are written for YAML and re-indented or re-quoted
	// for the target document during formatting.
	Snippet string

	Kind   CandidateKind
	Detail string
	Doc    string
	Shape  ValueShape

	// Required marks schema-required properties.
	Required bool

	// Exact pins the candidate past fuzzy filtering: binary choices
	// (booleans) are always shown regardless of partial input.
	Exact bool

	// SortWeight orders candidates ahead of fuzzy rank; lower sorts
	// first. Zero is the neutral weight.
	SortWeight int
}

// Provider generates candidates for one classified context shape.
type Provider interface {
	Provide(ctx *Context) []Candidate
}

// AsyncProvider is the variant for providers that need a network round
// trip. A failed or timed-out call yields (nil, err) and the request
// proceeds with synchronous results only.
type AsyncProvider interface {
	ProvideAsync(stdctx context.Context, ctx *Context) ([]Candidate, error)
}

// MatchConfig tunes fuzzy matching per provider: identifier populations
// differ wildly in size and shape (hundreds of resource types versus a
// handful of output fields).
type MatchConfig struct {
	// MaxDistance is the Levenshtein tolerance; negative disables the
	// distance cutoff.
	MaxDistance int

	// MinMatchLen is the minimum raw-text length before fuzzy matching
	// narrows results; shorter input keeps the full set.
	MinMatchLen int

	// Exact disables fuzzy ranking entirely (binary choices such as
	// booleans are always shown in full).
	Exact bool
}

// Matcher lets a provider override the default fuzzy tuning.
type Matcher interface {
	Match() MatchConfig
}

// DefaultMatch is the tuning used when a provider does not implement
// Matcher.
var DefaultMatch = MatchConfig{MaxDistance: -1, MinMatchLen: 1}
