package schema

import "context"

// StateLookup fetches the live properties of an existing resource
// instance. Implementations perform a network round trip; callers bound
// them with a context deadline and treat any failure as "no state
// available".
type StateLookup interface {
	// Fetch returns the current property document of the resource
	// identified by its primary identifier value, or nil when the
	// resource is unknown.
	Fetch(ctx context.Context, resourceType, primaryIdentifier string) (map[string]any, error)
}
