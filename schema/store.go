package schema

import (
	"sort"
	"sync"
)

// Store supplies resource schemas by type name. Implementations must
// hand back immutable snapshots: a schema returned from a lookup is
// never mutated afterwards, even if the store refreshes concurrently.
type Store interface {
	// ResourceSchema returns the schema for a resource type name.
	// The second result is false when the type is unknown; callers
	// treat that as an empty completion source, not an error.
	ResourceSchema(typeName string) (*ResourceSchema, bool)

	// Types lists every known resource type name, sorted.
	Types() []string
}

// Index is an in-memory Store. Refreshes replace whole schema values
// under the write lock, so readers observe either the old or the new
// snapshot, never a partially updated one.
type Index struct {
	mu      sync.RWMutex
	schemas map[string]*ResourceSchema
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{schemas: make(map[string]*ResourceSchema)}
}

// ResourceSchema implements Store.
func (i *Index) ResourceSchema(typeName string) (*ResourceSchema, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	rs, ok := i.schemas[typeName]

	return rs, ok
}

// Types implements Store.
func (i *Index) Types() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	names := make([]string, 0, len(i.schemas))
	for name := range i.schemas {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Put registers or replaces the schema for its type name.
func (i *Index) Put(rs *ResourceSchema) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.schemas[rs.TypeName] = rs
}

// PutJSON parses and registers a wire-JSON schema document.
func (i *Index) PutJSON(data []byte) error {
	rs, err := ParseResourceSchema(data)
	if err != nil {
		return err
	}

	i.Put(rs)

	return nil
}

// Len returns the number of registered schemas.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.schemas)
}
