// Package schema models externally supplied resource-type schemas and
// resolves property paths against them. Schemas arrive as JSON-Schema-like
// documents from the schema store; once constructed they are immutable
// and shared across completion requests.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypeSet is a JSON-Schema "type" field, which may be a single string
// or a list of strings on the wire.
type TypeSet []string

// UnmarshalJSON accepts both encodings.
func (ts *TypeSet) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*ts = TypeSet{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("schema: invalid type field: %w", err)
	}

	*ts = TypeSet(many)

	return nil
}

// Has reports whether the set contains t.
func (ts TypeSet) Has(t string) bool {
	for _, s := range ts {
		if s == t {
			return true
		}
	}

	return false
}

// Property is one node of a resource schema's property tree.
type Property struct {
	Type        TypeSet              `json:"type,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Ref         string               `json:"$ref,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Description string               `json:"description,omitempty"`
}

// IsArray reports whether the property is array-typed.
func (p *Property) IsArray() bool { return p != nil && p.Type.Has("array") }

// IsObject reports whether the property is object-typed or has nested
// properties.
func (p *Property) IsObject() bool {
	return p != nil && (p.Type.Has("object") || len(p.Properties) > 0)
}

// ResourceSchema is the externally supplied definition of one resource
// type. Immutable after construction.
type ResourceSchema struct {
	TypeName             string               `json:"typeName"`
	Description          string               `json:"description,omitempty"`
	Properties           map[string]*Property `json:"properties"`
	Definitions          map[string]*Property `json:"definitions,omitempty"`
	Required             []string             `json:"required,omitempty"`
	ReadOnlyProperties   []string             `json:"readOnlyProperties,omitempty"`
	CreateOnlyProperties []string             `json:"createOnlyProperties,omitempty"`
	PrimaryIdentifier    []string             `json:"primaryIdentifier,omitempty"`
}

// ParseResourceSchema decodes a wire-JSON resource schema document.
func ParseResourceSchema(data []byte) (*ResourceSchema, error) {
	var rs ResourceSchema
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("schema: parse resource schema: %w", err)
	}

	return &rs, nil
}

// IsReadOnly reports whether the slash-joined property pointer (e.g.
// "/properties/Arn") is listed read-only.
func (rs *ResourceSchema) IsReadOnly(pointer string) bool {
	for _, ro := range rs.ReadOnlyProperties {
		if ro == pointer {
			return true
		}
	}

	return false
}

// definition resolves a "#/definitions/Name" reference. Unresolvable
// refs return nil; a missing definition is an expected condition, not
// an error.
func (rs *ResourceSchema) definition(ref string) *Property {
	name := strings.TrimPrefix(ref, "#/definitions/")
	if name == ref {
		// Not a definitions pointer; unsupported ref shape.
		return nil
	}

	return rs.Definitions[name]
}
