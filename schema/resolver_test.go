package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

const bucketSchema = `{
  "typeName": "AWS::S3::Bucket",
  "description": "Amazon S3 bucket",
  "properties": {
    "BucketName": {"type": "string"},
    "AccessControl": {"type": "string", "enum": ["Private", "PublicRead", "PublicReadWrite"]},
    "ObjectLockEnabled": {"type": "boolean"},
    "VersioningConfiguration": {"$ref": "#/definitions/VersioningConfiguration"},
    "Tags": {"type": "array", "items": {"$ref": "#/definitions/Tag"}},
    "Dangling": {"$ref": "#/definitions/Missing"},
    "Arn": {"type": "string"}
  },
  "definitions": {
    "Tag": {
      "type": "object",
      "properties": {"Key": {"type": "string"}, "Value": {"type": "string"}},
      "required": ["Key", "Value"]
    },
    "VersioningConfiguration": {
      "type": "object",
      "properties": {"Status": {"type": "string", "enum": ["Enabled", "Suspended"]}},
      "required": ["Status"]
    }
  },
  "required": ["BucketName"],
  "readOnlyProperties": ["/properties/Arn"],
  "primaryIdentifier": ["/properties/BucketName"]
}`

func parseBucket(t *testing.T) *schema.ResourceSchema {
	t.Helper()

	rs, err := schema.ParseResourceSchema([]byte(bucketSchema))
	require.NoError(t, err)

	return rs
}

func path(segs ...string) []document.Segment {
	out := make([]document.Segment, len(segs))
	for i, s := range segs {
		out[i] = document.Key(s)
	}

	return out
}

func TestResolvePathRoot(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	frags := schema.ResolvePath(rs, nil, schema.ResolveOptions{})
	require.Len(t, frags, 1)

	names, _, required := schema.Merged(frags)
	assert.Contains(t, names, "BucketName")
	assert.Contains(t, names, "Tags")
	assert.True(t, required["BucketName"])
}

func TestResolvePathFollowsRef(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	frags := schema.ResolvePath(rs, path("VersioningConfiguration"), schema.ResolveOptions{})
	require.Len(t, frags, 1)

	names, props, required := schema.Merged(frags)
	if diff := cmp.Diff([]string{"Status"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, required["Status"])

	values, exact := schema.EnumValues(props["Status"])
	assert.Equal(t, []string{"Enabled", "Suspended"}, values)
	assert.False(t, exact)
}

func TestResolvePathUnresolvedRefDropped(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	frags := schema.ResolvePath(rs, path("Dangling"), schema.ResolveOptions{})
	assert.Empty(t, frags)
}

func TestResolvePathArrayUnwrapsToItems(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	// Terminal array position resolves to the element schema.
	frags := schema.ResolvePath(rs, path("Tags"), schema.ResolveOptions{})
	require.Len(t, frags, 1)

	names, _, _ := schema.Merged(frags)
	assert.Equal(t, []string{"Key", "Value"}, names)

	// An explicit index hop lands in the same place.
	indexed := schema.ResolvePath(rs, []document.Segment{
		document.Key("Tags"),
		document.Index(0),
	}, schema.ResolveOptions{})
	require.Len(t, indexed, 1)

	inames, _, _ := schema.Merged(indexed)
	assert.Equal(t, names, inames)
}

func TestResolvePathNestedThroughArray(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	frags := schema.ResolvePath(rs, []document.Segment{
		document.Key("Tags"),
		document.Index(1),
		document.Key("Key"),
	}, schema.ResolveOptions{})
	require.Len(t, frags, 1)
	assert.True(t, frags[0].Type.Has("string"))
}

func TestBooleanSynthesizesEnum(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	frags := schema.ResolvePath(rs, path("ObjectLockEnabled"), schema.ResolveOptions{})
	require.Len(t, frags, 1)

	values, exact := schema.EnumValues(frags[0])
	assert.Equal(t, []string{"true", "false"}, values)
	assert.True(t, exact, "boolean enum must bypass fuzzy ranking")
}

func TestResolvePathExcludesReadOnly(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	kept := schema.ResolvePath(rs, path("Arn"), schema.ResolveOptions{})
	assert.Len(t, kept, 1)

	dropped := schema.ResolvePath(rs, path("Arn"), schema.ResolveOptions{ExcludeReadOnly: true})
	assert.Empty(t, dropped)
}

func TestResolvePathUnknownProperty(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)

	assert.Empty(t, schema.ResolvePath(rs, path("NotAProperty"), schema.ResolveOptions{}))
	assert.Empty(t, schema.ResolvePath(nil, path("BucketName"), schema.ResolveOptions{}))
}

func TestResolvePathIdempotent(t *testing.T) {
	t.Parallel()

	rs := parseBucket(t)
	p := path("Tags")

	first := schema.ResolvePath(rs, p, schema.ResolveOptions{})
	second := schema.ResolvePath(rs, p, schema.ResolveOptions{})

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestTypeSetAcceptsList(t *testing.T) {
	t.Parallel()

	rs, err := schema.ParseResourceSchema([]byte(`{
		"typeName": "AWS::Test::Type",
		"properties": {"Flexible": {"type": ["string", "object"]}}
	}`))
	require.NoError(t, err)

	p := rs.Properties["Flexible"]
	assert.True(t, p.Type.Has("string"))
	assert.True(t, p.Type.Has("object"))
}
