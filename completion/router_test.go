package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

const bucketSchemaJSON = `{
  "typeName": "AWS::S3::Bucket",
  "description": "An S3 bucket.",
  "properties": {
    "BucketName": {"type": "string", "description": "The bucket name."},
    "VersioningConfiguration": {"$ref": "#/definitions/VersioningConfiguration"},
    "ObjectLockEnabled": {"type": "boolean"},
    "Tags": {"type": "array", "items": {"$ref": "#/definitions/Tag"}},
    "Arn": {"type": "string"}
  },
  "definitions": {
    "VersioningConfiguration": {
      "type": "object",
      "properties": {
        "Status": {"type": "string", "enum": ["Enabled", "Suspended"]}
      },
      "required": ["Status"]
    },
    "Tag": {
      "type": "object",
      "properties": {
        "Key": {"type": "string"},
        "Value": {"type": "string"}
      }
    }
  },
  "required": ["BucketName"],
  "readOnlyProperties": ["/properties/Arn"],
  "primaryIdentifier": ["/properties/BucketName"]
}`

func testStore(t *testing.T) *schema.Index {
	t.Helper()

	idx := schema.NewIndex()
	if err := idx.PutJSON([]byte(bucketSchemaJSON)); err != nil {
		t.Fatalf("PutJSON() error: %v", err)
	}

	idx.Put(&schema.ResourceSchema{TypeName: "AWS::Lambda::Alias"})
	idx.Put(&schema.ResourceSchema{TypeName: "AWS::AutoScaling::AutoScalingGroup"})
	idx.Put(&schema.ResourceSchema{TypeName: "AWS::Serverless::Function"})

	return idx
}

func routeAt(t *testing.T, text string, line, char uint32) Result {
	t.Helper()

	tree := mustParse(t, text, document.YAML)

	ctx, ok := Classify(tree, document.Position{Line: line, Character: char})
	if !ok {
		t.Fatal("Classify returned no context")
	}

	r := NewRouter(testStore(t), nil, nil)

	return r.Route(context.Background(), ctx)
}

func labels(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Label
	}

	return out
}

func hasLabel(cands []Candidate, label string) bool {
	for _, c := range cands {
		if c.Label == label {
			return true
		}
	}

	return false
}

func TestRouteRequiredPropertiesFirst(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:

`

	// Empty Properties entry, nothing typed: only the unmet required
	// property is offered.
	res := routeAt(t, text, 4, 6)

	if !hasLabel(res.Candidates, "BucketName") {
		t.Fatalf("candidates = %v, want BucketName", labels(res.Candidates))
	}
	if hasLabel(res.Candidates, "Tags") {
		t.Errorf("optional Tags offered while required BucketName unset: %v", labels(res.Candidates))
	}
	if hasLabel(res.Candidates, "Arn") {
		t.Errorf("read-only Arn offered: %v", labels(res.Candidates))
	}
}

func TestRouteOptionalPropertiesAfterRequiredSet(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: my-bucket

`

	res := routeAt(t, text, 5, 6)

	if !hasLabel(res.Candidates, "Tags") {
		t.Errorf("candidates = %v, want Tags among optionals", labels(res.Candidates))
	}
	if hasLabel(res.Candidates, "BucketName") {
		t.Errorf("already-authored BucketName re-offered: %v", labels(res.Candidates))
	}
}

func TestRouteEnumValue(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      VersioningConfiguration:
        Status:
`

	res := routeAt(t, text, 5, 16)

	want := []string{"Enabled", "Suspended"}
	for _, w := range want {
		if !hasLabel(res.Candidates, w) {
			t.Errorf("candidates = %v, want %s", labels(res.Candidates), w)
		}
	}
}

func TestRouteBooleanValuesAreExact(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      ObjectLockEnabled: t
`

	res := routeAt(t, text, 4, 26)

	for _, c := range res.Candidates {
		if !c.Exact {
			t.Errorf("boolean candidate %q not exact", c.Label)
		}
	}

	// Fuzzy ranking must keep both members of the pair even though the
	// typed text only matches one.
	ranked, _ := Rank(res.Candidates, "t", res.Match)
	if !hasLabel(ranked, "true") || !hasLabel(ranked, "false") {
		t.Errorf("ranked = %v, want both true and false", labels(ranked))
	}
}

func TestRouteResourceTypeValue(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type:
`

	res := routeAt(t, text, 2, 10)

	if !hasLabel(res.Candidates, "AWS::S3::Bucket") {
		t.Fatalf("candidates = %v, want AWS::S3::Bucket", labels(res.Candidates))
	}

	// Serverless types stay hidden without the macro transform.
	if hasLabel(res.Candidates, "AWS::Serverless::Function") {
		t.Errorf("serverless type offered without transform: %v", labels(res.Candidates))
	}
}

func TestRouteServerlessTypesWithTransform(t *testing.T) {
	t.Parallel()

	text := `Transform: AWS::Serverless-2016-10-31
Resources:
  MyFn:
    Type:
`

	res := routeAt(t, text, 3, 10)

	if !hasLabel(res.Candidates, "AWS::Serverless::Function") {
		t.Errorf("candidates = %v, want serverless types with transform declared", labels(res.Candidates))
	}
}

func TestRouteEntityFields(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket

`

	res := routeAt(t, text, 3, 4)

	if !hasLabel(res.Candidates, "Properties") || !hasLabel(res.Candidates, "DependsOn") {
		t.Fatalf("candidates = %v, want resource fields", labels(res.Candidates))
	}
	if hasLabel(res.Candidates, "Type") {
		t.Errorf("already-authored Type re-offered: %v", labels(res.Candidates))
	}
}

func TestRouteUpdatePolicyGating(t *testing.T) {
	t.Parallel()

	asg := `Resources:
  MyGroup:
    Type: AWS::AutoScaling::AutoScalingGroup
    UpdatePolicy:
      AutoScalingRollingUpdate:

`

	res := routeAt(t, asg, 5, 8)

	if !hasLabel(res.Candidates, "MaxBatchSize") {
		t.Fatalf("candidates = %v, want MaxBatchSize for autoscaling group", labels(res.Candidates))
	}

	alias := `Resources:
  MyAlias:
    Type: AWS::Lambda::Alias
    UpdatePolicy:

`

	res = routeAt(t, alias, 4, 6)

	if hasLabel(res.Candidates, "AutoScalingRollingUpdate") {
		t.Errorf("autoscaling policy offered for Lambda alias: %v", labels(res.Candidates))
	}
	if !hasLabel(res.Candidates, "CodeDeployLambdaAliasUpdate") {
		t.Errorf("candidates = %v, want CodeDeployLambdaAliasUpdate", labels(res.Candidates))
	}
}

func TestRouteDeletionPolicyValues(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    DeletionPolicy:
`

	res := routeAt(t, text, 3, 20)

	for _, w := range []string{"Delete", "Retain", "RetainExceptOnCreate", "Snapshot"} {
		if !hasLabel(res.Candidates, w) {
			t.Errorf("candidates = %v, want %s", labels(res.Candidates), w)
		}
	}
}

func TestRouteConditionSelfExclusion(t *testing.T) {
	t.Parallel()

	text := `Conditions:
  IsProd: !Equals [a, b]
  IsDev: !Not [!Condition Is]
`

	// Inside the !Condition argument of IsDev.
	res := routeAt(t, text, 2, 27)

	if hasLabel(res.Candidates, "IsDev") {
		t.Errorf("condition completes itself: %v", labels(res.Candidates))
	}
	if !hasLabel(res.Candidates, "IsProd") {
		t.Errorf("candidates = %v, want IsProd", labels(res.Candidates))
	}
}

func TestRouteFnIfFirstSlot(t *testing.T) {
	t.Parallel()

	text := `Conditions:
  IsProd: !Equals [a, b]
Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !If [I, a, b]
`

	// Cursor on the condition slot of !If.
	res := routeAt(t, text, 6, 24)

	if !hasLabel(res.Candidates, "IsProd") {
		t.Errorf("candidates = %v, want condition names in Fn::If slot 0", labels(res.Candidates))
	}
}

func TestRouteDependsOn(t *testing.T) {
	t.Parallel()

	text := `Resources:
  First:
    Type: AWS::S3::Bucket
  Second:
    Type: AWS::S3::Bucket
    DependsOn:
`

	res := routeAt(t, text, 5, 15)

	if !hasLabel(res.Candidates, "First") {
		t.Fatalf("candidates = %v, want First", labels(res.Candidates))
	}
	if hasLabel(res.Candidates, "Second") {
		t.Errorf("resource depends on itself: %v", labels(res.Candidates))
	}
}

func TestRouteParameterTypeValue(t *testing.T) {
	t.Parallel()

	text := `Parameters:
  EnvName:
    Type:
`

	res := routeAt(t, text, 2, 10)

	if !hasLabel(res.Candidates, "String") || !hasLabel(res.Candidates, "AWS::EC2::KeyPair::KeyName") {
		t.Errorf("candidates = %v, want parameter types", labels(res.Candidates))
	}
}

func TestRouteTopLevelSections(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket

`

	res := routeAt(t, text, 3, 0)

	if !hasLabel(res.Candidates, "Parameters") || !hasLabel(res.Candidates, "Outputs") {
		t.Fatalf("candidates = %v, want undeclared sections", labels(res.Candidates))
	}
	if hasLabel(res.Candidates, "Resources") {
		t.Errorf("declared Resources re-offered: %v", labels(res.Candidates))
	}
}

func TestRouteRefArguments(t *testing.T) {
	t.Parallel()

	text := `Parameters:
  EnvName:
    Type: String
Resources:
  First:
    Type: AWS::S3::Bucket
  Second:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Ref En
`

	res := routeAt(t, text, 9, 24)

	for _, w := range []string{"EnvName", "First", "AWS::Region"} {
		if !hasLabel(res.Candidates, w) {
			t.Errorf("candidates = %v, want %s", labels(res.Candidates), w)
		}
	}

	if hasLabel(res.Candidates, "Second") {
		t.Errorf("resource refs itself: %v", labels(res.Candidates))
	}
}

func TestRouteGetAttAttributes(t *testing.T) {
	t.Parallel()

	text := `Resources:
  First:
    Type: AWS::S3::Bucket
Outputs:
  Out:
    Value: !GetAtt First.
`

	res := routeAt(t, text, 5, 25)

	if !hasLabel(res.Candidates, "Arn") {
		t.Errorf("candidates = %v, want read-only Arn attribute", labels(res.Candidates))
	}
}

func TestRouteColonTriggerLabels(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: Fn:
`

	res := routeAt(t, text, 4, 21)

	if !hasLabel(res.Candidates, "GetAtt") {
		t.Fatalf("candidates = %v, want short label GetAtt for colon trigger", labels(res.Candidates))
	}
	if !hasLabel(res.Candidates, "Ref") {
		t.Errorf("candidates = %v, want Ref", labels(res.Candidates))
	}

	for _, c := range res.Candidates {
		if c.Label == "GetAtt" && c.Insert != "Fn::GetAtt" {
			t.Errorf("GetAtt insert = %q, want long form Fn::GetAtt", c.Insert)
		}
	}
}

func TestRouterStateFailureDegrades(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: my-bucket
      ObjectLockEnabled:
`

	tree := mustParse(t, text, document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 5, Character: 25})

	store := testStore(t)
	state := &ResourceStateProvider{
		Store:  store,
		Lookup: failingLookup{},
	}

	res := NewRouter(store, state, nil).Route(context.Background(), ctx)

	// Schema-derived values survive the failed state fetch.
	if !hasLabel(res.Candidates, "true") {
		t.Errorf("candidates = %v, want boolean pair despite state failure", labels(res.Candidates))
	}
}

type failingLookup struct{}

func (failingLookup) Fetch(context.Context, string, string) (map[string]any, error) {
	return nil, errors.New("unreachable endpoint")
}

type staticLookup struct {
	state map[string]any
}

func (l staticLookup) Fetch(context.Context, string, string) (map[string]any, error) {
	return l.state, nil
}

func TestRouterStateValueLeads(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: my-bucket
      ObjectLockEnabled:
`

	tree := mustParse(t, text, document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 5, Character: 25})

	store := testStore(t)
	state := &ResourceStateProvider{
		Store:  store,
		Lookup: staticLookup{state: map[string]any{"ObjectLockEnabled": true}},
	}

	res := NewRouter(store, state, nil).Route(context.Background(), ctx)

	if len(res.Candidates) == 0 || res.Candidates[0].Detail != "live resource state" {
		t.Fatalf("candidates = %v, want live state candidate first", labels(res.Candidates))
	}
}

func TestRouteConditionKeyInsidePropertiesStaysOnSchema(t *testing.T) {
	t.Parallel()

	// IAM-style policy documents put literal Condition keys inside
	// Properties; those are plain schema keys, never references to the
	// template's Conditions section.
	text := `Conditions:
  IsProd: !Equals [prod, prod]
Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      VersioningConfiguration:
        Condition: Is
`

	res := routeAt(t, text, 7, 21)

	if hasLabel(res.Candidates, "IsProd") {
		t.Errorf("candidates = %v, want no template condition names under Properties", labels(res.Candidates))
	}
}

func TestRouteConditionOperandStillCompletes(t *testing.T) {
	t.Parallel()

	// The long-form Condition operand inside a condition-consuming
	// intrinsic keeps its name completions.
	text := `Conditions:
  IsProd: !Equals [prod, prod]
  NotProd:
    Fn::Not:
      - Condition: Is
`

	res := routeAt(t, text, 4, 21)

	if !hasLabel(res.Candidates, "IsProd") {
		t.Errorf("candidates = %v, want IsProd for a Condition operand", labels(res.Candidates))
	}
}

func TestRouteTopLevelSectionBeatsFunctionName(t *testing.T) {
	t.Parallel()

	// A key-or-value position at document root whose token happens to
	// read like an intrinsic trigger still belongs to the section
	// family: intrinsics make no sense above any section.
	tree := mustParse(t, "Fn\n", document.YAML)

	ctx := &Context{
		DocType:      document.YAML,
		EntityStart:  2,
		PositionKind: KeyOrValue,
		RawText:      "Fn",
		Tree:         tree,
	}

	res := NewRouter(testStore(t), nil, nil).Route(context.Background(), ctx)

	if !hasLabel(res.Candidates, "Resources") {
		t.Errorf("candidates = %v, want top-level sections", labels(res.Candidates))
	}

	if hasLabel(res.Candidates, "Fn::GetAtt") {
		t.Errorf("candidates = %v, want no intrinsic functions at document root", labels(res.Candidates))
	}
}

type gatedLookup struct {
	release chan struct{}
	state   map[string]any
}

func (l gatedLookup) Fetch(ctx context.Context, _, _ string) (map[string]any, error) {
	select {
	case <-l.release:
		return l.state, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestRouterStateFetchRunsConcurrently(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: my-bucket
      ObjectLockEnabled:
`

	tree := mustParse(t, text, document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 5, Character: 25})

	release := make(chan struct{})
	store := testStore(t)
	state := &ResourceStateProvider{
		Store:   store,
		Lookup:  gatedLookup{release: release, state: map[string]any{"ObjectLockEnabled": true}},
		Timeout: 5 * time.Second,
	}

	router := NewRouter(store, state, nil)

	done := make(chan Result, 1)

	go func() {
		done <- router.Route(context.Background(), ctx)
	}()

	// The route must be waiting on the held-back fetch, not finished
	// without it.
	select {
	case res := <-done:
		t.Fatalf("route returned before state fetch completed: %v", labels(res.Candidates))
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case res := <-done:
		if len(res.Candidates) == 0 || res.Candidates[0].Detail != "live resource state" {
			t.Fatalf("candidates = %v, want live state candidate first", labels(res.Candidates))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("route did not return after state fetch was released")
	}
}
