package completion

import (
	"testing"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
)

func mustParse(t *testing.T, text string, docType document.DocType) *document.Tree {
	t.Helper()

	tree, _ := document.Parse(text, docType)
	if tree == nil {
		t.Fatal("Parse returned nil tree")
	}

	return tree
}

const classifySample = `AWSTemplateFormatVersion: "2010-09-09"
Parameters:
  EnvName:
    Type: String
Conditions:
  IsProd: !Equals [!Ref EnvName, prod]
Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: my-bucket
      VersioningConfiguration:
        Status: Enabled
Outputs:
  BucketArn:
    Value: !GetAtt MyBucket.Arn
`

func classifyAt(t *testing.T, text string, line, char uint32) *Context {
	t.Helper()

	tree := mustParse(t, text, document.YAML)

	ctx, ok := Classify(tree, document.Position{Line: line, Character: char})
	if !ok {
		t.Fatal("Classify returned no context")
	}

	return ctx
}

func TestClassifyResourceProperty(t *testing.T) {
	t.Parallel()

	// Cursor inside "BucketName" on line 10.
	ctx := classifyAt(t, classifySample, 10, 10)

	if ctx.Section != cfnls.SectionResources {
		t.Errorf("Section = %q, want Resources", ctx.Section)
	}
	if ctx.LogicalID != "MyBucket" {
		t.Errorf("LogicalID = %q, want MyBucket", ctx.LogicalID)
	}
	if ctx.ResourceType != "AWS::S3::Bucket" {
		t.Errorf("ResourceType = %q, want AWS::S3::Bucket", ctx.ResourceType)
	}
	if ctx.EntitySection != "Properties" {
		t.Errorf("EntitySection = %q, want Properties", ctx.EntitySection)
	}
	if !ctx.PositionKind.IsKeyish() {
		t.Errorf("PositionKind = %v, want keyish", ctx.PositionKind)
	}

	// Key position: the path addresses the enclosing mapping, so the
	// property path below Properties is empty.
	if pp := ctx.PropertyPath(); len(pp) != 0 {
		t.Errorf("PropertyPath = %v, want empty", pp)
	}
}

func TestClassifyNestedPropertyValue(t *testing.T) {
	t.Parallel()

	// Cursor in the value of Status on line 12.
	ctx := classifyAt(t, classifySample, 12, 17)

	if ctx.PositionKind != Value {
		t.Fatalf("PositionKind = %v, want Value", ctx.PositionKind)
	}

	pp := ctx.PropertyPath()
	if got := document.PathString(pp); got != "/VersioningConfiguration/Status" {
		t.Errorf("PropertyPath = %s, want /VersioningConfiguration/Status", got)
	}
}

func TestClassifyTypeValue(t *testing.T) {
	t.Parallel()

	ctx := classifyAt(t, classifySample, 8, 12)

	if ctx.EntitySection != "Type" {
		t.Errorf("EntitySection = %q, want Type", ctx.EntitySection)
	}
	if ctx.PositionKind != Value {
		t.Errorf("PositionKind = %v, want Value", ctx.PositionKind)
	}
	if ctx.RawText != "AWS::S3::Bucket" {
		t.Errorf("RawText = %q", ctx.RawText)
	}
}

func TestClassifyShortFormIntrinsic(t *testing.T) {
	t.Parallel()

	// Inside the argument of !GetAtt on the Outputs line.
	ctx := classifyAt(t, classifySample, 15, 21)

	if ctx.Intrinsic == nil {
		t.Fatal("Intrinsic = nil, want Fn::GetAtt context")
	}
	if ctx.Intrinsic.Fn != cfnls.FnGetAtt {
		t.Errorf("Intrinsic.Fn = %q, want Fn::GetAtt", ctx.Intrinsic.Fn)
	}
}

func TestClassifyNestedIntrinsicChain(t *testing.T) {
	t.Parallel()

	// Inside "!Ref EnvName" nested in "!Equals [...]" on line 5.
	ctx := classifyAt(t, classifySample, 5, 26)

	if ctx.Intrinsic == nil {
		t.Fatal("Intrinsic = nil")
	}
	if ctx.Intrinsic.Fn != cfnls.FnRef {
		t.Errorf("innermost = %q, want Ref", ctx.Intrinsic.Fn)
	}
	if len(ctx.intrinsics) < 2 || ctx.intrinsics[1].Fn != cfnls.FnEquals {
		t.Errorf("chain = %v, want Ref inside Fn::Equals", ctx.intrinsics)
	}
}

func TestClassifyFnIfConditionSlot(t *testing.T) {
	t.Parallel()

	text := `Conditions:
  IsProd: !Equals [a, b]
Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !If [IsProd, prod-bucket, dev-bucket]
`

	// Cursor on "IsProd" in the first !If slot.
	ctx := classifyAt(t, text, 6, 26)

	if ctx.Intrinsic == nil || ctx.Intrinsic.Fn != cfnls.FnIf {
		t.Fatalf("Intrinsic = %+v, want Fn::If", ctx.Intrinsic)
	}
	if ctx.Intrinsic.ArgIndex != 0 {
		t.Errorf("ArgIndex = %d, want 0", ctx.Intrinsic.ArgIndex)
	}
	if !ctx.InConditionUsage() {
		t.Error("InConditionUsage() = false, want true for Fn::If slot 0")
	}
}

func TestClassifyConditionKeyOnResource(t *testing.T) {
	t.Parallel()

	text := `Resources:
  MyBucket:
    Type: AWS::S3::Bucket
    Condition: IsProd
`

	ctx := classifyAt(t, text, 3, 17)

	if ctx.PositionKind != Value {
		t.Fatalf("PositionKind = %v, want Value", ctx.PositionKind)
	}
	if !ctx.InConditionUsage() {
		t.Error("InConditionUsage() = false for literal Condition key")
	}
}

func TestClassifyForEachEntity(t *testing.T) {
	t.Parallel()

	text := `Transform: AWS::LanguageExtensions
Resources:
  Fn::ForEach::Buckets:
    - BucketName
    - - alpha
      - beta
    - Bucket${BucketName}:
        Type: AWS::S3::Bucket
        Properties:
          BucketName: test
`

	// Cursor on "BucketName" inside the generated entity's Properties.
	ctx := classifyAt(t, text, 9, 12)

	if ctx.EntityKind != cfnls.EntityForEachResource {
		t.Errorf("EntityKind = %v, want foreach_resource", ctx.EntityKind)
	}
	if ctx.EntityStart != 4 {
		t.Errorf("EntityStart = %d, want 4", ctx.EntityStart)
	}
	if ctx.EntitySection != "Properties" {
		t.Errorf("EntitySection = %q, want Properties", ctx.EntitySection)
	}
}

func TestClassifyTopLevelEmptyDocument(t *testing.T) {
	t.Parallel()

	ctx := classifyAt(t, "", 0, 0)

	if ctx.Section != "" {
		t.Errorf("Section = %q, want empty", ctx.Section)
	}
	if len(ctx.Path) != 0 {
		t.Errorf("Path = %v, want empty", ctx.Path)
	}
	if !ctx.PositionKind.IsKeyish() {
		t.Errorf("PositionKind = %v, want keyish", ctx.PositionKind)
	}
}

func TestClassifyKeyColonTrimmed(t *testing.T) {
	t.Parallel()

	// On a key token the trailing colon is not part of the identifier.
	ctx := classifyAt(t, classifySample, 9, 6)

	if ctx.RawText != "Properties" {
		t.Errorf("RawText = %q, want Properties", ctx.RawText)
	}
}

func TestClassifyNilTree(t *testing.T) {
	t.Parallel()

	if _, ok := Classify(nil, document.Position{}); ok {
		t.Error("Classify(nil) ok = true, want false")
	}
}
