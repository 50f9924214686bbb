package completion

import (
	"strings"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/cfnlang/cfn-ls/document"
)

func TestFormatTextEditReplacesToken(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "Resources:\n  B:\n    Type: AWS::S3::Buck\n", document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 2, Character: 23})

	list := Format([]Candidate{{Label: "AWS::S3::Bucket", Kind: CandidateResourceType}}, ctx, false)
	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(list.Items))
	}

	item := list.Items[0]
	if item.TextEdit == nil {
		t.Fatal("TextEdit = nil, want replacement edit")
	}
	if item.InsertText != "" {
		t.Error("InsertText set alongside TextEdit")
	}
	if item.TextEdit.NewText != "AWS::S3::Bucket" {
		t.Errorf("NewText = %q", item.TextEdit.NewText)
	}
	if item.TextEdit.Range.Start.Character != 10 || item.TextEdit.Range.End.Character != 23 {
		t.Errorf("edit range = %+v, want 10..23", item.TextEdit.Range)
	}
}

func TestFormatJSONQuoteSwallow(t *testing.T) {
	t.Parallel()

	text := `{"Resources": {"B": {"Type": "AWS"}}}`
	tree := mustParse(t, text, document.JSON)

	ctx, _ := Classify(tree, document.Position{Line: 0, Character: 33})

	list := Format([]Candidate{{Label: "AWS::S3::Bucket", Kind: CandidateResourceType}}, ctx, false)

	item := list.Items[0]
	if item.TextEdit == nil {
		t.Fatal("TextEdit = nil")
	}
	if item.TextEdit.NewText != `"AWS::S3::Bucket"` {
		t.Errorf("NewText = %q, want quoted", item.TextEdit.NewText)
	}
	if item.TextEdit.Range.Start.Character != 29 || item.TextEdit.Range.End.Character != 34 {
		t.Errorf("edit range = %+v, want quotes swallowed (29..34)", item.TextEdit.Range)
	}
}

func TestFormatPropertySnippetShapes(t *testing.T) {
	t.Parallel()

	text := "Resources:\n  B:\n    Type: AWS::S3::Bucket\n    Properties:\n      \n"
	tree := mustParse(t, text, document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 4, Character: 6})

	cands := []Candidate{
		{Label: "BucketName", Kind: CandidateProperty, Shape: ShapeSimple},
		{Label: "Tags", Kind: CandidateProperty, Shape: ShapeArray},
		{Label: "VersioningConfiguration", Kind: CandidateProperty, Shape: ShapeObject},
	}

	list := Format(cands, ctx, false)

	byLabel := map[string]protocol.CompletionItem{}
	for _, item := range list.Items {
		byLabel[item.Label] = item
	}

	if got := byLabel["BucketName"].InsertText; got != "BucketName: $0" {
		t.Errorf("simple insert = %q", got)
	}
	if got := byLabel["Tags"].InsertText; !strings.Contains(got, "- $0") {
		t.Errorf("array insert = %q, want sequence skeleton", got)
	}

	obj := byLabel["VersioningConfiguration"]
	if obj.InsertTextFormat != protocol.InsertTextFormatSnippet {
		t.Errorf("object InsertTextFormat = %v, want snippet", obj.InsertTextFormat)
	}
	if !strings.Contains(obj.InsertText, "VersioningConfiguration:\n") {
		t.Errorf("object insert = %q", obj.InsertText)
	}
}

func TestFormatSnippetReindent(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "Resources:\n    Four:\n        Type: x\n\n", document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 3, Character: 0})

	list := Format([]Candidate{{
		Label:   "Outputs section",
		Kind:    CandidateSnippet,
		Snippet: "Outputs:\n\t${1:OutputName}:\n\t\tValue: $0",
	}}, ctx, false)

	got := list.Items[0].InsertText
	want := "Outputs:\n    ${1:OutputName}:\n        Value: $0"

	if got != want {
		t.Errorf("reindented snippet = %q, want %q", got, want)
	}
}

func TestFormatSnippetEditorIndentFallback(t *testing.T) {
	t.Parallel()

	// A document with no indented line yet says nothing about its
	// indent unit, so the editor's own settings decide.
	tree := mustParse(t, "Resources:\n\n", document.YAML)

	cand := []Candidate{{
		Label:   "Outputs section",
		Kind:    CandidateSnippet,
		Snippet: "Outputs:\n\t${1:OutputName}:\n\t\tValue: $0",
	}}

	ctx, _ := Classify(tree, document.Position{Line: 1, Character: 0})
	ctx.Editor = EditorSettings{TabSize: 4, InsertSpaces: true}

	got := Format(cand, ctx, false).Items[0].InsertText
	want := "Outputs:\n    ${1:OutputName}:\n        Value: $0"
	if got != want {
		t.Errorf("space-indent snippet = %q, want %q", got, want)
	}

	ctx, _ = Classify(tree, document.Position{Line: 1, Character: 0})
	ctx.Editor = EditorSettings{TabSize: 4, InsertSpaces: false}

	got = Format(cand, ctx, false).Items[0].InsertText
	want = "Outputs:\n\t${1:OutputName}:\n\t\tValue: $0"
	if got != want {
		t.Errorf("tab-indent snippet = %q, want %q", got, want)
	}
}

func TestFormatSortTextPreservesRankOrder(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "Resources:\n", document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 0, Character: 0})

	list := Format([]Candidate{{Label: "Zeta"}, {Label: "Alpha"}}, ctx, false)

	if list.Items[0].SortText >= list.Items[1].SortText {
		t.Errorf("SortText %q !< %q", list.Items[0].SortText, list.Items[1].SortText)
	}
}

func TestFormatDocumentationMarkdown(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "Resources:\n", document.YAML)

	ctx, _ := Classify(tree, document.Position{Line: 0, Character: 0})

	list := Format([]Candidate{{Label: "X", Doc: "Some *description*."}}, ctx, false)

	mc, ok := list.Items[0].Documentation.(*protocol.MarkupContent)
	if !ok {
		t.Fatalf("Documentation = %T, want *protocol.MarkupContent", list.Items[0].Documentation)
	}
	if mc.Kind != protocol.Markdown {
		t.Errorf("markup kind = %v, want markdown", mc.Kind)
	}
}
