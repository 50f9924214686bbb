package completion

import (
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/cfnlang/cfn-ls/document"
)

// Format renders ranked candidates as editor completion items. The
// replacement span comes from the classified token range: when one
// exists the item carries a text edit, otherwise plain insert text.
// The two are mutually exclusive.
func Format(cands []Candidate, ctx *Context, incomplete bool) *protocol.CompletionList {
	items := make([]protocol.CompletionItem, 0, len(cands))

	for i, c := range cands {
		items = append(items, formatItem(c, ctx, i))
	}

	return &protocol.CompletionList{IsIncomplete: incomplete, Items: items}
}

func formatItem(c Candidate, ctx *Context, rank int) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:    c.Label,
		Kind:     itemKind(c.Kind),
		Detail:   c.Detail,
		SortText: fmt.Sprintf("%04d", rank),
	}

	if c.Doc != "" {
		item.Documentation = &protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: c.Doc,
		}
	}

	text := c.Insert
	if text == "" {
		text = c.Label
	}

	snippet := c.Snippet
	if snippet == "" && c.Kind == CandidateProperty {
		snippet = propertySnippet(c, text, ctx)
	}

	if snippet != "" {
		text = renderSnippet(snippet, ctx)
		item.InsertTextFormat = protocol.InsertTextFormatSnippet
	}

	r := ctx.Range
	hasRange := r.Start != r.End || ctx.RawText != ""

	if ctx.DocType == document.JSON && c.Kind == CandidateProperty && ctx.Tree != nil {
		if wider, ok := ctx.Tree.QuotedRange(r); ok {
			r = wider
			hasRange = true
		}
	}

	if ctx.DocType == document.JSON && needsQuotes(c, ctx) {
		if wider, ok := ctx.Tree.QuotedRange(r); ok {
			r = wider
			hasRange = true
		}

		text = `"` + text + `"`
	}

	if hasRange {
		item.TextEdit = &protocol.TextEdit{
			Range:   protocolRange(r),
			NewText: text,
		}
	} else {
		item.InsertText = text
	}

	return item
}

// propertySnippet expands a key completion into "Key: " plus the
// skeleton its value shape wants, so accepting a property lands the
// cursor where the value goes.
func propertySnippet(c Candidate, key string, ctx *Context) string {
	if !ctx.PositionKind.IsKeyish() {
		return ""
	}

	if ctx.DocType == document.JSON {
		switch c.Shape {
		case ShapeObject:
			return quoteJSONKey(key, "{$0}")
		case ShapeArray:
			return quoteJSONKey(key, "[$0]")
		default:
			return quoteJSONKey(key, `"$0"`)
		}
	}

	switch c.Shape {
	case ShapeObject:
		return key + ":\n\t$0"
	case ShapeArray:
		return key + ":\n\t- $0"
	default:
		return key + ": $0"
	}
}

func quoteJSONKey(key, value string) string {
	return `"` + key + `": ` + value
}

// needsQuotes reports whether the inserted text is a JSON string and
// should therefore swallow surrounding quotes.
func needsQuotes(c Candidate, ctx *Context) bool {
	if ctx.Tree == nil {
		return false
	}

	switch c.Kind {
	case CandidateEnumValue, CandidateReference, CandidateResourceType, CandidateFunction:
		return ctx.PositionKind.IsValueish()
	}

	return false
}

// renderSnippet re-indents a tab-written snippet body for the target
// document: each leading tab becomes one indent unit on top of the
// cursor's own column.
func renderSnippet(body string, ctx *Context) string {
	unit := 0
	if ctx.Tree != nil {
		unit = ctx.Tree.DetectIndent()
	}

	// The document's own indentation wins; the editor settings cover
	// documents with no indented line yet.
	var pad string

	switch {
	case unit > 0:
		pad = strings.Repeat(" ", unit)
	case ctx.Editor.TabSize > 0 && !ctx.Editor.InsertSpaces:
		pad = "\t"
	case ctx.Editor.TabSize > 0:
		pad = strings.Repeat(" ", ctx.Editor.TabSize)
	default:
		pad = "  "
	}

	base := strings.Repeat(" ", int(ctx.Range.Start.Character))

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		n := 0
		for n < len(line) && line[n] == '\t' {
			n++
		}

		line = strings.Repeat(pad, n) + line[n:]

		if i > 0 {
			line = base + line
		}

		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

func protocolRange(r document.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

func itemKind(k CandidateKind) protocol.CompletionItemKind {
	switch k {
	case CandidateEnumValue:
		return protocol.CompletionItemKindValue
	case CandidateResourceType:
		return protocol.CompletionItemKindClass
	case CandidateSection:
		return protocol.CompletionItemKindModule
	case CandidateFunction:
		return protocol.CompletionItemKindFunction
	case CandidateReference:
		return protocol.CompletionItemKindReference
	case CandidateSnippet:
		return protocol.CompletionItemKindSnippet
	default:
		return protocol.CompletionItemKindField
	}
}
