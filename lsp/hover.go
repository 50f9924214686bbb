package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/completion"
	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

// Hover handles textDocument/hover requests. It documents the three
// things a template author points at most: intrinsic functions,
// resource type names and resource properties.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	defer s.traceHandler("hover")()

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	tree := doc.Tree
	if tree == nil || tree.Root() == nil {
		tree = doc.LastValidTree
	}

	if tree == nil {
		return nil, nil //nolint:nilnil
	}

	pos := document.Position{Line: params.Position.Line, Character: params.Position.Character}

	cc, ok := completion.Classify(tree, pos)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	content := s.hoverContent(cc)
	if content == "" {
		return nil, nil //nolint:nilnil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
	}, nil
}

func (s *Server) hoverContent(cc *completion.Context) string {
	if cc.Intrinsic != nil && cc.AtFunctionName() {
		if in, ok := cfnls.LookupIntrinsic(cc.Intrinsic.Fn); ok {
			return fmt.Sprintf("**%s**\n\n%s", in.Name, in.Doc)
		}
	}

	if cc.ResourceType == "" {
		return ""
	}

	rs, ok := s.schemas.ResourceSchema(cc.ResourceType)
	if !ok {
		return ""
	}

	// Type value or resource-level key: document the resource type.
	if cc.EntitySection == "" || (cc.EntitySection == "Type" && cc.PositionKind.IsValueish()) {
		return resourceHover(rs)
	}

	if cc.EntitySection != "Properties" {
		return ""
	}

	path := cc.PropertyPath()
	if len(path) == 0 {
		return ""
	}

	frags := schema.ResolvePath(rs, path, schema.ResolveOptions{})
	if len(frags) == 0 {
		return ""
	}

	name := path[len(path)-1].Key

	return propertyHover(name, frags[0], rs, path)
}

func resourceHover(rs *schema.ResourceSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", rs.TypeName)

	if rs.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", rs.Description)
	}

	if len(rs.Required) > 0 {
		fmt.Fprintf(&b, "\n\nRequired: %s", strings.Join(rs.Required, ", "))
	}

	return b.String()
}

func propertyHover(name string, prop *schema.Property, rs *schema.ResourceSchema, path []document.Segment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", name)

	if len(prop.Type) > 0 {
		fmt.Fprintf(&b, " `%s`", strings.Join(prop.Type, " | "))
	}

	if rs.IsReadOnly(schema.Pointer(path)) {
		b.WriteString(" (read-only)")
	}

	if prop.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", prop.Description)
	}

	if len(prop.Enum) > 0 {
		values := make([]string, 0, len(prop.Enum))
		for _, v := range prop.Enum {
			values = append(values, fmt.Sprint(v))
		}

		fmt.Fprintf(&b, "\n\nAllowed values: %s", strings.Join(values, ", "))
	}

	return b.String()
}
