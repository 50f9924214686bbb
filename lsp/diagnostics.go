package lsp

import (
	"context"
	"regexp"
	"strconv"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/cfnlang/cfn-ls/document"
)

// publishDiagnostics reports the document's parse state to the client.
// Callers must not hold the server mutex; this is an RPC call.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	diagnostics := []protocol.Diagnostic{}
	if doc.ParseErr != nil {
		diagnostics = append(diagnostics, parseErrorDiagnostic(doc.ParseErr, doc.Tree))
	}

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("PublishDiagnostics failed", zap.Error(err))
	}
}

// yamlLineRe extracts the 1-based line number yaml.v3 embeds in its
// error strings ("yaml: line 12: ...").
var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// parseErrorDiagnostic converts a yaml.v3 parse error into a single
// diagnostic spanning the offending line, or line 0 when the message
// names none.
func parseErrorDiagnostic(parseErr error, tree *document.Tree) protocol.Diagnostic {
	var line uint32

	if m := yamlLineRe.FindStringSubmatch(parseErr.Error()); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			line = uint32(n - 1) //nolint:gosec // bounded by document length
		}
	}

	var endChar uint32
	if tree != nil && int(line) < tree.LineCount() {
		endChar = uint32(len(tree.Line(int(line)))) //nolint:gosec
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line},
			End:   protocol.Position{Line: line, Character: endChar},
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   "cfn-ls",
		Message:  parseErr.Error(),
	}
}
