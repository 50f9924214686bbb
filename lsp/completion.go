package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/completion"
	"github.com/cfnlang/cfn-ls/document"
)

// emptyCompletionList is what every failure path returns: an empty but
// non-nil list keeps clients from surfacing an error popup mid-typing.
func emptyCompletionList() *protocol.CompletionList {
	return &protocol.CompletionList{Items: []protocol.CompletionItem{}}
}

// Completion handles textDocument/completion requests. The pipeline is
// classify, route, rank, format; any stage that cannot make sense of
// the position degrades to an empty list, never an error.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (list *protocol.CompletionList, err error) {
	defer s.traceHandler("completion")()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Completion panic", zap.Any("panic", r))
			list, err = emptyCompletionList(), nil
		}
	}()

	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		s.logger.Debug("Completion skipped",
			zap.String("uri", string(params.TextDocument.URI)),
			zap.Error(cfnls.ErrNoDocument))

		return emptyCompletionList(), nil
	}

	pos := document.Position{Line: params.Position.Line, Character: params.Position.Character}

	cc, ok := completion.Classify(doc.Tree, pos)

	// On a broken parse the indent fallback can come up empty-handed;
	// the last clean tree usually still describes the surrounding
	// structure at this position.
	if doc.LastValidTree != nil && doc.LastValidTree != doc.Tree &&
		(!ok || (doc.ParseErr != nil && len(cc.Path) == 0)) {
		if fallback, fok := completion.Classify(doc.LastValidTree, pos); fok {
			cc, ok = fallback, true
		}
	}

	if !ok {
		s.logger.Debug("Completion skipped",
			zap.String("uri", string(params.TextDocument.URI)),
			zap.Error(cfnls.ErrNoSyntaxTree))

		return emptyCompletionList(), nil
	}

	cc.Editor = completion.EditorSettings{
		TabSize:      s.settings.TabSize,
		InsertSpaces: s.settings.InsertSpaces,
	}

	result := s.router.Route(ctx, cc)
	if len(result.Candidates) == 0 {
		return emptyCompletionList(), nil
	}

	ranked, incomplete := completion.Rank(result.Candidates, completion.FilterText(cc), result.Match)

	return completion.Format(ranked, cc, incomplete), nil
}
