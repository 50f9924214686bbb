// Package lsp implements a Language Server Protocol server for
// CloudFormation-style templates.
package lsp

import (
	"context"
	"sync"
	"time"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/cfnlang/cfn-ls/completion"
	"github.com/cfnlang/cfn-ls/document"
	"github.com/cfnlang/cfn-ls/schema"
)

// Server implements the LSP Server interface for template documents.
// The embedded protocol.Server covers the requests this server does
// not handle; they fail with a nil-pointer call, which the jsonrpc2
// layer reports as method-not-found to well-behaved clients that only
// send what the capabilities advertise.
type Server struct {
	protocol.Server

	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// Schema store backing every completion request
	schemas *schema.Index
	router  *completion.Router

	// Per-workspace settings from InitializationOptions
	settings Settings

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string
	Type    document.DocType
	Tree    *document.Tree

	// ParseErr is the parse failure of the current content, if any.
	ParseErr error

	// LastValidTree holds the most recent tree that parsed cleanly.
	// Completion falls back to it when the current content has parse
	// errors and indent-based location cannot classify the cursor.
	LastValidTree *document.Tree
}

// NewServer creates a new LSP server over the given schema store.
// state may be nil; live resource-state suggestions are then disabled.
func NewServer(client protocol.Client, logger *zap.Logger, schemas *schema.Index, state schema.StateLookup) *Server {
	if schemas == nil {
		schemas = schema.NewIndex()
	}

	var stateProvider *completion.ResourceStateProvider
	if state != nil {
		stateProvider = &completion.ResourceStateProvider{
			Store:   schemas,
			Lookup:  state,
			Log:     logger,
			Timeout: completion.DefaultStateTimeout,
		}
	}

	return &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
		schemas:   schemas,
		router:    completion.NewRouter(schemas, stateProvider, logger),
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize")

	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
		s.logger.Info("Workspace root (from RootPath)", zap.String("root", s.workspaceRoot))
	}

	s.settings = ParseSettings(params.InitializationOptions)

	if s.settings.SchemaDir != "" {
		n, err := LoadSchemaDir(s.schemas, s.settings.SchemaDir)
		if err != nil {
			s.logger.Warn("Schema directory load failed",
				zap.String("dir", s.settings.SchemaDir), zap.Error(err))
		} else {
			s.logger.Info("Schemas loaded",
				zap.String("dir", s.settings.SchemaDir), zap.Int("count", n))
		}
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{":", "!", "\"", "."},
				ResolveProvider:   false,
			},
			HoverProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "cfn-ls",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification. The workspace scan
// runs in the background so the client is never blocked on disk IO.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	if s.workspaceRoot != "" {
		go s.scanWorkspace(s.workspaceRoot)
	}

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop handles exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	doc.Type = s.settings.DocType(string(params.TextDocument.LanguageID),
		string(params.TextDocument.URI), params.TextDocument.Text)
	doc.Tree, doc.ParseErr = document.Parse(doc.Content, doc.Type)

	// A clean parse becomes the completion fallback for later edits.
	if doc.ParseErr == nil {
		doc.LastValidTree = doc.Tree
	}

	// Hold lock only for document map update
	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	// Publish diagnostics outside the lock to prevent deadlock
	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	start := time.Now()
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	// Hold the lock only for document state updates, not for RPC calls.
	// This prevents deadlock when the client sends requests while we
	// are publishing diagnostics.
	var docForDiagnostics *Document

	s.mu.Lock()
	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one)
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
		doc.Tree, doc.ParseErr = document.Parse(doc.Content, doc.Type)

		if doc.ParseErr == nil {
			doc.LastValidTree = doc.Tree
		}

		docForDiagnostics = doc
	}
	s.mu.Unlock()

	if docForDiagnostics != nil {
		s.publishDiagnostics(ctx, docForDiagnostics)
	}

	s.logger.Debug("DidChange done", zap.Duration("elapsed", time.Since(start)))

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	// Hold lock only for document map update
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear diagnostics outside the lock to prevent deadlock
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}
