package cfnls

import "errors"

// Sentinel errors.
var (
	// ErrNoDocument is returned when a request references a document
	// the server has not opened.
	ErrNoDocument = errors.New("cfn-ls: unknown document")

	// ErrNoSyntaxTree is returned when a document cannot produce even a
	// partial syntax tree.
	ErrNoSyntaxTree = errors.New("cfn-ls: no syntax tree")
)
