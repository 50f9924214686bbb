package lsp

import (
	"github.com/cfnlang/cfn-ls/document"
)

// Settings are the workspace options a client passes through
// InitializationOptions. All fields are optional.
type Settings struct {
	// SchemaDir is a directory of resource provider schemas (wire-JSON,
	// one file per type) loaded into the store at initialize.
	SchemaDir string

	// DocumentType forces "json" or "yaml" for every document,
	// overriding language-ID and extension detection.
	DocumentType string

	// TabSize is the editor's indent width, used for snippet bodies
	// when a document does not reveal its own unit yet.
	TabSize int

	// InsertSpaces selects space indentation for snippets; defaults
	// to true.
	InsertSpaces bool

	// TemplateGlobs narrows the workspace template scan. Defaults to
	// *.template.json, *.template.yaml and *.template.yml.
	TemplateGlobs []string
}

// ParseSettings reads Settings from the raw InitializationOptions
// value. Unknown keys and wrong types are ignored rather than rejected;
// a misconfigured client still gets a working server.
func ParseSettings(raw any) Settings {
	s := Settings{InsertSpaces: true}

	opts, ok := raw.(map[string]any)
	if !ok {
		return s
	}

	// JSON numbers arrive as float64 through the RPC layer.
	switch v := opts["tabSize"].(type) {
	case float64:
		s.TabSize = int(v)
	case int:
		s.TabSize = v
	}

	if v, ok := opts["insertSpaces"].(bool); ok {
		s.InsertSpaces = v
	}

	if v, ok := opts["schemaDir"].(string); ok {
		s.SchemaDir = v
	}

	if v, ok := opts["documentType"].(string); ok {
		s.DocumentType = v
	}

	if vs, ok := opts["templateGlobs"].([]any); ok {
		for _, v := range vs {
			if g, ok := v.(string); ok {
				s.TemplateGlobs = append(s.TemplateGlobs, g)
			}
		}
	}

	return s
}

// DocType resolves the document type for one document, preferring the
// workspace override, then the editor language ID, the URI extension
// and finally the text itself.
func (s Settings) DocType(languageID, uri, text string) document.DocType {
	switch s.DocumentType {
	case "json":
		return document.JSON
	case "yaml":
		return document.YAML
	}

	return document.DetectType(languageID, uri, text)
}
