package lsp

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"go.uber.org/zap"

	"github.com/cfnlang/cfn-ls/schema"
)

// defaultTemplateGlobs match the conventional template file names.
var defaultTemplateGlobs = []string{"*.template.json", "*.template.yaml", "*.template.yml"}

// LoadSchemaDir reads every .json file under dir into the store and
// returns the number of schemas loaded. Files that fail to decode are
// skipped; a schema directory with one bad file still loads the rest.
func LoadSchemaDir(store *schema.Index, dir string) (int, error) {
	var loaded int

	err := walkDir(dir, []string{"json"}, func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}

		if err := store.PutJSON(data); err != nil {
			return
		}

		loaded++
	})

	return loaded, err
}

// scanWorkspace discovers template files under the workspace root. The
// result warms nothing by itself; it tells the user (through the LSP
// log) which templates the server considers in scope, and gives a
// schema prefetcher a list of documents worth parsing ahead of time.
func (s *Server) scanWorkspace(root string) {
	globs := s.settings.TemplateGlobs
	if len(globs) == 0 {
		globs = defaultTemplateGlobs
	}

	var templates []string

	err := walkDir(root, []string{"json", "yaml", "yml"}, func(path string) {
		base := filepath.Base(path)
		for _, glob := range globs {
			if ok, _ := filepath.Match(glob, base); ok {
				templates = append(templates, path)

				return
			}
		}
	})
	if err != nil {
		s.logger.Warn("Workspace scan failed", zap.String("root", root), zap.Error(err))

		return
	}

	s.logger.Info("Workspace scan complete",
		zap.String("root", root),
		zap.Int("templates", len(templates)))

	for _, t := range templates {
		s.logger.Debug("Template discovered", zap.String("path", strings.TrimPrefix(t, root)))
	}
}

// walkDir walks a directory tree, respecting .gitignore, and invokes
// callback for each file carrying one of the allowed extensions.
func walkDir(root string, extensions []string, callback func(path string)) error {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = extensions

	var walkErr error

	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e

		return true
	})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for f := range fileListQueue {
			callback(f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return err
	}

	wg.Wait()

	return walkErr
}
