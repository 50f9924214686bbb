package lsp

import (
	"net/url"
	"runtime"
	"strings"

	"go.lsp.dev/protocol"
)

// URIToPath converts a file:// document URI to a filesystem path.
// Non-file URIs are returned unchanged so callers can still log them.
func URIToPath(uri protocol.DocumentURI) string {
	s := string(uri)
	if !strings.HasPrefix(s, "file://") {
		return s
	}

	u, err := url.Parse(s)
	if err != nil {
		return strings.TrimPrefix(s, "file://")
	}

	path := u.Path
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return path
}
