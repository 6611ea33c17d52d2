package lsp

import (
	"net/url"
	"path/filepath"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// uriToPath turns a file:// URI into a local path. Non-file schemes yield
// "" and callers fall back to the raw URI as the document name.
func uriToPath(uri protocol.DocumentUri) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	var path string
	switch parsed.Scheme {
	case "file":
		path = parsed.Path
	case "":
		path = uri
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	default:
		return ""
	}
	return filepath.Clean(filepath.FromSlash(path))
}

func pathToURI(path string) protocol.DocumentUri {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// documentName is the label diagnostics and the token cache see for uri.
func documentName(uri protocol.DocumentUri) string {
	if path := uriToPath(uri); path != "" {
		return path
	}
	return uri
}
