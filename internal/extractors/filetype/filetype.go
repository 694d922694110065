// Package filetype matches uploads against MIME types and extensions.
package filetype

import (
	"mime"
	"path/filepath"
	"slices"
	"strings"
)

// BaseMIME lower-cases contentType and strips parameters such as charset.
func BaseMIME(contentType string) string {
	base := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	return base
}

// MatchMIME reports whether the base of contentType is one of types.
func MatchMIME(contentType string, types []string) bool {
	base := BaseMIME(contentType)
	return base != "" && slices.Contains(types, base)
}

// Extension returns the lower-cased extension of filename, with the dot.
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// MatchExtension reports whether filename ends in one of exts.
func MatchExtension(filename string, exts []string) bool {
	ext := Extension(filename)
	return ext != "" && slices.Contains(exts, ext)
}

// textTypes covers extensions Go's mime table does not know.
var textTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".log":      "text/plain",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".java":     "text/x-java",
	".ts":       "text/typescript",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".sql":      "text/x-sql",
}

// DetectByName guesses a content type from the file extension, without
// parameters. Files with no extension are treated as plain text.
func DetectByName(filename string) string {
	ext := Extension(filename)
	if ext == "" {
		return "text/plain"
	}
	if t, ok := textTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return BaseMIME(t)
	}
	return "application/octet-stream"
}
