// Package jsast parses JavaScript and TypeScript with tree-sitter into the
// small source model style rules work on: object literals, their entries,
// entry keys, attached comments and exact byte spans.
package jsast

import (
	"path/filepath"
	"strings"

	"jsstyle/internal/errors"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New(errors.CGORequired, "parsing requires CGO (tree-sitter)", nil)

// Language represents a supported source language.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// LanguageFromExtension returns the Language for a file extension.
func LanguageFromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript, true
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	default:
		return "", false
	}
}

// LanguageFromPath returns the Language for path's extension.
func LanguageFromPath(path string) (Language, bool) {
	return LanguageFromExtension(filepath.Ext(path))
}

// Extensions lists every extension LanguageFromExtension accepts.
func Extensions() []string {
	return []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}
}
