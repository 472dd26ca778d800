// Package paths finds the source files a run lints and normalizes the paths
// it reports.
package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SkippedDirs are never descended into during discovery. Directories whose
// name starts with a dot are skipped as well.
var SkippedDirs = map[string]bool{
	"bower_components": true,
	"node_modules":     true,
	"vendor":           true,
}

// Options controls which files Discover returns.
type Options struct {
	// Extensions lists the accepted file extensions, e.g. ".js".
	Extensions []string
	// Include patterns restrict walked files; empty accepts all.
	Include []string
	// Exclude patterns drop walked files and directories.
	Exclude []string
}

// Discover expands args into a sorted, duplicate-free list of files. Files
// named directly are returned as given; directories are walked and filtered
// by opts.
func Discover(args []string, opts Options) ([]string, error) {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = true
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(arg, path)
			if relErr != nil {
				return relErr
			}
			rel = NormalizePath(rel)

			if d.IsDir() {
				if path != arg && (SkippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") || MatchAny(opts.Exclude, rel)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !exts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			if MatchAny(opts.Exclude, rel) {
				return nil
			}
			if len(opts.Include) > 0 && !MatchAny(opts.Include, rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// MatchAny reports whether any pattern matches the slash-separated relative
// path rel.
func MatchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if Match(p, rel) {
			return true
		}
	}
	return false
}

// Match reports whether pattern matches rel. A pattern without a slash
// matches any single path segment ("*.min.js", "dist"); "dir/**" matches
// everything under dir; a leading "**/" matches at any depth; other patterns
// match the whole path with filepath.Match semantics.
func Match(pattern, rel string) bool {
	pattern = NormalizePath(pattern)
	rel = NormalizePath(rel)

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		segs := strings.Split(rel, "/")
		for i := 1; i <= len(segs); i++ {
			if Match(prefix, strings.Join(segs[:i], "/")) {
				return true
			}
		}
		return false
	}

	if !strings.Contains(pattern, "/") {
		for _, seg := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
		return false
	}

	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		return matchSuffixes(rest, rel)
	}
	ok, _ := filepath.Match(pattern, rel)
	return ok
}

// matchSuffixes tries pattern against rel and every trailing run of its
// segments.
func matchSuffixes(pattern, rel string) bool {
	for {
		if Match(pattern, rel) {
			return true
		}
		i := strings.IndexByte(rel, '/')
		if i < 0 {
			return false
		}
		rel = rel[i+1:]
	}
}

// CanonicalizePath converts an absolute path to a root-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to root
// - Converts backslashes to forward slashes
func CanonicalizePath(absolutePath string, root string) (string, error) {
	// Resolve symlinks
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// DisplayPath returns path relative to root when it lies inside root, and
// path unchanged otherwise. Reports use it so output does not depend on how
// the files were named on the command line.
func DisplayPath(path, root string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return NormalizePath(path)
	}
	if rel, err := filepath.Rel(root, abs); err == nil && isInside(rel) {
		return NormalizePath(rel)
	}
	if rel, err := CanonicalizePath(abs, root); err == nil && isInside(rel) {
		return rel
	}
	return NormalizePath(path)
}

func isInside(rel string) bool {
	rel = NormalizePath(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}
