package index

import (
	"path/filepath"
	"strings"
)

// shouldExclude reports whether relativePath matches any of the given
// glob exclude_patterns. Directory patterns (trailing "/") match the
// directory and everything beneath it. "**" segments match any number
// of path components.
func shouldExclude(relativePath string, patterns []string) bool {
	relativePath = filepath.ToSlash(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		pattern = filepath.ToSlash(pattern)
		isDirPattern := strings.HasSuffix(pattern, "/")
		trimmed := strings.TrimSuffix(pattern, "/")

		if isDirPattern {
			if relativePath == trimmed || strings.HasPrefix(relativePath, trimmed+"/") {
				return true
			}
			continue
		}

		if matchGlobPath(pattern, relativePath) {
			return true
		}

		// Basename-only match, e.g. "*.tmp" excludes matching files at
		// any depth.
		if !strings.Contains(pattern, "/") {
			if ok, _ := filepath.Match(pattern, filepath.Base(relativePath)); ok {
				return true
			}
		}
	}

	return false
}

// matchGlobPath matches a possibly "**"-containing glob against a
// slash-separated relative path.
func matchGlobPath(pattern, path string) bool {
	if !strings.Contains(pattern, "**") {
		ok, _ := filepath.Match(pattern, path)
		return ok
	}

	segments := strings.Split(pattern, "**")
	if len(segments) != 2 {
		// Multiple "**" occurrences: fall back to a prefix/suffix check.
		prefix := strings.TrimSuffix(segments[0], "/")
		suffix := strings.TrimPrefix(segments[len(segments)-1], "/")
		return strings.HasPrefix(path, prefix) && strings.HasSuffix(path, suffix)
	}

	prefix := strings.TrimSuffix(segments[0], "/")
	suffix := strings.TrimPrefix(segments[1], "/")

	if prefix != "" && !strings.HasPrefix(path, prefix) {
		return false
	}
	if suffix != "" && !strings.HasSuffix(path, suffix) {
		return false
	}
	return true
}
