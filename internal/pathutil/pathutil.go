// Package pathutil provides helpers for slash-delimited workspace paths.
//
// Workspace paths are always absolute ("/Users/someone/notebook") and never
// carry a trailing slash, except for the root itself.
package pathutil

import (
	"path"
	"strings"
)

// Separator delimits workspace path segments.
const Separator = "/"

// Join appends name to dir, producing a cleaned workspace path.
func Join(dir, name string) string {
	return Clean(path.Join(dir, name))
}

// Base returns the last segment of p, ignoring trailing slashes.
// Base of "" or "/" is "/".
func Base(p string) string {
	trimmed := strings.TrimRight(p, Separator)
	if trimmed == "" {
		return Separator
	}
	return path.Base(trimmed)
}

// Clean normalizes p and strips a trailing slash.
func Clean(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// IsAbs reports whether p is rooted at the workspace root.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, Separator)
}
