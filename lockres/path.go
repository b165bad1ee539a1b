package lockres

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// Normalize returns the absolute, cleaned form of path. Trailing separators
// are removed unless the path is a root.
func Normalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// Key returns a comparison key for path. Two paths that differ only by case
// or by separator style produce the same key.
//
// The path should already be normalized.
func Key(path string) string {
	// A Caser is stateful, so a fresh one is used for each call.
	return cases.Fold().String(filepath.ToSlash(path))
}

// Contains reports whether path is equal to target or lies beneath it.
func Contains(target, path string) bool {
	return containsKey(Key(target), Key(path))
}

func containsKey(target, path string) bool {
	if path == target {
		return true
	}
	if strings.HasSuffix(target, "/") {
		// Roots such as "/" and "c:/" already end with a separator
		return strings.HasPrefix(path, target)
	}
	return strings.HasPrefix(path, target+"/")
}
