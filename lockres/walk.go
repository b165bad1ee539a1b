package lockres

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultMaxFiles is the default limit on the number of files examined
// beneath a single directory target.
const DefaultMaxFiles = 4096

// expand returns the regular files at or beneath path, up to max entries.
// Entries that cannot be read are skipped. It reports whether the walk
// stopped early because max was reached.
func expand(ctx context.Context, path string, max int) (files []string, truncated bool, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	if !fi.IsDir() {
		return []string{path}, false, nil
	}
	if max <= 0 {
		max = DefaultMaxFiles
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(files) >= max {
			truncated = true
			return fs.SkipAll
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return files, truncated, nil
}
