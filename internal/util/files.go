package util

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// AcceptFunc decides whether a file is collected
type AcceptFunc func(path string) bool

// SkipDirFunc decides whether a directory is walked
type SkipDirFunc func(name string) bool

// ListFiles walks root in lexical order and returns accepted files, stopping after
// limit files (limit < 0 means no limit). Unreadable directories are reported through
// onError and skipped.
func ListFiles(root string, accept AcceptFunc, skipDir SkipDirFunc, limit int, onError func(path string, err error)) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if onError != nil {
				onError(path, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir != nil && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || (accept != nil && !accept(path)) {
			return nil
		}
		if limit >= 0 && len(files) >= limit {
			return fs.SkipAll
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// SkipNames returns a SkipDirFunc matching any of the given directory names
func SkipNames(names []string) SkipDirFunc {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool {
		return set[name]
	}
}
