// Package treewalk locates marker files in a directory tree.
package treewalk

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when the search root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Find lazily yields paths of files named name anywhere under root,
// depth-first. Once a directory contains a match, its subdirectories are not
// searched: a bundle's marker file shadows any nested bundles below it.
// The sequence is single-pass; iteration stops on the first error yielded.
func Find(root, name string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			yield("", fmt.Errorf("%w: %s", ErrNotDirectory, root))
			return
		}
		walk(root, name, yield)
	}
}

func walk(dir, name string, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return yield("", fmt.Errorf("read dir: %w", err))
	}

	for _, e := range entries {
		if !e.IsDir() && e.Name() == name {
			return yield(filepath.Join(dir, name), nil)
		}
	}
	for _, e := range entries {
		if e.IsDir() {
			if !walk(filepath.Join(dir, e.Name()), name, yield) {
				return false
			}
		}
	}
	return true
}
