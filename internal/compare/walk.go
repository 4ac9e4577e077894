package compare

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// ListTree enumerates every regular file under root recursively, returning
// slash-separated paths relative to root. Unlike the diff mechanism's status
// report, this listing is complete: it is the source of truth for computing
// the unchanged set. Any filesystem error is fatal for the tree, since an
// incomplete listing would silently under-report.
func ListTree(root string) (map[string]struct{}, error) {
	files := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}

		files[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", root, err)
	}

	return files, nil
}
