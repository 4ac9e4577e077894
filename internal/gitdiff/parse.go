package gitdiff

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harrison/dircomp/internal/compare"
)

// parseStatus parses a --name-status report into status entries.
//
// git reports paths relative to whatever common ancestor it was invoked
// from, so every path is re-relativized against its own tree root: add
// entries against dirB, delete and modify entries against dirA, renames
// against both. A malformed line is a fatal parse error, never skipped —
// silently dropping one would break the completeness invariant.
func parseStatus(output, dirA, dirB string) ([]compare.StatusEntry, error) {
	var entries []compare.StatusEntry

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		code := parts[0]

		switch {
		case strings.HasPrefix(code, "R"):
			if len(parts) != 3 {
				return nil, fmt.Errorf("malformed rename line %q: want 3 fields, got %d", line, len(parts))
			}
			score, err := strconv.Atoi(code[1:])
			if err != nil {
				return nil, fmt.Errorf("malformed rename score in %q: %w", line, err)
			}
			old, err := relativize(parts[1], dirA)
			if err != nil {
				return nil, err
			}
			newPath, err := relativize(parts[2], dirB)
			if err != nil {
				return nil, err
			}
			entries = append(entries, compare.StatusEntry{
				Kind:    compare.KindRename,
				OldPath: old,
				NewPath: newPath,
				Score:   score,
			})

		case code == "M", code == "A", code == "D":
			if len(parts) != 2 {
				return nil, fmt.Errorf("malformed status line %q: want 2 fields, got %d", line, len(parts))
			}
			root := dirA
			kind := compare.KindModify
			switch code {
			case "A":
				// Added files are reported with their tree B path.
				root = dirB
				kind = compare.KindAdd
			case "D":
				kind = compare.KindDelete
			}
			path, err := relativize(parts[1], root)
			if err != nil {
				return nil, err
			}
			entries = append(entries, compare.StatusEntry{Kind: kind, Path: path})

		default:
			return nil, fmt.Errorf("unexpected status code %q in line %q", code, line)
		}
	}

	return entries, nil
}

// relativize re-expresses a reported path relative to its tree root.
func relativize(path, root string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %q against %q: %w", path, root, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("reported path %q escapes tree root %q", path, root)
	}
	return filepath.ToSlash(rel), nil
}
