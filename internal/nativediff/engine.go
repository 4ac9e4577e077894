// Package nativediff implements the comparison engine that runs fully
// in-process: hashing for identity, a line-based Jaccard score for rename
// detection, and unified hunks rendered from line diffs. All file content is
// read through the extraction registry, so binary document formats are
// compared as their extracted text.
package nativediff

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/harrison/dircomp/internal/compare"
	"github.com/harrison/dircomp/internal/extract"
	"github.com/harrison/dircomp/internal/logger"
)

// Engine compares two trees without external processes.
type Engine struct {
	// Registry extracts comparable text from binary document formats.
	Registry *extract.Registry

	// RenameThreshold is the minimum similarity score (0-100) for a
	// removed/added pair to be reported as a rename.
	RenameThreshold int

	// Log receives diagnostics. Nil means silent.
	Log logger.Logger
}

// NewEngine creates a native engine.
func NewEngine(registry *extract.Registry, renameThreshold int, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{Registry: registry, RenameThreshold: renameThreshold, Log: log}
}

// Name identifies the engine in diagnostics.
func (e *Engine) Name() string { return "native" }

// Status compares the two tree roots: byte-identity decides modification for
// paths present on both sides, and one-sided paths are paired into renames
// when their extracted content scores at or above the threshold.
func (e *Engine) Status(ctx context.Context, dirA, dirB string) ([]compare.StatusEntry, error) {
	listA, err := compare.ListTree(dirA)
	if err != nil {
		return nil, err
	}
	listB, err := compare.ListTree(dirB)
	if err != nil {
		return nil, err
	}

	var modified, onlyA, onlyB []string
	for path := range listA {
		if _, inB := listB[path]; !inB {
			onlyA = append(onlyA, path)
			continue
		}

		same, err := sameContent(filepath.Join(dirA, filepath.FromSlash(path)), filepath.Join(dirB, filepath.FromSlash(path)))
		if err != nil {
			return nil, err
		}
		if !same {
			modified = append(modified, path)
		}
	}
	for path := range listB {
		if _, inA := listA[path]; !inA {
			onlyB = append(onlyB, path)
		}
	}
	sort.Strings(modified)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	renames, removed, added, err := e.pairRenames(ctx, dirA, dirB, onlyA, onlyB)
	if err != nil {
		return nil, err
	}

	var entries []compare.StatusEntry
	entries = append(entries, renames...)
	for _, path := range modified {
		entries = append(entries, compare.StatusEntry{Kind: compare.KindModify, Path: path})
	}
	for _, path := range added {
		entries = append(entries, compare.StatusEntry{Kind: compare.KindAdd, Path: path})
	}
	for _, path := range removed {
		entries = append(entries, compare.StatusEntry{Kind: compare.KindDelete, Path: path})
	}

	return entries, nil
}

// pairRenames greedily matches one-sided paths into rename pairs by best
// similarity score. Unpaired leftovers stay removed or added. A pair scores
// 100 only when the raw bytes are identical.
func (e *Engine) pairRenames(ctx context.Context, dirA, dirB string, onlyA, onlyB []string) (renames []compare.StatusEntry, removed, added []string, err error) {
	consumedB := make(map[string]struct{})

	for _, a := range onlyA {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}

		absA := filepath.Join(dirA, filepath.FromSlash(a))
		textA, err := e.Registry.Text(absA)
		if err != nil {
			return nil, nil, nil, err
		}

		bestScore := -1
		bestPath := ""
		for _, b := range onlyB {
			if _, taken := consumedB[b]; taken {
				continue
			}

			absB := filepath.Join(dirB, filepath.FromSlash(b))
			score, err := e.pairScore(absA, absB, textA)
			if err != nil {
				return nil, nil, nil, err
			}
			if score > bestScore {
				bestScore = score
				bestPath = b
			}
		}

		if bestPath == "" || bestScore < e.RenameThreshold {
			removed = append(removed, a)
			continue
		}

		consumedB[bestPath] = struct{}{}
		renames = append(renames, compare.StatusEntry{
			Kind:    compare.KindRename,
			OldPath: a,
			NewPath: bestPath,
			Score:   bestScore,
		})
	}

	for _, b := range onlyB {
		if _, taken := consumedB[b]; !taken {
			added = append(added, b)
		}
	}

	return renames, removed, added, nil
}

// pairScore scores one candidate rename pair: 100 for identical bytes,
// otherwise the extracted-content similarity capped at 99.
func (e *Engine) pairScore(absA, absB, textA string) (int, error) {
	same, err := sameContent(absA, absB)
	if err != nil {
		return 0, err
	}
	if same {
		return compare.RenameScoreIdentical, nil
	}

	textB, err := e.Registry.Text(absB)
	if err != nil {
		return 0, err
	}

	score := similarityScore(textA, textB)
	if score > scoreIdenticalCap {
		score = scoreIdenticalCap
	}
	return score, nil
}

// Hunk renders a unified hunk for one absolute path pair, reading both sides
// through the extraction registry. os.DevNull represents an absent side.
func (e *Engine) Hunk(ctx context.Context, oldPath, newPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	oldText, err := e.Registry.Text(oldPath)
	if err != nil {
		return "", err
	}
	newText, err := e.Registry.Text(newPath)
	if err != nil {
		return "", err
	}

	return renderUnified(oldText, newText, hunkLabel(oldPath), hunkLabel(newPath)), nil
}

// hunkLabel names one side of a hunk header.
func hunkLabel(path string) string {
	if path == os.DevNull {
		return os.DevNull
	}
	return filepath.ToSlash(path)
}

// sameContent reports whether two files have identical raw bytes, comparing
// SHA-256 digests.
func sameContent(pathA, pathB string) (bool, error) {
	hashA, err := fileSHA256(pathA)
	if err != nil {
		return false, err
	}
	hashB, err := fileSHA256(pathB)
	if err != nil {
		return false, err
	}
	return hashA == hashB, nil
}

// fileSHA256 returns the hex SHA-256 digest of a file's content.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
