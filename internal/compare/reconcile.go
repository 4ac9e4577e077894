package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/harrison/dircomp/internal/logger"
)

// Engine is the tree-comparison mechanism behind the reconciliation engine.
//
// Status reports only files that differ between the two roots; it never
// confirms identity. Hunk renders the content difference of one path pair,
// where an absent side is represented by os.DevNull so one-sided changes go
// through the same two-sided codepath.
type Engine interface {
	// Name identifies the engine in diagnostics.
	Name() string

	// Status compares two tree roots and returns one entry per differing
	// file, with rename detection applied.
	Status(ctx context.Context, dirA, dirB string) ([]StatusEntry, error)

	// Hunk renders a human-readable content hunk for one absolute path pair.
	Hunk(ctx context.Context, oldPath, newPath string) (string, error)
}

// DiffUnavailable is the hunk placeholder for a retrieval that timed out.
const DiffUnavailable = "(diff unavailable)"

// Reconciler produces the complete classified set of change records for two
// tree roots. Hunk retrieval can fan out across Jobs workers; output ordering
// stays deterministic because results are written by record index.
type Reconciler struct {
	Engine Engine
	Log    logger.Logger

	// Jobs bounds concurrent hunk retrievals. Values below 1 mean sequential.
	Jobs int

	// HunkTimeout bounds each hunk retrieval. On expiry the record's hunk
	// degrades to DiffUnavailable instead of failing the run. 0 disables it.
	HunkTimeout time.Duration
}

// Run reconciles the two trees into one ordered, gap-free record list.
//
// The status report covers only differences, so the unchanged set is derived
// independently: every file present in both full listings that no status
// entry touched. Records arrive in discovery order; unchanged records are
// appended sorted by path.
func (r *Reconciler) Run(ctx context.Context, dirA, dirB string) ([]Record, error) {
	log := r.Log
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	absA, err := filepath.Abs(dirA)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dirA, err)
	}
	absB, err := filepath.Abs(dirB)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dirB, err)
	}

	log.LogDebug(fmt.Sprintf("comparing %s and %s using %s engine", absA, absB, r.Engine.Name()))

	entries, err := r.Engine.Status(ctx, absA, absB)
	if err != nil {
		return nil, fmt.Errorf("status phase failed: %w", err)
	}

	records := make([]Record, 0, len(entries))
	touched := make(map[string]struct{})
	for _, e := range entries {
		rec := classify(e)
		if rec.Status == StatusRenamed || rec.Status == StatusRenamedAndModified {
			touched[rec.Old] = struct{}{}
			touched[rec.New] = struct{}{}
		} else {
			touched[rec.Path] = struct{}{}
		}
		records = append(records, rec)
	}

	listA, err := ListTree(absA)
	if err != nil {
		return nil, err
	}
	listB, err := ListTree(absB)
	if err != nil {
		return nil, err
	}

	var unchanged []string
	for path := range listA {
		if _, inB := listB[path]; !inB {
			continue
		}
		if _, seen := touched[path]; seen {
			continue
		}
		unchanged = append(unchanged, path)
	}
	sort.Strings(unchanged)

	for _, path := range unchanged {
		records = append(records, Record{Status: StatusUnchanged, Path: path})
	}

	log.LogDebug(fmt.Sprintf("classified %d records (%d unchanged)", len(records), len(unchanged)))

	if err := r.fetchHunks(ctx, log, records, absA, absB); err != nil {
		return nil, err
	}

	return records, nil
}

// hunkPaths returns the absolute path pair for a record's hunk, substituting
// os.DevNull for the absent side of a one-sided change.
func hunkPaths(rec Record, absA, absB string) (string, string) {
	switch rec.Status {
	case StatusRenamed, StatusRenamedAndModified:
		return filepath.Join(absA, filepath.FromSlash(rec.Old)), filepath.Join(absB, filepath.FromSlash(rec.New))
	case StatusAdded:
		return os.DevNull, filepath.Join(absB, filepath.FromSlash(rec.Path))
	case StatusRemoved:
		return filepath.Join(absA, filepath.FromSlash(rec.Path)), os.DevNull
	default: // Modified.
		return filepath.Join(absA, filepath.FromSlash(rec.Path)), filepath.Join(absB, filepath.FromSlash(rec.Path))
	}
}

// fetchHunks retrieves content hunks for every non-Unchanged record. Each
// retrieval is independent, so they fan out across a bounded worker pool
// writing results by record index. A timed-out retrieval degrades that one
// hunk; any other failure aborts the whole run.
func (r *Reconciler) fetchHunks(ctx context.Context, log logger.Logger, records []Record, absA, absB string) error {
	var pending []int
	for i, rec := range records {
		if rec.Status != StatusUnchanged {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	workers := r.Jobs
	if workers < 1 {
		workers = 1
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r.fetchOne(runCtx, log, records, i, absA, absB, fail)
			}
		}()
	}

	for _, i := range pending {
		select {
		case jobs <- i:
		case <-runCtx.Done():
		}
		if runCtx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// fetchOne retrieves a single record's hunk, applying the per-retrieval
// timeout and the degrade-on-expiry policy.
func (r *Reconciler) fetchOne(ctx context.Context, log logger.Logger, records []Record, i int, absA, absB string, fail func(error)) {
	hctx := ctx
	var cancel context.CancelFunc
	if r.HunkTimeout > 0 {
		hctx, cancel = context.WithTimeout(ctx, r.HunkTimeout)
		defer cancel()
	}

	oldPath, newPath := hunkPaths(records[i], absA, absB)
	diff, err := r.Engine.Hunk(hctx, oldPath, newPath)

	switch {
	case err == nil:
		records[i].Diff = diff
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		log.LogWarn(fmt.Sprintf("hunk retrieval for %s timed out after %v", describe(records[i]), r.HunkTimeout))
		records[i].Diff = DiffUnavailable
	case ctx.Err() != nil:
		// The run is already being torn down; keep the first error.
	default:
		fail(fmt.Errorf("hunk retrieval for %s failed: %w", describe(records[i]), err))
	}
}

// describe names a record for diagnostics.
func describe(rec Record) string {
	if rec.Path != "" {
		return rec.Path
	}
	return rec.Old + " -> " + rec.New
}
