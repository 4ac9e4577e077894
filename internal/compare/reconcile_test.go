package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeEngine serves canned status entries and per-pair hunks.
type fakeEngine struct {
	entries   []StatusEntry
	hunks     map[string]string // "old|new" -> diff
	hunkErr   error
	hunkDelay time.Duration
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Status(ctx context.Context, dirA, dirB string) ([]StatusEntry, error) {
	return f.entries, nil
}

func (f *fakeEngine) Hunk(ctx context.Context, oldPath, newPath string) (string, error) {
	if f.hunkDelay > 0 {
		select {
		case <-time.After(f.hunkDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.hunkErr != nil {
		return "", f.hunkErr
	}
	return f.hunks[oldPath+"|"+newPath], nil
}

// writeTree creates the given relative files under a fresh temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
	return root
}

// byPath indexes records by their identifying path(s).
func byPath(records []Record) map[string]Record {
	m := make(map[string]Record)
	for _, rec := range records {
		if rec.Path != "" {
			m[rec.Path] = rec
		} else {
			m[rec.Old+" -> "+rec.New] = rec
		}
	}
	return m
}

// TestRunCompleteness verifies every path across both trees lands in exactly
// one record, with unchanged derived by set subtraction.
func TestRunCompleteness(t *testing.T) {
	dirA := writeTree(t, map[string]string{
		"same.txt":     "identical",
		"changed.txt":  "old",
		"removed.txt":  "bye",
		"old-name.txt": "payload",
		"sub/also.txt": "stable",
	})
	dirB := writeTree(t, map[string]string{
		"same.txt":     "identical",
		"changed.txt":  "new",
		"added.txt":    "hi",
		"new-name.txt": "payload",
		"sub/also.txt": "stable",
	})

	engine := &fakeEngine{
		entries: []StatusEntry{
			{Kind: KindRename, OldPath: "old-name.txt", NewPath: "new-name.txt", Score: 100},
			{Kind: KindModify, Path: "changed.txt"},
			{Kind: KindAdd, Path: "added.txt"},
			{Kind: KindDelete, Path: "removed.txt"},
		},
		hunks: map[string]string{},
	}

	r := &Reconciler{Engine: engine}
	records, err := r.Run(context.Background(), dirA, dirB)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(records) != 6 {
		t.Fatalf("Run() returned %d records, want 6: %+v", len(records), records)
	}

	recs := byPath(records)
	wantStatus := map[string]Status{
		"old-name.txt -> new-name.txt": StatusRenamed,
		"changed.txt":                  StatusModified,
		"added.txt":                    StatusAdded,
		"removed.txt":                  StatusRemoved,
		"same.txt":                     StatusUnchanged,
		"sub/also.txt":                 StatusUnchanged,
	}
	for key, want := range wantStatus {
		rec, ok := recs[key]
		if !ok {
			t.Errorf("missing record for %q", key)
			continue
		}
		if rec.Status != want {
			t.Errorf("record %q status = %q, want %q", key, rec.Status, want)
		}
	}
}

// TestRunRenameConsumesBothPaths verifies neither side of a rename pair also
// shows up as unchanged, even when a same-named file exists in both trees.
func TestRunRenameConsumesBothPaths(t *testing.T) {
	dirA := writeTree(t, map[string]string{"a.txt": "x", "b.txt": "same"})
	dirB := writeTree(t, map[string]string{"b.txt": "x modified"})

	// The engine pairs a.txt with b.txt as a scored rename; the b.txt present
	// in both listings is consumed by the rename and must not double-report.
	engine := &fakeEngine{
		entries: []StatusEntry{
			{Kind: KindRename, OldPath: "a.txt", NewPath: "b.txt", Score: 62},
		},
		hunks: map[string]string{},
	}

	r := &Reconciler{Engine: engine}
	records, err := r.Run(context.Background(), dirA, dirB)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Run() returned %d records, want 1: %+v", len(records), records)
	}
	if records[0].Status != StatusRenamedAndModified {
		t.Errorf("status = %q, want %q for score below 100", records[0].Status, StatusRenamedAndModified)
	}
}

// TestRunScoreBoundary verifies the 100 vs <100 rename boundary.
func TestRunScoreBoundary(t *testing.T) {
	for _, tt := range []struct {
		score int
		want  Status
	}{
		{100, StatusRenamed},
		{99, StatusRenamedAndModified},
		{50, StatusRenamedAndModified},
	} {
		dirA := writeTree(t, map[string]string{"old.txt": "x"})
		dirB := writeTree(t, map[string]string{"new.txt": "x"})
		engine := &fakeEngine{
			entries: []StatusEntry{{Kind: KindRename, OldPath: "old.txt", NewPath: "new.txt", Score: tt.score}},
			hunks:   map[string]string{},
		}

		records, err := (&Reconciler{Engine: engine}).Run(context.Background(), dirA, dirB)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if records[0].Status != tt.want {
			t.Errorf("score %d: status = %q, want %q", tt.score, records[0].Status, tt.want)
		}
	}
}

// TestRunHunkRouting verifies the devnull sentinel is used for one-sided
// changes and real path pairs otherwise.
func TestRunHunkRouting(t *testing.T) {
	dirA := writeTree(t, map[string]string{"mod.txt": "old", "gone.txt": "x"})
	dirB := writeTree(t, map[string]string{"mod.txt": "new", "fresh.txt": "y"})

	absA, _ := filepath.Abs(dirA)
	absB, _ := filepath.Abs(dirB)

	engine := &fakeEngine{
		entries: []StatusEntry{
			{Kind: KindModify, Path: "mod.txt"},
			{Kind: KindDelete, Path: "gone.txt"},
			{Kind: KindAdd, Path: "fresh.txt"},
		},
		hunks: map[string]string{
			filepath.Join(absA, "mod.txt") + "|" + filepath.Join(absB, "mod.txt"): "mod-hunk",
			filepath.Join(absA, "gone.txt") + "|" + os.DevNull:                    "del-hunk",
			os.DevNull + "|" + filepath.Join(absB, "fresh.txt"):                   "add-hunk",
		},
	}

	records, err := (&Reconciler{Engine: engine}).Run(context.Background(), dirA, dirB)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	recs := byPath(records)
	if recs["mod.txt"].Diff != "mod-hunk" {
		t.Errorf("mod.txt diff = %q, want %q", recs["mod.txt"].Diff, "mod-hunk")
	}
	if recs["gone.txt"].Diff != "del-hunk" {
		t.Errorf("gone.txt diff = %q, want %q", recs["gone.txt"].Diff, "del-hunk")
	}
	if recs["fresh.txt"].Diff != "add-hunk" {
		t.Errorf("fresh.txt diff = %q, want %q", recs["fresh.txt"].Diff, "add-hunk")
	}
}

// TestRunUnchangedHasNoDiff verifies unchanged records carry no hunk and the
// engine is never asked for one.
func TestRunUnchangedHasNoDiff(t *testing.T) {
	dirA := writeTree(t, map[string]string{"same.txt": "x"})
	dirB := writeTree(t, map[string]string{"same.txt": "x"})

	engine := &fakeEngine{hunkErr: errors.New("hunk must not be requested")}
	records, err := (&Reconciler{Engine: engine}).Run(context.Background(), dirA, dirB)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(records) != 1 || records[0].Status != StatusUnchanged || records[0].Diff != "" {
		t.Errorf("records = %+v, want single unchanged record without diff", records)
	}
}

// TestRunHunkErrorIsFatal verifies a failed (non-timeout) hunk retrieval
// aborts the run.
func TestRunHunkErrorIsFatal(t *testing.T) {
	dirA := writeTree(t, map[string]string{"mod.txt": "old"})
	dirB := writeTree(t, map[string]string{"mod.txt": "new"})

	engine := &fakeEngine{
		entries: []StatusEntry{{Kind: KindModify, Path: "mod.txt"}},
		hunkErr: errors.New("git exploded"),
	}

	if _, err := (&Reconciler{Engine: engine}).Run(context.Background(), dirA, dirB); err == nil {
		t.Error("Run() error = nil, want fatal hunk error")
	}
}

// TestRunHunkTimeoutDegrades verifies a timed-out hunk degrades to the
// placeholder instead of failing the run.
func TestRunHunkTimeoutDegrades(t *testing.T) {
	dirA := writeTree(t, map[string]string{"mod.txt": "old"})
	dirB := writeTree(t, map[string]string{"mod.txt": "new"})

	engine := &fakeEngine{
		entries:   []StatusEntry{{Kind: KindModify, Path: "mod.txt"}},
		hunkDelay: 200 * time.Millisecond,
	}

	r := &Reconciler{Engine: engine, HunkTimeout: 10 * time.Millisecond}
	records, err := r.Run(context.Background(), dirA, dirB)
	if err != nil {
		t.Fatalf("Run() error = %v, want degraded success", err)
	}
	if records[0].Diff != DiffUnavailable {
		t.Errorf("diff = %q, want %q", records[0].Diff, DiffUnavailable)
	}
}

// TestRunParallelOrderingDeterministic verifies record order is independent
// of worker count.
func TestRunParallelOrderingDeterministic(t *testing.T) {
	filesA := make(map[string]string)
	filesB := make(map[string]string)
	var entries []StatusEntry
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("f%02d.txt", i)
		filesA[name] = "old"
		filesB[name] = "new"
		entries = append(entries, StatusEntry{Kind: KindModify, Path: name})
	}

	dirA := writeTree(t, filesA)
	dirB := writeTree(t, filesB)

	run := func(jobs int) []Record {
		engine := &fakeEngine{entries: entries, hunks: map[string]string{}}
		records, err := (&Reconciler{Engine: engine, Jobs: jobs}).Run(context.Background(), dirA, dirB)
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		return records
	}

	sequential := run(1)
	parallel := run(8)

	if len(sequential) != len(parallel) {
		t.Fatalf("record count differs: %d vs %d", len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i].Path != parallel[i].Path {
			t.Errorf("record %d path = %q sequential vs %q parallel", i, sequential[i].Path, parallel[i].Path)
		}
	}
}
