// Package compare classifies every path across two directory trees.
//
// The reconciliation engine turns a partial status report (which only lists
// files that differ) plus two full tree listings into a complete, gap-free
// set of change records: every relative path present in either tree appears
// in exactly one record.
package compare

// Status classifies one file across the two trees.
type Status string

// The six statuses, mutually exclusive and exhaustive.
const (
	StatusAdded              Status = "Added"
	StatusRemoved            Status = "Removed"
	StatusRenamed            Status = "Renamed"
	StatusModified           Status = "Modified"
	StatusRenamedAndModified Status = "RenamedAndModified"
	StatusUnchanged          Status = "Unchanged"
)

// StatusOrder is the fixed priority order used when grouping records for
// presentation.
var StatusOrder = []Status{
	StatusAdded,
	StatusRemoved,
	StatusRenamed,
	StatusModified,
	StatusRenamedAndModified,
	StatusUnchanged,
}

// Record is the unit of output: one classified path (or rename pair) with an
// optional content hunk. Paths are always relative to their own tree root.
type Record struct {
	Status Status `json:"status"`

	// Path is set for Added, Removed, Modified and Unchanged records.
	Path string `json:"path,omitempty"`

	// Old and New are set for Renamed and RenamedAndModified records.
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`

	// Diff holds the textual hunk. Empty for Unchanged records and for pure
	// renames, whose content did not change.
	Diff string `json:"diff,omitempty"`
}

// EntryKind is the raw change kind reported by an engine's status phase.
type EntryKind int

// Status phase entry kinds.
const (
	KindAdd EntryKind = iota
	KindDelete
	KindModify
	KindRename
)

// StatusEntry is one line of an engine's status report. Paths are relative
// to their respective tree roots.
type StatusEntry struct {
	Kind EntryKind

	// Path is set for add, delete and modify entries: relative to tree B for
	// adds, tree A otherwise.
	Path string

	// OldPath and NewPath are set for renames, relative to trees A and B.
	// Score is the 0-100 similarity: 100 means a pure rename.
	OldPath string
	NewPath string
	Score   int
}

// RenameScoreIdentical is the similarity score of a content-identical rename.
const RenameScoreIdentical = 100

// classify maps a status entry to a record per the decision table: renames
// split on the similarity score, everything else maps one to one.
func classify(e StatusEntry) Record {
	switch e.Kind {
	case KindRename:
		status := StatusRenamedAndModified
		if e.Score == RenameScoreIdentical {
			status = StatusRenamed
		}
		return Record{Status: status, Old: e.OldPath, New: e.NewPath}
	case KindModify:
		return Record{Status: StatusModified, Path: e.Path}
	case KindAdd:
		return Record{Status: StatusAdded, Path: e.Path}
	default:
		return Record{Status: StatusRemoved, Path: e.Path}
	}
}
