package report

import (
	"encoding/json"
	"io"

	"github.com/harrison/dircomp/internal/compare"
)

// jsonReport fixes the six status keys in priority order. encoding/json
// preserves struct field order, which is how the ordering guarantee is kept.
type jsonReport struct {
	Added              []compare.Record `json:"Added"`
	Removed            []compare.Record `json:"Removed"`
	Renamed            []compare.Record `json:"Renamed"`
	Modified           []compare.Record `json:"Modified"`
	RenamedAndModified []compare.Record `json:"RenamedAndModified"`
	Unchanged          []compare.Record `json:"Unchanged"`
}

// WriteJSON renders the records as a JSON object keyed by the six status
// names in fixed order. Every key is present, as an array (possibly empty),
// preserving per-group insertion order.
func WriteJSON(w io.Writer, records []compare.Record) error {
	grouped := Group(records)

	doc := jsonReport{
		Added:              grouped[compare.StatusAdded],
		Removed:            grouped[compare.StatusRemoved],
		Renamed:            grouped[compare.StatusRenamed],
		Modified:           grouped[compare.StatusModified],
		RenamedAndModified: grouped[compare.StatusRenamedAndModified],
		Unchanged:          grouped[compare.StatusUnchanged],
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
