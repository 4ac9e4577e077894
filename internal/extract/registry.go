// Package extract turns binary document formats into best-effort text so a
// text-only diff mechanism can compare them.
//
// Extraction is never authoritative: a capability that fails for any reason
// (corrupt file, unsupported sub-format) degrades to empty output, and
// unknown extensions fall back to a lenient raw-bytes read. No failure
// propagates past the package boundary except the inability to read the file
// at all.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/dircomp/internal/logger"
)

// Capability maps a file path to its best-effort textual content.
type Capability func(path string) (string, error)

// Registry holds the extension-to-capability mapping. It is immutable after
// construction and safe for concurrent lookups.
type Registry struct {
	rules map[string]Capability
	log   logger.Logger
}

// NewRegistry builds a registry with the built-in office and PDF formats
// registered. extraText lists additional extensions to treat as plain text
// (routed through the lenient raw read).
func NewRegistry(log logger.Logger, extraText ...string) *Registry {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	r := &Registry{
		rules: make(map[string]Capability),
		log:   log,
	}

	r.register(".docx", extractDocx)
	r.register(".doc", extractPrintableStrings)
	r.register(".xlsx", extractXlsx)
	r.register(".xls", extractXls)
	r.register(".pptx", extractPptx)
	r.register(".ppt", extractPrintableStrings)
	r.register(".pdf", extractPDF)

	for _, ext := range extraText {
		r.register(ext, readLenient)
	}

	return r
}

func (r *Registry) register(ext string, fn Capability) {
	r.rules[strings.ToLower(ext)] = fn
}

// Extensions returns every registered extension, sorted, dot included.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.rules))
	for ext := range r.rules {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Handles reports whether a capability is registered for the path's extension.
func (r *Registry) Handles(path string) bool {
	_, ok := r.rules[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Text returns the best-effort textual content of the file at path.
//
// A registered capability that fails yields empty text, not an error; the
// consuming diff mechanism must never abort on one unparseable file. The
// returned error is non-nil only when the fallback raw read cannot open the
// file.
func (r *Registry) Text(path string) (string, error) {
	fn, ok := r.rules[strings.ToLower(filepath.Ext(path))]
	if !ok || path == os.DevNull {
		return readLenient(path)
	}

	text, err := invoke(fn, path)
	if err != nil {
		r.log.LogDebug(fmt.Sprintf("extraction failed for %s: %v", path, err))
		return "", nil
	}

	return text, nil
}

// invoke runs a capability, converting panics from format parsers on
// malformed input into ordinary failures.
func invoke(fn Capability, path string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("extractor panic: %v", rec)
		}
	}()

	return fn(path)
}

// readLenient reads raw bytes and decodes them leniently: invalid UTF-8
// sequences are dropped rather than surfaced.
func readLenient(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strings.ToValidUTF8(string(data), ""), nil
}
