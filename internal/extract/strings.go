package extract

import (
	"os"
	"strings"
)

// minPrintableRun matches the strings(1) default of four characters.
const minPrintableRun = 4

// extractPrintableStrings is the last-resort capability for legacy binary
// formats (.doc, .ppt) without a structured parser: it emits every run of at
// least four printable characters, one per line, in byte-stream order.
// Necessarily lossy.
func extractPrintableStrings(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var run []byte
	flush := func() {
		if len(run) >= minPrintableRun {
			sb.Write(run)
			sb.WriteByte('\n')
		}
		run = run[:0]
	}

	for _, b := range data {
		if isPrintable(b) {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()

	return sb.String(), nil
}

// isPrintable reports whether b is printable ASCII or tab.
func isPrintable(b byte) bool {
	return b == '\t' || (b >= 0x20 && b < 0x7f)
}
