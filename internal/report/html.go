package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/harrison/dircomp/internal/compare"
)

// WriteHTML renders the grouped report as an HTML document. The report is
// first laid out as markdown (the text report's headers are already markdown
// headings; hunks become fenced code blocks), then converted with goldmark.
func WriteHTML(w io.Writer, records []compare.Record, opts Options) error {
	var md strings.Builder
	grouped := Group(records)

	for _, status := range compare.StatusOrder {
		group := grouped[status]
		if len(group) == 0 {
			continue
		}
		if status == compare.StatusUnchanged && !opts.ShowUnchanged {
			continue
		}

		fmt.Fprintf(&md, "## %s\n\n", status)
		for _, rec := range group {
			fmt.Fprintf(&md, "`%s`\n\n", line(rec))
			if rec.Diff == "" {
				continue
			}
			fmt.Fprintf(&md, "```diff\n%s\n```\n\n", strings.TrimSuffix(rec.Diff, "\n"))
		}
	}

	return goldmark.New().Convert([]byte(md.String()), w)
}
