package nativediff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// lineOp is one line of a line-level diff.
type lineOp struct {
	op   diffmatchpatch.Operation
	text string
}

// renderUnified renders a unified-format hunk between two texts. Identical
// texts render as the empty string.
func renderUnified(oldText, newText, oldLabel, newLabel string) string {
	if oldText == newText {
		return ""
	}

	ops := lineDiff(oldText, newText)

	// Line numbers (1-based) at the start of each op.
	oldAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	oldAt[0], newAt[0] = 1, 1
	for i, o := range ops {
		oldAt[i+1] = oldAt[i]
		newAt[i+1] = newAt[i]
		if o.op != diffmatchpatch.DiffInsert {
			oldAt[i+1]++
		}
		if o.op != diffmatchpatch.DiffDelete {
			newAt[i+1]++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", oldLabel, newLabel)

	for _, h := range hunkRanges(ops) {
		var oldCount, newCount int
		for _, o := range ops[h[0]:h[1]] {
			if o.op != diffmatchpatch.DiffInsert {
				oldCount++
			}
			if o.op != diffmatchpatch.DiffDelete {
				newCount++
			}
		}

		fmt.Fprintf(&sb, "@@ -%s +%s @@\n",
			hunkRange(oldAt[h[0]], oldCount), hunkRange(newAt[h[0]], newCount))

		for _, o := range ops[h[0]:h[1]] {
			switch o.op {
			case diffmatchpatch.DiffDelete:
				sb.WriteString("-")
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(o.text)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// hunkRange formats one side of a @@ header, collapsing single-line ranges.
func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	if count == 0 {
		// Unified convention: a zero-length range is anchored before start.
		return fmt.Sprintf("%d,0", start-1)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// hunkRanges returns [start,end) op index ranges, one per hunk: changed
// regions expanded by context lines and merged when their contexts touch.
func hunkRanges(ops []lineOp) [][2]int {
	var ranges [][2]int

	for i := 0; i < len(ops); i++ {
		if ops[i].op == diffmatchpatch.DiffEqual {
			continue
		}

		start := max(0, i-contextLines)
		end := i + 1
		// Extend through subsequent changes whose context would overlap.
		for j := i + 1; j < len(ops); j++ {
			if ops[j].op != diffmatchpatch.DiffEqual {
				end = j + 1
				continue
			}
			if j-end >= 2*contextLines {
				break
			}
		}
		end = min(len(ops), end+contextLines)

		if len(ranges) > 0 && start <= ranges[len(ranges)-1][1] {
			ranges[len(ranges)-1][1] = end
		} else {
			ranges = append(ranges, [2]int{start, end})
		}

		i = end - 1
	}

	return ranges
}

// lineDiff computes a line-level diff using the rune-encoded line mapping, so
// the quadratic core runs over lines instead of bytes.
func lineDiff(oldText, newText string) []lineOp {
	dmp := diffmatchpatch.New()

	src, dst, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(src, dst, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var ops []lineOp
	for _, d := range diffs {
		chunk := strings.TrimSuffix(d.Text, "\n")
		if chunk == "" && d.Text != "\n" {
			continue
		}
		for _, line := range strings.Split(chunk, "\n") {
			ops = append(ops, lineOp{op: d.Type, text: line})
		}
	}

	return ops
}
