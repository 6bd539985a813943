package rewrite

import (
	"github.com/toyz/ngmigrate/internal/tsast"
)

// Span is a half-open byte range.
type Span struct {
	Start int
	End   int
}

// NodeSpan returns the span covered by n.
func NodeSpan(n *tsast.Node) Span {
	return Span{Start: n.Start, End: n.End}
}

// ListRemovals returns the ranges to delete so that the items flagged in
// remove disappear from a comma separated list while the remaining items stay
// correctly punctuated. A run of removed items followed by a kept item is
// removed up to the start of that item; a run reaching the end of the list is
// removed from the end of the preceding kept item.
func ListRemovals(text string, items []Span, remove []bool) []Span {
	n := len(items)
	all := n > 0
	for i := 0; i < n; i++ {
		if !remove[i] {
			all = false
			break
		}
	}
	if all {
		end := items[n-1].End
		if next := skipSpace(text, end); next < len(text) && text[next] == ',' {
			end = next + 1
		}
		return []Span{{Start: items[0].Start, End: end}}
	}

	var spans []Span
	for i := 0; i < n; {
		if !remove[i] {
			i++
			continue
		}
		j := i
		for j+1 < n && remove[j+1] {
			j++
		}
		if j+1 < n {
			spans = append(spans, Span{Start: items[i].Start, End: items[j+1].Start})
		} else {
			spans = append(spans, Span{Start: items[i-1].End, End: items[j].End})
		}
		i = j + 1
	}
	return spans
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// lineIndent returns the whitespace between the start of n's line and n, or
// the empty string when other text precedes n on that line.
func lineIndent(n *tsast.Node) string {
	text := n.File.Text
	i := n.Start
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	if i > 0 && text[i-1] != '\n' {
		return ""
	}
	return text[i:n.Start]
}

// statementSpan returns the span of a top-level statement including the line
// break that follows it.
func statementSpan(n *tsast.Node) Span {
	text := n.File.Text
	end := n.End
	if end < len(text) && text[end] == '\r' {
		end++
	}
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return Span{Start: n.Start, End: end}
}
