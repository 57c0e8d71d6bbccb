package rope

import "strings"

// Summary is the contract for metadata cached on every node.
// Combine must be associative, and the zero value must be its identity.
// Commutativity is not required. Nodes aggregate their children's
// TextSummary through Fold; new metrics are added as TextSummary fields.
type Summary[S any] interface {
	Combine(other S) S
}

// Fold combines summaries left to right starting from zero.
func Fold[S Summary[S]](zero S, summaries ...S) S {
	acc := zero
	for _, s := range summaries {
		acc = acc.Combine(s)
	}
	return acc
}

// TextSummary holds aggregated metrics for a text span.
// The zero value is the identity and describes empty text.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Lines is the number of '\n' bytes. Carriage returns are not counted,
	// so "\r\n" counts once and a lone "\r" not at all.
	Lines int
}

// Combine returns the summary of s's text followed by other's text.
func (s TextSummary) Combine(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
	}
}

// IsZero returns true if this is the identity summary.
func (s TextSummary) IsZero() bool {
	return s == TextSummary{}
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	return TextSummary{
		Bytes: len(s),
		Lines: strings.Count(s, "\n"),
	}
}

// Point is a line/column position. Both are 0-indexed and Column is
// measured in bytes from the start of the line.
type Point struct {
	Line   int
	Column int
}

// nthNewline returns the byte position of the nth newline (1-indexed) in s,
// or -1 if s has fewer than n newlines.
func nthNewline(s string, n int) int {
	pos := -1
	for ; n > 0; n-- {
		i := strings.IndexByte(s[pos+1:], '\n')
		if i < 0 {
			return -1
		}
		pos += i + 1
	}
	return pos
}
