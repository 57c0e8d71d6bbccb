package rope

// Fragment is an immutable contiguous span of text stored in leaves.
// Slicing shares the backing bytes of the original string.
type Fragment struct {
	text    string
	summary TextSummary
}

// NewFragment creates a fragment from a string.
// Computes summary metrics eagerly.
func NewFragment(s string) Fragment {
	return Fragment{
		text:    s,
		summary: ComputeSummary(s),
	}
}

// String returns the fragment's text.
func (f Fragment) String() string {
	return f.text
}

// Summary returns the fragment's precomputed metrics.
func (f Fragment) Summary() TextSummary {
	return f.summary
}

// Len returns the byte length of the fragment.
func (f Fragment) Len() int {
	return len(f.text)
}

// IsEmpty returns true if the fragment contains no text.
func (f Fragment) IsEmpty() bool {
	return len(f.text) == 0
}

// Slice returns the fragment covering [start, end).
func (f Fragment) Slice(start, end int) (Fragment, error) {
	if err := checkRange("fragment slice", start, end, len(f.text)); err != nil {
		return Fragment{}, err
	}
	if start == 0 && end == len(f.text) {
		return f, nil
	}
	return NewFragment(f.text[start:end]), nil
}

// SplitAt splits the fragment at byte offset i.
// Splitting at 0 yields an empty left half; at Len an empty right half.
func (f Fragment) SplitAt(i int) (Fragment, Fragment, error) {
	if err := checkOffset("fragment split", i, len(f.text)); err != nil {
		return Fragment{}, Fragment{}, err
	}
	left, right := f.split(i)
	return left, right, nil
}

// split is SplitAt without bounds checking.
func (f Fragment) split(i int) (Fragment, Fragment) {
	if i <= 0 {
		return Fragment{}, f
	}
	if i >= len(f.text) {
		return f, Fragment{}
	}
	left := NewFragment(f.text[:i])
	// The right half's metrics follow from the left's without rescanning.
	right := Fragment{
		text: f.text[i:],
		summary: TextSummary{
			Bytes: f.summary.Bytes - left.summary.Bytes,
			Lines: f.summary.Lines - left.summary.Lines,
		},
	}
	return left, right
}

// CharAt returns the byte at offset i.
func (f Fragment) CharAt(i int) (byte, error) {
	if err := checkIndex("fragment char", i, len(f.text)); err != nil {
		return 0, err
	}
	return f.text[i], nil
}

// appendFragment concatenates other onto f when the result stays within
// maxSize, reporting whether it did.
func (f Fragment) appendFragment(other Fragment, maxSize int) (Fragment, bool) {
	if other.IsEmpty() {
		return f, true
	}
	if f.IsEmpty() {
		return other, true
	}
	if f.Len()+other.Len() > maxSize {
		return Fragment{}, false
	}
	return Fragment{
		text:    f.text + other.text,
		summary: f.summary.Combine(other.summary),
	}, true
}

// coalesce merges adjacent fragments whose combined size fits in maxSize
// and drops empty fragments. Fragments are returned in order.
func coalesce(frags []Fragment, maxSize int) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if f.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 {
			if merged, ok := out[n-1].appendFragment(f, maxSize); ok {
				out[n-1] = merged
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// splitIntoFragments splits a string into fragments of at most maxSize bytes.
func splitIntoFragments(s string, maxSize int) []Fragment {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= maxSize {
		return []Fragment{NewFragment(s)}
	}

	target := maxSize * 3 / 4
	frags := make([]Fragment, 0, len(s)/target+1)
	remaining := s

	for len(remaining) > 0 {
		if len(remaining) <= maxSize {
			frags = append(frags, NewFragment(remaining))
			break
		}

		splitPoint := findBoundary(remaining, target, maxSize)
		frags = append(frags, NewFragment(remaining[:splitPoint]))
		remaining = remaining[splitPoint:]
	}

	return frags
}

// findBoundary finds a split point near target that is a UTF-8 boundary and
// never exceeds limit. It prefers splitting after a newline if one is nearby.
func findBoundary(s string, target, limit int) int {
	if target >= len(s) {
		return len(s)
	}
	if target <= 0 {
		return 0
	}

	window := target / 4
	searchEnd := min(target+window, limit, len(s))

	// Prefer splitting after a newline
	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= target-window && i >= 0; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	// Back up to a rune start
	pos := target
	for pos > 0 && !isUTF8Start(s[pos]) {
		pos--
	}
	if pos == 0 {
		// Invalid UTF-8 run; any byte boundary will do.
		return target
	}
	return pos
}

// isUTF8Start returns true if the byte is the start of a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	// Continuation bytes look like 10xxxxxx.
	return b&0xC0 != 0x80
}
