package rope

import (
	"io"
	"unicode/utf8"
)

// Rope is an immutable text container backed by a summary tree.
// Operations return new Rope values; the original is never modified and
// keeps sharing unmodified subtrees with the results. The zero Rope is
// empty and ready to use.
type Rope struct {
	root Node
	cfg  *settings
}

// New creates an empty rope.
func New(opts ...Option) Rope {
	return Rope{root: emptyLeaf, cfg: newSettings(opts)}
}

// FromString creates a rope holding s as a single fragment in a single leaf.
func FromString(s string, opts ...Option) Rope {
	return Rope{
		root: newLeaf([]Fragment{NewFragment(s)}),
		cfg:  newSettings(opts),
	}
}

func (r Rope) node() Node {
	if r.root == nil {
		return emptyLeaf
	}
	return r.root
}

func (r Rope) settings() *settings {
	if r.cfg == nil {
		return defaultSettings
	}
	return r.cfg
}

func (r Rope) policy() *Policy {
	return &r.settings().policy
}

// derive wraps root as a rope sharing r's settings. Trees taller than the
// policy tolerates are rebuilt first.
func (r Rope) derive(root Node) Rope {
	cfg := r.settings()
	if h, leaves := root.Height(), root.leafCount(); h > cfg.policy.maxHeight(leaves) {
		cfg.log.Debug("rebuilding tree: height %d exceeds %d for %d leaves", h, cfg.policy.maxHeight(leaves), leaves)
		root = rebuild(root, &cfg.policy)
	}
	return Rope{root: root, cfg: cfg}
}

// Len returns the total byte length.
func (r Rope) Len() int {
	return r.node().Len()
}

// LineCount returns the number of newline characters.
func (r Rope) LineCount() int {
	return r.node().Summary().Lines
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	return r.node().Summary()
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text.
// Use sparingly for large ropes.
func (r Rope) String() string {
	return flatten(r.node())
}

// WriteTo writes the full text to w without materializing it.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Fragments()
	for it.Next() {
		n, err := io.WriteString(w, it.Fragment().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// CharAt returns the byte at offset i.
func (r Rope) CharAt(i int) (byte, error) {
	return charAt(r.node(), i)
}

// RuneAt decodes the rune starting at byte offset i and returns it with
// its encoded width. Invalid encodings decode as utf8.RuneError of width 1.
func (r Rope) RuneAt(i int) (rune, int, error) {
	if err := checkIndex("rune at", i, r.Len()); err != nil {
		return 0, 0, err
	}
	frag, off, _ := itemAt(r.node(), i)
	if rest := frag.text[off:]; utf8.FullRuneInString(rest) {
		ch, size := utf8.DecodeRuneInString(rest)
		return ch, size, nil
	}
	// The encoding continues into the next fragment.
	s, err := r.Substring(i, min(i+utf8.UTFMax, r.Len()))
	if err != nil {
		return 0, 0, err
	}
	ch, size := utf8.DecodeRuneInString(s)
	return ch, size, nil
}

// Substring returns the text in the byte range [start, end).
func (r Rope) Substring(start, end int) (string, error) {
	return substring(r.node(), start, end, r.policy())
}

// Split splits the rope at offset i.
// The left rope holds [0, i) and the right rope [i, Len).
func (r Rope) Split(i int) (Rope, Rope, error) {
	left, right, err := split(r.node(), i, r.policy())
	if err != nil {
		return Rope{}, Rope{}, err
	}
	return r.derive(left), r.derive(right), nil
}

// Insert inserts text at byte offset i.
func (r Rope) Insert(i int, text string) (Rope, error) {
	root, err := insert(r.node(), i, text, r.policy())
	if err != nil {
		return Rope{}, err
	}
	return r.derive(root), nil
}

// Delete removes the text in the byte range [start, end).
func (r Rope) Delete(start, end int) (Rope, error) {
	root, err := remove(r.node(), start, end, r.policy())
	if err != nil {
		return Rope{}, err
	}
	return r.derive(root), nil
}

// Replace replaces the text in [start, end) with text.
func (r Rope) Replace(start, end int, text string) (Rope, error) {
	if err := checkRange("replace", start, end, r.Len()); err != nil {
		return Rope{}, err
	}
	deleted, err := r.Delete(start, end)
	if err != nil {
		return Rope{}, err
	}
	return deleted.Insert(start, text)
}

// Concat returns r's text followed by other's. The result uses r's options;
// if other was built under a different policy its tree is rebuilt first.
func (r Rope) Concat(other Rope) Rope {
	right := other.node()
	if *other.policy() != *r.policy() {
		right = rebuild(right, r.policy())
	}
	return r.derive(join(r.node(), right, r.policy()))
}

// LineStart returns the byte offset at which the 0-based line begins.
// Valid lines are [0, LineCount].
func (r Rope) LineStart(line int) (int, error) {
	if err := checkOffset("line start", line, r.LineCount()); err != nil {
		return 0, err
	}
	return lineStart(r.node(), line), nil
}

// LineEnd returns the byte offset of the end of the 0-based line, not
// including its newline.
func (r Rope) LineEnd(line int) (int, error) {
	if err := checkOffset("line end", line, r.LineCount()); err != nil {
		return 0, err
	}
	if line == r.LineCount() {
		return r.Len(), nil
	}
	return lineStart(r.node(), line+1) - 1, nil
}

// LineText returns the text of the 0-based line without its newline.
func (r Rope) LineText(line int) (string, error) {
	start, err := r.LineStart(line)
	if err != nil {
		return "", err
	}
	end, err := r.LineEnd(line)
	if err != nil {
		return "", err
	}
	return r.Substring(start, end)
}

// OffsetToPoint converts a byte offset in [0, Len] to a line/column position.
func (r Rope) OffsetToPoint(i int) (Point, error) {
	if err := checkOffset("offset to point", i, r.Len()); err != nil {
		return Point{}, err
	}
	line := linesBefore(r.node(), i)
	return Point{Line: line, Column: i - lineStart(r.node(), line)}, nil
}

// PointToOffset converts a line/column position to a byte offset.
// Columns past the end of the line clamp to the line end.
func (r Rope) PointToOffset(pt Point) (int, error) {
	if pt.Column < 0 {
		return 0, &RangeError{Op: "point to offset", Start: pt.Column, End: pt.Column, Len: r.Len()}
	}
	start, err := r.LineStart(pt.Line)
	if err != nil {
		return 0, err
	}
	end, err := r.LineEnd(pt.Line)
	if err != nil {
		return 0, err
	}
	return min(start+pt.Column, end), nil
}

// Rebalance returns a rope with the same text in a compact, evenly filled
// tree. Small adjacent fragments are coalesced.
func (r Rope) Rebalance() Rope {
	return Rope{root: rebuild(r.node(), r.policy()), cfg: r.settings()}
}

// Height returns the height of the tree; a single leaf has height 1.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	return r.node().Height() + 1
}

// FragmentCount returns the total number of fragments in the rope.
func (r Rope) FragmentCount() int {
	count := 0
	it := r.Fragments()
	for it.Next() {
		count++
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// It compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Summary() != other.Summary() {
		return false
	}
	a, b := r.Fragments(), other.Fragments()
	var sa, sb string
	for {
		if sa == "" {
			if !a.Next() {
				break
			}
			sa = a.Fragment().String()
		}
		if sb == "" {
			if !b.Next() {
				return false
			}
			sb = b.Fragment().String()
		}
		n := min(len(sa), len(sb))
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
	// Equal summaries mean equal lengths, so b is exhausted too.
	return sb == ""
}
