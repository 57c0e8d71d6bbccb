package rope

// fragmentFrame is a position in the tree walk of a FragmentIterator.
type fragmentFrame struct {
	node Node
	next int // next child or fragment index to visit
}

// FragmentIterator iterates over the fragments of a rope in order.
type FragmentIterator struct {
	stack  []fragmentFrame
	frag   Fragment
	offset int // offset of frag
	end    int // offset just past frag
}

// Fragments returns an iterator over all fragments in the rope.
func (r Rope) Fragments() *FragmentIterator {
	it := &FragmentIterator{stack: make([]fragmentFrame, 0, r.node().Height()+1)}
	it.stack = append(it.stack, fragmentFrame{node: r.node()})
	return it
}

// Next advances to the next fragment.
// Returns true if there is a fragment, false if iteration is complete.
func (it *FragmentIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]

		switch n := top.node.(type) {
		case *Leaf:
			if top.next < len(n.fragments) {
				it.frag = n.fragments[top.next]
				top.next++
				it.offset = it.end
				it.end += it.frag.Len()
				return true
			}
		case *Internal:
			if top.next < len(n.children) {
				child := n.children[top.next]
				top.next++
				it.stack = append(it.stack, fragmentFrame{node: child})
				continue
			}
		}

		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Fragment returns the current fragment.
func (it *FragmentIterator) Fragment() Fragment {
	return it.frag
}

// Offset returns the byte offset at which the current fragment starts.
func (it *FragmentIterator) Offset() int {
	return it.offset
}

// LineIterator iterates over the lines of a rope.
// A rope with n newlines has n+1 lines; the last may be empty.
type LineIterator struct {
	rope      Rope
	line      int
	lineStart int
	lineEnd   int
	text      string
	started   bool
}

// Lines returns an iterator over all lines in the rope.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// Next advances to the next line.
// Returns true if there is a line, false if iteration is complete.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
	} else {
		it.line++
	}
	if it.line > it.rope.LineCount() {
		return false
	}

	// line is in range, so these cannot fail.
	it.lineStart, _ = it.rope.LineStart(it.line)
	it.lineEnd, _ = it.rope.LineEnd(it.line)
	it.text, _ = it.rope.Substring(it.lineStart, it.lineEnd)
	return true
}

// Text returns the text of the current line without its newline.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current line number (0-indexed).
func (it *LineIterator) Line() int {
	return it.line
}

// StartOffset returns the byte offset of the start of the current line.
func (it *LineIterator) StartOffset() int {
	return it.lineStart
}

// EndOffset returns the byte offset of the end of the current line.
func (it *LineIterator) EndOffset() int {
	return it.lineEnd
}
