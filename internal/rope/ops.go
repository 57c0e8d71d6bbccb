package rope

// splitNode partitions n into [0, offset) and [offset, Len). offset must be
// in [0, Len]. Splitting at either end shares n with the non-empty side.
func splitNode(n Node, offset int, p *Policy) (Node, Node) {
	if offset <= 0 {
		return emptyLeaf, n
	}
	if offset >= n.Len() {
		return n, emptyLeaf
	}

	switch n := n.(type) {
	case *Leaf:
		return n.split(offset)
	case *Internal:
		return n.split(offset, p)
	}
	panic("rope: unknown node type")
}

// split is the bounds-checked form of splitNode.
func split(n Node, offset int, p *Policy) (Node, Node, error) {
	if err := checkOffset("split", offset, n.Len()); err != nil {
		return nil, nil, err
	}
	left, right := splitNode(n, offset, p)
	return left, right, nil
}

// itemAt returns the fragment containing offset and the offset within it.
// It reports false if offset is outside [0, Len).
func itemAt(n Node, offset int) (Fragment, int, bool) {
	if offset < 0 || offset >= n.Len() {
		return Fragment{}, 0, false
	}

	for {
		switch node := n.(type) {
		case *Leaf:
			idx, off := node.locate(offset)
			return node.fragments[idx], off, true
		case *Internal:
			idx, off := node.locate(offset)
			n, offset = node.children[idx], off
		}
	}
}

// charAt returns the byte at offset.
func charAt(n Node, offset int) (byte, error) {
	if err := checkIndex("char at", offset, n.Len()); err != nil {
		return 0, err
	}
	frag, off, _ := itemAt(n, offset)
	return frag.text[off], nil
}

// substring returns the text in [start, end). It is defined through split:
// the node is split at end, the left part at start, and the middle
// flattened.
func substring(n Node, start, end int, p *Policy) (string, error) {
	if err := checkRange("substring", start, end, n.Len()); err != nil {
		return "", err
	}
	left, _ := splitNode(n, end, p)
	_, middle := splitNode(left, start, p)
	return flatten(middle), nil
}

// insert returns n with text inserted at offset.
func insert(n Node, offset int, text string, p *Policy) (Node, error) {
	if err := checkOffset("insert", offset, n.Len()); err != nil {
		return nil, err
	}
	if text == "" {
		return n, nil
	}
	left, right := splitNode(n, offset, p)
	middle := newLeaf([]Fragment{NewFragment(text)})
	return join(join(left, middle, p), right, p), nil
}

// remove returns n without the text in [start, end).
func remove(n Node, start, end int, p *Policy) (Node, error) {
	if err := checkRange("delete", start, end, n.Len()); err != nil {
		return nil, err
	}
	if start == end {
		return n, nil
	}
	left, rest := splitNode(n, start, p)
	_, right := splitNode(rest, end-start, p)
	return join(left, right, p), nil
}

// lineStart returns the offset at which the given 0-based line begins.
// line must be in [0, Lines].
func lineStart(n Node, line int) int {
	if line == 0 {
		return 0
	}
	offset := 0
	for {
		switch node := n.(type) {
		case *Leaf:
			return offset + node.lineStart(line)
		case *Internal:
			skipped, child, rest := node.lineStart(line)
			offset += skipped
			n, line = child, rest
		}
	}
}

// linesBefore counts the newlines in [0, offset). offset must be in [0, Len].
func linesBefore(n Node, offset int) int {
	lines := 0
	for {
		switch node := n.(type) {
		case *Leaf:
			return lines + node.linesBefore(offset)
		case *Internal:
			skipped, child, rest := node.linesBefore(offset)
			lines += skipped
			n, offset = child, rest
		}
	}
}
