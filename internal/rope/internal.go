package rope

// locate returns the index of the child containing offset and the offset
// within that child. offset must be in [0, Len).
func (n *Internal) locate(offset int) (int, int) {
	for i, s := range n.summaries {
		if offset < s.Bytes {
			return i, offset
		}
		offset -= s.Bytes
	}
	return -1, 0
}

// split splits the node at offset, which must be in (0, Len).
// Children left of the straddling child are shared with the left result
// and children right of it with the right result.
func (n *Internal) split(offset int, p *Policy) (Node, Node) {
	idx, start := 0, 0
	for i, s := range n.summaries {
		idx = i
		if offset <= start+s.Bytes {
			break
		}
		start += s.Bytes
	}

	if offset == start+n.summaries[idx].Bytes {
		// Child boundary; no recursive split needed.
		return subtree(n.children[:idx+1]), subtree(n.children[idx+1:])
	}

	childLeft, childRight := splitNode(n.children[idx], offset-start, p)
	left := join(subtree(n.children[:idx]), childLeft, p)
	right := join(childRight, subtree(n.children[idx+1:]), p)
	return left, right
}

// lineStart returns the offset just past the line-th newline in the subtree.
// line must be in [1, Lines].
func (n *Internal) lineStart(line int) (int, Node, int) {
	offset := 0
	for i, s := range n.summaries {
		if line <= s.Lines {
			return offset, n.children[i], line
		}
		line -= s.Lines
		offset += s.Bytes
	}
	last := len(n.children) - 1
	return offset - n.summaries[last].Bytes, n.children[last], line + n.summaries[last].Lines
}

// linesBefore returns the newlines in children fully before offset, the
// child containing offset, and the offset within that child.
// offset must be in [0, Len].
func (n *Internal) linesBefore(offset int) (int, Node, int) {
	lines := 0
	for i, s := range n.summaries {
		if offset <= s.Bytes {
			return lines, n.children[i], offset
		}
		lines += s.Lines
		offset -= s.Bytes
	}
	last := len(n.children) - 1
	return lines - n.summaries[last].Lines, n.children[last], offset + n.summaries[last].Bytes
}
