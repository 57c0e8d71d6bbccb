package rope

import "slices"

// locate returns the index of the fragment containing offset and the
// offset's position within it. offset must be in [0, Len).
func (l *Leaf) locate(offset int) (int, int) {
	for i, s := range l.summaries {
		if offset < s.Bytes {
			return i, offset
		}
		offset -= s.Bytes
	}
	return -1, 0
}

// split splits the leaf at offset, which must be in (0, Len).
func (l *Leaf) split(offset int) (Node, Node) {
	// Find the last fragment whose range reaches offset.
	idx, start := 0, 0
	for i, s := range l.summaries {
		idx = i
		if offset <= start+s.Bytes {
			break
		}
		start += s.Bytes
	}

	frag := l.fragments[idx]
	if offset == start+frag.Len() {
		// Fragment boundary; no fragment needs splitting.
		return newLeaf(slices.Clone(l.fragments[:idx+1])), newLeaf(slices.Clone(l.fragments[idx+1:]))
	}

	leftPart, rightPart := frag.split(offset - start)

	left := make([]Fragment, 0, idx+1)
	left = append(left, l.fragments[:idx]...)
	left = append(left, leftPart)

	right := make([]Fragment, 0, len(l.fragments)-idx)
	right = append(right, rightPart)
	right = append(right, l.fragments[idx+1:]...)

	return newLeaf(left), newLeaf(right)
}

// lineStart returns the offset just past the line-th newline in the leaf.
// line must be in [1, Lines].
func (l *Leaf) lineStart(line int) int {
	offset := 0
	for i, s := range l.summaries {
		if line <= s.Lines {
			return offset + nthNewline(l.fragments[i].String(), line) + 1
		}
		line -= s.Lines
		offset += s.Bytes
	}
	return offset
}

// linesBefore counts newlines in [0, offset).
func (l *Leaf) linesBefore(offset int) int {
	lines := 0
	for i, s := range l.summaries {
		if offset <= s.Bytes {
			return lines + ComputeSummary(l.fragments[i].String()[:offset]).Lines
		}
		lines += s.Lines
		offset -= s.Bytes
	}
	return lines
}
