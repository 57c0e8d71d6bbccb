package rope

import (
	"slices"
	"strings"
)

// Node is a node in the rope tree. It has exactly two implementations,
// *Leaf and *Internal, and algorithms switch over them exhaustively.
// Nodes are never modified after construction.
type Node interface {
	// Summary returns the aggregated metrics of the subtree in O(1).
	Summary() TextSummary

	// Len returns the byte length of the subtree's text.
	Len() int

	// Height returns 0 for leaves and the distance to the leaves otherwise.
	Height() int

	leafCount() int
	sealed()
}

// Leaf holds text fragments in document order.
type Leaf struct {
	fragments []Fragment
	summaries []TextSummary // per-fragment summaries for seeking
	summary   TextSummary
}

// Internal holds child nodes in document order. All children share the
// same height, one less than the node's own.
type Internal struct {
	children  []Node
	summaries []TextSummary // per-child summaries for seeking
	summary   TextSummary
	height    int
	leaves    int
}

var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Internal)(nil)
)

// emptyLeaf is the canonical empty node.
var emptyLeaf = &Leaf{}

// newLeaf creates a leaf holding frags. Empty fragments are dropped.
func newLeaf(frags []Fragment) *Leaf {
	kept := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if !f.IsEmpty() {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return emptyLeaf
	}

	l := &Leaf{
		fragments: kept,
		summaries: make([]TextSummary, len(kept)),
	}
	for i, f := range kept {
		l.summaries[i] = f.Summary()
	}
	l.summary = Fold(TextSummary{}, l.summaries...)
	return l
}

// newInternal creates an internal node owning children, which must be
// non-empty nodes of equal height. The caller must not retain children.
func newInternal(children []Node) *Internal {
	n := &Internal{
		children:  children,
		summaries: make([]TextSummary, len(children)),
		height:    children[0].Height() + 1,
	}
	for i, child := range children {
		n.summaries[i] = child.Summary()
		n.leaves += child.leafCount()
	}
	n.summary = Fold(TextSummary{}, n.summaries...)
	return n
}

// Summary returns the leaf's aggregated metrics.
func (l *Leaf) Summary() TextSummary { return l.summary }

// Len returns the byte length of the leaf's text.
func (l *Leaf) Len() int { return l.summary.Bytes }

// Height returns 0.
func (l *Leaf) Height() int { return 0 }

// Fragments returns the number of fragments in the leaf.
func (l *Leaf) Fragments() int { return len(l.fragments) }

func (l *Leaf) leafCount() int { return 1 }
func (l *Leaf) sealed()        {}

// Summary returns the subtree's aggregated metrics.
func (n *Internal) Summary() TextSummary { return n.summary }

// Len returns the byte length of the subtree's text.
func (n *Internal) Len() int { return n.summary.Bytes }

// Height returns the distance from this node to its leaves.
func (n *Internal) Height() int { return n.height }

// Children returns the number of direct children.
func (n *Internal) Children() int { return len(n.children) }

func (n *Internal) leafCount() int { return n.leaves }
func (n *Internal) sealed()        {}

// flatten returns all text under n.
func flatten(n Node) string {
	var sb strings.Builder
	sb.Grow(n.Len())
	appendTo(&sb, n)
	return sb.String()
}

// appendTo appends all text in the subtree to the builder.
func appendTo(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Leaf:
		for _, f := range n.fragments {
			sb.WriteString(f.String())
		}
	case *Internal:
		for _, child := range n.children {
			appendTo(sb, child)
		}
	}
}

// subtree returns the node covering nodes, which must share a height.
// No nodes gives the empty leaf and a single node is returned as is.
func subtree(nodes []Node) Node {
	switch len(nodes) {
	case 0:
		return emptyLeaf
	case 1:
		return nodes[0]
	default:
		return newInternal(slices.Clone(nodes))
	}
}
