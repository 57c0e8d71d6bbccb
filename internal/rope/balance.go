package rope

import (
	"math/bits"
	"slices"
)

// Tree shape defaults.
const (
	// DefaultMaxChildren is the maximum children per internal node.
	DefaultMaxChildren = 8

	// DefaultMaxFragments is the maximum fragments per leaf.
	DefaultMaxFragments = 8

	// DefaultMaxFragmentSize is the size up to which adjacent fragments are
	// coalesced. Larger fragments are kept whole.
	DefaultMaxFragmentSize = 512

	// DefaultDepthSlack scales the height a tree may reach before it is
	// rebuilt.
	DefaultDepthSlack = 2
)

// Policy controls the shape of the tree.
//
// Nodes are kept between half full and full where edits allow. Joins merge
// underfull siblings, push shorter trees into the taller tree's facing
// spine, and split overflowing nodes in half, so every leaf sits at the
// same depth. If a tree still grows taller than
// DepthSlack*bits.Len(leaves)+1 it is rebuilt from its fragment list.
type Policy struct {
	MaxChildren     int
	MaxFragments    int
	MaxFragmentSize int
	DepthSlack      int
}

// DefaultPolicy returns the default tree shape policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxChildren:     DefaultMaxChildren,
		MaxFragments:    DefaultMaxFragments,
		MaxFragmentSize: DefaultMaxFragmentSize,
		DepthSlack:      DefaultDepthSlack,
	}
}

// Valid reports whether every field is usable.
func (p Policy) Valid() bool {
	return p.MaxChildren >= 3 && p.MaxFragments >= 2 && p.MaxFragmentSize >= 1 && p.DepthSlack >= 1
}

// sanitize replaces unusable fields with defaults.
func (p Policy) sanitize() Policy {
	def := DefaultPolicy()
	if p.MaxChildren < 3 {
		p.MaxChildren = def.MaxChildren
	}
	if p.MaxFragments < 2 {
		p.MaxFragments = def.MaxFragments
	}
	if p.MaxFragmentSize < 1 {
		p.MaxFragmentSize = def.MaxFragmentSize
	}
	if p.DepthSlack < 1 {
		p.DepthSlack = def.DepthSlack
	}
	return p
}

// maxHeight returns the tallest height tolerated for a tree with the given
// number of leaves.
func (p *Policy) maxHeight(leaves int) int {
	return p.DepthSlack*bits.Len(uint(leaves)) + 1
}

// join returns a node holding left's text followed by right's.
func join(left, right Node, p *Policy) Node {
	if left.Len() == 0 {
		return right
	}
	if right.Len() == 0 {
		return left
	}

	var nodes []Node
	switch hl, hr := left.Height(), right.Height(); {
	case hl == hr:
		nodes = mergeSiblings(left, right, p)
	case hl > hr:
		nodes = pushRight(left.(*Internal), right, p)
	default:
		nodes = pushLeft(left, right.(*Internal), p)
	}

	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternal(nodes)
}

// mergeSiblings combines two non-empty nodes of equal height into one or
// two nodes of that height. Well-filled siblings are kept as they are.
func mergeSiblings(left, right Node, p *Policy) []Node {
	switch l := left.(type) {
	case *Leaf:
		r := right.(*Leaf)
		total := len(l.fragments) + len(r.fragments)
		if total > p.MaxFragments && !p.underfullLeaf(l) && !p.underfullLeaf(r) {
			return []Node{left, right}
		}
		frags := make([]Fragment, 0, total)
		frags = append(frags, l.fragments...)
		frags = append(frags, r.fragments...)
		return groupLeaves(coalesce(frags, p.MaxFragmentSize), p)

	case *Internal:
		r := right.(*Internal)
		total := len(l.children) + len(r.children)
		if total > p.MaxChildren && !p.underfull(l) && !p.underfull(r) {
			return []Node{left, right}
		}
		children := make([]Node, 0, total)
		children = append(children, l.children...)
		children = append(children, r.children...)
		return groupInternal(children, p)
	}
	panic("rope: unknown node type")
}

// pushRight joins right onto the right spine of left, which is taller.
// It returns one or two nodes of left's height.
func pushRight(left *Internal, right Node, p *Policy) []Node {
	last := len(left.children) - 1
	edge := left.children[last]

	var tail []Node
	if edge.Height() == right.Height() {
		tail = mergeSiblings(edge, right, p)
	} else {
		tail = pushRight(edge.(*Internal), right, p)
	}

	children := make([]Node, 0, last+len(tail))
	children = append(children, left.children[:last]...)
	children = append(children, tail...)
	return groupInternal(children, p)
}

// pushLeft joins left onto the left spine of right, which is taller.
// It returns one or two nodes of right's height.
func pushLeft(left Node, right *Internal, p *Policy) []Node {
	edge := right.children[0]

	var head []Node
	if edge.Height() == left.Height() {
		head = mergeSiblings(left, edge, p)
	} else {
		head = pushLeft(left, edge.(*Internal), p)
	}

	children := make([]Node, 0, len(head)+len(right.children)-1)
	children = append(children, head...)
	children = append(children, right.children[1:]...)
	return groupInternal(children, p)
}

func (p *Policy) underfull(n *Internal) bool {
	return len(n.children) < p.MaxChildren/2
}

func (p *Policy) underfullLeaf(l *Leaf) bool {
	return len(l.fragments) < p.MaxFragments/2
}

// groupInternal parents children with one internal node, or two when they
// do not fit in one. children holds at most 2*MaxChildren nodes.
func groupInternal(children []Node, p *Policy) []Node {
	if len(children) <= p.MaxChildren {
		return []Node{newInternal(children)}
	}
	half := (len(children) + 1) / 2
	return []Node{
		newInternal(slices.Clone(children[:half])),
		newInternal(slices.Clone(children[half:])),
	}
}

// groupLeaves places frags in one leaf, or two when they do not fit in one.
func groupLeaves(frags []Fragment, p *Policy) []Node {
	if len(frags) <= p.MaxFragments {
		return []Node{newLeaf(frags)}
	}
	half := (len(frags) + 1) / 2
	return []Node{
		newLeaf(slices.Clone(frags[:half])),
		newLeaf(slices.Clone(frags[half:])),
	}
}

// buildBalanced builds a tree from frags with evenly filled nodes.
func buildBalanced(frags []Fragment, p *Policy) Node {
	frags = coalesce(frags, p.MaxFragmentSize)
	if len(frags) == 0 {
		return emptyLeaf
	}

	var nodes []Node
	for _, group := range partition(len(frags), p.MaxFragments) {
		nodes = append(nodes, newLeaf(slices.Clone(frags[group[0]:group[1]])))
	}

	for len(nodes) > 1 {
		parents := make([]Node, 0, len(nodes)/p.MaxChildren+1)
		for _, group := range partition(len(nodes), p.MaxChildren) {
			parents = append(parents, newInternal(slices.Clone(nodes[group[0]:group[1]])))
		}
		nodes = parents
	}
	return nodes[0]
}

// partition splits n items into the fewest groups of at most max items,
// with group sizes differing by at most one. It returns [start, end) pairs.
func partition(n, max int) [][2]int {
	groups := (n + max - 1) / max
	size, extra := n/groups, n%groups

	out := make([][2]int, 0, groups)
	start := 0
	for i := 0; i < groups; i++ {
		end := start + size
		if i < extra {
			end++
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

// collectFragments returns every fragment under n in document order.
func collectFragments(n Node) []Fragment {
	var frags []Fragment
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Leaf:
			frags = append(frags, n.fragments...)
		case *Internal:
			for _, child := range n.children {
				walk(child)
			}
		}
	}
	walk(n)
	return frags
}

// rebuild returns a compact balanced tree with n's text.
func rebuild(n Node, p *Policy) Node {
	return buildBalanced(collectFragments(n), p)
}
