package tree

import "cmp"

// Color is the red-black color of a node.
type Color uint8

const (
	// Black is the zero value so the sentinel at index 0 is black without
	// ever being written.
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

type nodeState uint8

const (
	nodeFree nodeState = iota
	nodeDetached
	nodeAttached
)

type treeNode[K cmp.Ordered, V any] struct {
	Left     uint // left node index: 0 for not set
	Right    uint // right node index: 0 for not set
	Parent   uint // parent node index: 0 for the root
	Interval Interval[K]
	Max      K // greatest high bound in this subtree
	Color    Color
	Val      V
	gen      uint64
	state    nodeState
}

// updateMax recomputes Max from the node's own interval and its children.
// Index 0 children contribute nothing.
func (t *Tree[K, V]) updateMax(z uint) {
	n := &t.nodes[z]
	m := n.Interval.high
	if n.Left != 0 && t.nodes[n.Left].Max > m {
		m = t.nodes[n.Left].Max
	}
	if n.Right != 0 && t.nodes[n.Right].Max > m {
		m = t.nodes[n.Right].Max
	}
	n.Max = m
}

// Node is a handle to a node owned by a Tree. The zero value refers to no
// node. A handle goes stale once its node is erased, cleared or moved
// away, after which its accessors return zero values.
type Node[K cmp.Ordered, V any] struct {
	t     *Tree[K, V]
	index uint
	gen   uint64
}

func (n Node[K, V]) node() *treeNode[K, V] {
	if n.t == nil || n.index == 0 || n.index >= uint(len(n.t.nodes)) {
		return nil
	}
	tn := &n.t.nodes[n.index]
	if tn.state == nodeFree || tn.gen != n.gen {
		return nil
	}
	return tn
}

// IsValid returns whether the handle still refers to a live node.
func (n Node[K, V]) IsValid() bool { return n.node() != nil }

// InTree returns whether the node is currently linked into its tree.
func (n Node[K, V]) InTree() bool {
	tn := n.node()
	return tn != nil && tn.state == nodeAttached
}

func (n Node[K, V]) Interval() Interval[K] {
	if tn := n.node(); tn != nil {
		return tn.Interval
	}
	return Interval[K]{}
}

// Max returns the greatest high bound in the subtree rooted at n.
func (n Node[K, V]) Max() K {
	var m K
	if tn := n.node(); tn != nil {
		m = tn.Max
	}
	return m
}

func (n Node[K, V]) Color() Color {
	if tn := n.node(); tn != nil {
		return tn.Color
	}
	return Black
}

// Value returns the payload stored with the interval.
func (n Node[K, V]) Value() V {
	var v V
	if tn := n.node(); tn != nil {
		v = tn.Val
	}
	return v
}

// SetValue replaces the payload. The payload takes no part in ordering or
// balancing, so this is safe on a node that is in the tree.
func (n Node[K, V]) SetValue(v V) bool {
	tn := n.node()
	if tn == nil {
		return false
	}
	tn.Val = v
	return true
}

func (n Node[K, V]) Left() (Node[K, V], bool) {
	tn := n.node()
	if tn == nil {
		return Node[K, V]{}, false
	}
	return n.t.handle(tn.Left)
}

func (n Node[K, V]) Right() (Node[K, V], bool) {
	tn := n.node()
	if tn == nil {
		return Node[K, V]{}, false
	}
	return n.t.handle(tn.Right)
}

func (n Node[K, V]) Parent() (Node[K, V], bool) {
	tn := n.node()
	if tn == nil {
		return Node[K, V]{}, false
	}
	return n.t.handle(tn.Parent)
}

func (n Node[K, V]) String() string {
	if tn := n.node(); tn != nil {
		return tn.Interval.String()
	}
	return "<nil>"
}
