package tree

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	// ErrInvalidNode is returned for a zero Node handle.
	ErrInvalidNode = errors.New("invalid node")
	// ErrForeignNode is returned for a Node handle created by another tree.
	ErrForeignNode = errors.New("node belongs to another tree")
	// ErrStaleNode is returned for a Node handle whose node was already freed.
	ErrStaleNode = errors.New("node was erased")
	// ErrNodeInTree is returned when inserting a node that is already linked.
	ErrNodeInTree = errors.New("node is already in the tree")
	// ErrNodeNotInTree is returned when erasing a node that was never inserted.
	ErrNodeNotInTree = errors.New("node is not in the tree")
)

// Tree is an interval tree: a red-black tree keyed by interval, where every
// node also records the greatest high bound of its subtree.
//
// A Tree is not safe for concurrent use.
type Tree[K cmp.Ordered, V any] struct {
	nodes            []treeNode[K, V] // [0] is the sentinel and is never written
	availableIndexes []uint           // a place to store node indexes that we deleted, and are available
	root             uint
	length           int
	gen              uint64 // last generation handed out, never reset
}

func NewTree[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{
		nodes:            make([]treeNode[K, V], 1),
		availableIndexes: make([]uint, 0),
	}
}

// Clone creates an identical copy of the tree in a fresh arena. Only nodes
// linked into the tree are copied. Payloads are copied by value.
func (t *Tree[K, V]) Clone() *Tree[K, V] {
	ret := &Tree[K, V]{
		nodes:            make([]treeNode[K, V], 1, t.length+1),
		availableIndexes: make([]uint, 0),
	}
	if t.root == 0 {
		return ret
	}

	type pair struct{ src, dst uint }
	copyNode := func(src, parent uint) uint {
		n := t.nodes[src]
		ret.gen++
		ret.nodes = append(ret.nodes, treeNode[K, V]{
			Parent:   parent,
			Interval: n.Interval,
			Max:      n.Max,
			Color:    n.Color,
			Val:      n.Val,
			gen:      ret.gen,
			state:    nodeAttached,
		})
		return uint(len(ret.nodes) - 1)
	}

	ret.root = copyNode(t.root, 0)
	stack := []pair{{src: t.root, dst: ret.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r := t.nodes[p.src].Right; r != 0 {
			c := copyNode(r, p.dst)
			ret.nodes[p.dst].Right = c
			stack = append(stack, pair{src: r, dst: c})
		}
		if l := t.nodes[p.src].Left; l != 0 {
			c := copyNode(l, p.dst)
			ret.nodes[p.dst].Left = c
			stack = append(stack, pair{src: l, dst: c})
		}
	}
	ret.length = t.length
	return ret
}

// Move transfers all nodes to a new tree and leaves t empty. Handles
// obtained from t are stale afterwards; detached nodes are dropped.
func (t *Tree[K, V]) Move() *Tree[K, V] {
	ret := &Tree[K, V]{
		nodes:            t.nodes,
		availableIndexes: t.availableIndexes,
		root:             t.root,
		length:           t.length,
		gen:              t.gen,
	}
	for i := 1; i < len(ret.nodes); i++ {
		if ret.nodes[i].state == nodeDetached {
			ret.freeNode(uint(i))
		}
	}

	t.nodes = make([]treeNode[K, V], 1)
	t.availableIndexes = make([]uint, 0)
	t.root = 0
	t.length = 0
	return ret
}

// Empty returns whether no node is linked into the tree.
func (t *Tree[K, V]) Empty() bool { return t.root == 0 }

// Len returns the number of nodes linked into the tree.
func (t *Tree[K, V]) Len() int { return t.length }

// Clear frees every node in the tree with an iterative post-order walk.
// Detached nodes made by NewNode are left alone.
func (t *Tree[K, V]) Clear() {
	var stack []uint
	var prev uint
	x := t.root
	for x != 0 || len(stack) > 0 {
		if x != 0 {
			stack = append(stack, x)
			x = t.nodes[x].Left
			continue
		}
		top := stack[len(stack)-1]
		if r := t.nodes[top].Right; r != 0 && r != prev {
			x = r
			continue
		}
		stack = stack[:len(stack)-1]
		prev = top
		t.freeNode(top)
	}
	t.root = 0
	t.length = 0
}

// Equal returns whether both trees have the same shape and every pair of
// corresponding nodes has the same interval and max. Color and payload
// are not compared.
func (t *Tree[K, V]) Equal(other *Tree[K, V]) bool {
	if t.root == 0 || other.root == 0 {
		return t.root == 0 && other.root == 0
	}

	stack := [][2]uint{{t.root, other.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, b := &t.nodes[p[0]], &other.nodes[p[1]]

		if !a.Interval.Equal(b.Interval) || a.Max != b.Max {
			return false
		}
		if (a.Right == 0) != (b.Right == 0) || (a.Left == 0) != (b.Left == 0) {
			return false
		}
		if a.Right != 0 {
			stack = append(stack, [2]uint{a.Right, b.Right})
		}
		if a.Left != 0 {
			stack = append(stack, [2]uint{a.Left, b.Left})
		}
	}
	return true
}

// NewNode returns a red, detached node holding i and v. It is not part
// of the tree until passed to Insert.
func (t *Tree[K, V]) NewNode(i Interval[K], v V) Node[K, V] {
	n, _ := t.handle(t.newNode(i, v))
	return n
}

// NewNodeFromBounds is NewNode for an interval built from low and high.
func (t *Tree[K, V]) NewNodeFromBounds(low, high K, v V) (Node[K, V], error) {
	i, err := NewInterval(low, high)
	if err != nil {
		return Node[K, V]{}, err
	}
	return t.NewNode(i, v), nil
}

// Discard frees a detached node that will not be inserted.
func (t *Tree[K, V]) Discard(n Node[K, V]) error {
	if err := t.validate(n); err != nil {
		return err
	}
	if t.nodes[n.index].state == nodeAttached {
		return ErrNodeInTree
	}
	t.freeNode(n.index)
	return nil
}

func (t *Tree[K, V]) validate(n Node[K, V]) error {
	if n.t == nil || n.index == 0 {
		return ErrInvalidNode
	}
	if n.t != t {
		return ErrForeignNode
	}
	if n.node() == nil {
		return ErrStaleNode
	}
	return nil
}

// Insert links a node made by NewNode into the tree. Equal intervals are
// placed to the right of the existing ones.
func (t *Tree[K, V]) Insert(n Node[K, V]) error {
	if err := t.validate(n); err != nil {
		return fmt.Errorf("insert %s: %w", n, err)
	}
	z := n.index
	if t.nodes[z].state == nodeAttached {
		return fmt.Errorf("insert %s: %w", n, ErrNodeInTree)
	}

	var y uint
	x := t.root
	key := t.nodes[z].Interval
	for x != 0 {
		y = x
		if key.Less(t.nodes[x].Interval) {
			x = t.nodes[x].Left
		} else {
			x = t.nodes[x].Right
		}
	}

	zn := &t.nodes[z]
	zn.Parent = y
	zn.Left = 0
	zn.Right = 0
	zn.Color = Red
	zn.Max = key.high
	zn.state = nodeAttached
	switch {
	case y == 0:
		t.root = z
	case key.Less(t.nodes[y].Interval):
		t.nodes[y].Left = z
	default:
		t.nodes[y].Right = z
	}
	t.fixMaxUpwards(y)

	t.insertFixup(z)
	t.length++
	return nil
}

// InsertInterval is a shorthand for NewNode followed by Insert.
func (t *Tree[K, V]) InsertInterval(i Interval[K], v V) Node[K, V] {
	n := t.NewNode(i, v)
	// a freshly made node of this tree is always accepted
	_ = t.Insert(n)
	return n
}

// Erase unlinks the node from the tree and frees it. The handle is stale
// afterwards.
func (t *Tree[K, V]) Erase(n Node[K, V]) error {
	if err := t.validate(n); err != nil {
		return fmt.Errorf("erase %s: %w", n, err)
	}
	z := n.index
	if t.nodes[z].state != nodeAttached {
		return fmt.Errorf("erase %s: %w", n, ErrNodeNotInTree)
	}

	var x, xp uint
	yColor := t.nodes[z].Color
	switch {
	case t.nodes[z].Left == 0:
		x = t.nodes[z].Right
		xp = t.nodes[z].Parent
		t.transplant(z, x)
	case t.nodes[z].Right == 0:
		x = t.nodes[z].Left
		xp = t.nodes[z].Parent
		t.transplant(z, x)
	default:
		y := t.minimum(t.nodes[z].Right)
		yColor = t.nodes[y].Color
		x = t.nodes[y].Right
		if t.nodes[y].Parent == z {
			xp = y
		} else {
			xp = t.nodes[y].Parent
			t.transplant(y, x)
			t.nodes[y].Right = t.nodes[z].Right
			t.nodes[t.nodes[y].Right].Parent = y
		}
		t.transplant(z, y)
		t.nodes[y].Left = t.nodes[z].Left
		t.nodes[t.nodes[y].Left].Parent = y
		t.nodes[y].Color = t.nodes[z].Color
	}
	t.fixMaxUpwards(xp)
	t.freeNode(z)
	t.length--

	if yColor == Black {
		t.deleteFixup(x, xp)
	}
	return nil
}

// Contains returns a node whose interval equals i. Only one node is
// returned when duplicates are stored.
func (t *Tree[K, V]) Contains(i Interval[K]) (Node[K, V], bool) {
	x := t.root
	for x != 0 {
		c := i.Compare(t.nodes[x].Interval)
		if c == 0 {
			return t.handle(x)
		}
		if c < 0 {
			x = t.nodes[x].Left
		} else {
			x = t.nodes[x].Right
		}
	}
	return Node[K, V]{}, false
}

// FindOverlap returns some node whose interval overlaps i. It is not
// necessarily the lowest or the first inserted.
func (t *Tree[K, V]) FindOverlap(i Interval[K]) (Node[K, V], bool) {
	x := t.root
	for x != 0 && !t.nodes[x].Interval.Overlaps(i) {
		if l := t.nodes[x].Left; l != 0 && t.nodes[l].Max >= i.low {
			x = l
		} else {
			x = t.nodes[x].Right
		}
	}
	return t.handle(x)
}

// FindAllOverlaps returns every node whose interval overlaps i, in no
// particular order.
func (t *Tree[K, V]) FindAllOverlaps(i Interval[K]) []Node[K, V] {
	var result []Node[K, V]
	if t.root == 0 {
		return result
	}

	stack := []uint{t.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[x]

		if n.Interval.Overlaps(i) {
			h, _ := t.handle(x)
			result = append(result, h)
		}
		if n.Right != 0 && n.Interval.low <= i.high && t.nodes[n.Right].Max >= i.low {
			stack = append(stack, n.Right)
		}
		if n.Left != 0 && t.nodes[n.Left].Max >= i.low {
			stack = append(stack, n.Left)
		}
	}
	return result
}

// Root returns the root node, if any.
func (t *Tree[K, V]) Root() (Node[K, V], bool) {
	return t.handle(t.root)
}

// Minimum returns the node with the lowest interval, if any.
func (t *Tree[K, V]) Minimum() (Node[K, V], bool) {
	if t.root == 0 {
		return Node[K, V]{}, false
	}
	return t.handle(t.minimum(t.root))
}

// Successor returns the in-order successor of n. It reports false when n
// is the last node or is not a linked node of this tree.
func (t *Tree[K, V]) Successor(n Node[K, V]) (Node[K, V], bool) {
	if t.validate(n) != nil || t.nodes[n.index].state != nodeAttached {
		return Node[K, V]{}, false
	}
	return t.handle(t.successor(n.index))
}

// note: this is only used for unit testing
// nolint
func (t *Tree[K, V]) PrintNodes() {
	for id, n := range t.nodes {
		if n.state == nodeAttached {
			fmt.Println("node", id, n.Interval, "max", n.Max, n.Color, "left", n.Left, "right", n.Right, "parent", n.Parent)
		}
	}
}
