package tree

import "cmp"

// TreeIterator is a stateful in-order iterator over a tree.
type TreeIterator[K cmp.Ordered, V any] struct {
	t           *Tree[K, V]
	nodeIndex   uint
	nodeHistory []uint
}

// Iterate returns an iterator that visits the nodes in interval order. It
// is important for the tree to not be modified while using the iterator.
func (t *Tree[K, V]) Iterate() *TreeIterator[K, V] {
	iter := &TreeIterator[K, V]{
		t:           t,
		nodeHistory: []uint{},
	}
	iter.pushLeft(t.root)
	return iter
}

func (iter *TreeIterator[K, V]) pushLeft(x uint) {
	for ; x != 0; x = iter.t.nodes[x].Left {
		iter.nodeHistory = append(iter.nodeHistory, x)
	}
}

// Next jumps to the next node of the tree. It returns false if there
// is none.
func (iter *TreeIterator[K, V]) Next() bool {
	nodeHistoryLen := len(iter.nodeHistory)
	if nodeHistoryLen == 0 {
		iter.nodeIndex = 0
		return false
	}
	iter.nodeIndex = iter.nodeHistory[nodeHistoryLen-1]
	iter.nodeHistory = iter.nodeHistory[:nodeHistoryLen-1]
	iter.pushLeft(iter.t.nodes[iter.nodeIndex].Right)
	return true
}

// Node returns the current node of the iterator.
func (iter *TreeIterator[K, V]) Node() Node[K, V] {
	n, _ := iter.t.handle(iter.nodeIndex)
	return n
}

// Nodes returns all nodes of the tree in interval order.
func (t *Tree[K, V]) Nodes() []Node[K, V] {
	nodes := make([]Node[K, V], 0, t.length)
	iter := t.Iterate()
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes
}

// Walk calls fn for every node in interval order until fn returns false.
func (t *Tree[K, V]) Walk(fn func(n Node[K, V]) bool) {
	iter := t.Iterate()
	for iter.Next() {
		if !fn(iter.Node()) {
			return
		}
	}
}
