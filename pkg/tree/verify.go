package tree

import (
	"errors"
	"fmt"
)

// ErrCorrupted is wrapped by every error returned from Validate.
var ErrCorrupted = errors.New("tree invariant violated")

// Validate checks the red-black and max invariants of the whole tree and
// that the nodes are in interval order.
func (t *Tree[K, V]) Validate() error {
	if t.nodes[0].Color != Black || t.nodes[0].state != nodeFree {
		return fmt.Errorf("%w: sentinel was written", ErrCorrupted)
	}
	if t.root == 0 {
		if t.length != 0 {
			return fmt.Errorf("%w: empty tree with length %d", ErrCorrupted, t.length)
		}
		return nil
	}
	if t.nodes[t.root].Parent != 0 {
		return fmt.Errorf("%w: root %s has a parent", ErrCorrupted, t.nodes[t.root].Interval)
	}
	if t.nodes[t.root].Color != Black {
		return fmt.Errorf("%w: root %s is red", ErrCorrupted, t.nodes[t.root].Interval)
	}
	count := 0
	if _, err := t.validateSubtree(t.root, &count); err != nil {
		return err
	}
	if count != t.length {
		return fmt.Errorf("%w: counted %d nodes, length %d", ErrCorrupted, count, t.length)
	}

	var prev uint
	iter := t.Iterate()
	for iter.Next() {
		if prev != 0 && t.nodes[iter.nodeIndex].Interval.Less(t.nodes[prev].Interval) {
			return fmt.Errorf("%w: %s follows %s", ErrCorrupted, t.nodes[iter.nodeIndex].Interval, t.nodes[prev].Interval)
		}
		prev = iter.nodeIndex
	}
	return nil
}

// validateSubtree returns the black height of the subtree rooted at x.
// Depth is bounded by the balancing, so recursion is fine here.
func (t *Tree[K, V]) validateSubtree(x uint, count *int) (int, error) {
	if x == 0 {
		return 1, nil
	}
	*count++
	n := &t.nodes[x]
	if n.state != nodeAttached {
		return 0, fmt.Errorf("%w: node %d is linked but not attached", ErrCorrupted, x)
	}
	for _, c := range []uint{n.Left, n.Right} {
		if c == 0 {
			continue
		}
		if t.nodes[c].Parent != x {
			return 0, fmt.Errorf("%w: child %s of %s has parent %d", ErrCorrupted, t.nodes[c].Interval, n.Interval, t.nodes[c].Parent)
		}
		if n.Color == Red && t.nodes[c].Color == Red {
			return 0, fmt.Errorf("%w: red node %s has red child %s", ErrCorrupted, n.Interval, t.nodes[c].Interval)
		}
	}

	m := n.Interval.high
	if n.Left != 0 {
		m = max(m, t.nodes[n.Left].Max)
	}
	if n.Right != 0 {
		m = max(m, t.nodes[n.Right].Max)
	}
	if n.Max != m {
		return 0, fmt.Errorf("%w: node %s has max %v, want %v", ErrCorrupted, n.Interval, n.Max, m)
	}

	lh, err := t.validateSubtree(n.Left, count)
	if err != nil {
		return 0, err
	}
	rh, err := t.validateSubtree(n.Right, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: node %s has black heights %d and %d", ErrCorrupted, n.Interval, lh, rh)
	}
	if n.Color == Black {
		lh++
	}
	return lh, nil
}
