package tree

// create a new detached node in the tree, return its index
func (t *Tree[K, V]) newNode(i Interval[K], v V) uint {
	t.gen++
	n := treeNode[K, V]{
		Interval: i,
		Max:      i.high,
		Color:    Red,
		Val:      v,
		gen:      t.gen,
		state:    nodeDetached,
	}

	availCount := len(t.availableIndexes)
	if availCount > 0 {
		index := t.availableIndexes[availCount-1]
		t.availableIndexes = t.availableIndexes[:availCount-1]
		t.nodes[index] = n
		return index
	}

	t.nodes = append(t.nodes, n)
	return uint(len(t.nodes) - 1)
}

// release the slot at index so it can be reused
func (t *Tree[K, V]) freeNode(index uint) {
	t.nodes[index] = treeNode[K, V]{}
	t.availableIndexes = append(t.availableIndexes, index)
}

// handle returns a Node for the index; index 0 reports false
func (t *Tree[K, V]) handle(index uint) (Node[K, V], bool) {
	if index == 0 {
		return Node[K, V]{}, false
	}
	return Node[K, V]{t: t, index: index, gen: t.nodes[index].gen}, true
}

// minimum returns the leftmost index in the subtree rooted at x
func (t *Tree[K, V]) minimum(x uint) uint {
	for t.nodes[x].Left != 0 {
		x = t.nodes[x].Left
	}
	return x
}

func (t *Tree[K, V]) successor(x uint) uint {
	if t.nodes[x].Right != 0 {
		return t.minimum(t.nodes[x].Right)
	}
	y := t.nodes[x].Parent
	for y != 0 && x == t.nodes[y].Right {
		x = y
		y = t.nodes[y].Parent
	}
	return y
}

// rotateLeft moves x down to the left and its right child up.
// The moved-up node inherits x's max as the subtree content is unchanged.
func (t *Tree[K, V]) rotateLeft(x uint) {
	y := t.nodes[x].Right
	t.nodes[x].Right = t.nodes[y].Left
	if t.nodes[y].Left != 0 {
		t.nodes[t.nodes[y].Left].Parent = x
	}
	xp := t.nodes[x].Parent
	t.nodes[y].Parent = xp
	switch {
	case xp == 0:
		t.root = y
	case x == t.nodes[xp].Left:
		t.nodes[xp].Left = y
	default:
		t.nodes[xp].Right = y
	}
	t.nodes[y].Left = x
	t.nodes[x].Parent = y

	t.nodes[y].Max = t.nodes[x].Max
	t.updateMax(x)
}

// rotateRight moves y down to the right and its left child up.
func (t *Tree[K, V]) rotateRight(y uint) {
	x := t.nodes[y].Left
	t.nodes[y].Left = t.nodes[x].Right
	if t.nodes[x].Right != 0 {
		t.nodes[t.nodes[x].Right].Parent = y
	}
	yp := t.nodes[y].Parent
	t.nodes[x].Parent = yp
	switch {
	case yp == 0:
		t.root = x
	case y == t.nodes[yp].Left:
		t.nodes[yp].Left = x
	default:
		t.nodes[yp].Right = x
	}
	t.nodes[x].Right = y
	t.nodes[y].Parent = x

	t.nodes[x].Max = t.nodes[y].Max
	t.updateMax(y)
}

// transplant replaces the subtree rooted at u with the one rooted at v.
// The sentinel is never written: when v is 0 the caller tracks the parent.
func (t *Tree[K, V]) transplant(u, v uint) {
	up := t.nodes[u].Parent
	switch {
	case up == 0:
		t.root = v
	case u == t.nodes[up].Left:
		t.nodes[up].Left = v
	default:
		t.nodes[up].Right = v
	}
	if v != 0 {
		t.nodes[v].Parent = up
	}
}

// fixMaxUpwards repairs max on z and all of its ancestors
func (t *Tree[K, V]) fixMaxUpwards(z uint) {
	for ; z != 0; z = t.nodes[z].Parent {
		t.updateMax(z)
	}
}

func (t *Tree[K, V]) insertFixup(z uint) {
	for t.nodes[t.nodes[z].Parent].Color == Red {
		p := t.nodes[z].Parent
		g := t.nodes[p].Parent
		if p == t.nodes[g].Left {
			u := t.nodes[g].Right
			if t.nodes[u].Color == Red {
				t.nodes[p].Color = Black
				t.nodes[u].Color = Black
				t.nodes[g].Color = Red
				z = g
				continue
			}
			if z == t.nodes[p].Right {
				z = p
				t.rotateLeft(z)
				p = t.nodes[z].Parent
			}
			t.nodes[p].Color = Black
			t.nodes[g].Color = Red
			t.rotateRight(g)
		} else {
			u := t.nodes[g].Left
			if t.nodes[u].Color == Red {
				t.nodes[p].Color = Black
				t.nodes[u].Color = Black
				t.nodes[g].Color = Red
				z = g
				continue
			}
			if z == t.nodes[p].Left {
				z = p
				t.rotateRight(z)
				p = t.nodes[z].Parent
			}
			t.nodes[p].Color = Black
			t.nodes[g].Color = Red
			t.rotateLeft(g)
		}
	}
	t.nodes[t.root].Color = Black
}

// deleteFixup restores the red-black properties after a black node was
// removed. x may be 0, so its parent is carried in xp.
func (t *Tree[K, V]) deleteFixup(x, xp uint) {
	for x != t.root && t.nodes[x].Color == Black {
		if x == t.nodes[xp].Left {
			w := t.nodes[xp].Right
			if t.nodes[w].Color == Red {
				t.nodes[w].Color = Black
				t.nodes[xp].Color = Red
				t.rotateLeft(xp)
				w = t.nodes[xp].Right
			}
			if t.nodes[t.nodes[w].Left].Color == Black && t.nodes[t.nodes[w].Right].Color == Black {
				t.nodes[w].Color = Red
				x = xp
				xp = t.nodes[x].Parent
				continue
			}
			if t.nodes[t.nodes[w].Right].Color == Black {
				t.nodes[t.nodes[w].Left].Color = Black
				t.nodes[w].Color = Red
				t.rotateRight(w)
				w = t.nodes[xp].Right
			}
			t.nodes[w].Color = t.nodes[xp].Color
			t.nodes[xp].Color = Black
			t.nodes[t.nodes[w].Right].Color = Black
			t.rotateLeft(xp)
			x = t.root
		} else {
			w := t.nodes[xp].Left
			if t.nodes[w].Color == Red {
				t.nodes[w].Color = Black
				t.nodes[xp].Color = Red
				t.rotateRight(xp)
				w = t.nodes[xp].Left
			}
			if t.nodes[t.nodes[w].Right].Color == Black && t.nodes[t.nodes[w].Left].Color == Black {
				t.nodes[w].Color = Red
				x = xp
				xp = t.nodes[x].Parent
				continue
			}
			if t.nodes[t.nodes[w].Left].Color == Black {
				t.nodes[t.nodes[w].Right].Color = Black
				t.nodes[w].Color = Red
				t.rotateLeft(w)
				w = t.nodes[xp].Left
			}
			t.nodes[w].Color = t.nodes[xp].Color
			t.nodes[xp].Color = Black
			t.nodes[t.nodes[w].Left].Color = Black
			t.rotateRight(xp)
			x = t.root
		}
	}
	if x != 0 {
		t.nodes[x].Color = Black
	}
}
