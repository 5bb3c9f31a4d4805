package rangetable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/henderiw/inttree/pkg/tree"
	"github.com/henderiw/inttree/pkg/tree/gtree"
	"k8s.io/apimachinery/pkg/labels"
)

func New(name string, size uint64) (gtree.GTree, error) {
	if size == 0 {
		return nil, fmt.Errorf("cannot create range table %s with size 0", name)
	}
	return &rangeTable{
		m:    new(sync.RWMutex),
		name: name,
		tree: tree.NewTree[uint64, tree.Entry[uint64]](),
		size: size,
	}, nil
}

type rangeTable struct {
	m    *sync.RWMutex
	name string
	tree *tree.Tree[uint64, tree.Entry[uint64]]
	size uint64
}

func (r *rangeTable) Clone() gtree.GTree {
	r.m.RLock()
	defer r.m.RUnlock()

	return &rangeTable{
		m:    new(sync.RWMutex),
		name: r.name,
		tree: r.tree.Clone(),
		size: r.size,
	}
}

func (r *rangeTable) Get(rng tree.Interval[uint64]) (tree.Entry[uint64], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	n, ok := r.tree.Contains(rng)
	if !ok {
		return nil, fmt.Errorf("entry %s not found", rng)
	}
	return n.Value(), nil
}

func (r *rangeTable) Add(rng tree.Interval[uint64], labels labels.Set) error {
	if err := r.validate(rng); err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()
	r.tree.InsertInterval(rng, tree.NewEntry(rng, labels))
	return nil
}

func (r *rangeTable) Claim(rng tree.Interval[uint64], labels labels.Set) error {
	if err := r.validate(rng); err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()
	if n, ok := r.tree.FindOverlap(rng); ok {
		return fmt.Errorf("claim %s failed, overlaps with %s", rng, n.Interval())
	}
	r.tree.InsertInterval(rng, tree.NewEntry(rng, labels))
	return nil
}

func (r *rangeTable) ClaimRange(s string, labels labels.Set) error {
	rng, err := ParseRange(s)
	if err != nil {
		return err
	}
	return r.Claim(rng, labels)
}

func (r *rangeTable) Update(rng tree.Interval[uint64], labels labels.Set) error {
	if err := r.validate(rng); err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()
	n, ok := r.tree.Contains(rng)
	if !ok {
		return fmt.Errorf("update failed, entry %s not found", rng)
	}
	n.SetValue(tree.NewEntry(rng, labels))
	return nil
}

func (r *rangeTable) Release(rng tree.Interval[uint64]) error {
	if err := r.validate(rng); err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()
	n, ok := r.tree.Contains(rng)
	if !ok {
		return fmt.Errorf("release failed, entry %s not found", rng)
	}
	return r.tree.Erase(n)
}

func (r *rangeTable) ReleaseByLabel(selector labels.Selector) error {
	r.m.Lock()
	defer r.m.Unlock()

	var nodes []tree.Node[uint64, tree.Entry[uint64]]
	iter := r.tree.Iterate()
	for iter.Next() {
		if selector.Matches(iter.Node().Value().Labels()) {
			nodes = append(nodes, iter.Node())
		}
	}

	// erasing a node leaves the handles of the other nodes intact
	var errm error
	for _, n := range nodes {
		if err := r.tree.Erase(n); err != nil {
			errm = errors.Join(errm, err)
		}
	}
	return errm
}

func (r *rangeTable) Overlapping(rng tree.Interval[uint64]) tree.Entries[uint64] {
	return r.OverlappingByLabel(rng, labels.Everything())
}

func (r *rangeTable) OverlappingByLabel(rng tree.Interval[uint64], selector labels.Selector) tree.Entries[uint64] {
	entries := tree.Entries[uint64]{}
	r.m.RLock()
	defer r.m.RUnlock()

	for _, n := range r.tree.FindAllOverlaps(rng) {
		if selector.Matches(n.Value().Labels()) {
			entries = append(entries, n.Value())
		}
	}
	return entries
}

func (r *rangeTable) IsFree(rng tree.Interval[uint64]) bool {
	if err := r.validate(rng); err != nil {
		return false
	}
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.tree.FindOverlap(rng)
	return !ok
}

func (r *rangeTable) GetByLabel(selector labels.Selector) tree.Entries[uint64] {
	entries := tree.Entries[uint64]{}
	r.m.RLock()
	defer r.m.RUnlock()

	iter := r.tree.Iterate()
	for iter.Next() {
		if selector.Matches(iter.Node().Value().Labels()) {
			entries = append(entries, iter.Node().Value())
		}
	}
	return entries
}

func (r *rangeTable) GetAll() tree.Entries[uint64] {
	return r.GetByLabel(labels.Everything())
}

func (r *rangeTable) Size() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Len()
}

func (r *rangeTable) Iterate() *gtree.GTreeIterator {
	r.m.RLock()
	defer r.m.RUnlock()

	return &gtree.GTreeIterator{
		Iter: r.tree.Iterate(),
	}
}

func (r *rangeTable) validate(rng tree.Interval[uint64]) error {
	if rng.High() > r.size-1 {
		return fmt.Errorf("max id allowed is %d, got %d", r.size-1, rng.High())
	}
	return nil
}

func (r *rangeTable) PrintNodes() {
	r.tree.PrintNodes()
}
