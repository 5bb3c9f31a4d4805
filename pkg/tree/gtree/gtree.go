package gtree

import (
	"github.com/henderiw/inttree/pkg/tree"
	"k8s.io/apimachinery/pkg/labels"
)

// GTree is a labelled table of uint64 ranges backed by an interval tree.
type GTree interface {
	Clone() GTree
	Get(r tree.Interval[uint64]) (tree.Entry[uint64], error)
	Add(r tree.Interval[uint64], labels labels.Set) error
	Claim(r tree.Interval[uint64], labels labels.Set) error
	ClaimRange(s string, labels labels.Set) error
	Update(r tree.Interval[uint64], labels labels.Set) error
	Release(r tree.Interval[uint64]) error
	ReleaseByLabel(selector labels.Selector) error
	Overlapping(r tree.Interval[uint64]) tree.Entries[uint64]
	OverlappingByLabel(r tree.Interval[uint64], selector labels.Selector) tree.Entries[uint64]
	IsFree(r tree.Interval[uint64]) bool
	GetByLabel(selector labels.Selector) tree.Entries[uint64]
	GetAll() tree.Entries[uint64]
	Size() int
	Iterate() *GTreeIterator
	PrintNodes()
}

type GTreeIterator struct {
	Iter *tree.TreeIterator[uint64, tree.Entry[uint64]]
}

func (i *GTreeIterator) Next() bool {
	return i.Iter.Next()
}

func (i *GTreeIterator) Entry() tree.Entry[uint64] {
	return i.Iter.Node().Value()
}
