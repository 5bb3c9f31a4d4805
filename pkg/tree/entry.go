package tree

import (
	"cmp"
	"fmt"

	"k8s.io/apimachinery/pkg/labels"
)

// Entry is a labelled interval, the payload used by the range tables.
type Entry[K cmp.Ordered] interface {
	Range() Interval[K]
	Labels() labels.Set
	String() string
	Equal(e2 Entry[K]) bool
}

type entry[K cmp.Ordered] struct {
	r      Interval[K]
	labels labels.Set
}
type Entries[K cmp.Ordered] []Entry[K]

func (r entry[K]) Range() Interval[K] { return r.r }
func (r entry[K]) Labels() labels.Set { return r.labels }
func (r entry[K]) String() string {
	return fmt.Sprintf("range: %s, labels: %s", r.r.String(), r.labels.String())
}
func (r entry[K]) Equal(e2 Entry[K]) bool {
	if r.r.Equal(e2.Range()) &&
		r.labels.String() == e2.Labels().String() {
		return true
	}
	return false
}

func NewEntry[K cmp.Ordered](r Interval[K], l labels.Set) Entry[K] {
	if l == nil {
		l = labels.Set{}
	}
	return entry[K]{
		r:      r,
		labels: labels.Merge(l, nil),
	}
}
