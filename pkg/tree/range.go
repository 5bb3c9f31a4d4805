package tree

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrInvertedInterval is returned if an interval is built with a low bound
// greater than its high bound.
var ErrInvertedInterval = errors.New("interval: inverted range")

// Interval is a closed range [low, high]. The zero value is the single
// point interval at the zero value of K.
type Interval[K cmp.Ordered] struct {
	low  K
	high K
}

// NewInterval returns a new Interval or an error if high is before low.
func NewInterval[K cmp.Ordered](low, high K) (Interval[K], error) {
	if high < low {
		return Interval[K]{}, fmt.Errorf("%w: [%v, %v]", ErrInvertedInterval, low, high)
	}
	return Interval[K]{low: low, high: high}, nil
}

// Point returns the degenerate interval [v, v].
func Point[K cmp.Ordered](v K) Interval[K] {
	return Interval[K]{low: v, high: v}
}

// Low returns the lower bound of the interval.
func (r Interval[K]) Low() K { return r.low }

// High returns the upper bound of the interval.
func (r Interval[K]) High() K { return r.high }

// Overlaps returns whether r and other share at least one point. Both ends
// are treated as inclusive.
func (r Interval[K]) Overlaps(other Interval[K]) bool {
	return r.low <= other.high && other.low <= r.high
}

// Contains returns whether v lies within r.
func (r Interval[K]) Contains(v K) bool {
	return r.low <= v && v <= r.high
}

// CoveredBy returns whether r is entirely contained within other.
func (r Interval[K]) CoveredBy(other Interval[K]) bool {
	return other.low <= r.low && r.high <= other.high
}

func (r Interval[K]) Equal(other Interval[K]) bool {
	return r.low == other.low && r.high == other.high
}

// Compare orders intervals by low bound, then by high bound.
// The result will be 0 if r == other, -1 if r < other, and +1 if r > other.
func (r Interval[K]) Compare(other Interval[K]) int {
	if c := cmp.Compare(r.low, other.low); c != 0 {
		return c
	}
	return cmp.Compare(r.high, other.high)
}

func (r Interval[K]) Less(other Interval[K]) bool { return r.Compare(other) < 0 }

func (r Interval[K]) String() string {
	return fmt.Sprintf("[%v, %v]", r.low, r.high)
}
