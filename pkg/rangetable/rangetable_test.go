package rangetable

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/inttree/pkg/tree"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

func mustRange(t *testing.T, s string) tree.Interval[uint64] {
	t.Helper()
	r, err := ParseRange(s)
	assert.NoError(t, err)
	return r
}

func TestParseRange(t *testing.T) {
	cases := map[string]struct {
		input       string
		low, high   uint64
		expectedErr bool
	}{
		"Range":    {input: "1000-2000", low: 1000, high: 2000},
		"Single":   {input: "42", low: 42, high: 42},
		"Spaces":   {input: " 5-6 ", low: 5, high: 6},
		"Inverted": {input: "20-10", expectedErr: true},
		"BadFrom":  {input: "a-10", expectedErr: true},
		"BadTo":    {input: "10-b", expectedErr: true},
		"NoNumber": {input: "abc", expectedErr: true},
		"Negative": {input: "-5", expectedErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := ParseRange(tc.input)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.low, r.Low())
			assert.Equal(t, tc.high, r.High())
		})
	}
}

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		size              uint64
		newSuccessEntries []string
		newFailedEntries  []string
		expectedEntries   int
	}{
		"Normal": {
			size:              4096,
			newSuccessEntries: []string{"10-19", "20-29", "100"},
			newFailedEntries:  []string{"15-25", "29", "5000", "0-4096"},
			expectedEntries:   3,
		},
		"Touching": {
			size:              100,
			newSuccessEntries: []string{"0-9", "10-10", "11-99"},
			newFailedEntries:  []string{"9-11", "50"},
			expectedEntries:   3,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rt, err := New("dummy", tc.size)
			assert.NoError(t, err)

			for _, s := range tc.newSuccessEntries {
				err := rt.ClaimRange(s, labels.Set{"owner": name})
				assert.NoError(t, err)
			}
			for _, s := range tc.newFailedEntries {
				err := rt.ClaimRange(s, labels.Set{})
				assert.Error(t, err)
			}
			for _, s := range tc.newSuccessEntries {
				if _, err := rt.Get(mustRange(t, s)); err != nil {
					t.Errorf("%s expecting success claim entry: %s\n", name, s)
				}
				assert.False(t, rt.IsFree(mustRange(t, s)))
			}
			if rt.Size() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, rt.Size())
			}
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New("empty", 0)
	assert.Error(t, err)
}

func TestAddOverlapping(t *testing.T) {
	rt, err := New("dummy", 1000)
	assert.NoError(t, err)

	assert.NoError(t, rt.Add(mustRange(t, "10-50"), labels.Set{"pool": "a"}))
	assert.NoError(t, rt.Add(mustRange(t, "40-60"), labels.Set{"pool": "b"}))
	assert.NoError(t, rt.Add(mustRange(t, "40-60"), labels.Set{"pool": "c"}))
	assert.NoError(t, rt.Add(mustRange(t, "70-80"), labels.Set{"pool": "a"}))
	assert.Error(t, rt.Add(mustRange(t, "990-1000"), nil))

	assert.Equal(t, 4, rt.Size())
	assert.Len(t, rt.Overlapping(mustRange(t, "45")), 3)
	assert.Len(t, rt.Overlapping(mustRange(t, "61-69")), 0)
	assert.False(t, rt.IsFree(mustRange(t, "55-75")))
	assert.True(t, rt.IsFree(mustRange(t, "61-69")))
	assert.False(t, rt.IsFree(mustRange(t, "999-1000")))

	sel, err := labels.Parse("pool=a")
	assert.NoError(t, err)
	got := rt.OverlappingByLabel(mustRange(t, "0-100"), sel)
	var ranges []string
	for _, e := range got {
		ranges = append(ranges, e.Range().String())
	}
	sort.Strings(ranges)
	if diff := cmp.Diff([]string{"[10, 50]", "[70, 80]"}, ranges); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestUpdateRelease(t *testing.T) {
	rt, err := New("dummy", 1000)
	assert.NoError(t, err)
	r := mustRange(t, "100-200")

	assert.Error(t, rt.Update(r, labels.Set{"a": "b"}))
	assert.Error(t, rt.Release(r))

	assert.NoError(t, rt.Claim(r, labels.Set{"a": "b"}))
	assert.NoError(t, rt.Update(r, labels.Set{"a": "c"}))
	e, err := rt.Get(r)
	assert.NoError(t, err)
	assert.Equal(t, "c", e.Labels()["a"])

	assert.NoError(t, rt.Release(r))
	_, err = rt.Get(r)
	assert.Error(t, err)
	assert.True(t, rt.IsFree(r))
	assert.Equal(t, 0, rt.Size())
}

func TestReleaseByLabel(t *testing.T) {
	rt, err := New("dummy", 1<<20)
	assert.NoError(t, err)
	for i := uint64(0); i < 50; i++ {
		color := "red"
		if i%2 == 0 {
			color = "blue"
		}
		r, err := tree.NewInterval(i*100, i*100+50)
		assert.NoError(t, err)
		assert.NoError(t, rt.Claim(r, labels.Set{"color": color}))
	}

	sel, err := labels.Parse("color=blue")
	assert.NoError(t, err)
	assert.Len(t, rt.GetByLabel(sel), 25)
	assert.NoError(t, rt.ReleaseByLabel(sel))
	assert.Len(t, rt.GetByLabel(sel), 0)
	assert.Equal(t, 25, rt.Size())

	prev := uint64(0)
	iter := rt.Iterate()
	for iter.Next() {
		assert.Equal(t, "red", iter.Entry().Labels()["color"])
		assert.True(t, iter.Entry().Range().Low() >= prev)
		prev = iter.Entry().Range().Low()
	}
}

func TestClone(t *testing.T) {
	rt, err := New("dummy", 1000)
	assert.NoError(t, err)
	assert.NoError(t, rt.ClaimRange("1-10", labels.Set{"a": "b"}))

	c := rt.Clone()
	assert.NoError(t, c.ClaimRange("20-30", nil))
	assert.NoError(t, rt.Release(mustRange(t, "1-10")))

	assert.Equal(t, 0, rt.Size())
	assert.Equal(t, 2, c.Size())
	e, err := c.Get(mustRange(t, "1-10"))
	assert.NoError(t, err)
	assert.True(t, e.Equal(tree.NewEntry(mustRange(t, "1-10"), labels.Set{"a": "b"})))
	assert.Len(t, c.GetAll(), 2)
}
