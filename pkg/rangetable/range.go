package rangetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/henderiw/inttree/pkg/tree"
)

// ParseRange parses "from-to" into a closed interval. A single number is
// the range holding only that id.
func ParseRange(s string) (tree.Interval[uint64], error) {
	var r tree.Interval[uint64]
	s = strings.TrimSpace(s)
	h := strings.IndexByte(s, '-')
	if h == -1 {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return r, fmt.Errorf("invalid id %q", s)
		}
		return tree.Point(id), nil
	}
	from, to := s[:h], s[h+1:]
	fromUint64, err := strconv.ParseUint(from, 10, 64)
	if err != nil {
		return r, fmt.Errorf("invalid from id %q in range %q", from, s)
	}
	toUint64, err := strconv.ParseUint(to, 10, 64)
	if err != nil {
		return r, fmt.Errorf("invalid to id %q in range %q", to, s)
	}
	return tree.NewInterval(fromUint64, toUint64)
}
