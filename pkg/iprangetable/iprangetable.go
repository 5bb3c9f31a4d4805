package iprangetable

import (
	"encoding/binary"
	"net/netip"
	"strings"
	"sync"

	"github.com/henderiw/inttree/pkg/tree"
	"github.com/pkg/errors"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

// IPRangeTable indexes labelled IPv4 ranges for address and range lookups.
type IPRangeTable interface {
	Add(s string, labels labels.Set) error
	Release(s string) error
	First(addr string) (tree.Entry[uint32], error)
	Lookup(addr string) (tree.Entries[uint32], error)
	Overlapping(s string) (tree.Entries[uint32], error)

	Count() int
	Has(addr string) bool

	GetAll() tree.Entries[uint32]
	GetByLabel(selector labels.Selector) tree.Entries[uint32]
}

func New(from, to netip.Addr) (IPRangeTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, errors.Errorf("invalid ip range: range max before min [%s - %s]", from, to)
	}
	if !from.Is4() || !to.Is4() {
		return nil, errors.Errorf("only ipv4 ranges are supported, got %s", ipRange)
	}
	return &ipRangeTable{
		m:       new(sync.RWMutex),
		tree:    tree.NewTree[uint32, tree.Entry[uint32]](),
		ipRange: ipRange,
	}, nil
}

type ipRangeTable struct {
	m       *sync.RWMutex
	tree    *tree.Tree[uint32, tree.Entry[uint32]]
	ipRange netipx.IPRange
}

// Add stores a range given as "from-to", a CIDR prefix or a single address.
func (r *ipRangeTable) Add(s string, labels labels.Set) error {
	rng, err := r.parseRange(s)
	if err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()
	r.tree.InsertInterval(rng, tree.NewEntry(rng, labels))
	return nil
}

func (r *ipRangeTable) Release(s string) error {
	rng, err := r.parseRange(s)
	if err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()
	n, ok := r.tree.Contains(rng)
	if !ok {
		return errors.Errorf("release failed, range %s not found", s)
	}
	return errors.Wrapf(r.tree.Erase(n), "release failed for range %s", s)
}

// First returns one range containing addr.
func (r *ipRangeTable) First(addr string) (tree.Entry[uint32], error) {
	ip, err := r.validateIP(addr)
	if err != nil {
		return nil, err
	}

	r.m.RLock()
	defer r.m.RUnlock()
	n, ok := r.tree.FindOverlap(tree.Point(ipToUint32(ip)))
	if !ok {
		return nil, errors.Errorf("no range found for ip %s", addr)
	}
	return n.Value(), nil
}

// Lookup returns every range containing addr.
func (r *ipRangeTable) Lookup(addr string) (tree.Entries[uint32], error) {
	ip, err := r.validateIP(addr)
	if err != nil {
		return nil, err
	}

	r.m.RLock()
	defer r.m.RUnlock()
	return r.overlapping(tree.Point(ipToUint32(ip))), nil
}

func (r *ipRangeTable) Overlapping(s string) (tree.Entries[uint32], error) {
	rng, err := r.parseRange(s)
	if err != nil {
		return nil, err
	}

	r.m.RLock()
	defer r.m.RUnlock()
	return r.overlapping(rng), nil
}

func (r *ipRangeTable) overlapping(rng tree.Interval[uint32]) tree.Entries[uint32] {
	entries := tree.Entries[uint32]{}
	for _, n := range r.tree.FindAllOverlaps(rng) {
		entries = append(entries, n.Value())
	}
	return entries
}

func (r *ipRangeTable) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.tree.Len()
}

func (r *ipRangeTable) Has(addr string) bool {
	_, err := r.First(addr)
	return err == nil
}

func (r *ipRangeTable) GetAll() tree.Entries[uint32] {
	return r.GetByLabel(labels.Everything())
}

func (r *ipRangeTable) GetByLabel(selector labels.Selector) tree.Entries[uint32] {
	entries := tree.Entries[uint32]{}
	r.m.RLock()
	defer r.m.RUnlock()

	iter := r.tree.Iterate()
	for iter.Next() {
		e := iter.Node().Value()
		if selector.Matches(e.Labels()) {
			entries = append(entries, e)
		}
	}
	return entries
}

func (r *ipRangeTable) validateIP(addr string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, errors.Wrapf(err, "ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(ip) {
		return netip.Addr{}, errors.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From(), r.ipRange.To())
	}
	return ip, nil
}

func (r *ipRangeTable) parseRange(s string) (tree.Interval[uint32], error) {
	var ipRange netipx.IPRange
	switch {
	case strings.ContainsRune(s, '/'):
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return tree.Interval[uint32]{}, errors.Wrapf(err, "invalid prefix %s", s)
		}
		ipRange = netipx.RangeOfPrefix(p)
	case strings.ContainsRune(s, '-'):
		rng, err := netipx.ParseIPRange(s)
		if err != nil {
			return tree.Interval[uint32]{}, errors.Wrapf(err, "invalid ip range %s", s)
		}
		ipRange = rng
	default:
		ip, err := netip.ParseAddr(s)
		if err != nil {
			return tree.Interval[uint32]{}, errors.Wrapf(err, "ip address %s is invalid", s)
		}
		ipRange = netipx.IPRangeFrom(ip, ip)
	}

	if !ipRange.IsValid() || !ipRange.From().Is4() {
		return tree.Interval[uint32]{}, errors.Errorf("invalid ipv4 range %s", s)
	}
	if !r.ipRange.Contains(ipRange.From()) || !r.ipRange.Contains(ipRange.To()) {
		return tree.Interval[uint32]{}, errors.Errorf("range %s, does not fit in the range from %s to %s", s, r.ipRange.From(), r.ipRange.To())
	}
	return tree.NewInterval(ipToUint32(ipRange.From()), ipToUint32(ipRange.To()))
}

// IPRangeOf converts an entry range back to addresses.
func IPRangeOf(e tree.Entry[uint32]) netipx.IPRange {
	return netipx.IPRangeFrom(uint32ToIP(e.Range().Low()), uint32ToIP(e.Range().High()))
}

func ipToUint32(ip netip.Addr) uint32 {
	b := ip.As4()
	return binary.BigEndian.Uint32(b[:])
}

func uint32ToIP(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
