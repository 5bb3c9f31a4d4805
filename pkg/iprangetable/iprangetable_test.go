package iprangetable

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

func newTable(t *testing.T, s string) IPRangeTable {
	t.Helper()
	ipRange, err := netipx.ParseIPRange(s)
	require.NoError(t, err)
	r, err := New(ipRange.From(), ipRange.To())
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	ipRange, err := netipx.ParseIPRange("2001:db8::1-2001:db8::ff")
	require.NoError(t, err)
	_, err = New(ipRange.From(), ipRange.To())
	require.Error(t, err)

	_, err = New(ipRange.To(), ipRange.From())
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	r := newTable(t, "0.0.0.0-255.255.255.255")

	require.NoError(t, r.Add("10.10.10.0-10.20.30.40", labels.Set{"vendor": "azure"}))
	require.NoError(t, r.Add("20.20.20.2", labels.Set{"vendor": "gcp"}))
	require.NoError(t, r.Add("255.255.255.250-255.255.255.255", labels.Set{"vendor": "aws"}))
	require.NoError(t, r.Add("20.20.20.2-20.20.20.3", labels.Set{"vendor": "gcp"}))
	require.NoError(t, r.Add("192.168.0.0/16", labels.Set{"vendor": "private"}))
	require.Equal(t, 5, r.Count())

	cases := map[string]struct {
		ip            string
		shouldBeFound bool
		matches       int
	}{
		"RangeStart":      {ip: "10.10.10.0", shouldBeFound: true, matches: 1},
		"Duplicate":       {ip: "20.20.20.2", shouldBeFound: true, matches: 2},
		"Last":            {ip: "255.255.255.255", shouldBeFound: true, matches: 1},
		"Miss":            {ip: "30.30.30.30"},
		"RangeEnd":        {ip: "10.20.30.40", shouldBeFound: true, matches: 1},
		"AfterRangeEnd":   {ip: "10.20.30.41"},
		"LastRangeStart":  {ip: "255.255.255.250", shouldBeFound: true, matches: 1},
		"BeforeLastRange": {ip: "255.255.255.249"},
		"Prefix":          {ip: "192.168.4.4", shouldBeFound: true, matches: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := r.First(tc.ip)
			if tc.shouldBeFound {
				require.NoError(t, err)
				ip, _ := netipx.ParseIPRange(tc.ip + "-" + tc.ip)
				require.True(t, IPRangeOf(e).Contains(ip.From()))
			} else {
				require.Error(t, err)
			}
			require.Equal(t, tc.shouldBeFound, r.Has(tc.ip))

			res, err := r.Lookup(tc.ip)
			require.NoError(t, err)
			require.Len(t, res, tc.matches)
		})
	}
}

func TestValidation(t *testing.T) {
	r := newTable(t, "10.0.0.10-10.0.0.20")

	require.NoError(t, r.Add("10.0.0.10-10.0.0.12", nil))
	require.Error(t, r.Add("10.0.0.9-10.0.0.12", nil))
	require.Error(t, r.Add("10.0.0.21", nil))
	require.Error(t, r.Add("10.0.0.0/24", nil))
	require.Error(t, r.Add("10.0.0.15-10.0.0.11", nil))
	require.Error(t, r.Add("not-an-ip", nil))
	require.Error(t, r.Add("::1", nil))

	_, err := r.Lookup("10.0.0.30")
	require.Error(t, err)
	_, err = r.Lookup("bogus")
	require.Error(t, err)
	require.False(t, r.Has("10.0.0.30"))
	require.Equal(t, 1, r.Count())
}

func TestReleaseAndOverlapping(t *testing.T) {
	r := newTable(t, "10.0.0.0-10.0.255.255")
	require.NoError(t, r.Add("10.0.0.0/24", labels.Set{"site": "a"}))
	require.NoError(t, r.Add("10.0.1.0/24", labels.Set{"site": "b"}))
	require.NoError(t, r.Add("10.0.0.128-10.0.1.127", labels.Set{"site": "c"}))

	res, err := r.Overlapping("10.0.0.200-10.0.0.210")
	require.NoError(t, err)
	var sites []string
	for _, e := range res {
		sites = append(sites, e.Labels()["site"])
	}
	sort.Strings(sites)
	require.Equal(t, []string{"a", "c"}, sites)

	sel, err := labels.Parse("site in (a,b)")
	require.NoError(t, err)
	require.Len(t, r.GetByLabel(sel), 2)

	require.Error(t, r.Release("10.0.2.0/24"))
	require.NoError(t, r.Release("10.0.0.128-10.0.1.127"))
	res, err = r.Overlapping("10.0.0.200-10.0.0.210")
	require.NoError(t, err)
	require.Len(t, res, 1)

	all := r.GetAll()
	require.Len(t, all, 2)
	require.Equal(t, "10.0.0.0-10.0.0.255", IPRangeOf(all[0]).String())
	require.Equal(t, "10.0.1.0-10.0.1.255", IPRangeOf(all[1]).String())
}
