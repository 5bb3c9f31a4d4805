package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/henderiw/inttree/pkg/rangetable"
	"github.com/henderiw/inttree/pkg/tree"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

var values = []struct {
	low  uint64
	high uint64
	name string
}{
	{low: 17, high: 19, name: "a"},
	{low: 8, high: 9, name: "b"},
	{low: 25, high: 30, name: "c"},
}

func main() {
	query := pflag.StringP("query", "q", "18-26", "Range to search for overlaps, as from-to.")
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	pflag.Parse()
	defer klog.Flush()

	q, err := rangetable.ParseRange(*query)
	if err != nil {
		klog.ErrorS(err, "invalid query", "query", *query)
		os.Exit(1)
	}

	t := tree.NewTree[uint64, string]()
	for _, v := range values {
		n, err := t.NewNodeFromBounds(v.low, v.high, v.name)
		if err != nil {
			klog.ErrorS(err, "invalid interval", "low", v.low, "high", v.high)
			os.Exit(1)
		}
		if err := t.Insert(n); err != nil {
			klog.ErrorS(err, "insert failed", "interval", n)
			os.Exit(1)
		}
		klog.V(2).InfoS("inserted", "interval", n.Interval().String(), "payload", v.name)
	}

	fmt.Println("traverse:")
	n, ok := t.Minimum()
	for ok {
		fmt.Println(n.Interval(), n.Value())
		n, ok = t.Successor(n)
	}

	found, ok := t.FindOverlap(q)
	if !ok {
		fmt.Println("no overlap found for", q)
		return
	}
	fmt.Println("found one:")
	fmt.Println(found.Interval(), found.Value())

	fmt.Println("found all:")
	for _, n := range t.FindAllOverlaps(q) {
		fmt.Println(n.Interval(), n.Value())
	}

	if err := t.Erase(found); err != nil {
		klog.ErrorS(err, "erase failed")
		os.Exit(1)
	}
	klog.InfoS("erased", "remaining", t.Len())

	t.Clear()
	klog.V(2).InfoS("cleared", "empty", t.Empty())
}
