// Command mergesort times MergeSort.Sort against slices.Sort on a random
// slice of ints and checks that both produce the same output.
//
// Usage:
//
//	mergesort --size 1000000 --limit 10000 --concurrency 8
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"ParallelMergeSort/MergeSort"

	"github.com/convox/logger"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var log = logger.New("ns=mergesort")

type options struct {
	size        int
	limit       int
	seed        int64
	concurrency int
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "mergesort",
		Short:         "Benchmark the budgeted parallel merge sort",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.size, "size", 1000000, "number of elements to sort")
	flags.IntVar(&opts.limit, "limit", 10000, "elements are drawn from [0, limit)")
	flags.Int64Var(&opts.seed, "seed", 321, "random seed")
	flags.IntVar(&opts.concurrency, "concurrency", 8, "maximum number of sorting goroutines")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print the slice before and after sorting")

	return cmd
}

func run(opts options) error {
	l := log.At("run")

	if opts.size < 0 || opts.limit <= 0 {
		return l.Error(errors.Errorf("invalid size=%d limit=%d", opts.size, opts.limit))
	}

	array1 := randomInts(opts.size, opts.limit, rand.New(rand.NewSource(opts.seed)))
	array2 := slices.Clone(array1)

	if opts.verbose {
		fmt.Println("Before:", array2)
	}

	l.Logf("size=%s limit=%d concurrency=%d initially_equal=%t",
		humanize.Comma(int64(opts.size)), opts.limit, opts.concurrency, MergeSort.ArraysEqual(array1, array2))

	ref := l.Step("slices.Sort").Start()
	slices.Sort(array1)
	ref.Successf("sorted=%t", MergeSort.IsSorted(array1))

	ms := l.Step("MergeSort.Sort").Start()
	started := time.Now()
	MergeSort.Sort(array2, opts.concurrency)
	ms.Successf("sorted=%t took=%s", MergeSort.IsSorted(array2), time.Since(started))

	if opts.verbose {
		fmt.Println("After: ", array2)
	}

	if !MergeSort.ArraysEqual(array1, array2) {
		return l.Error(errors.New("sorted arrays differ"))
	}

	l.Successf("arrays_equal=true")
	return nil
}

func randomInts(size, limit int, r *rand.Rand) []int {
	a := make([]int, size)
	for i := range a {
		a[i] = r.Intn(limit)
	}
	return a
}
