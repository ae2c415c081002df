// Package MergeSort is a stable merge sort that forks onto a fixed budget of
// goroutines and falls back to sequential recursion once the budget is spent.
//
// Two buffers of equal length take part in every sort: the caller's slice and
// a scratch clone. Their read and write roles swap at each recursion level,
// so merged output of the root lands back in the caller's slice.
package MergeSort

import (
	"context"
	"fmt"

	"ParallelMergeSort/MergeSort/fork_join"

	"github.com/convox/logger"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

const (
	// MIN_CONCURRENCY is the smallest worker budget; the root always splits two ways.
	MIN_CONCURRENCY = 2
)

var (
	// ranges this short are sorted by binary insertion
	insertionThreshold = 16
	// sequential recursion polls ctx on ranges at least this long
	cancelCheckGrain = 1 << 13
)

// ErrCanceled is returned (wrapped) when a sort observes cancellation.
// The slice is left in an unspecified order.
var ErrCanceled = fork_join.ErrCanceled

var log = logger.New("ns=mergesort")

type sorter[T any] struct {
	less func(a, b T) bool
	pool *fork_join.ForkJoinPool
}

// Sort sorts a in place using up to max(concurrency, 2) goroutines.
func Sort[T constraints.Ordered](a []T, concurrency int) {
	must(SortContext(context.Background(), a, concurrency))
}

// SortRange sorts a[from:to] in place.
func SortRange[T constraints.Ordered](a []T, from, to, concurrency int) {
	must(SortRangeContext(context.Background(), a, from, to, concurrency))
}

func SortContext[T constraints.Ordered](ctx context.Context, a []T, concurrency int) error {
	return sortRange(ctx, a, 0, len(a), concurrency, ordered[T])
}

func SortRangeContext[T constraints.Ordered](ctx context.Context, a []T, from, to, concurrency int) error {
	return sortRange(ctx, a, from, to, concurrency, ordered[T])
}

// SortComparable sorts a in place by the elements' CompareTo order.
func SortComparable[T Comparable[T]](a []T, concurrency int) {
	must(SortComparableContext(context.Background(), a, concurrency))
}

func SortComparableRange[T Comparable[T]](a []T, from, to, concurrency int) {
	must(SortComparableRangeContext(context.Background(), a, from, to, concurrency))
}

func SortComparableContext[T Comparable[T]](ctx context.Context, a []T, concurrency int) error {
	return sortRange(ctx, a, 0, len(a), concurrency, byCompareTo[T])
}

func SortComparableRangeContext[T Comparable[T]](ctx context.Context, a []T, from, to, concurrency int) error {
	return sortRange(ctx, a, from, to, concurrency, byCompareTo[T])
}

/**
sortRange 是所有入口的公共实现。
根任务以 scratch 为 src、a 为 dst 运行, 第一次 fork 就是顶层的二路拆分,
最后一次 merge 把结果写回 a。
*/
func sortRange[T any](ctx context.Context, a []T, from, to, concurrency int, less func(a, b T) bool) error {
	if from < 0 || from > to || to > len(a) {
		panic(fmt.Sprintf("MergeSort: range [%d:%d] out of bounds with length %d", from, to, len(a)))
	}
	if concurrency < MIN_CONCURRENCY {
		concurrency = MIN_CONCURRENCY
	}
	if err := ctx.Err(); err != nil {
		return fork_join.Canceled(err)
	}
	if to-from < 2 {
		return nil
	}

	s := newSorter(concurrency, less)
	a = a[from:to]
	b := buffers[T]{src: slices.Clone(a), dst: a}

	if err := s.task(ctx, b, 0, len(a), concurrency); err != nil {
		log.At("sort").Logf("state=error length=%d concurrency=%d", len(a), concurrency)
		return err
	}
	return nil
}

// Forked workers never exceed concurrency-1; the caller's goroutine is the last one.
func newSorter[T any](concurrency int, less func(a, b T) bool) *sorter[T] {
	return &sorter[T]{
		less: less,
		pool: fork_join.NewForkJoinPool(concurrency - 1),
	}
}

/**
sequential 是单 goroutine 的归并排序, 在预算耗尽后使用。
返回时 b.dst[from:to] 包含 b.src[from:to] 原有元素的有序排列。
*/
func (s *sorter[T]) sequential(ctx context.Context, b buffers[T], from, to int) error {
	n := to - from
	if n < 2 {
		return nil
	}
	if n <= insertionThreshold {
		copy(b.dst[from:to], b.src[from:to])
		binarySort(b.dst, from, to, from, s.less)
		return nil
	}
	if n >= cancelCheckGrain {
		if err := ctx.Err(); err != nil {
			return fork_join.Canceled(err)
		}
	}

	mid := from + n/2
	child := b.swap()
	if err := s.sequential(ctx, child, from, mid); err != nil {
		return err
	}
	if err := s.sequential(ctx, child, mid, to); err != nil {
		return err
	}
	s.merge(b, from, mid, to)
	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
