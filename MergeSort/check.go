package MergeSort

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

//是否是单调序列
func IsSorted[T constraints.Ordered](a []T) bool {
	return isSorted(a, ordered[T])
}

func IsSortedComparable[T Comparable[T]](a []T) bool {
	return isSorted(a, byCompareTo[T])
}

func isSorted[T any](a []T, less func(a, b T) bool) bool {
	for i := 0; i < len(a)-1; i++ {
		if less(a[i+1], a[i]) {
			return false
		}
	}
	return true
}

// ArraysEqual reports whether all arrays have the same length and hold
// identical elements at every index. Fewer than two arrays are equal.
func ArraysEqual[T comparable](arrays ...[]T) bool {
	for i := 1; i < len(arrays); i++ {
		if !slices.Equal(arrays[i-1], arrays[i]) {
			return false
		}
	}
	return true
}
