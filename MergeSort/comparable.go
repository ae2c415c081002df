package MergeSort

import "golang.org/x/exp/constraints"

//  CompareTo 定义元素自身的全序: 负数代表小于, 0 代表等于, 正数代表大于
type Comparable[T any] interface {
	CompareTo(o T) int
}

func ordered[T constraints.Ordered](a, b T) bool {
	return a < b
}

func byCompareTo[T Comparable[T]](a, b T) bool {
	return a.CompareTo(b) < 0
}
