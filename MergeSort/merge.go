package MergeSort

// buffers 记录当前递归层的读写角色, 每下降一层就交换一次
type buffers[T any] struct {
	src []T // read
	dst []T // written
}

func (b buffers[T]) swap() buffers[T] {
	return buffers[T]{src: b.dst, dst: b.src}
}

/**
merge 把 src[from:mid] 与 src[mid:to] 两个有序 run 合并到 dst[from:to]。
只有右边元素严格小于左边元素时才取右边, 相等时取左边, 保证稳定。
*/
func (s *sorter[T]) merge(b buffers[T], from, mid, to int) {
	src, dst := b.src, b.dst
	l, r, i := from, mid, from

	for l < mid && r < to {
		if s.less(src[r], src[l]) {
			dst[i] = src[r]
			r++
		} else {
			dst[i] = src[l]
			l++
		}
		i++
	}

	// 其中一个 run 用完, 剩下的直接拷贝
	i += copy(dst[i:], src[l:mid])
	copy(dst[i:], src[r:to])
}

/**
binarySort 使用二分插入排序对 a[low:high] 排序, 假设 a[low:start] 已经有序。
相等元素插入到已有元素之后, 所以是稳定的。
*/
func binarySort[T any](a []T, low, high, start int, less func(a, b T) bool) {
	if low > start || start > high {
		panic("assert low <= start && start <= high")
	}
	if start == low {
		start++
	}
	for ; start < high; start++ {
		left := low
		right := start
		pivot := a[start]
		for left < right {
			mid := int(uint(left+right) >> 1)
			// a[start] >= all in [low, left).
			// a[start] <  all in [right, start)
			if less(pivot, a[mid]) {
				right = mid
			} else {
				left = mid + 1
			}
		}
		//将前面所有大于当前待插入记录的记录后移
		n := start - left
		switch n {
		case 2:
			a[left+2] = a[left+1]
			a[left+1] = a[left]
		case 1:
			a[left+1] = a[left]
		default:
			copy(a[left+1:], a[left:left+n])
		}
		a[left] = pivot
	}
}
