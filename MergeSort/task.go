package MergeSort

import (
	"context"
)

/**
task 对 [from, to) 执行 fork-join 归并排序。

budget > 1 时左半部分 fork 到新的 worker, 右半部分在当前 goroutine 上执行,
预算按 budget/2 和 budget-budget/2 拆分; 两个子任务都完成后才 merge。
budget <= 1 时不再创建 worker, 交给 sequential。
*/
func (s *sorter[T]) task(ctx context.Context, b buffers[T], from, to, budget int) error {
	if to-from < 2 {
		return nil
	}
	if budget <= 1 {
		return s.sequential(ctx, b, from, to)
	}

	mid := from + (to-from)/2
	leftBudget := budget / 2
	rightBudget := budget - leftBudget
	child := b.swap()

	left, err := s.pool.Fork(ctx, func() error {
		return s.task(ctx, child, from, mid, leftBudget)
	})
	if err != nil {
		return err
	}

	rightErr := s.right(ctx, child, mid, to, rightBudget, left.Done())

	// always join so the left worker never outlives this call
	if err := left.Join(ctx); err != nil {
		return err
	}
	if rightErr != nil {
		return rightErr
	}

	s.merge(b, from, mid, to)
	return nil
}

// right runs the synchronous half. If it panics, the sibling is waited for
// before the panic continues up the stack.
func (s *sorter[T]) right(ctx context.Context, b buffers[T], from, to, budget int, sibling <-chan struct{}) error {
	defer func() {
		if p := recover(); p != nil {
			<-sibling
			panic(p)
		}
	}()
	return s.task(ctx, b, from, to, budget)
}
