package fork_join

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/convox/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// ErrCanceled 表示 fork 或 join 子任务时观察到了取消信号
var ErrCanceled = errors.New("fork_join: canceled")

var log = logger.New("ns=fork_join")

// ForkJoinPool bounds the number of concurrently live forked workers.
// The goroutine driving the root task is not counted.
type ForkJoinPool struct {
	cap  int64
	sem  *semaphore.Weighted
	live atomic.Int64
	peak atomic.Int64
}

func NewForkJoinPool(workerCap int) *ForkJoinPool {
	if workerCap < 1 {
		workerCap = 1
	}
	return &ForkJoinPool{
		cap: int64(workerCap),
		sem: semaphore.NewWeighted(int64(workerCap)),
	}
}

// Cap returns the maximum number of forked workers alive at once.
func (fp *ForkJoinPool) Cap() int {
	return int(fp.cap)
}

// Live returns the number of forked workers currently running.
func (fp *ForkJoinPool) Live() int {
	return int(fp.live.Load())
}

// Peak returns the high-water mark of Live.
func (fp *ForkJoinPool) Peak() int {
	return int(fp.peak.Load())
}

/**
Fork 在新的 goroutine 中执行 fn。
获取 worker 槽位时会观察 ctx，ctx 被取消则返回错误且不会启动 fn。
fn 中的 panic 会被捕获，并在 Join 时重新抛出到调用者的 goroutine。
*/
func (fp *ForkJoinPool) Fork(ctx context.Context, fn func() error) (*ForkJoinTask, error) {
	if err := fp.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(Canceled(err), "fork")
	}

	fp.enter()

	ft := &ForkJoinTask{done: make(chan struct{})}

	go func() {
		defer func() {
			if p := recover(); p != nil {
				ft.panicked = &PanicError{Value: p, Stack: debug.Stack()}
			}
			fp.leave()
			fp.sem.Release(1)
			close(ft.done)
		}()

		ft.err = fn()
	}()

	return ft, nil
}

func (fp *ForkJoinPool) enter() {
	n := fp.live.Add(1)
	for {
		p := fp.peak.Load()
		if n <= p || fp.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (fp *ForkJoinPool) leave() {
	fp.live.Add(-1)
}

// ForkJoinTask is the handle of a forked worker.
type ForkJoinTask struct {
	done     chan struct{}
	err      error
	panicked *PanicError
}

/**
Join blocks until the forked worker finishes.

If ctx is done first the cancellation is logged and recorded, and Join keeps
waiting for the worker so it never outlives its caller. The worker's own
error wins over a recorded cancellation. A panic in the worker is re-raised
here.
*/
func (ft *ForkJoinTask) Join(ctx context.Context) error {
	var canceled error

	select {
	case <-ft.done:
	case <-ctx.Done():
		canceled = ctx.Err()
		log.At("join").Logf("state=waiting cause=%q", canceled)
		<-ft.done
	}

	if ft.panicked != nil {
		panic(ft.panicked)
	}

	if ft.err != nil {
		return ft.err
	}

	if canceled == nil {
		canceled = ctx.Err()
	}
	if canceled != nil {
		return log.At("join").Error(errors.WithStack(Canceled(canceled)))
	}

	return nil
}

// Done is closed once the worker has returned.
func (ft *ForkJoinTask) Done() <-chan struct{} {
	return ft.done
}

// PanicError carries a panic raised inside a forked worker.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("fork_join: worker panicked: %v\n%s", p.Value, p.Stack)
}

func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// Canceled wraps a context error so that it matches both ErrCanceled and
// cause under errors.Is.
func Canceled(cause error) error {
	return &canceledError{cause: cause}
}

type canceledError struct {
	cause error
}

func (e *canceledError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCanceled, e.cause)
}

func (e *canceledError) Unwrap() error {
	return e.cause
}

func (e *canceledError) Is(target error) bool {
	return target == ErrCanceled
}
