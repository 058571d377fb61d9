package scheduler

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

// Task is one unit of accrual work, typically a single member's posting.
type Task func() error

// WorkerPool bounds how many accrual tasks run at once. Tasks queue on a
// buffered channel; workers keep draining it after Close until it is empty.
type WorkerPool struct {
	tasks     chan Task
	closeOnce sync.Once
}

func NewWorkerPool(size int) *WorkerPool {
	wp := &WorkerPool{tasks: make(chan Task, size)}
	for i := 0; i < size; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	for task := range wp.tasks {
		if err := task(); err != nil {
			zap.L().Error("Accrual task failed", zap.Error(err))
		}
	}
}

// AddTask queues task, blocking until a worker frees up or ctx is done.
// Must not be called after Close.
func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wp.tasks <- task:
		return nil
	}
}

// Close stops the workers once queued tasks finish. Safe to call more than
// once.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.tasks)
	})
}
