// Package parallel provides the execution facility used by the converters to
// run one task per column.
//
// Results are placed by index by the tasks themselves, so completion order
// never influences the output. A failing batch returns the original error of
// the failed task (not a wrapper) once every task of the batch has finished;
// running siblings are not cancelled.
package parallel

import (
	"fmt"
	"runtime"

	"github.com/ajitpratap0/tablebridge/pkg/nebulaerrors"
	"golang.org/x/sync/errgroup"
)

// Task is a unit of work, typically the conversion of one column.
type Task func() error

// Executor runs batches of tasks.
type Executor interface {
	// Parallelism returns the number of tasks that may run at once.
	Parallelism() int
	// Run executes all tasks and returns after every started task finished.
	Run(tasks []Task) error
}

// GroupExecutor runs tasks on goroutines bounded by a worker limit.
type GroupExecutor struct {
	workers int
}

// NewGroupExecutor creates an executor running at most workers tasks at once.
// A non-positive value selects runtime.NumCPU().
func NewGroupExecutor(workers int) *GroupExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &GroupExecutor{workers: workers}
}

// Parallelism implements Executor.
func (e *GroupExecutor) Parallelism() int {
	return e.workers
}

// Run implements Executor. A task that panics is reported as an
// ErrorTypeTaskFailure error.
func (e *GroupExecutor) Run(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if len(tasks) == 1 || e.workers == 1 {
		return Sequential{}.runAll(tasks)
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, task := range tasks {
		g.Go(func() error {
			return guard(task)
		})
	}
	return g.Wait()
}

// Sequential runs tasks one after another on the calling goroutine and stops
// at the first failure.
type Sequential struct{}

// Parallelism implements Executor.
func (Sequential) Parallelism() int {
	return 1
}

// Run implements Executor.
func (s Sequential) Run(tasks []Task) error {
	for _, task := range tasks {
		if err := guard(task); err != nil {
			return err
		}
	}
	return nil
}

// runAll runs every task and returns the first error, matching the
// collection semantics of GroupExecutor.
func (Sequential) runAll(tasks []Task) error {
	var first error
	for _, task := range tasks {
		if err := guard(task); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func guard(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = nebulaerrors.New(nebulaerrors.ErrorTypeTaskFailure, fmt.Sprintf("task panicked: %v", r))
		}
	}()
	return task()
}
