// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/hyperamm/state"
)

// Metrics observes how often enqueued tasks had to wait on a conflict.
type Metrics interface {
	RecordBlocked()
	RecordExecutable()
}

// Executor sequences the concurrent execution of
// tasks with arbitrary conflicts on-the-fly.
//
// A task that writes a key runs after every previously enqueued task that
// reads or writes it. A task that only reads a key runs after the previous
// writer of that key and concurrently with other readers. Tasks with no
// conflicts are executed immediately, at most [concurrency] at a time.
type Executor struct {
	metrics Metrics

	added int
	tasks []*task
	keys  map[string]*keyEdges

	slots       chan struct{}
	outstanding sync.WaitGroup

	err atomic.Error
}

type keyEdges struct {
	writer  int
	readers []int
}

// New creates a new [Executor] able to run [items] tasks.
func New(items, concurrency int, metrics Metrics) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		metrics: metrics,
		tasks:   make([]*task, items),
		keys:    make(map[string]*keyEdges, items*2),
		slots:   make(chan struct{}, concurrency),
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  []*sync.WaitGroup
	executed bool
}

// wait registers [wg] to be released once [t] executes. It returns false if
// [t] already executed.
func (t *task) wait(wg *sync.WaitGroup) bool {
	t.l.Lock()
	defer t.l.Unlock()

	if t.executed {
		return false
	}
	wg.Add(1)
	t.waiters = append(t.waiters, wg)
	return true
}

func (t *task) done() {
	t.l.Lock()
	defer t.l.Unlock()

	for _, w := range t.waiters {
		w.Done()
	}
	t.waiters = nil
	t.executed = true
}

// Run executes [f] after all previously enqueued [f] with
// overlapping [conflicts] are executed.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, ErrTooManyTasks)
		return
	}

	id := e.added
	e.added++
	t := &task{f: f}
	e.tasks[id] = t
	e.outstanding.Add(1)

	// Record dependencies
	deps := make(map[int]struct{})
	for k, perm := range conflicts {
		edges, ok := e.keys[k]
		if !ok {
			edges = &keyEdges{writer: -1}
			e.keys[k] = edges
		}
		if edges.writer >= 0 {
			deps[edges.writer] = struct{}{}
		}
		if perm == state.Read {
			edges.readers = append(edges.readers, id)
			continue
		}
		for _, r := range edges.readers {
			deps[r] = struct{}{}
		}
		edges.writer = id
		edges.readers = nil
	}
	wg := &sync.WaitGroup{}
	blocked := false
	for dep := range deps {
		if e.tasks[dep].wait(wg) {
			blocked = true
		}
	}
	if e.metrics != nil {
		if blocked {
			e.metrics.RecordBlocked()
		} else {
			e.metrics.RecordExecutable()
		}
	}

	go func() {
		// Block until our dependencies have been executed
		wg.Wait()

		// Ensure we unblock our dependents
		defer func() {
			t.done()
			e.outstanding.Done()
		}()

		// Stop early if executor is stopped
		if e.err.Load() != nil {
			return
		}

		e.slots <- struct{}{}
		defer func() { <-e.slots }()
		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
		}
	}()
}

// Stop prevents tasks that have not started yet from running.
func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns as soon as all enqueued [f] are executed.
//
// You should not call [Run] after [Wait] is called.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
