/*
 * Copyright 2026 bhcore Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bhpool is a small worker pool on which a Concurrent backend's
// Execute call runs off the calling goroutine, adapted from
// cloudwego-gopkg's concurrency/gopool.GoPool: same idle-worker aging
// and panic-recovery shape, but Submit returns a Future carrying the
// task's error instead of firing a bare func().
package bhpool

import (
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/bohrium-go/bhcore/internal/blog"
)

// Option configures a Pool. Zero value is DefaultOption.
type Option struct {
	MaxIdleWorkers int
	WorkerMaxAge   time.Duration
	TaskChanBuffer int
}

func DefaultOption() Option {
	return Option{
		MaxIdleWorkers: 64,
		WorkerMaxAge:   time.Minute,
		TaskChanBuffer: 64,
	}
}

type task struct {
	f    func() error
	done chan error
}

// Future is the result of a submitted task.
type Future struct {
	done chan error
}

// Wait blocks until the task completes and returns its error.
func (f *Future) Wait() error { return <-f.done }

// Pool runs submitted tasks on a bounded set of recycled goroutines,
// falling back to an unpooled goroutine when the task queue is full.
type Pool struct {
	name string

	workers int32
	maxIdle int32
	maxage  int64

	tasks     chan task
	unixMilli int64
}

// New creates a Pool. name identifies it in log lines.
func New(name string, o Option) *Pool {
	if o.TaskChanBuffer <= 0 {
		o = DefaultOption()
	}
	return &Pool{
		name:    name,
		tasks:   make(chan task, o.TaskChanBuffer),
		maxage:  o.WorkerMaxAge.Milliseconds(),
		maxIdle: int32(o.MaxIdleWorkers),
	}
}

// Submit runs f on a pool worker and returns a Future for its result.
func (p *Pool) Submit(f func() error) *Future {
	t := task{f: f, done: make(chan error, 1)}
	select {
	case p.tasks <- t:
	default:
		go p.runTask(t)
		return &Future{done: t.done}
	}
	if len(p.tasks) == 0 {
		return &Future{done: t.done}
	}
	go p.runWorker()
	return &Future{done: t.done}
}

// CurrentWorkers reports the number of live pool goroutines, for tests
// and metrics.
func (p *Pool) CurrentWorkers() int {
	return int(atomic.LoadInt32(&p.workers))
}

func (p *Pool) runTask(t task) {
	defer func() {
		if r := recover(); r != nil {
			blog.L().Errorw("bhpool: task panic", "pool", p.name, "recover", r, "stack", string(debug.Stack()))
			t.done <- panicError{r}
		}
	}()
	t.done <- t.f()
}

type panicError struct{ r interface{} }

func (e panicError) Error() string { return "bhpool: task panicked" }

func (p *Pool) runWorker() {
	id := atomic.AddInt32(&p.workers, 1)
	defer atomic.AddInt32(&p.workers, -1)

	if id > p.maxIdle {
		for {
			select {
			case t := <-p.tasks:
				p.runTask(t)
			default:
				return
			}
		}
	}

	createdAt := time.Now().UnixMilli()
	for t := range p.tasks {
		p.runTask(t)
		if time.Now().UnixMilli()-createdAt > p.maxage {
			return
		}
	}
}
