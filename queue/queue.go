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

// Package queue implements the bridge's bounded, append-only instruction
// buffer. It is a linear append buffer rather than a wrap-around ring:
// the queue is always drained wholly on flush and reset to empty, never
// partially consumed.
package queue

import "github.com/bohrium-go/bhcore/instr"

// DefaultMax is used when a caller does not pick a capacity explicitly.
// QUEUE_MAX is implementation-chosen in the 2^14-2^16 range; 1<<15 sits
// in the middle of that range.
const DefaultMax = 1 << 15

// FlushFunc is invoked by Flush (explicit or guard-triggered) with the
// full snapshot of instructions the queue held. It is expected to build
// and dispatch an IR. A non-nil error aborts the batch but the queue
// state is still reset to empty beforehand.
type FlushFunc func([]instr.Instruction) error

// Queue is a bounded, append-only buffer of pending instructions, owned
// by exactly one runtime instance. Per the bridge's single-threaded
// cooperative model, Queue takes no lock of its own.
type Queue struct {
	items []instr.Instruction
	max   int
	flush FlushFunc
}

// New returns a Queue with the given capacity, invoking flush on every
// drain. max <= 0 selects DefaultMax.
func New(max int, flush FlushFunc) *Queue {
	if max <= 0 {
		max = DefaultMax
	}
	return &Queue{
		items: make([]instr.Instruction, 0, max),
		max:   max,
		flush: flush,
	}
}

// Len returns the number of instructions currently buffered.
func (q *Queue) Len() int { return len(q.items) }

// Cap returns the queue's configured capacity (QUEUE_MAX).
func (q *Queue) Cap() int { return q.max }

// Enqueue appends ins, performing an implicit guard-flush first if the
// queue is already at capacity. If the guard-flush fails, ins is
// discarded and the queue is left empty (matching spec §7's "queue
// overflow impossible to flush" error policy).
func (q *Queue) Enqueue(ins instr.Instruction) error {
	if len(q.items) >= q.max {
		if _, err := q.Flush(); err != nil {
			return err
		}
	}
	q.items = append(q.items, ins)
	return nil
}

// Flush drains the queue: if non-empty, it snapshots the buffered
// instructions, resets the queue to empty, and invokes FlushFunc on the
// snapshot. It returns the number of instructions flushed. A flush with
// an empty queue is a no-op that never calls FlushFunc (testable
// property: flush idempotence on an empty queue performs no backend
// call).
func (q *Queue) Flush() (int, error) {
	if len(q.items) == 0 {
		return 0, nil
	}
	snapshot := q.items
	n := len(snapshot)
	q.items = make([]instr.Instruction, 0, q.max)
	if q.flush == nil {
		return n, nil
	}
	return n, q.flush(snapshot)
}
