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

package backend

import (
	"time"

	"github.com/bohrium-go/bhcore/internal/bhmetrics"
	"github.com/bohrium-go/bhcore/internal/bhpool"
	"github.com/bohrium-go/bhcore/kernel"
)

// Dispatcher hands a flush's kernel list to a Backend. By default Execute
// runs inline, preserving the bridge's single-threaded cooperative model
// (spec §5). When the backend advertises Concurrent() == true, dispatch
// instead runs on a bhpool worker goroutine; Dispatch still waits for
// that Execute to finish before returning, so a flush's execution does
// not overlap with the bridge building the next one and two flushes
// never run concurrently.
//
// A kernel's own instruction order (spec's system-opcode-ordering open
// question) is resolved on the Kernel side: Backend implementations read
// Kernel.DispatchInstructions(), which moves the system opcodes
// (Discard, Free, Sync, None) to the tail,
// rather than Kernel.Instructions directly, so Kernel.Instructions itself
// stays in recorded order for the permutation-invariant testable
// property.
type Dispatcher struct {
	backend Backend
	pool    *bhpool.Pool
}

// NewDispatcher wraps b. A worker pool is only created (and only ever
// used) when b.Concurrent() is true.
func NewDispatcher(b Backend) *Dispatcher {
	d := &Dispatcher{backend: b}
	if b.Concurrent() {
		d.pool = bhpool.New("backend-dispatch", bhpool.DefaultOption())
	}
	return d
}

// Dispatch runs kernels to completion on d.backend, reporting its
// execution latency to bhmetrics.DispatchLatency.
func (d *Dispatcher) Dispatch(kernels []*kernel.Kernel) error {
	start := time.Now()
	var err error
	if d.pool != nil {
		err = d.pool.Submit(func() error { return d.backend.Execute(kernels) }).Wait()
	} else {
		err = d.backend.Execute(kernels)
	}
	bhmetrics.DispatchLatency.Observe(time.Since(start).Seconds())
	return err
}
