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

// Package bhtest is a fake backend.Backend for exercising the runtime and
// dispatcher without a real code-generating execution engine, in the
// style of a hand-written test double rather than a generated mock: a
// small literal struct rather than a mocking framework.
package bhtest

import (
	"sync"

	"github.com/bohrium-go/bhcore/backend"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
)

// Fake records every kernel list handed to Execute, in order, and applies
// CheckFusibleFunc (default: always fusible) as its check_fusible
// predicate. It is safe for concurrent use so it can back a Concurrent
// backend in tests.
type Fake struct {
	mu sync.Mutex

	CheckFusibleFunc func(a, b instr.Instruction) bool
	ConcurrentFlag   bool
	SharesTilesFlag  bool

	FailOnExecute int // 0-based Execute() call count to fail on; negative disables

	Executions  [][]*kernel.Kernel
	Extensions  map[uint64]backend.ExtensionFunc
	initialized bool
	initConfig  map[string]interface{}
	shutdown    bool

	execCalls int
}

// New returns a Fake with sensible defaults: always fusible, not
// concurrent, does not share loaded tiles, never fails.
func New() *Fake {
	return &Fake{
		FailOnExecute: -1,
		Extensions:    make(map[uint64]backend.ExtensionFunc),
	}
}

func (f *Fake) Init(config map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialized = true
	f.initConfig = config
	return nil
}

func (f *Fake) Execute(kernels []*kernel.Kernel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execCalls++
	if f.FailOnExecute >= 0 && f.execCalls-1 == f.FailOnExecute {
		return fakeExecError{}
	}
	// Force every kernel's dispatch-order computation so bugs there show
	// up even though Fake never interprets the instructions.
	for _, k := range kernels {
		_ = k.DispatchInstructions()
	}
	cp := append([]*kernel.Kernel(nil), kernels...)
	f.Executions = append(f.Executions, cp)
	return nil
}

func (f *Fake) RegisterExtension(id uint64, fn backend.ExtensionFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Extensions[id] = fn
	return nil
}

func (f *Fake) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdown = true
	return nil
}

func (f *Fake) CheckFusible(a, b instr.Instruction) bool {
	if f.CheckFusibleFunc != nil {
		return f.CheckFusibleFunc(a, b)
	}
	return true
}

func (f *Fake) Concurrent() bool        { return f.ConcurrentFlag }
func (f *Fake) SharesLoadedTiles() bool { return f.SharesTilesFlag }

// ExecCount reports how many times Execute has run.
func (f *Fake) ExecCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.execCalls
}

// Initialized reports whether Init has been called.
func (f *Fake) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

// ShutdownCalled reports whether Shutdown has been called.
func (f *Fake) ShutdownCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown
}

type fakeExecError struct{}

func (fakeExecError) Error() string { return "bhtest: forced execution failure" }
