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

// Package backend declares the execution contract a code-generating
// backend (CPU, GPU, cluster VEM) implements, and the dispatcher that
// hands a flush's kernel list to it.
package backend

import (
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
)

// FusibleFunc is kernel.FusibleFunc under the name the fuser and
// dispatch-facing code refer to it by: the backend-owned check_fusible
// predicate threaded through Kernel.Fusible/FusibleGently/DependencyCost.
type FusibleFunc = kernel.FusibleFunc

// Backend is implemented by a concrete execution engine. Init is called
// once at Runtime construction with the opaque, backend-specific
// component configuration; Execute receives one flush's fused kernel
// list, in dependency order, and must run them to completion or return
// an error. RegisterExtension installs a UserFunc implementation keyed
// by the id instructions will reference. Shutdown releases any backend
// resources; a Runtime calls it at most once.
type Backend interface {
	Init(config map[string]interface{}) error
	Execute(kernels []*kernel.Kernel) error
	RegisterExtension(id uint64, fn ExtensionFunc) error
	Shutdown() error

	// CheckFusible is the backend's check_fusible(a, b) predicate: pure,
	// deterministic, commutative, reflexive-true.
	CheckFusible(a, b instr.Instruction) bool

	// Concurrent reports whether this backend tolerates its Execute being
	// invoked from a pool goroutine instead of the calling one. The
	// dispatcher waits for that call to finish either way.
	Concurrent() bool

	// SharesLoadedTiles reports whether this backend can keep a fused
	// kernel's loaded operand resident for a neighboring kernel, the
	// capability flag backing Kernel.DependencyCost's shared-input price
	// drop (spec's dependency_cost open question).
	SharesLoadedTiles() bool
}

// ExtensionFunc is a UserFunc extension implementation: given the
// instruction that referenced it, perform the extension's effect.
type ExtensionFunc func(ins instr.Instruction) error
