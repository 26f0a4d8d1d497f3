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

// Package fusecache memoizes a fuser's partitioning decision keyed by the
// structural signature of an instruction sequence (internal/bhhash), so a
// replayed workload that only differs in which concrete bases it touches
// skips the legality search entirely.
package fusecache

import (
	"sync"

	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/internal/bhhash"
	"github.com/bohrium-go/bhcore/kernel"
)

// Entry is a cached partition: because every fuser strategy in this
// module only ever merges adjacent blocks (see fuser package), the
// resulting kernel list is always a run-length partition of the original
// instruction order — no index remapping is needed to replay it onto a
// new, structurally identical instruction list.
type Entry struct {
	Signature  uint64
	RunLengths []int
}

// Cache is a flat map from structural signature to the partition found
// for it last time. It is safe for concurrent use; a Runtime holds one
// Cache for its lifetime.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[uint64]Entry)}
}

// Get looks up instrs' structural signature and reports whether it has a
// cached partition.
func (c *Cache) Get(instrs []instr.Instruction) (Entry, bool) {
	sig := bhhash.Signature(instrs)
	c.mu.RLock()
	e, ok := c.entries[sig]
	c.mu.RUnlock()
	return e, ok
}

// Insert records kernels (the fuser's output for instrs) under instrs'
// structural signature.
func (c *Cache) Insert(instrs []instr.Instruction, kernels []*kernel.Kernel) {
	lens := make([]int, len(kernels))
	for i, k := range kernels {
		lens[i] = len(k.Instructions)
	}
	sig := bhhash.Signature(instrs)
	c.mu.Lock()
	c.entries[sig] = Entry{Signature: sig, RunLengths: lens}
	c.mu.Unlock()
}

// Len reports how many distinct signatures are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Rebuild replays e's partition onto instrs directly, without invoking a
// fuser: each run of e.RunLengths[i] consecutive instructions becomes one
// kernel, built the same way Singleton and every fuser strategy build one
// (repeated AddInstr). The caller (runtime.Flush) is responsible for
// verifying e came from a Get against this exact instrs before calling
// Rebuild — a cache hit is trusted, not re-validated against legality.
func Rebuild(instrs []instr.Instruction, e Entry) []*kernel.Kernel {
	out := make([]*kernel.Kernel, 0, len(e.RunLengths))
	pos := 0
	for _, n := range e.RunLengths {
		if n <= 0 || pos+n > len(instrs) {
			return nil // shape mismatch: caller must fall back to re-fusing
		}
		k := kernel.FromInstruction(instrs[pos])
		for _, ins := range instrs[pos+1 : pos+n] {
			k.AddInstr(ins)
		}
		out = append(out, k)
		pos += n
	}
	if pos != len(instrs) {
		return nil
	}
	return out
}
