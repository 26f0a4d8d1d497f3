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

package fuser

import (
	"github.com/bohrium-go/bhcore/backend"
	"github.com/bohrium-go/bhcore/kernel"
)

// BreadthFirst fuses the DAG layer by layer: it first collapses adjacent
// blocks that carry no dependency on each other at all (the same "layer"
// — neither could possibly need to run before the other), then falls
// back to a serial pass over whatever remains to pick up the legal
// dependency-respecting merges a pure independence pass cannot reach.
//
// Restricting merges to adjacent blocks (rather than reordering the full
// dependency DAG) keeps every intermediate and final block list an
// order-preserving partition of the singleton list, which is what the
// permutation-invariant testable property requires; see DESIGN.md.
type BreadthFirst struct{}

func (BreadthFirst) Fuse(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc) []*kernel.Kernel {
	independentPass := mergeAdjacentWhere(blocks, minThreading, fusible, func(a, b *kernel.Kernel) bool {
		return !a.Dependency(b)
	})
	return serialPass(independentPass, minThreading, fusible)
}

// mergeAdjacentWhere makes one left-to-right pass, merging the running
// kernel with the next block when accept(cur, next) holds and the merge
// is legal under fusible and minThreading.
func mergeAdjacentWhere(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc, accept func(a, b *kernel.Kernel) bool) []*kernel.Kernel {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]*kernel.Kernel, 0, len(blocks))
	cur := blocks[0]
	for _, next := range blocks[1:] {
		if accept(cur, next) && legal(cur, next, fusible, minThreading) {
			cur = kernel.Merge(cur, next)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}
