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

// Fuser merges a singleton block list into larger, legally fused blocks.
// minThreading is a floor on a merged block's parallel extent: every
// strategy refuses a merge whose result has Threading() (largest output
// element count) below it; a value <= 0 disables the floor. fusible is the backend's
// check_fusible predicate (backend.FusibleFunc).
type Fuser interface {
	Fuse(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc) []*kernel.Kernel
}

// legal reports whether a and b may be merged: they must be gently
// fusible under the backend predicate, and the block that would result
// from merging them must meet minThreading. Strategies in this package
// only ever consider adjacent or topologically-safe pairs, so legal
// reduces to gentle fusibility plus the threading floor.
func legal(a, b *kernel.Kernel, fusible backend.FusibleFunc, minThreading int64) bool {
	return a.FusibleGently(b, fusible) && meetsThreading(a, b, minThreading)
}

// meetsThreading reports whether merging a and b would produce a block
// whose parallel loop extent is at least minThreading. minThreading <= 0
// disables the check, since it means the backend places no floor on
// acceptable block size.
func meetsThreading(a, b *kernel.Kernel, minThreading int64) bool {
	if minThreading <= 0 {
		return true
	}
	return kernel.Merge(a, b).Threading() >= minThreading
}
