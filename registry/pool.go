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

package registry

import (
	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/bohrium-go/bhcore/bhtype"
)

// Pool is an optional host-memory allocator a backend may use to back a
// Base's data buffer, instead of managing allocation itself. It is built
// on bytedance/gopkg's size-classed mcache allocator.
//
// A backend is never required to use Pool: the data pointer is owned by
// the backend, and Pool is offered purely as a convenience for backends
// that want host-memory semantics without writing their own allocator.
type Pool struct{}

// Materialize allocates sizeBytes of host memory via mcache and installs
// it as b's data buffer. It is a no-op if b already has data.
func (Pool) Materialize(b *Base, sizeBytes int) {
	if b.data != nil {
		return
	}
	b.data = mcache.Malloc(sizeBytes)
}

// MaterializeElements is a convenience wrapper computing sizeBytes from
// the base's element type and count.
func (p Pool) MaterializeElements(b *Base) {
	p.Materialize(b, int(b.nelem)*bhtype.Size(b.typ))
}

// Release returns b's data buffer to the pool and clears it, mirroring
// Free's "release the backing data buffer but keep the metadata"
// contract.
func (Pool) Release(b *Base) {
	if b.data == nil {
		return
	}
	mcache.Free(b.data)
	b.data = nil
	b.freed = true
}
