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
	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/view"
)

// Registry allocates and frees Base identities. It is owned by exactly
// one runtime instance; per §5, all mutation is serialized by the
// bridge's single-threaded cooperative discipline, so Registry takes no
// locks of its own.
type Registry struct {
	bases  map[BaseID]*Base
	nextID BaseID
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{bases: make(map[BaseID]*Base)}
}

// NewBase allocates metadata for a fresh array base. The data buffer
// stays nil until the backend (or Pool) materializes it.
func (r *Registry) NewBase(typ bhtype.Type, nelem int64) (BaseID, error) {
	if nelem <= 0 {
		return 0, ErrInvalidNElements
	}
	if !bhtype.Valid(typ) {
		return 0, ErrInvalidType
	}
	r.nextID++
	id := r.nextID
	r.bases[id] = &Base{id: id, typ: typ, nelem: nelem}
	return id, nil
}

// Lookup returns the Base for id, or ErrUnknownBase if none exists (or it
// was already retired).
func (r *Registry) Lookup(id BaseID) (*Base, error) {
	b, ok := r.bases[id]
	if !ok {
		return nil, ErrUnknownBase
	}
	return b, nil
}

// Discard builds the Discard instruction for id, for the caller to
// enqueue. It does not destroy the base: destruction is deferred to
// Retire, which the runtime calls once the Discard instruction has
// actually executed, so that IR references to the base stay valid until
// then. Calling Discard twice for the same base is a contract violation.
func (r *Registry) Discard(id BaseID) (view.View, error) {
	b, err := r.Lookup(id)
	if err != nil {
		return view.View{}, err
	}
	if b.state != stateLive {
		return view.View{}, ErrDoubleDiscard
	}
	b.state = stateDiscardQueued
	return view.View{BaseID: id}, nil
}

// Free builds the Free instruction for id, for the caller to enqueue.
// Unlike Discard, Free may be issued against a base whose identity stays
// retained; it only releases the backing data buffer.
func (r *Registry) Free(id BaseID) (view.View, error) {
	if _, err := r.Lookup(id); err != nil {
		return view.View{}, err
	}
	return view.View{BaseID: id}, nil
}

// Retire destroys id's metadata. Called by the runtime once a Discard
// instruction for id has executed in a successfully dispatched kernel.
func (r *Registry) Retire(id BaseID) {
	if b, ok := r.bases[id]; ok {
		b.state = stateRetired
		delete(r.bases, id)
	}
}

// ReleaseData marks id's backing buffer released. Called by the
// runtime once a Free instruction for id has executed.
func (r *Registry) ReleaseData(id BaseID) {
	if b, ok := r.bases[id]; ok {
		b.data = nil
		b.freed = true
	}
}

// Len returns the number of bases currently tracked (live or
// discard-queued, not yet retired).
func (r *Registry) Len() int { return len(r.bases) }
