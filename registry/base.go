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

// Package registry owns the storage metadata of every array base: the
// identity, element type, element count and (eventually) data buffer
// that every View in the bridge ultimately refers to.
package registry

import "github.com/bohrium-go/bhcore/bhtype"

// BaseID is a monotonically increasing 64-bit identifier issued by a
// Registry. It replaces the pointer-keyed identity of the original
// implementation, eliminating aliasing hazards and keeping the IR
// pointer-free on the wire.
type BaseID = uint64

// state tracks a Base's progress through its lifecycle. A Base is live
// until a Discard instruction referencing it has been both queued and
// executed.
type state uint8

const (
	stateLive state = iota
	stateDiscardQueued
	stateRetired
)

// Base owns the storage metadata of one array. Base never stores a View;
// Views reference a Base by BaseID and never extend its lifetime.
type Base struct {
	id     BaseID
	typ    bhtype.Type
	nelem  int64
	data   []byte // nil until the backend (or the built-in pool) materializes it
	freed  bool
	state  state
}

// ID returns b's stable identifier.
func (b *Base) ID() BaseID { return b.id }

// Type returns b's element type.
func (b *Base) Type() bhtype.Type { return b.typ }

// NElements returns b's element count.
func (b *Base) NElements() int64 { return b.nelem }

// Data returns the backend-owned data buffer, or nil if it has not been
// materialized yet.
func (b *Base) Data() []byte { return b.data }

// SetData is called by a backend (or registry.Pool on its behalf) to
// materialize b's storage.
func (b *Base) SetData(data []byte) { b.data = data }

// Freed reports whether a Free instruction for b has already been
// executed, i.e. the backing buffer has been released.
func (b *Base) Freed() bool { return b.freed }
