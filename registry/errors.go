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

import "errors"

var (
	// ErrDoubleDiscard is a contract violation: a base may have at most
	// one Discard instruction queued against it per its lifetime.
	ErrDoubleDiscard = errors.New("registry: base already discarded")

	// ErrUnknownBase is returned when an operation names a base id the
	// registry has never issued, or one already retired.
	ErrUnknownBase = errors.New("registry: unknown or retired base")

	// ErrInvalidNElements is returned by NewBase for a non-positive
	// element count.
	ErrInvalidNElements = errors.New("registry: element count must be > 0")

	// ErrInvalidType is returned by NewBase for an unrecognized element
	// type.
	ErrInvalidType = errors.New("registry: invalid element type")
)
