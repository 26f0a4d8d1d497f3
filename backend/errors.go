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
	"errors"
	"fmt"
)

// ErrExtensionNotRegistered is the error for a UserFunc instruction that
// references an id no extension ever claimed. No code in this module
// returns it; it is available to Backend implementations.
var ErrExtensionNotRegistered = errors.New("backend: extension not registered")

// ExecError is an error type a Backend may return from Execute to
// identify which kernel (by index in the dispatched list) failed.
// Dispatcher does not construct it: Dispatch returns whatever error
// Execute returned, unchanged, and the flush fails as a whole. By then
// the queue has already been emptied and the fuse decision cached.
type ExecError struct {
	KernelIndex int
	Err         error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("backend: kernel %d: %v", e.KernelIndex, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
