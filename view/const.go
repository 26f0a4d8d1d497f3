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

package view

import (
	"encoding/binary"
	"math"
)

// putFloat64/putInt64/Float64/Int64 encode/decode a constant operand's
// inline scalar payload. The wire format is little-endian throughout
// (operand.value), matching the instruction layout of the wire spec.

func putFloat64(buf []byte, v float64) {
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
}

func putInt64(buf []byte, v int64) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}

// Float64 decodes v's inline payload as a float64. Callers are expected
// to check ElemType first.
func (v View) Float64() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Const[:8]))
}

// Int64 decodes v's inline payload as an int64.
func (v View) Int64() int64 {
	return int64(binary.LittleEndian.Uint64(v.Const[:8]))
}
