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

package instr

import (
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/view"
)

// Validate checks ins for the contract violations a caller must reject
// before the instruction ever reaches the queue: an opcode this build
// does not recognize, or a shape mismatch among its operands.
//
// The bridge has no implicit broadcasting: every non-constant operand of
// a unary or binary elementwise instruction must carry the same rank and
// shape as the instruction's output (operand[0]), since they all iterate
// the same index space. Reduction opcodes deliberately collapse one axis
// between input and output and are not shape-checked here; UserFunc's
// operand contract is defined by whichever extension claims it, not by
// this package.
func Validate(ins Instruction) error {
	if !opcode.Valid(ins.Opcode) {
		return ErrUnknownOpcode
	}
	switch opcode.ClassOf(ins.Opcode) {
	case opcode.ClassUnary, opcode.ClassBinary:
		out := ins.Operands[0]
		n := ins.NumOperands()
		for i := 1; i < n; i++ {
			v := ins.Operands[i]
			if v.Constant {
				continue
			}
			if !sameShape(out, v) {
				return ErrShapeMismatch
			}
		}
	}
	return nil
}

func sameShape(a, b view.View) bool {
	if a.Rank != b.Rank {
		return false
	}
	for i := 0; i < int(a.Rank); i++ {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}
