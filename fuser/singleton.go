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

// Package fuser implements the partitioner: singleton block preparation
// plus the four fusion strategies (serial, breadth-first,
// reshapable-first, greedy).
package fuser

import (
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
	"github.com/bohrium-go/bhcore/opcode"
)

// reshape collapses each non-constant operand's trivially contiguous
// axes in place, to maximize cross-instruction shape compatibility. It
// is idempotent: reshaping an already-reshaped instruction is a no-op.
func reshape(ins instr.Instruction) instr.Instruction {
	n := opcode.Operands(ins.Opcode)
	for i := 0; i < n && i < instr.MaxOperands; i++ {
		v := ins.Operands[i]
		if v.Constant {
			continue
		}
		ins.Operands[i] = v.Reshaped()
	}
	return ins
}

// Singleton builds the starting block list: one kernel per non-system
// instruction, in original order. A system instruction (Discard, Free,
// Sync, None) is threaded into the most recently opened block — the one
// a reader would expect it to attach to, since it appears immediately
// after that block's instructions in program order — or, if none has
// been opened yet, starts a new (all-system) leading block of its own.
//
// Instructions are reshaped in place before being added to a block (spec
// §4.5); reshape is idempotent so repeated calls are harmless.
func Singleton(instrs []instr.Instruction) []*kernel.Kernel {
	var blocks []*kernel.Kernel
	for _, raw := range instrs {
		ins := reshape(raw)
		if opcode.IsSystem(ins.Opcode) {
			if len(blocks) == 0 {
				blocks = append(blocks, kernel.FromInstruction(ins))
				continue
			}
			blocks[len(blocks)-1].AddInstr(ins)
			continue
		}
		blocks = append(blocks, kernel.FromInstruction(ins))
	}
	return blocks
}
