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

// Package instr defines the fixed-arity Instruction value and its
// fixed-width wire codec.
package instr

import (
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/view"
)

// MaxOperands bounds the fixed operand array carried by every
// Instruction, matching the wire layout's operand[3].
const MaxOperands = 3

// Instruction is produced by the frontend, lives in the queue then the
// IR, and is consumed when its kernel executes. It holds view values, not
// references: an Instruction never extends a Base's lifetime by itself.
type Instruction struct {
	Opcode   opcode.Opcode
	Operands [MaxOperands]view.View
	UserFunc uint64 // extension call pointer/id; 0 when absent
}

// New builds an Instruction for op with the given operands, zero-padding
// any unused trailing slots.
func New(op opcode.Opcode, operands ...view.View) Instruction {
	if len(operands) > MaxOperands {
		panic("instr: too many operands")
	}
	var ins Instruction
	ins.Opcode = op
	copy(ins.Operands[:], operands)
	return ins
}

// NumOperands returns how many of ins.Operands are meaningful for ins's
// opcode.
func (ins Instruction) NumOperands() int {
	return opcode.Operands(ins.Opcode)
}

// WriteTarget returns operand[0], the view written by a non-system,
// non-UserFunc instruction. Callers must check the opcode class first.
func (ins Instruction) WriteTarget() view.View {
	return ins.Operands[0]
}

// ReadOperands returns the operands read by ins (operand[1:NumOperands]),
// i.e. everything but the write target.
func (ins Instruction) ReadOperands() []view.View {
	n := ins.NumOperands()
	if n <= 1 {
		return nil
	}
	return ins.Operands[1:n]
}

// DiscardedBase returns the base id a Discard or Free instruction
// targets. Callers must check the opcode first.
func (ins Instruction) DiscardedBase() uint64 {
	return ins.Operands[0].BaseID
}
