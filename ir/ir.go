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

// Package ir builds the intermediate representation a flush snapshots
// the instruction queue into, before any kernels exist.
package ir

import (
	"fmt"
	"strings"

	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
	"github.com/bohrium-go/bhcore/opcode"
)

// IR holds one flush's instruction list and, once the fuser has run, its
// kernel list. It is discarded after execution; a Kernel never stores a
// back-reference to its owning IR.
type IR struct {
	Instructions []instr.Instruction
	Kernels      []*kernel.Kernel
}

// Build snapshots instrs into a fresh IR with no kernels yet.
func Build(instrs []instr.Instruction) *IR {
	return &IR{Instructions: append([]instr.Instruction(nil), instrs...)}
}

// Cost sums Kernel.Cost() across ir.Kernels. It is a pricing function
// used only to rank fusion choices, not a performance predictor.
func (ir *IR) Cost() int64 {
	var sum int64
	for _, k := range ir.Kernels {
		sum += k.Cost()
	}
	return sum
}

// String pretty-prints ir's kernel list, one "kernel-N:" block per
// kernel, grounded on bh_ir.cpp's pprint_kernel_list.
func (ir *IR) String() string {
	var b strings.Builder
	for i, k := range ir.Kernels {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "kernel-%d:\n%s", i, k.String())
	}
	return b.String()
}

// Flatten concatenates every kernel's instruction list, in kernel order.
// It expresses the permutation-invariant property (testable property 1): for any
// fuser, Flatten(ir) must equal ir.Instructions (identity permutation).
func Flatten(ir *IR) []instr.Instruction {
	var out []instr.Instruction
	for _, k := range ir.Kernels {
		out = append(out, k.Instructions...)
	}
	return out
}

// NonSystemCount returns how many of instrs are not system opcodes
// (Discard/Free/Sync/None); the singleton-per-non-system-instruction
// block list the fuser starts from has exactly this many entries before
// any merging, except that system instructions at the very start of the
// stream form one leading all-system block of their own; every other
// system instruction rides along inside the block before it.
func NonSystemCount(instrs []instr.Instruction) int {
	n := 0
	for _, ins := range instrs {
		if !opcode.IsSystem(ins.Opcode) {
			n++
		}
	}
	return n
}
