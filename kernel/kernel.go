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

// Package kernel implements the fusible unit of execution: an ordered
// group of instructions a backend executes as a single fused loop nest.
package kernel

import (
	"fmt"
	"strings"

	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/view"
)

// FusibleFunc is the backend-supplied check_fusible(a, b) predicate: pure,
// deterministic, commutative and reflexive-true. It encodes the backend's
// loop-fusibility rules (shape broadcast-compatibility, reduction axis
// alignment, ...).
type FusibleFunc func(a, b instr.Instruction) bool

// Kernel is an ordered group of instructions built by repeated calls to
// AddInstr. Instructions retain their original relative order from the
// IR.
type Kernel struct {
	Instructions []instr.Instruction
	Inputs       []view.View
	Outputs      []view.View
	Temps        []uint64 // base ids discarded within this kernel
}

// New returns an empty Kernel.
func New() *Kernel { return &Kernel{} }

// FromInstruction returns a singleton Kernel wrapping one instruction,
// the starting point of fuser_singleton's block list.
func FromInstruction(ins instr.Instruction) *Kernel {
	k := New()
	k.AddInstr(ins)
	return k
}

// AddInstr appends ins to k, maintaining the input/output/temp
// bookkeeping of spec §4.4 (grounded line-for-line on
// bh_ir_kernel::add_instr).
func (k *Kernel) AddInstr(ins instr.Instruction) {
	switch ins.Opcode {
	case opcode.Discard:
		base := ins.Operands[0].BaseID
		for i, o := range k.Outputs {
			if o.BaseID == base {
				k.Temps = append(k.Temps, base)
				k.Outputs = append(k.Outputs[:i], k.Outputs[i+1:]...)
				break
			}
		}
	case opcode.Free:
		// Free never touches input/output/temp bookkeeping.
	default:
		v0 := ins.Operands[0]
		duplicate := false
		for _, o := range k.Outputs {
			if v0.Aligned(o) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			k.Outputs = append(k.Outputs, v0)
		}

		nop := opcode.Operands(ins.Opcode)
		for i := 1; i < nop; i++ {
			v := ins.Operands[i]
			if v.Constant {
				continue
			}
			already := false
			for _, in := range k.Inputs {
				if v.Aligned(in) {
					already = true
					break
				}
			}
			if already {
				continue
			}
			localSource := false
			for _, prior := range k.Instructions {
				if v.Aligned(prior.Operands[0]) {
					localSource = true
					break
				}
			}
			if !localSource {
				k.Inputs = append(k.Inputs, v)
			}
		}
	}
	k.Instructions = append(k.Instructions, ins)
}

// writeSet returns the base ids ins writes: operand[0]'s base for every
// opcode except Discard and Free, which terminally reference a base but
// do not write it, and None, which writes nothing.
func writeSet(ins instr.Instruction) []uint64 {
	switch ins.Opcode {
	case opcode.Discard, opcode.Free, opcode.None:
		return nil
	default:
		if opcode.Operands(ins.Opcode) < 1 {
			return nil
		}
		return []uint64{ins.Operands[0].BaseID}
	}
}

// touchSet returns every non-constant base id ins reads or writes,
// including the terminal reference of Discard/Free.
func touchSet(ins instr.Instruction) []uint64 {
	n := opcode.Operands(ins.Opcode)
	out := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		v := ins.Operands[i]
		if v.Constant {
			continue
		}
		out = append(out, v.BaseID)
	}
	return out
}

func overlaps(a, b []uint64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// instrDependency implements pure RAW/WAW/WAR detection on base identity
// between two individual instructions, ignoring stride compatibility.
func instrDependency(a, b instr.Instruction) bool {
	return overlaps(writeSet(a), touchSet(b)) || overlaps(writeSet(b), touchSet(a))
}

// Dependency reports whether there exists a pair (a in k, b in other)
// such that a writes a base that b reads or writes, or vice versa.
func (k *Kernel) Dependency(other *Kernel) bool {
	for _, a := range k.Instructions {
		for _, b := range other.Instructions {
			if instrDependency(a, b) {
				return true
			}
		}
	}
	return false
}

// Fusible reports whether cf holds for every pair (a, b) in
// k.Instructions x other.Instructions.
func (k *Kernel) Fusible(other *Kernel, cf FusibleFunc) bool {
	for _, a := range k.Instructions {
		for _, b := range other.Instructions {
			if !cf(a, b) {
				return false
			}
		}
	}
	return true
}

// allSystem reports whether every instruction in k is a system opcode
// (Discard, Free, Sync, None).
func (k *Kernel) allSystem() bool {
	for _, ins := range k.Instructions {
		if !opcode.IsSystem(ins.Opcode) {
			return false
		}
	}
	return true
}

// FusibleGently reports whether k can be merged with other without
// altering an existing kernel's dependency footprint. System opcodes are
// always gently fusible and a kernel made entirely of system opcodes is
// gently fusible with anything; otherwise gentle fusibility falls back to
// the full pairwise Fusible check, a conservative reading documented in
// DESIGN.md.
func (k *Kernel) FusibleGently(other *Kernel, cf FusibleFunc) bool {
	if k.allSystem() || other.allSystem() {
		return true
	}
	return k.Fusible(other, cf)
}

func costOfView(v view.View) int64 {
	if v.Constant {
		return 0
	}
	return v.NElements() * int64(bhtype.Size(v.ElemType))
}

// CostOfView is cost_of_view: nelements(view) * sizeof(elem_type). It is
// a pricing function used only to rank fusion choices, not a performance
// predictor. Non-constant views must carry their element type (callers
// populate View.ElemType from the owning Base; this package never
// consults a registry directly, keeping it free of that dependency).
func CostOfView(v view.View) int64 { return costOfView(v) }

// Cost sums CostOfView over k's inputs and outputs (concatenated, not
// set-deduplicated across the two lists — matching bh_ir_kernel::cost()
// in the original source, which sums each list independently).
func (k *Kernel) Cost() int64 {
	var sum int64
	for _, v := range k.Inputs {
		sum += costOfView(v)
	}
	for _, v := range k.Outputs {
		sum += costOfView(v)
	}
	return sum
}

// Threading returns the largest element count among k.Outputs, the
// parallel loop extent a backend would thread this kernel's outer loop
// over. A kernel with no outputs (pure system opcodes) reports 0.
func (k *Kernel) Threading() int64 {
	var max int64
	for _, v := range k.Outputs {
		if n := v.NElements(); n > max {
			max = n
		}
	}
	return max
}

// hasDiscardFor reports whether k contains a Discard instruction for
// base.
func (k *Kernel) hasDiscardFor(base uint64) bool {
	for _, ins := range k.Instructions {
		if ins.Opcode == opcode.Discard && ins.Operands[0].BaseID == base {
			return true
		}
	}
	return false
}

// DependencyCost estimates the I/O saving from fusing k with other: if
// they are the same kernel, 0; if they are not fusible, -1 (sentinel:
// illegal); otherwise the price drop from shared inputs/outputs plus
// discard-matched outputs of other found in k. k is the consumer side:
// the drop counts k's inputs that other already produced, so callers
// comparing a left/right pair of blocks should invoke this as
// right.DependencyCost(left, ...).
//
// sharesLoadedTiles corresponds to a backend capability flag and gates
// only the shared-input price drop (k's inputs aligned with other's
// inputs): when false, that part is not counted, so a backend that cannot
// keep a tile resident across fused kernels gets no credit for "sharing"
// it. k's inputs produced by other and the discard-matched outputs are
// counted either way.
func (k *Kernel) DependencyCost(other *Kernel, cf FusibleFunc, sharesLoadedTiles bool) int64 {
	if k == other {
		return 0
	}
	if !k.Fusible(other, cf) {
		return -1
	}
	var drop int64
	for _, i := range k.Inputs {
		for _, o := range other.Outputs {
			if i.Aligned(o) {
				drop += costOfView(i)
			}
		}
		if sharesLoadedTiles {
			for _, o := range other.Inputs {
				if i.Aligned(o) {
					drop += costOfView(i)
				}
			}
		}
	}
	for _, o := range other.Outputs {
		if k.hasDiscardFor(o.BaseID) {
			drop += costOfView(o)
		}
	}
	return drop
}

// Merge returns a new Kernel built by replaying other's instructions,
// in order, onto a copy of k via AddInstr — i.e. the merge of two
// kernels is itself computed by the same bookkeeping rules that build a
// kernel from scratch, so the merged kernel's invariants hold by
// construction.
func Merge(a, b *Kernel) *Kernel {
	merged := &Kernel{
		Instructions: append([]instr.Instruction(nil), a.Instructions...),
		Outputs:      append([]view.View(nil), a.Outputs...),
		Inputs:       append([]view.View(nil), a.Inputs...),
		Temps:        append([]uint64(nil), a.Temps...),
	}
	for _, ins := range b.Instructions {
		merged.AddInstr(ins)
	}
	return merged
}

// DispatchInstructions returns a copy of k.Instructions with every system
// opcode (Discard, Free, Sync, None) moved after every non-system one,
// stable otherwise — a conservative resolution of system-opcode ordering
// within a kernel. A Backend executes this order, not k.Instructions'
// recorded order; k.Instructions itself is never mutated, since the
// permutation-invariant testable property is checked against the
// recorded order.
func (k *Kernel) DispatchInstructions() []instr.Instruction {
	out := make([]instr.Instruction, 0, len(k.Instructions))
	for _, ins := range k.Instructions {
		if !opcode.IsSystem(ins.Opcode) {
			out = append(out, ins)
		}
	}
	for _, ins := range k.Instructions {
		if opcode.IsSystem(ins.Opcode) {
			out = append(out, ins)
		}
	}
	return out
}

// String renders k's instructions for debugging/pretty-printing,
// matching bh_ir.cpp's pprint_kernel_list in spirit.
func (k *Kernel) String() string {
	var b strings.Builder
	for i, ins := range k.Instructions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s", opcode.Name(ins.Opcode))
	}
	return b.String()
}
