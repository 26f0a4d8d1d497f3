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

package fuser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/view"
)

// alwaysFusible is the trivial backend predicate: everything can share a
// loop nest. Safe for chains of elementwise/system opcodes, where a
// shared per-element loop is correct regardless of read/write order
// within it.
func alwaysFusible(a, b instr.Instruction) bool { return true }

// reductionAwareFusible models a backend whose check_fusible forbids
// sharing a loop nest between a reduction and anything that depends on
// its result or its input base: a reduction must see the whole of its
// input before any fused neighbor can touch that base, which a single
// per-element loop cannot guarantee. Non-reduction pairs are always
// fusible, mirroring S1's elementwise chain.
func reductionAwareFusible(a, b instr.Instruction) bool {
	if opcode.ClassOf(a.Opcode) != opcode.ClassReduction && opcode.ClassOf(b.Opcode) != opcode.ClassReduction {
		return true
	}
	return !instrConflict(a, b)
}

func writeBase(ins instr.Instruction) (uint64, bool) {
	switch ins.Opcode {
	case opcode.Discard, opcode.Free, opcode.None:
		return 0, false
	default:
		if opcode.Operands(ins.Opcode) < 1 {
			return 0, false
		}
		v := ins.Operands[0]
		if v.Constant {
			return 0, false
		}
		return v.BaseID, true
	}
}

func touchesBase(ins instr.Instruction, base uint64) bool {
	n := opcode.Operands(ins.Opcode)
	for i := 0; i < n; i++ {
		v := ins.Operands[i]
		if !v.Constant && v.BaseID == base {
			return true
		}
	}
	return false
}

func instrConflict(a, b instr.Instruction) bool {
	if wb, ok := writeBase(a); ok && touchesBase(b, wb) {
		return true
	}
	if wb, ok := writeBase(b); ok && touchesBase(a, wb) {
		return true
	}
	return false
}

func TestSingletonOneBlockPerNonSystemInstruction(t *testing.T) {
	a, b, c, d := uint64(1), uint64(2), uint64(3), uint64(4)
	av := view.Contiguous(a, bhtype.F32, []int64{1000})
	bv := view.Contiguous(b, bhtype.F32, []int64{1000})
	cv := view.Contiguous(c, bhtype.F32, []int64{1000})
	dv := view.Contiguous(d, bhtype.F32, []int64{1000})

	instrs := []instr.Instruction{
		instr.New(opcode.Add, cv, av, bv),
		instr.New(opcode.Mul, dv, cv, av),
		instr.New(opcode.Discard, cv),
	}
	blocks := Singleton(instrs)
	// Discard threads into the Mul block rather than starting its own.
	require.Len(t, blocks, 2)
	require.Len(t, blocks[1].Instructions, 2)
}

// TestS1FusionOfTwoElementwiseAdds implements spec scenario S1: Add(c,a,b);
// Mul(d,c,a); Discard(c); Flush should land in one kernel with inputs
// {a, b} (a deduped across its two appearances), output {d}, temp {c}.
func TestS1FusionOfTwoElementwiseAdds(t *testing.T) {
	a, b, c, d := uint64(1), uint64(2), uint64(3), uint64(4)
	av := view.Contiguous(a, bhtype.F32, []int64{1000})
	bv := view.Contiguous(b, bhtype.F32, []int64{1000})
	cv := view.Contiguous(c, bhtype.F32, []int64{1000})
	dv := view.Contiguous(d, bhtype.F32, []int64{1000})

	instrs := []instr.Instruction{
		instr.New(opcode.Add, cv, av, bv),
		instr.New(opcode.Mul, dv, cv, av),
		instr.New(opcode.Discard, cv),
	}
	blocks := Singleton(instrs)
	fused := Serial{}.Fuse(blocks, 0, alwaysFusible)

	require.Len(t, fused, 1)
	k := fused[0]
	require.Len(t, k.Inputs, 2, "a must be deduped across its two appearances")
	require.Len(t, k.Outputs, 1)
	require.True(t, k.Outputs[0].Aligned(dv))
	require.Equal(t, []uint64{c}, k.Temps)
	require.Equal(t, instrs, k.Instructions, "instruction order preserved")
}

// TestS2DependencyBarrier implements spec scenario S2: Sum(b,a,axis=0);
// Mul(a,a,2.0) must land in two kernels because the second writes a,
// which the first reads (WAR).
func TestS2DependencyBarrier(t *testing.T) {
	a, b := uint64(1), uint64(2)
	av := view.Contiguous(a, bhtype.F64, []int64{16})
	bv := view.Contiguous(b, bhtype.F64, []int64{1})
	two := view.ConstantF64(2.0)

	instrs := []instr.Instruction{
		instr.New(opcode.Sum, bv, av),
		instr.New(opcode.Mul, av, av, two),
	}
	blocks := Singleton(instrs)
	require.Len(t, blocks, 2)
	require.True(t, blocks[0].Dependency(blocks[1]))

	fused := Serial{}.Fuse(blocks, 0, reductionAwareFusible)
	require.Len(t, fused, 2, "the reduction's check_fusible rejects sharing a loop nest with the conflicting write")
}

// TestS5GreedyBeatsSerial implements spec scenario S5 directly against
// three synthetic blocks, without going through Singleton: B1<->B2 and
// B2<->B3 are fusible with price drops 10 and 100 respectively; B1 and B3
// are not fusible with each other at all.
func TestS5GreedyBeatsSerial(t *testing.T) {
	tag := func(n int64) instr.Instruction {
		return instr.New(opcode.Identity, view.ConstantI64(n))
	}
	fusible := func(a, b instr.Instruction) bool {
		av, bv := a.Operands[0].Int64(), b.Operands[0].Int64()
		if av > bv {
			av, bv = bv, av
		}
		// 1<->2 and 2<->3 fusible, 1<->3 is not.
		return (av == 1 && bv == 2) || (av == 2 && bv == 3)
	}

	// Build three blocks whose shared-view elements make
	// DependencyCost(B1,B2) == 10 and DependencyCost(B2,B3) == 100.
	v1 := view.Contiguous(100, bhtype.I8, []int64{10})
	v2 := view.Contiguous(200, bhtype.I8, []int64{100})
	b1 := &kernel.Kernel{Instructions: []instr.Instruction{tag(1)}, Outputs: []view.View{v1}}
	b2 := &kernel.Kernel{Instructions: []instr.Instruction{tag(2)}, Inputs: []view.View{v1}, Outputs: []view.View{v2}}
	b3 := &kernel.Kernel{Instructions: []instr.Instruction{tag(3)}, Inputs: []view.View{v2}}

	require.EqualValues(t, 10, b2.DependencyCost(b1, fusible, false))
	require.EqualValues(t, 100, b3.DependencyCost(b2, fusible, false))
	require.EqualValues(t, -1, b1.DependencyCost(b3, fusible, false))

	greedy := Greedy{}.Fuse([]*kernel.Kernel{b1, b2, b3}, 0, fusible)
	require.Len(t, greedy, 2)
	require.Len(t, greedy[0].Instructions, 1, "B1 stays alone")
	require.Len(t, greedy[1].Instructions, 2, "B2 and B3 merge first")

	serial := Serial{}.Fuse([]*kernel.Kernel{b1, b2, b3}, 0, fusible)
	require.Len(t, serial, 2)
	require.Len(t, serial[0].Instructions, 2, "B1 and B2 merge first under serial")
	require.Len(t, serial[1].Instructions, 1, "B3 stays alone")
}

// TestMinThreadingBlocksMergeBelowFloor proves minThreading actually
// gates partitioning: two small blocks that would otherwise fuse under
// Serial stay apart once the merged block's element count falls short of
// minThreading.
func TestMinThreadingBlocksMergeBelowFloor(t *testing.T) {
	a, b, c := uint64(1), uint64(2), uint64(3)
	av := view.Contiguous(a, bhtype.F32, []int64{10})
	bv := view.Contiguous(b, bhtype.F32, []int64{10})
	cv := view.Contiguous(c, bhtype.F32, []int64{10})
	instrs := []instr.Instruction{
		instr.New(opcode.Add, cv, av, bv),
		instr.New(opcode.Mul, av, cv, av),
	}

	unrestricted := Serial{}.Fuse(Singleton(instrs), 0, alwaysFusible)
	require.Len(t, unrestricted, 1, "with no floor the two blocks merge")

	restricted := Serial{}.Fuse(Singleton(instrs), 11, alwaysFusible)
	require.Len(t, restricted, 2, "a floor above the merged block's extent forces them apart")

	exact := Serial{}.Fuse(Singleton(instrs), 10, alwaysFusible)
	require.Len(t, exact, 1, "a floor at exactly the merged extent still meets it")
}

// TestMinThreadingGatesBreadthFirstAndReshapableFirst exercises the same
// floor through mergeAdjacentWhere, shared by BreadthFirst and
// ReshapableFirst.
func TestMinThreadingGatesBreadthFirstAndReshapableFirst(t *testing.T) {
	a, b, c, d := uint64(1), uint64(2), uint64(3), uint64(4)
	av := view.Contiguous(a, bhtype.F32, []int64{10})
	bv := view.Contiguous(b, bhtype.F32, []int64{10})
	cv := view.Contiguous(c, bhtype.F32, []int64{10})
	dv := view.Contiguous(d, bhtype.F32, []int64{10})
	instrs := []instr.Instruction{
		instr.New(opcode.Add, cv, av, bv),
		instr.New(opcode.Sub, dv, av, bv),
	}

	for _, f := range []Fuser{BreadthFirst{}, ReshapableFirst{}} {
		blocks := Singleton(instrs)
		unrestricted := f.Fuse(blocks, 0, alwaysFusible)
		require.Len(t, unrestricted, 1, "%T merges independent blocks with no floor", f)

		restricted := f.Fuse(Singleton(instrs), 11, alwaysFusible)
		require.Len(t, restricted, 2, "%T respects a floor above the merged extent", f)
	}
}

// TestMinThreadingGatesGreedy exercises the same floor in Greedy's
// best-adjacent-pair search, using a real dependency chain so
// DependencyCost offers a genuine, non-negative price drop for the
// merge.
func TestMinThreadingGatesGreedy(t *testing.T) {
	a, c, d := uint64(1), uint64(2), uint64(3)
	av := view.Contiguous(a, bhtype.F32, []int64{5})
	cv := view.Contiguous(c, bhtype.F32, []int64{5})
	dv := view.Contiguous(d, bhtype.F32, []int64{5})
	instrs := []instr.Instruction{
		instr.New(opcode.Identity, cv, av),
		instr.New(opcode.Identity, dv, cv),
	}

	unrestricted := Greedy{}.Fuse(Singleton(instrs), 0, alwaysFusible)
	require.Len(t, unrestricted, 1, "with no floor the dependent pair merges")

	restricted := Greedy{}.Fuse(Singleton(instrs), 6, alwaysFusible)
	require.Len(t, restricted, 2, "a floor above the merged extent blocks the pair")
}

func TestFlattenIsPermutationInvariant(t *testing.T) {
	a, b, c := uint64(1), uint64(2), uint64(3)
	av := view.Contiguous(a, bhtype.F32, []int64{10})
	bv := view.Contiguous(b, bhtype.F32, []int64{10})
	cv := view.Contiguous(c, bhtype.F32, []int64{10})
	instrs := []instr.Instruction{
		instr.New(opcode.Add, cv, av, bv),
		instr.New(opcode.Mul, av, av, cv),
		instr.New(opcode.Discard, cv),
	}

	for _, f := range []Fuser{Serial{}, BreadthFirst{}, ReshapableFirst{}, Greedy{}} {
		blocks := Singleton(instrs)
		fused := f.Fuse(blocks, 0, alwaysFusible)
		var flat []instr.Instruction
		for _, k := range fused {
			flat = append(flat, k.Instructions...)
		}
		require.Equal(t, instrs, flat)
	}
}
