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

package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/view"
)

func v(base uint64, n int64) view.View {
	return view.Contiguous(base, bhtype.F32, []int64{n})
}

func alwaysFusible(a, b instr.Instruction) bool { return true }

// Mirrors S1: Add(c,a,b); Mul(d,c,a); Discard(c) builds a kernel with
// inputs {a,b} (a deduped across both uses), output {d}, temp {c}.
func TestAddInstrBuildsInputsOutputsTemps(t *testing.T) {
	a, b, c, d := v(1, 1000), v(2, 1000), v(3, 1000), v(4, 1000)

	k := kernel.FromInstruction(instr.New(opcode.Add, c, a, b))
	k.AddInstr(instr.New(opcode.Mul, d, c, a))
	k.AddInstr(instr.New(opcode.Discard, c))

	require.Len(t, k.Outputs, 1)
	require.True(t, k.Outputs[0].Aligned(d))
	require.Len(t, k.Temps, 1)
	require.Equal(t, uint64(3), k.Temps[0])

	require.Len(t, k.Inputs, 2)
	var sawA, sawB bool
	for _, in := range k.Inputs {
		if in.Aligned(a) {
			sawA = true
		}
		if in.Aligned(b) {
			sawB = true
		}
	}
	require.True(t, sawA)
	require.True(t, sawB)
}

// S6: a constant operand never becomes a kernel input.
func TestAddInstrExcludesConstantsFromInputs(t *testing.T) {
	a, c := v(1, 100), v(2, 100)
	constant := view.View{Constant: true, ElemType: bhtype.F32}

	k := kernel.FromInstruction(instr.New(opcode.Add, c, a, constant))
	require.Len(t, k.Inputs, 1)
	require.True(t, k.Inputs[0].Aligned(a))
}

func TestFreeDoesNotAffectOutputsOrTemps(t *testing.T) {
	a, c := v(1, 10), v(2, 10)
	k := kernel.FromInstruction(instr.New(opcode.Add, c, a, a))
	k.AddInstr(instr.New(opcode.Free, c))
	require.Len(t, k.Outputs, 1)
	require.Empty(t, k.Temps)
}

func TestDependencyDetectsRAWAcrossKernels(t *testing.T) {
	a, b, c := v(1, 10), v(2, 10), v(3, 10)
	k1 := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	k2 := kernel.FromInstruction(instr.New(opcode.Mul, c, b, b))
	require.True(t, k1.Dependency(k2))
}

func TestDependencyFalseForDisjointBases(t *testing.T) {
	a, b, c, d := v(1, 10), v(2, 10), v(3, 10), v(4, 10)
	k1 := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	k2 := kernel.FromInstruction(instr.New(opcode.Mul, d, c, c))
	require.False(t, k1.Dependency(k2))
}

func TestFusibleGentlyAllSystemKernelAlwaysFusible(t *testing.T) {
	a, b := v(1, 10), v(2, 10)
	never := func(x, y instr.Instruction) bool { return false }
	sys := kernel.FromInstruction(instr.New(opcode.Discard, a))
	other := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	require.True(t, sys.FusibleGently(other, never))
	require.True(t, other.FusibleGently(sys, never))
}

func TestFusibleGentlyFallsBackToFullPairwiseCheck(t *testing.T) {
	a, b, c := v(1, 10), v(2, 10), v(3, 10)
	k1 := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	k2 := kernel.FromInstruction(instr.New(opcode.Mul, c, b, b))
	require.True(t, k1.FusibleGently(k2, alwaysFusible))

	never := func(x, y instr.Instruction) bool { return false }
	require.False(t, k1.FusibleGently(k2, never))
}

func TestCostSumsInputsAndOutputsIndependently(t *testing.T) {
	a, b := v(1, 10), v(2, 10)
	k := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	// Inputs = {a} (deduped single use), Outputs = {b}: cost =
	// 10*4 (a) + 10*4 (b) = 80 bytes total for f32 elements.
	require.Equal(t, int64(80), k.Cost())
}

func TestDependencyCostSameKernelIsZero(t *testing.T) {
	a, b := v(1, 10), v(2, 10)
	k := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	require.Equal(t, int64(0), k.DependencyCost(k, alwaysFusible, false))
}

func TestDependencyCostNegativeWhenNotFusible(t *testing.T) {
	a, b, c := v(1, 10), v(2, 10), v(3, 10)
	k1 := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	k2 := kernel.FromInstruction(instr.New(opcode.Mul, c, b, b))
	never := func(x, y instr.Instruction) bool { return false }
	require.Equal(t, int64(-1), k2.DependencyCost(k1, never, false))
}

func TestDependencyCostCreditsDiscardMatchedOutput(t *testing.T) {
	a, b, c := v(1, 10), v(2, 10), v(3, 10)
	k1 := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	k2 := kernel.FromInstruction(instr.New(opcode.Mul, c, b, b))
	k2.AddInstr(instr.New(opcode.Discard, b))
	// k2 consumes b (k1's output) and also discards b within itself:
	// both the drop for consuming k1's output and the discard-matched
	// drop apply.
	got := k2.DependencyCost(k1, alwaysFusible, false)
	require.Greater(t, got, int64(0))
}

func TestMergeReplaysInstructionsInOrder(t *testing.T) {
	a, b, c := v(1, 10), v(2, 10), v(3, 10)
	k1 := kernel.FromInstruction(instr.New(opcode.Add, b, a, a))
	k2 := kernel.FromInstruction(instr.New(opcode.Mul, c, b, b))
	k2.AddInstr(instr.New(opcode.Discard, b))

	merged := kernel.Merge(k1, k2)
	require.Len(t, merged.Instructions, 3)
	require.Equal(t, opcode.Add, merged.Instructions[0].Opcode)
	require.Equal(t, opcode.Mul, merged.Instructions[1].Opcode)
	require.Equal(t, opcode.Discard, merged.Instructions[2].Opcode)

	require.Len(t, merged.Outputs, 1)
	require.True(t, merged.Outputs[0].Aligned(c))
	require.Len(t, merged.Temps, 1)
	require.Equal(t, uint64(2), merged.Temps[0])
}

func TestDispatchInstructionsMovesSystemOpcodesToTailStably(t *testing.T) {
	a, b := v(1, 10), v(2, 10)
	k := kernel.FromInstruction(instr.New(opcode.Discard, a))
	k.AddInstr(instr.New(opcode.Add, b, a, a))
	k.AddInstr(instr.New(opcode.Free, b))
	k.AddInstr(instr.New(opcode.Sync, b))

	ordered := k.DispatchInstructions()
	require.Len(t, ordered, 4)
	require.Equal(t, opcode.Add, ordered[0].Opcode)
	require.Equal(t, opcode.Discard, ordered[1].Opcode)
	require.Equal(t, opcode.Free, ordered[2].Opcode)
	require.Equal(t, opcode.Sync, ordered[3].Opcode)
	// Recorded order on k.Instructions is untouched.
	require.Equal(t, opcode.Discard, k.Instructions[0].Opcode)
}
