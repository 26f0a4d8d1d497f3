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

// Package view describes strided windows into array bases, the sole unit
// of operand in every instruction.
package view

import "github.com/bohrium-go/bhcore/bhtype"

// MaxRank bounds the number of axes a View may carry, matching the
// fixed-width on-wire shape/stride arrays of the instruction layout.
const MaxRank = 16

// View is a value type: it never extends the lifetime of its Base and
// carries no identity of its own. Two Views are interchangeable whenever
// they are Aligned.
type View struct {
	BaseID   uint64
	Start    int64
	Rank     int8
	Shape    [MaxRank]int64
	Stride   [MaxRank]int64

	// Constant marks an inline scalar operand. When true, BaseID/Start/
	// Rank/Shape/Stride are meaningless and ElemType/Const carry the
	// value instead.
	Constant bool
	ElemType bhtype.Type
	Const    [16]byte
}

// NewStrided builds a View over base with the given element type, start
// offset, shape and stride. len(shape) must equal len(stride) and be
// <= MaxRank. elemType travels with the View (rather than requiring a
// registry lookup) so that cost_of_view can be computed from the View
// alone.
func NewStrided(baseID uint64, elemType bhtype.Type, start int64, shape, stride []int64) View {
	if len(shape) != len(stride) {
		panic("view: shape/stride length mismatch")
	}
	if len(shape) > MaxRank {
		panic("view: rank exceeds MaxRank")
	}
	v := View{BaseID: baseID, ElemType: elemType, Start: start, Rank: int8(len(shape))}
	copy(v.Shape[:], shape)
	copy(v.Stride[:], stride)
	return v
}

// Contiguous builds a row-major contiguous View over base covering shape.
func Contiguous(baseID uint64, elemType bhtype.Type, shape []int64) View {
	stride := make([]int64, len(shape))
	acc := int64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		stride[i] = acc
		acc *= shape[i]
	}
	return NewStrided(baseID, elemType, 0, shape, stride)
}

// NElements returns the number of elements addressed by v's shape
// (product of shape, ignoring stride — broadcast axes of stride 0 still
// count every logical element, matching cost_of_view's accounting).
func (v View) NElements() int64 {
	if v.Constant {
		return 1
	}
	n := int64(1)
	for i := 0; i < int(v.Rank); i++ {
		n *= v.Shape[i]
	}
	return n
}

// Aligned reports whether v and o are the canonical equivalence used
// throughout the bridge: identical base, start, rank, shape and stride.
// Object identity plays no part.
func (v View) Aligned(o View) bool {
	if v.Constant || o.Constant {
		return false
	}
	if v.BaseID != o.BaseID || v.Start != o.Start || v.Rank != o.Rank {
		return false
	}
	for i := 0; i < int(v.Rank); i++ {
		if v.Shape[i] != o.Shape[i] || v.Stride[i] != o.Stride[i] {
			return false
		}
	}
	return true
}

// Reshaped returns a copy of v with axes of length 1, and runs of
// stride-contiguous axes, collapsed into fewer axes. It is idempotent:
// Reshaped(Reshaped(v)) == Reshaped(v). Constant views are returned
// unchanged.
func (v View) Reshaped() View {
	if v.Constant || v.Rank == 0 {
		return v
	}
	shape := make([]int64, 0, v.Rank)
	stride := make([]int64, 0, v.Rank)
	for i := 0; i < int(v.Rank); i++ {
		if v.Shape[i] == 1 {
			continue // drop degenerate axes entirely
		}
		shape = append(shape, v.Shape[i])
		stride = append(stride, v.Stride[i])
	}
	if len(shape) == 0 {
		// every axis was degenerate; keep a single trivial axis so the
		// view still addresses exactly one element.
		shape = []int64{1}
		stride = []int64{0}
	}
	// collapse adjacent axes (i, i+1) where stride[i] == stride[i+1]*shape[i+1],
	// i.e. axis i is contiguous with respect to axis i+1.
	out := View{BaseID: v.BaseID, ElemType: v.ElemType, Start: v.Start}
	cs, cl := stride[len(stride)-1], shape[len(shape)-1]
	collapsedShape := []int64{cl}
	collapsedStride := []int64{cs}
	for i := len(shape) - 2; i >= 0; i-- {
		if stride[i] == collapsedStride[0]*collapsedShape[0] {
			collapsedShape[0] *= shape[i]
		} else {
			collapsedShape = append([]int64{shape[i]}, collapsedShape...)
			collapsedStride = append([]int64{stride[i]}, collapsedStride...)
		}
	}
	out.Rank = int8(len(collapsedShape))
	copy(out.Shape[:], collapsedShape)
	copy(out.Stride[:], collapsedStride)
	return out
}

// Reshapable reports whether v still has degenerate or stride-contiguous
// axes that Reshaped would collapse, i.e. whether fusing against v could
// still benefit from reshaping.
func (v View) Reshapable() bool {
	if v.Constant || v.Rank < 2 {
		return false
	}
	r := v.Reshaped()
	return r.Rank < v.Rank
}

// ConstantF64 builds a constant operand carrying a float64 value.
func ConstantF64(value float64) View {
	v := View{Constant: true, ElemType: bhtype.F64}
	putFloat64(v.Const[:], value)
	return v
}

// ConstantI64 builds a constant operand carrying an int64 value.
func ConstantI64(value int64) View {
	v := View{Constant: true, ElemType: bhtype.I64}
	putInt64(v.Const[:], value)
	return v
}
