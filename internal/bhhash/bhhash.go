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

// Package bhhash computes the fuse cache's structural signature: a
// 64-bit, in-process, non-portable FNV-1a-family hash over an
// instruction sequence's *shape* rather than its concrete bases, so two
// workloads that differ only in which base ids they touch collide onto
// the same cache entry. Adapted from cloudwego-gopkg's hash/xfnv, which
// folds raw bytes eight at a time; this package instead folds one
// structural field (opcode, rank, shape/stride/start element, base's
// positional index) per round, since there is no contiguous byte buffer
// to hash over.
package bhhash

import (
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/opcode"
)

const (
	offset64 = uint64(14695981039346656037)
	prime64  = uint64(1099511628211)
)

// Signature folds instrs into a 64-bit structural key. Two sequences
// produce the same Signature whenever they agree on opcode, operand
// rank/shape/stride/start/elem-type/constant-ness, and the pattern of
// which operands share a base — abstracting every concrete base id to
// the index of its first appearance in the sequence. Do not persist a
// Signature across process restarts; it is an in-memory cache key only.
func Signature(instrs []instr.Instruction) uint64 {
	h := offset64
	bases := make(map[uint64]int)

	fold := func(v uint64) {
		h ^= v
		h *= prime64
	}

	for _, ins := range instrs {
		fold(uint64(ins.Opcode))
		fold(ins.UserFunc)
		n := opcode.Operands(ins.Opcode)
		fold(uint64(n))
		for i := 0; i < n && i < instr.MaxOperands; i++ {
			v := ins.Operands[i]
			if v.Constant {
				fold(1)
				fold(uint64(v.ElemType))
				continue
			}
			fold(0)
			idx, seen := bases[v.BaseID]
			if !seen {
				idx = len(bases)
				bases[v.BaseID] = idx
			}
			fold(uint64(idx))
			fold(uint64(v.ElemType))
			fold(uint64(v.Start))
			fold(uint64(v.Rank))
			for a := 0; a < int(v.Rank); a++ {
				fold(uint64(v.Shape[a]))
				fold(uint64(v.Stride[a]))
			}
		}
	}
	return h
}
