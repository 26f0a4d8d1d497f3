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
	"encoding/binary"

	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/view"
)

// Wire layout (fixed-width, little-endian throughout):
//
//	opcode   i32
//	operand[MaxOperands]:
//	  kind   i8   (0 = view, 1 = constant)
//	  -- kind 0 --
//	  base_id  i64
//	  start    i64
//	  rank     i8
//	  shape    [view.MaxRank]i64
//	  stride   [view.MaxRank]i64
//	  -- kind 1, packed into the same trailing span --
//	  elem_type i8
//	  value     [16]byte
//	userfunc_ptr i64
//
// Every operand occupies OperandWireSize bytes regardless of kind so the
// instruction is truly fixed-width; unused trailing bytes are zeroed.

const (
	kindView     = 0
	kindConstant = 1

	// OperandWireSize is kind(1) + base_id(8) + start(8) + rank(1) +
	// shape(8*MaxRank) + stride(8*MaxRank).
	OperandWireSize = 1 + 8 + 8 + 1 + 8*view.MaxRank + 8*view.MaxRank

	// WireSize is the fixed size in bytes of one encoded Instruction.
	WireSize = 4 + MaxOperands*OperandWireSize + 8
)

// Encode writes ins into buf (which must be at least WireSize bytes) and
// returns the number of bytes written.
func Encode(buf []byte, ins Instruction) int {
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], uint32(ins.Opcode))
	off += 4
	for i := 0; i < MaxOperands; i++ {
		off += encodeOperand(buf[off:], ins.Operands[i])
	}
	binary.LittleEndian.PutUint64(buf[off:], ins.UserFunc)
	off += 8
	return off
}

func encodeOperand(buf []byte, v view.View) int {
	start := len(buf)
	_ = start
	off := 0
	if v.Constant {
		buf[off] = kindConstant
		off++
		buf[off] = byte(v.ElemType)
		off++
		copy(buf[off:off+16], v.Const[:])
		off += 16
		zeroBytes(buf[off:OperandWireSize])
		return OperandWireSize
	}
	buf[off] = kindView
	off++
	binary.LittleEndian.PutUint64(buf[off:], v.BaseID)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], uint64(v.Start))
	off += 8
	buf[off] = byte(v.Rank)
	off++
	for i := 0; i < view.MaxRank; i++ {
		binary.LittleEndian.PutUint64(buf[off:], uint64(v.Shape[i]))
		off += 8
	}
	for i := 0; i < view.MaxRank; i++ {
		binary.LittleEndian.PutUint64(buf[off:], uint64(v.Stride[i]))
		off += 8
	}
	return off
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Decode reads one Instruction from buf and returns the number of bytes
// consumed. It returns ErrTruncated if buf is shorter than WireSize, and
// ErrUnknownOpcode if the decoded opcode is not one this build
// recognizes (a corrupt buffer or one written by a newer/older build).
func Decode(buf []byte) (Instruction, int, error) {
	if len(buf) < WireSize {
		return Instruction{}, 0, ErrTruncated
	}
	var ins Instruction
	off := 0
	ins.Opcode = int32(binary.LittleEndian.Uint32(buf[off:]))
	if !opcode.Valid(ins.Opcode) {
		return Instruction{}, 0, ErrUnknownOpcode
	}
	off += 4
	for i := 0; i < MaxOperands; i++ {
		v, n := decodeOperand(buf[off:])
		ins.Operands[i] = v
		off += n
	}
	ins.UserFunc = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	return ins, off, nil
}

func decodeOperand(buf []byte) (view.View, int) {
	var v view.View
	kind := buf[0]
	off := 1
	if kind == kindConstant {
		v.Constant = true
		v.ElemType = bhtype.Type(int8(buf[off]))
		off++
		copy(v.Const[:], buf[off:off+16])
		return v, OperandWireSize
	}
	v.BaseID = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	v.Start = int64(binary.LittleEndian.Uint64(buf[off:]))
	off += 8
	v.Rank = int8(buf[off])
	off++
	for i := 0; i < view.MaxRank; i++ {
		v.Shape[i] = int64(binary.LittleEndian.Uint64(buf[off:]))
		off += 8
	}
	for i := 0; i < view.MaxRank; i++ {
		v.Stride[i] = int64(binary.LittleEndian.Uint64(buf[off:]))
		off += 8
	}
	return v, OperandWireSize
}

// irWireVersion is the single version tag this build emits and accepts.
const irWireVersion = 1

// EncodeIR serializes instrs as a 1-byte version tag followed by a
// length-prefixed instruction array. Re-encoding the result of
// DecodeIR(buf) yields a buffer byte-identical to buf.
func EncodeIR(instrs []Instruction) []byte {
	sz := 1 + 4 + len(instrs)*WireSize
	buf := dirtmake.Bytes(sz, sz)
	buf[0] = irWireVersion
	binary.LittleEndian.PutUint32(buf[1:], uint32(len(instrs)))
	off := 5
	for _, ins := range instrs {
		off += Encode(buf[off:], ins)
	}
	return buf
}

// DecodeIR parses a buffer produced by EncodeIR.
func DecodeIR(buf []byte) ([]Instruction, error) {
	if len(buf) < 5 {
		return nil, ErrTruncated
	}
	if buf[0] != irWireVersion {
		return nil, ErrUnsupportedVersion
	}
	count := binary.LittleEndian.Uint32(buf[1:])
	off := 5
	out := make([]Instruction, 0, count)
	for i := uint32(0); i < count; i++ {
		ins, n, err := Decode(buf[off:])
		if err != nil {
			return nil, err
		}
		off += n
		out = append(out, ins)
	}
	return out, nil
}
