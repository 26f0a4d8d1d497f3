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

import "errors"

var (
	// ErrShapeMismatch is a contract error at enqueue time: the operand
	// shapes of an instruction are not compatible with its opcode. The
	// offending instruction is rejected and queue state is left
	// unchanged.
	ErrShapeMismatch = errors.New("instr: operand shape mismatch")

	// ErrUnknownOpcode is a fatal decode error: the wire buffer names an
	// opcode this build does not recognize.
	ErrUnknownOpcode = errors.New("instr: unknown opcode in wire buffer")

	// ErrTruncated is returned when a wire buffer ends before a full
	// instruction (or the declared count of instructions) was read.
	ErrTruncated = errors.New("instr: truncated wire buffer")

	// ErrUnsupportedVersion is returned by DecodeIR when the leading
	// version tag is not one this build knows how to decode.
	ErrUnsupportedVersion = errors.New("instr: unsupported IR wire version")
)
