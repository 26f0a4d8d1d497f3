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
	"github.com/bohrium-go/bhcore/backend"
	"github.com/bohrium-go/bhcore/kernel"
	"github.com/bohrium-go/bhcore/opcode"
)

// ReshapableFirst runs two passes: first it merges adjacent blocks that
// are both still reshapable (collapsing them tends to unlock further
// alignment that a plain breadth-first pass would miss), then it falls
// back to BreadthFirst's independent-then-serial passes over whatever is
// left.
type ReshapableFirst struct{}

func (ReshapableFirst) Fuse(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc) []*kernel.Kernel {
	reshapablePass := mergeAdjacentWhere(blocks, minThreading, fusible, func(a, b *kernel.Kernel) bool {
		return kernelReshapable(a) && kernelReshapable(b)
	})
	return BreadthFirst{}.Fuse(reshapablePass, minThreading, fusible)
}

// kernelReshapable reports whether any non-constant operand touched by k
// still has degenerate or stride-contiguous axes a reshape would collapse.
func kernelReshapable(k *kernel.Kernel) bool {
	for _, ins := range k.Instructions {
		n := opcode.Operands(ins.Opcode)
		for i := 0; i < n; i++ {
			v := ins.Operands[i]
			if !v.Constant && v.Reshapable() {
				return true
			}
		}
	}
	return false
}
