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
)

// Serial merges each block into the running kernel whenever legal, in a
// single left-to-right pass; it never looks ahead past the immediate
// neighbor. It is the cheapest strategy and the baseline every other
// strategy is compared against.
type Serial struct{}

func (Serial) Fuse(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc) []*kernel.Kernel {
	return serialPass(blocks, minThreading, fusible)
}

// serialPass is the shared one-pass left-to-right merge used directly by
// Serial and as the fallback tail of BreadthFirst/ReshapableFirst.
func serialPass(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc) []*kernel.Kernel {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]*kernel.Kernel, 0, len(blocks))
	cur := blocks[0]
	for _, next := range blocks[1:] {
		if legal(cur, next, fusible, minThreading) {
			cur = kernel.Merge(cur, next)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}
