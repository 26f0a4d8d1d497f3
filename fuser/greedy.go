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

// Greedy repeatedly merges the adjacent pair with the highest
// DependencyCost (price drop), stopping when no adjacent pair offers a
// non-negative drop. SharesLoadedTiles mirrors the backend capability
// flag plumbed into kernel.Kernel.DependencyCost; leave it false for a
// backend that cannot keep a fused tile resident across kernels.
type Greedy struct {
	SharesLoadedTiles bool
}

func (g Greedy) Fuse(blocks []*kernel.Kernel, minThreading int64, fusible backend.FusibleFunc) []*kernel.Kernel {
	cur := append([]*kernel.Kernel(nil), blocks...)
	for {
		bestIdx := -1
		var bestCost int64 = -1
		for i := 0; i+1 < len(cur); i++ {
			// DependencyCost(self, other) prices self's inputs against
			// other's outputs, so self is the later (right) block and
			// other the earlier (left) one it would consume from.
			c := cur[i+1].DependencyCost(cur[i], fusible, g.SharesLoadedTiles)
			if c >= 0 && c > bestCost && meetsThreading(cur[i], cur[i+1], minThreading) {
				bestCost = c
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		merged := kernel.Merge(cur[bestIdx], cur[bestIdx+1])
		next := make([]*kernel.Kernel, 0, len(cur)-1)
		next = append(next, cur[:bestIdx]...)
		next = append(next, merged)
		next = append(next, cur[bestIdx+2:]...)
		cur = next
	}
	return cur
}
