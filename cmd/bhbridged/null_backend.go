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

package main

import (
	"go.uber.org/zap"

	"github.com/bohrium-go/bhcore/backend"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/kernel"
)

// nullBackend logs every kernel list it is handed instead of executing
// it. The code-generating execution engine is an external collaborator;
// bhbridged wires the bridge pipeline end to end against this stand-in
// so the binary is runnable on its own.
type nullBackend struct {
	log *zap.Logger
}

func (b *nullBackend) Init(config map[string]interface{}) error {
	b.log.Info("backend initialized", zap.Any("component_config", config))
	return nil
}

func (b *nullBackend) Execute(kernels []*kernel.Kernel) error {
	for i, k := range kernels {
		b.log.Info("dispatched kernel",
			zap.Int("index", i),
			zap.Int("instructions", len(k.Instructions)),
			zap.Int("inputs", len(k.Inputs)),
			zap.Int("outputs", len(k.Outputs)))
	}
	return nil
}

func (b *nullBackend) RegisterExtension(id uint64, fn backend.ExtensionFunc) error {
	b.log.Info("extension registered", zap.Uint64("id", id))
	return nil
}

func (b *nullBackend) Shutdown() error {
	b.log.Info("backend shutdown")
	return nil
}

func (b *nullBackend) CheckFusible(a, c instr.Instruction) bool { return true }
func (b *nullBackend) Concurrent() bool                         { return false }
func (b *nullBackend) SharesLoadedTiles() bool                  { return false }
