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

// Command bhbridged wires config loading to a Runtime and runs a
// startup self-check through it. The code-generating backend itself is
// an external collaborator; this binary exercises the
// record-batch-fuse-dispatch pipeline end to end against a logging
// stand-in so the module is runnable on its own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/config"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/internal/blog"
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/runtime"
	"github.com/bohrium-go/bhcore/view"
)

var (
	cfgFile string
	bindErr error
)

var rootCmd = &cobra.Command{
	Use:   "bhbridged",
	Short: "Run the bhcore bridge pipeline against a logging backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		opts, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("bhbridged: build logger: %w", err)
		}
		defer logger.Sync()
		blog.SetGlobal(logger)

		rt, err := runtime.New(&nullBackend{log: logger}, opts, runtime.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("bhbridged: build runtime: %w", err)
		}
		if err := selfCheck(rt); err != nil {
			return fmt.Errorf("bhbridged: self-check: %w", err)
		}
		return rt.Shutdown()
	},
}

// selfCheck enqueues a single Add over two fresh bases and flushes it, proving
// the registry/queue/fuser/dispatcher wiring works before the process
// hands control to a real backend.
func selfCheck(rt *runtime.Runtime) error {
	a, err := rt.NewBase(bhtype.F32, 16)
	if err != nil {
		return err
	}
	b, err := rt.NewBase(bhtype.F32, 16)
	if err != nil {
		return err
	}
	va := view.Contiguous(a, bhtype.F32, []int64{16})
	vb := view.Contiguous(b, bhtype.F32, []int64{16})
	if err := rt.Enqueue(instr.New(opcode.Add, vb, va, va)); err != nil {
		return err
	}
	return rt.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { viper.AutomaticEnv() })
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "path to a YAML config file")
	bindErr = config.BindFlags(rootCmd.PersistentFlags())
}
