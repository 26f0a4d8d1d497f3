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

// Package blog holds the bridge's process-wide zap logger. In this module
// only bhpool logs through it (recovered worker panics); Runtime logs
// flush failures and dispatched flushes through its own logger. It is
// never on the per-instruction path.
package blog

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var global atomic.Value // *zap.SugaredLogger

func init() {
	global.Store(zap.NewNop().Sugar())
}

// L returns the process-wide default logger, a no-op until SetGlobal is
// called: a sane default that callers can override without a nil check.
func L() *zap.SugaredLogger {
	return global.Load().(*zap.SugaredLogger)
}

// SetGlobal replaces the process-wide default logger.
func SetGlobal(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(l.Sugar())
}
