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

// Package config carries the bridge's four process-wide options and the
// opaque, backend-specific component configuration, loaded from flag/env/
// file via viper. It lives outside the core packages (registry, queue,
// kernel, fuser, fusecache, backend): the CLI/env surface is not part of
// the core, only a convenience wiring for cmd/bhbridged.
package config

// FuserKind selects which fuser.Fuser implementation a Runtime uses.
type FuserKind string

const (
	FuserSerial          FuserKind = "serial"
	FuserBreadthFirst    FuserKind = "breadth_first"
	FuserReshapableFirst FuserKind = "reshapable_first"
	FuserGreedy          FuserKind = "greedy"
)

// Options are the bridge's process-wide, read-at-init configuration.
type Options struct {
	Fuser        FuserKind `mapstructure:"fuser"`
	MinThreading int64     `mapstructure:"min_threading"`
	QueueMax     int       `mapstructure:"queue_max"`
	CacheEnabled bool      `mapstructure:"cache_enabled"`

	// Component is the backend's own opaque configuration, passed through
	// to Backend.Init untouched.
	Component map[string]interface{} `mapstructure:"component"`
}

// Default returns the options a Runtime uses when none are supplied:
// greedy fusion, no minimum threading floor, a 32768-instruction queue
// and the fuse cache enabled.
func Default() Options {
	return Options{
		Fuser:        FuserGreedy,
		MinThreading: 0,
		QueueMax:     1 << 15,
		CacheEnabled: true,
		Component:    map[string]interface{}{},
	}
}
