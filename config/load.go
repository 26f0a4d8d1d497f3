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

package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags registers the bridge's process-wide options on flags, in the
// style of gcsfuse's cfg.BindFlags: every flag name matches an Options
// mapstructure tag so viper.Unmarshal needs no manual field mapping.
func BindFlags(flags *pflag.FlagSet) error {
	flags.String("fuser", string(FuserGreedy), "fuser strategy: serial, breadth_first, reshapable_first or greedy")
	flags.Int64("min-threading", 0, "minimum largest-output element count a merged kernel must reach (0 disables the check)")
	flags.Int("queue-max", 1<<15, "maximum number of instructions buffered before a guard flush")
	flags.Bool("cache-enabled", true, "enable the structural fuse-decision cache")

	for _, name := range []string{"fuser", "min-threading", "queue-max", "cache-enabled"} {
		if err := viper.BindPFlag(mapstructureKey(name), flags.Lookup(name)); err != nil {
			return fmt.Errorf("config: bind flag %q: %w", name, err)
		}
	}
	return nil
}

// mapstructureKey maps a kebab-case flag name to the snake_case
// mapstructure tag Options declares it under.
func mapstructureKey(flag string) string {
	switch flag {
	case "min-threading":
		return "min_threading"
	case "queue-max":
		return "queue_max"
	case "cache-enabled":
		return "cache_enabled"
	default:
		return flag
	}
}

// Load reads a config file (if cfgFile is non-empty) and flag/env
// overrides already bound via BindFlags, and unmarshals the result into
// an Options value seeded with Default().
func Load(cfgFile string) (Options, error) {
	opts := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	if err := viper.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if opts.Component == nil {
		opts.Component = map[string]interface{}{}
	}
	return opts, nil
}
