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

// Package bhmetrics exports the counters and histograms a Runtime updates
// across flushes: fuse cache hit/miss, fuser invocations by strategy, and
// backend dispatch latency.
package bhmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bhcore",
		Subsystem: "fusecache",
		Name:      "hits_total",
		Help:      "Number of flushes whose instruction sequence hit the fuse cache.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bhcore",
		Subsystem: "fusecache",
		Name:      "misses_total",
		Help:      "Number of flushes whose instruction sequence missed the fuse cache.",
	})
	FuserInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bhcore",
		Subsystem: "fuser",
		Name:      "invocations_total",
		Help:      "Number of times a fuser strategy partitioned a singleton block list.",
	}, []string{"strategy"})
	DispatchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bhcore",
		Subsystem: "backend",
		Name:      "dispatch_seconds",
		Help:      "Wall-clock time spent in Backend.Execute per flush.",
		Buckets:   prometheus.DefBuckets,
	})
)

// MustRegister registers every bhmetrics collector against reg. Runtime
// does not call it; registering twice against the same registry panics,
// matching prometheus's own contract.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(CacheHits, CacheMisses, FuserInvocations, DispatchLatency)
}
