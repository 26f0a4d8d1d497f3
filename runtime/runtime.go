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

// Package runtime is the bridge facade: it owns one Registry, one Queue,
// one fuse Cache and one backend.Dispatcher, and ties them together into
// the record-batch-fuse-dispatch pipeline.
package runtime

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bohrium-go/bhcore/backend"
	"github.com/bohrium-go/bhcore/bhtype"
	"github.com/bohrium-go/bhcore/config"
	"github.com/bohrium-go/bhcore/fusecache"
	"github.com/bohrium-go/bhcore/fuser"
	"github.com/bohrium-go/bhcore/instr"
	"github.com/bohrium-go/bhcore/internal/bhmetrics"
	"github.com/bohrium-go/bhcore/internal/blog"
	"github.com/bohrium-go/bhcore/ir"
	"github.com/bohrium-go/bhcore/kernel"
	"github.com/bohrium-go/bhcore/opcode"
	"github.com/bohrium-go/bhcore/queue"
	"github.com/bohrium-go/bhcore/registry"
)

// Runtime is the bridge: record instructions via NewBase/Enqueue/Discard/
// Free, then Flush (explicitly or via the queue's own guard-flush) to
// fuse and dispatch them to a backend.Backend.
type Runtime struct {
	id       string
	opts     config.Options
	registry *registry.Registry
	queue    *queue.Queue
	cache    *fusecache.Cache
	fuser    fuser.Fuser
	dispatch *backend.Dispatcher
	back     backend.Backend
	log      *zap.Logger
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithLogger overrides the Runtime's zap logger, which otherwise
// defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

func fuserFor(kind config.FuserKind, sharesTiles bool) fuser.Fuser {
	switch kind {
	case config.FuserSerial:
		return fuser.Serial{}
	case config.FuserBreadthFirst:
		return fuser.BreadthFirst{}
	case config.FuserReshapableFirst:
		return fuser.ReshapableFirst{}
	case config.FuserGreedy, "":
		return fuser.Greedy{SharesLoadedTiles: sharesTiles}
	default:
		return fuser.Greedy{SharesLoadedTiles: sharesTiles}
	}
}

// New builds a Runtime wired to back. The backend is initialized with
// opts.Component before New returns.
func New(back backend.Backend, opts config.Options, options ...Option) (*Runtime, error) {
	r := &Runtime{
		id:       uuid.NewString(),
		opts:     opts,
		registry: registry.New(),
		cache:    fusecache.New(),
		back:     back,
		log:      zap.NewNop(),
	}
	if opts.Fuser == "" {
		r.opts.Fuser = config.FuserGreedy
	}
	r.fuser = fuserFor(r.opts.Fuser, back.SharesLoadedTiles())
	for _, o := range options {
		o(r)
	}
	blog.SetGlobal(r.log)
	bhmetrics.FuserInvocations.WithLabelValues(string(r.opts.Fuser)).Add(0)
	r.dispatch = backend.NewDispatcher(back)
	r.queue = queue.New(opts.QueueMax, r.runFlush)
	if err := back.Init(opts.Component); err != nil {
		return nil, err
	}
	return r, nil
}

// Default builds a Runtime with config.Default() options.
func Default(back backend.Backend) (*Runtime, error) {
	return New(back, config.Default())
}

// ID returns this Runtime's instance id, generated once at construction
// and used only in log fields, never in the IR or any wire format (base
// identity stays the registry's monotonic BaseID).
func (r *Runtime) ID() string { return r.id }

// NewBase allocates a fresh array base of typ holding nelem elements.
func (r *Runtime) NewBase(typ bhtype.Type, nelem int64) (uint64, error) {
	return r.registry.NewBase(typ, nelem)
}

// Lookup returns the Base for id.
func (r *Runtime) Lookup(id uint64) (*registry.Base, error) {
	return r.registry.Lookup(id)
}

// Enqueue appends ins to the pending batch, performing an implicit
// guard-flush first if the queue is already at capacity (queue.Queue's
// own behavior). ins is validated before it touches the queue: an
// unrecognized opcode or an operand shape mismatch is rejected and the
// queue is left unchanged.
func (r *Runtime) Enqueue(ins instr.Instruction) error {
	if err := instr.Validate(ins); err != nil {
		return err
	}
	return r.queue.Enqueue(ins)
}

// Discard builds and enqueues a Discard instruction for id.
func (r *Runtime) Discard(id uint64) error {
	v, err := r.registry.Discard(id)
	if err != nil {
		return err
	}
	return r.Enqueue(instr.New(opcode.Discard, v))
}

// Free builds and enqueues a Free instruction for id.
func (r *Runtime) Free(id uint64) error {
	v, err := r.registry.Free(id)
	if err != nil {
		return err
	}
	return r.Enqueue(instr.New(opcode.Free, v))
}

// Flush drains the queue explicitly. It is a no-op (testable property:
// flush idempotence) if the queue is empty.
func (r *Runtime) Flush() error {
	_, err := r.queue.Flush()
	return err
}

// QueueLen reports how many instructions are currently buffered,
// unflushed.
func (r *Runtime) QueueLen() int { return r.queue.Len() }

// Shutdown flushes any remaining instructions, then shuts the backend
// down.
func (r *Runtime) Shutdown() error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.back.Shutdown()
}

// runFlush is queue.FlushFunc: it is invoked by Queue with one batch's
// snapshot, either from an explicit Flush() or a guard-flush on
// overflow.
func (r *Runtime) runFlush(batch []instr.Instruction) error {
	built := ir.Build(batch)

	var kernels []*kernel.Kernel
	if r.opts.CacheEnabled {
		if entry, ok := r.cache.Get(built.Instructions); ok {
			if rebuilt := fusecache.Rebuild(built.Instructions, entry); rebuilt != nil {
				bhmetrics.CacheHits.Inc()
				kernels = rebuilt
			}
		}
	}
	if kernels == nil {
		bhmetrics.CacheMisses.Inc()
		singletons := fuser.Singleton(built.Instructions)
		bhmetrics.FuserInvocations.WithLabelValues(string(r.opts.Fuser)).Inc()
		kernels = r.fuser.Fuse(singletons, r.opts.MinThreading, r.back.CheckFusible)
		if r.opts.CacheEnabled {
			r.cache.Insert(built.Instructions, kernels)
		}
	}
	built.Kernels = kernels

	if err := r.dispatch.Dispatch(built.Kernels); err != nil {
		r.log.Error("flush failed",
			zap.String("runtime_id", r.id),
			zap.Int("instructions", len(batch)),
			zap.Error(err))
		return err
	}
	r.log.Debug("flush dispatched",
		zap.String("runtime_id", r.id),
		zap.Int("instructions", len(batch)),
		zap.Int("kernels", len(built.Kernels)))
	r.retire(batch)
	return nil
}

// retire walks batch for Discard/Free instructions and applies their
// post-execution effect on the registry, now that dispatch has
// succeeded.
func (r *Runtime) retire(batch []instr.Instruction) {
	for _, ins := range batch {
		switch ins.Opcode {
		case opcode.Discard:
			r.registry.Retire(ins.DiscardedBase())
		case opcode.Free:
			r.registry.ReleaseData(ins.DiscardedBase())
		}
	}
}
