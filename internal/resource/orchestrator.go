// Package resource keeps one context's canonical resource state. A main-role
// orchestrator derives filters from the URL and drives fetches; a pop-out
// orchestrator only ingests replicated snapshots. Both expose the same
// reactive surface, which is what lets display components stay role-agnostic.
package resource

import (
	"context"
	"sync"

	"github.com/atomicstack/gridscope/internal/logging/events"
	"github.com/atomicstack/gridscope/internal/nav"
	"github.com/atomicstack/gridscope/internal/route"
)

// Codec maps between navigable params and the typed filter value.
type Codec[F any] interface {
	FromParams(nav.Params) F
	ExtractHighlights(nav.Params) Highlights
}

// Fetcher resolves a filter/highlight pair into data. Implementations may
// block; the orchestrator never aborts them, it only discards stale results.
type Fetcher[F, D, S any] interface {
	Fetch(ctx context.Context, filters F, highlights Highlights) (Result[D, S], error)
}

// KeyFunc derives the generation key for a fetch. It must be deterministic
// and order-independent across equal inputs.
type KeyFunc[F any] func(filters F, highlights Highlights) string

// Orchestrator is the per-context resource state machine. The role is fixed
// at construction: a pop-out orchestrator is built without a bridge or
// fetcher, making it structurally incapable of navigating or fetching.
type Orchestrator[F, D, S any] struct {
	role    route.Role
	codec   Codec[F]
	fetcher Fetcher[F, D, S]
	keyFn   KeyFunc[F]

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	phase   Phase
	snap    Snapshot[F, D, S]
	genKey  string
	updates chan Snapshot[F, D, S]
	wg      sync.WaitGroup
}

// NewMain builds a main-role orchestrator subscribed to the bridge's watch
// stream. It owns a goroutine that lives until Close.
func NewMain[F, D, S any](bridge *nav.Bridge, codec Codec[F], fetcher Fetcher[F, D, S], keyFn KeyFunc[F]) *Orchestrator[F, D, S] {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator[F, D, S]{
		role:    route.RoleMain,
		codec:   codec,
		fetcher: fetcher,
		keyFn:   keyFn,
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan Snapshot[F, D, S], 16),
	}
	o.snap.Highlights = Highlights{}
	watch := bridge.Watch()
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case params, ok := <-watch:
				if !ok {
					return
				}
				o.apply(params)
			}
		}
	}()
	return o
}

// NewPopout builds a pop-out-role orchestrator. It has no bridge and no
// fetcher; IngestSnapshot is its only mutator.
func NewPopout[F, D, S any]() *Orchestrator[F, D, S] {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator[F, D, S]{
		role:    route.RolePopout,
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan Snapshot[F, D, S], 16),
	}
	o.snap.Highlights = Highlights{}
	return o
}

// Role returns the fixed role.
func (o *Orchestrator[F, D, S]) Role() route.Role { return o.role }

// Updates streams every committed snapshot. Intermediate values may be
// skipped under backpressure; each emission is complete, so the latest one
// is always sufficient.
func (o *Orchestrator[F, D, S]) Updates() <-chan Snapshot[F, D, S] {
	return o.updates
}

// Snapshot returns the current state.
func (o *Orchestrator[F, D, S]) Snapshot() Snapshot[F, D, S] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// Phase reports the state machine position.
func (o *Orchestrator[F, D, S]) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// IngestSnapshot atomically replaces the local state with an externally
// supplied snapshot and re-emits it. Only whole, already-resolved snapshots
// are ever transmitted, so every ingest is an immediate Ready transition.
// Main-role orchestrators ignore the call.
func (o *Orchestrator[F, D, S]) IngestSnapshot(snap Snapshot[F, D, S]) {
	if o.role != route.RolePopout {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snap = snap
	o.phase = PhaseReady
	o.emitLocked()
}

// Close stops the watch goroutine and releases the update stream.
func (o *Orchestrator[F, D, S]) Close() {
	o.cancel()
	o.wg.Wait()
}

func (o *Orchestrator[F, D, S]) apply(params nav.Params) {
	filters := o.codec.FromParams(params)
	highlights := o.codec.ExtractHighlights(params)
	key := o.keyFn(filters, highlights)

	o.mu.Lock()
	o.snap.Filters = filters
	o.snap.Highlights = highlights
	if key == o.genKey {
		// Content outside the generation key changed (e.g. the selection
		// set). The snapshot still replicates, but no fetch is owed.
		o.emitLocked()
		o.mu.Unlock()
		return
	}
	o.genKey = key
	o.snap.Loading = true
	o.snap.Err = ""
	o.phase = PhaseLoading
	o.emitLocked()
	o.mu.Unlock()

	events.Fetch.Start(key)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		res, err := o.fetcher.Fetch(o.ctx, filters, highlights)
		o.commit(key, res, err)
	}()
}

// commit applies a fetch outcome if and only if its generation key still
// matches the current one. There is no hard cancellation of in-flight
// fetches; this commit-time guard alone enforces the at-most-one-committed-
// result policy under overlapping requests.
func (o *Orchestrator[F, D, S]) commit(key string, res Result[D, S], err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if key != o.genKey {
		events.Fetch.Discard(key, o.genKey)
		return
	}
	if err != nil {
		// Keep prior results: flashing to empty on a transient error is
		// worse than showing stale rows.
		o.snap.Loading = false
		o.snap.Err = err.Error()
		o.phase = PhaseError
		events.Fetch.Failed(key, err)
		o.emitLocked()
		return
	}
	o.snap.Results = res.Rows
	o.snap.TotalResults = res.Total
	o.snap.Stats = res.Stats
	o.snap.Loading = false
	o.snap.Err = ""
	o.phase = PhaseReady
	events.Fetch.Commit(key, len(res.Rows), res.Total)
	o.emitLocked()
}

func (o *Orchestrator[F, D, S]) emitLocked() {
	snap := o.snap
	select {
	case o.updates <- snap:
	default:
		select {
		case <-o.updates:
		default:
		}
		select {
		case o.updates <- snap:
		default:
		}
	}
}
