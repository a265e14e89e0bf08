// Package asynchook moves schemawire.Hooks calls off the hot path.
//
// Events are queued to a bounded channel and delivered by worker goroutines.
// When the queue is full, events are dropped rather than blocking a
// Serialize/Deserialize call.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{RejectEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	sd, _ := schemawire.New[*orderpb.Order](schemawire.Options[*orderpb.Order]{
//	    Subject:  "orders-value",
//	    Resolver: cache,
//	    Codec:    codec.NewProtobuf(newOrder, false),
//	    Hooks:    hooks,
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/schemawire"
)

type Hooks struct {
	inner   schemawire.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against concurrent enqueue
	closed  bool
	dropped atomic.Uint64
}

var _ schemawire.Hooks = (*Hooks)(nil)

func New(inner schemawire.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events, drains the queue and waits for the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded on a full or closed queue.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) EnvelopeRejected(s, r string) { h.try(func() { h.inner.EnvelopeRejected(s, r) }) }
func (h *Hooks) ResolveError(s string, err error) {
	h.try(func() { h.inner.ResolveError(s, err) })
}
func (h *Hooks) SchemaRejected(s string, id int32, err error) {
	h.try(func() { h.inner.SchemaRejected(s, id, err) })
}
func (h *Hooks) PayloadTooLarge(s string, size, limit int) {
	h.try(func() { h.inner.PayloadTooLarge(s, size, limit) })
}
func (h *Hooks) CacheSelfHeal(k, r string) { h.try(func() { h.inner.CacheSelfHeal(k, r) }) }
func (h *Hooks) CacheSetRejected(k string) { h.try(func() { h.inner.CacheSetRejected(k) }) }
