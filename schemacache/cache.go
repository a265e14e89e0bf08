// Package schemacache memoizes subject -> schema reference lookups in a byte
// Provider, so serializers do not hit the registry for every message.
//
// Entries are stored under "schema:<ns>:<subject>" in a compact binary form:
//
//	ver(1) | schema id (int32 be) | count (uvarint) | index (zigzag varint) * count
//
// Unreadable entries are deleted on read and refetched. Concurrent misses for
// the same subject share a single upstream lookup.
package schemacache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/schemawire"
	"github.com/unkn0wn-root/schemawire/internal/util"
	pr "github.com/unkn0wn-root/schemawire/provider"
)

const defaultTTL = 10 * time.Minute

type Options struct {
	// Required
	Provider pr.Provider
	Next     schemawire.Resolver // upstream lookup, usually a registry client

	Namespace string            // "" => "default"
	TTL       time.Duration     // 0 => 10m
	Logger    schemawire.Logger // nil => NopLogger
	Hooks     schemawire.Hooks  // nil => NopHooks
}

// Cache is a schemawire.Resolver. Safe for concurrent use.
type Cache struct {
	ns       string
	provider pr.Provider
	next     schemawire.Resolver
	ttl      time.Duration
	log      schemawire.Logger
	hooks    schemawire.Hooks
	group    singleflight.Group
}

var _ schemawire.Resolver = (*Cache)(nil)

func New(opts Options) (*Cache, error) {
	if opts.Provider == nil {
		return nil, errors.New("schemacache: provider is required")
	}
	if opts.Next == nil {
		return nil, errors.New("schemacache: next resolver is required")
	}
	c := &Cache{
		ns:       util.Coalesce(opts.Namespace, "default"),
		provider: opts.Provider,
		next:     opts.Next,
		ttl:      util.Coalesce(opts.TTL, defaultTTL),
		log:      util.Coalesce[schemawire.Logger](opts.Logger, schemawire.NopLogger{}),
		hooks:    util.Coalesce[schemawire.Hooks](opts.Hooks, schemawire.NopHooks{}),
	}
	return c, nil
}

func (c *Cache) Resolve(ctx context.Context, subject string) (schemawire.SchemaRef, error) {
	k := c.key(subject)
	raw, ok, err := c.provider.Get(ctx, k)
	switch {
	case err != nil:
		c.log.Warn("schema cache get failed", schemawire.Fields{"key": k, "err": err})
	case ok:
		ref, err := decodeEntry(raw)
		if err == nil {
			return ref, nil
		}
		reason := "corrupt"
		if errors.Is(err, errVersion) {
			reason = "version"
		}
		c.hooks.CacheSelfHeal(k, reason)
		c.log.Debug("dropping unreadable schema entry", schemawire.Fields{"key": k, "reason": reason})
		_ = c.provider.Del(ctx, k)
	}

	// The flight is shared, so it must outlive whichever caller started it.
	// Each caller still stops waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		ref, err := c.next.Resolve(shared, subject)
		if err != nil {
			return nil, err
		}
		c.store(shared, k, ref)
		return ref, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return schemawire.SchemaRef{}, fmt.Errorf("schemacache: resolve %q: %w", subject, ctx.Err())
	}
	if res.Err != nil {
		return schemawire.SchemaRef{}, fmt.Errorf("schemacache: resolve %q: %w", subject, res.Err)
	}
	ref := res.Val.(schemawire.SchemaRef)
	// callers sharing a flight must not share the slice
	ref.Indexes = append([]int32(nil), ref.Indexes...)
	return ref, nil
}

// Invalidate drops the cached reference for subject; the next Resolve goes upstream.
func (c *Cache) Invalidate(ctx context.Context, subject string) error {
	k := c.key(subject)
	if err := c.provider.Del(ctx, k); err != nil {
		return fmt.Errorf("schemacache: invalidate %q: %w", subject, err)
	}
	return nil
}

// Close closes the provider.
func (c *Cache) Close(ctx context.Context) error {
	return c.provider.Close(ctx)
}

func (c *Cache) store(ctx context.Context, k string, ref schemawire.SchemaRef) {
	b := encodeEntry(ref)
	ok, err := c.provider.Set(ctx, k, b, int64(len(b)), c.ttl)
	if err != nil {
		c.log.Warn("schema cache set failed", schemawire.Fields{"key": k, "err": err})
		return
	}
	if !ok {
		c.hooks.CacheSetRejected(k)
		c.log.Debug("schema cache set rejected by provider (pressure)", schemawire.Fields{"key": k})
	}
}

func (c *Cache) key(subject string) string {
	return util.SubjectKey("schema:"+c.ns, subject)
}
