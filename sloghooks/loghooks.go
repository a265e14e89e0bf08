// Package sloghooks reports schemawire.Hooks events through log/slog, with
// sampling for the noisy ones and redaction of cache keys.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/schemawire"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	RejectEvery   uint64 // EnvelopeRejected
	SelfHealEvery uint64 // CacheSelfHeal
	// Optional key redactor. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	rejectCtr   atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ schemawire.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EnvelopeRejected(subject, reason string) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Warn("schemawire.envelope_rejected",
		"subject", subject,
		"reason", reason)
}

func (h *Hooks) SchemaRejected(subject string, schemaID int32, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("schemawire.schema_rejected",
		"subject", subject,
		"schema_id", schemaID,
		"err", err)
}

func (h *Hooks) ResolveError(subject string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("schemawire.resolve_error",
		"subject", subject,
		"err", err)
}

func (h *Hooks) PayloadTooLarge(subject string, size, limit int) {
	if h.l == nil {
		return
	}
	h.l.Warn("schemawire.payload_too_large",
		"subject", subject,
		"size", size,
		"limit", limit)
}

func (h *Hooks) CacheSelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("schemawire.cache_self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) CacheSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Info("schemawire.cache_set_rejected",
		"key", h.redact(storageKey))
}
