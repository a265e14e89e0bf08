package schemawire

import (
	"context"
	"errors"
	"fmt"

	c "github.com/unkn0wn-root/schemawire/codec"
	"github.com/unkn0wn-root/schemawire/envelope"
	"github.com/unkn0wn-root/schemawire/internal/util"
	"github.com/unkn0wn-root/schemawire/wire"
)

type serde[V any] struct {
	subject    string
	resolver   Resolver
	codec      c.Codec[V]
	layout     envelope.Layout
	log        Logger
	hooks      Hooks
	maxPayload int
	accept     func(SchemaRef) error
}

var _ Serde[struct{}] = (*serde[struct{}])(nil)

func newSerde[V any](opts Options[V]) (*serde[V], error) {
	if opts.Subject == "" {
		return nil, ErrMissingSubject
	}
	if opts.Resolver == nil {
		return nil, ErrMissingResolver
	}
	if opts.Codec == nil {
		return nil, ErrMissingCodec
	}
	if opts.Layout != envelope.Indexed && opts.Layout != envelope.Plain {
		return nil, fmt.Errorf("schemawire: unknown layout %s", opts.Layout)
	}

	s := &serde[V]{
		subject:    opts.Subject,
		resolver:   opts.Resolver,
		codec:      opts.Codec,
		layout:     opts.Layout,
		maxPayload: opts.MaxPayload,
		accept:     opts.Accept,
	}
	s.log = util.Coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = util.Coalesce[Hooks](opts.Hooks, NopHooks{})
	return s, nil
}

func (s *serde[V]) Subject() string         { return s.subject }
func (s *serde[V]) Layout() envelope.Layout { return s.layout }

func (s *serde[V]) Serialize(ctx context.Context, v V) ([]byte, error) {
	ref, err := s.resolver.Resolve(ctx, s.subject)
	if err != nil {
		s.hooks.ResolveError(s.subject, err)
		s.log.Error("schema resolve failed", Fields{"subject": s.subject, "err": err})
		return nil, s.fail("resolve", err)
	}
	payload, err := s.codec.Encode(v)
	if err != nil {
		return nil, s.fail("encode", err)
	}
	if err := s.checkSize(len(payload)); err != nil {
		return nil, s.fail("encode", err)
	}

	h := envelope.Header{SchemaID: ref.ID, Indexes: ref.Indexes}
	out := make([]byte, s.layout.Size(h)+len(payload))
	n, err := s.layout.Put(out, h)
	if err != nil {
		return nil, s.fail("frame", err)
	}
	if _, err := wire.WriteBytes(out[n:], payload); err != nil {
		return nil, s.fail("frame", err)
	}
	return out, nil
}

// Deserialize decodes straight from b without copying the payload, so
// codecs that return their input (codec.Bytes) hand back memory owned by the caller.
func (s *serde[V]) Deserialize(ctx context.Context, b []byte) (V, SchemaRef, error) {
	var zero V
	h, payload, err := s.layout.Split(b)
	if err != nil {
		reason := rejectReason(err)
		s.hooks.EnvelopeRejected(s.subject, reason)
		s.log.Warn("envelope rejected", Fields{"subject": s.subject, "reason": reason, "len": len(b)})
		return zero, SchemaRef{}, s.fail("parse", err)
	}
	ref := SchemaRef{ID: h.SchemaID, Indexes: h.Indexes}

	if s.accept != nil {
		if err := s.accept(ref); err != nil {
			s.hooks.SchemaRejected(s.subject, ref.ID, err)
			s.log.Warn("writer schema rejected", Fields{"subject": s.subject, "schema_id": ref.ID, "err": err})
			return zero, ref, s.fail("accept", fmt.Errorf("%w: %w", ErrSchemaRejected, err))
		}
	}
	if err := s.checkSize(len(payload)); err != nil {
		return zero, ref, s.fail("decode", err)
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return zero, ref, s.fail("decode", err)
	}
	return v, ref, nil
}

func (s *serde[V]) checkSize(n int) error {
	if s.maxPayload > 0 && n > s.maxPayload {
		s.hooks.PayloadTooLarge(s.subject, n, s.maxPayload)
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, s.maxPayload)
	}
	return nil
}

func (s *serde[V]) fail(op string, err error) error {
	return &EnvelopeError{Op: op, Subject: s.subject, Err: err}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, envelope.ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, wire.ErrVarintOverflow):
		return "varint_overflow"
	case errors.Is(err, wire.ErrOutOfBounds), errors.Is(err, wire.ErrUnexpectedEOF):
		return "truncated"
	default:
		return "malformed"
	}
}
