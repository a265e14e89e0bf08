package schemawire

import (
	"context"

	c "github.com/unkn0wn-root/schemawire/codec"
	"github.com/unkn0wn-root/schemawire/envelope"
)

// SchemaRef identifies the writer schema of a message: the registry id and,
// for Protobuf, the index path of the message type inside the schema file.
type SchemaRef struct {
	ID      int32
	Indexes []int32
}

// Resolver maps a subject to the schema reference used when serializing.
// Registry clients and schemacache.Cache implement it.
type Resolver interface {
	Resolve(ctx context.Context, subject string) (SchemaRef, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, subject string) (SchemaRef, error)

func (f ResolverFunc) Resolve(ctx context.Context, subject string) (SchemaRef, error) {
	return f(ctx, subject)
}

// Static returns a Resolver that always answers ref.
func Static(ref SchemaRef) Resolver {
	return ResolverFunc(func(context.Context, string) (SchemaRef, error) { return ref, nil })
}

// Serde frames values of type V for a single subject.
type Serde[V any] interface {
	Subject() string
	Layout() envelope.Layout

	// Serialize resolves the subject, encodes v and returns a freshly
	// allocated envelope.
	Serialize(ctx context.Context, v V) ([]byte, error)

	// Deserialize parses the envelope in b and decodes its payload.
	// The returned SchemaRef is the writer schema found in the header.
	//
	// The payload handed to the codec aliases b. With codec.Bytes the
	// returned value is a sub-slice of b; copy it if b will be reused.
	Deserialize(ctx context.Context, b []byte) (V, SchemaRef, error)
}

// Options configure a Serde.
// Subject, Resolver and Codec are required; the rest have defaults.
type Options[V any] struct {
	Subject  string // e.g. "orders-value"
	Resolver Resolver
	Codec    c.Codec[V]

	Layout     envelope.Layout       // zero => envelope.Indexed (Protobuf)
	Logger     Logger                // nil => NopLogger
	Hooks      Hooks                 // nil => NopHooks
	MaxPayload int                   // bytes; 0 => unlimited
	Accept     func(SchemaRef) error // nil => accept any writer schema
}

func New[V any](opts Options[V]) (Serde[V], error) {
	return newSerde[V](opts)
}
