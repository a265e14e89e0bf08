// Package schemawire frames payloads in the schema-registry wire envelope
// with pluggable payload codecs.
//
// Layers:
//   - wire: byte-level primitives (big-endian int32, 32-bit varints, zigzag).
//   - envelope: magic byte, schema id and Protobuf message-index path.
//   - codec: Codec[V] (Protobuf, JSON, Msgpack, CBOR, raw) for the payload.
//   - Serde[V] (this package): resolve subject -> frame -> payload and back.
//   - schemacache: caching Resolver over a Provider (Redis, BigCache, Ristretto).
//
// Wire layout:
//
//	0x00 | schema id (int32 be) | [index path] | payload
//
// Usage:
//
//	sd, _ := schemawire.New[*orderpb.Order](schemawire.Options[*orderpb.Order]{
//	    Subject:  "orders-value",
//	    Resolver: registryResolver,
//	    Codec:    codec.NewProtobuf(func() *orderpb.Order { return &orderpb.Order{} }, false),
//	})
//	b, err := sd.Serialize(ctx, order)
//	msg, ref, err := sd.Deserialize(ctx, b)
package schemawire
