package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

var errNilCtor = errors.New("codec: protobuf constructor is nil")

// Protobuf encodes generated messages. It is the payload codec for the
// indexed envelope layout, where the index path names the message type.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *userpb.User { return &userpb.User{} }
	opt proto.MarshalOptions
}

// NewProtobuf returns a codec that allocates decode targets with ctor.
// With deterministic set, map fields are marshaled in sorted key order.
func NewProtobuf[T proto.Message](ctor func() T, deterministic bool) Protobuf[T] {
	return Protobuf[T]{new: ctor, opt: proto.MarshalOptions{Deterministic: deterministic}}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return c.opt.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	if c.new == nil {
		var zero T
		return zero, errNilCtor
	}
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
