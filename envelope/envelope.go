// Package envelope assembles and parses the schema-registry wire header.
//
// Indexed layout (Protobuf):
//
//	magic(0x00) | schema id (int32 be) | index path | payload
//
// Plain layout (Avro, JSON Schema):
//
//	magic(0x00) | schema id (int32 be) | payload
//
// The index path locates the message type inside its schema file. The common
// path [0] is written as a single zero byte. Any other path is a zigzag varint
// count followed by one zigzag varint per index.
package envelope

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/schemawire/wire"
)

// MagicByte opens every envelope.
const MagicByte byte = 0x00

var (
	ErrBadMagic  = errors.New("envelope: bad magic byte")
	ErrMalformed = errors.New("envelope: malformed index path")
)

// Layout selects which header fields are present.
type Layout uint8

const (
	Indexed Layout = iota // magic, schema id, index path
	Plain                 // magic, schema id
)

func (l Layout) String() string {
	switch l {
	case Indexed:
		return "indexed"
	case Plain:
		return "plain"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// Header is the decoded envelope prefix.
// A nil or empty Indexes is written as [0].
type Header struct {
	SchemaID int32
	Indexes  []int32
}

func firstMessage(idx []int32) bool {
	return len(idx) == 0 || (len(idx) == 1 && idx[0] == 0)
}

// Size returns the number of header bytes Put writes for h.
func (l Layout) Size(h Header) int {
	n := wire.SizeUint8 + wire.SizeInt32
	if l != Indexed {
		return n
	}
	if firstMessage(h.Indexes) {
		return n + 1
	}
	n += wire.VarintSize32(int32(len(h.Indexes)))
	for _, i := range h.Indexes {
		n += wire.VarintSize32(i)
	}
	return n
}

// Put writes the header for h into the front of dst and returns its length.
// dst must hold at least l.Size(h) bytes; on a short dst nothing is written.
func (l Layout) Put(dst []byte, h Header) (int, error) {
	if need := l.Size(h); len(dst) < need {
		return 0, &wire.BoundsError{Op: "put envelope header", Need: need, Have: len(dst)}
	}
	off, err := wire.WriteUint8(dst, MagicByte)
	if err != nil {
		return 0, err
	}
	n, err := wire.WriteInt32(dst[off:], h.SchemaID)
	if err != nil {
		return 0, err
	}
	off += n
	if l != Indexed {
		return off, nil
	}
	if firstMessage(h.Indexes) {
		n, err = wire.WriteVarint32(dst[off:], 0)
		return off + n, err
	}
	n, err = wire.WriteVarint32(dst[off:], int32(len(h.Indexes)))
	if err != nil {
		return 0, err
	}
	off += n
	for _, i := range h.Indexes {
		n, err = wire.WriteVarint32(dst[off:], i)
		if err != nil {
			return 0, err
		}
		off += n
	}
	return off, nil
}

// Append appends the header for h followed by payload to dst.
func (l Layout) Append(dst []byte, h Header, payload []byte) []byte {
	hl := l.Size(h)
	start := len(dst)
	total := start + hl + len(payload)
	if cap(dst) < total {
		grown := make([]byte, start, total)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:total]
	// sized above; cannot fail
	_, _ = l.Put(dst[start:], h)
	_, _ = wire.WriteBytes(dst[start+hl:], payload)
	return dst
}

// Read parses the header at the front of src and returns it with the number of
// bytes consumed.
func (l Layout) Read(src []byte) (Header, int, error) {
	var h Header
	magic, off, err := wire.ReadUint8(src)
	if err != nil {
		return h, 0, fmt.Errorf("envelope: magic: %w", err)
	}
	if magic != MagicByte {
		return h, 0, fmt.Errorf("%w: %#02x", ErrBadMagic, magic)
	}
	id, n, err := wire.ReadInt32(src[off:])
	if err != nil {
		return h, 0, fmt.Errorf("envelope: schema id: %w", err)
	}
	off += n
	h.SchemaID = id
	if l != Indexed {
		return h, off, nil
	}

	count, n, err := wire.ReadVarint32(src[off:])
	if err != nil {
		return h, 0, fmt.Errorf("envelope: index count: %w", err)
	}
	off += n
	if count == 0 {
		h.Indexes = []int32{0}
		return h, off, nil
	}
	// every index takes at least one byte
	if count < 0 || int(count) > len(src)-off {
		return Header{}, 0, fmt.Errorf("%w: count %d with %d bytes left", ErrMalformed, count, len(src)-off)
	}
	h.Indexes = make([]int32, count)
	for i := range h.Indexes {
		v, n, err := wire.ReadVarint32(src[off:])
		if err != nil {
			return Header{}, 0, fmt.Errorf("envelope: index %d: %w", i, err)
		}
		h.Indexes[i] = v
		off += n
	}
	return h, off, nil
}

// Split parses the header and returns the remaining bytes as the payload.
// The payload aliases src.
func (l Layout) Split(src []byte) (Header, []byte, error) {
	h, n, err := l.Read(src)
	if err != nil {
		return Header{}, nil, err
	}
	return h, src[n:], nil
}
