package schemacache

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/schemawire"
	"github.com/unkn0wn-root/schemawire/wire"
)

const entryVersion byte = 1

var (
	errCorrupt = errors.New("schemacache: corrupt entry")
	errVersion = errors.New("schemacache: unknown entry version")
)

func encodeEntry(ref schemawire.SchemaRef) []byte {
	size := wire.SizeUint8 + wire.SizeInt32 + wire.UvarintSize32(uint32(len(ref.Indexes)))
	for _, i := range ref.Indexes {
		size += wire.VarintSize32(i)
	}
	b := make([]byte, size)

	// sized above; the writes cannot run out of room
	off, _ := wire.WriteUint8(b, entryVersion)
	n, _ := wire.WriteInt32(b[off:], ref.ID)
	off += n
	n, _ = wire.WriteUvarint32(b[off:], uint32(len(ref.Indexes)))
	off += n
	for _, i := range ref.Indexes {
		n, _ = wire.WriteVarint32(b[off:], i)
		off += n
	}
	return b
}

func decodeEntry(b []byte) (schemawire.SchemaRef, error) {
	var ref schemawire.SchemaRef
	ver, off, err := wire.ReadUint8(b)
	if err != nil {
		return ref, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	if ver != entryVersion {
		return ref, fmt.Errorf("%w: %d", errVersion, ver)
	}
	id, n, err := wire.ReadInt32(b[off:])
	if err != nil {
		return ref, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	off += n
	count, n, err := wire.ReadUvarint32(b[off:])
	if err != nil {
		return ref, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	off += n
	if uint64(count) > uint64(len(b)-off) {
		return ref, fmt.Errorf("%w: %d indexes in %d bytes", errCorrupt, count, len(b)-off)
	}

	ref.ID = id
	if count > 0 {
		ref.Indexes = make([]int32, count)
	}
	for i := range ref.Indexes {
		v, n, err := wire.ReadVarint32(b[off:])
		if err != nil {
			return schemawire.SchemaRef{}, fmt.Errorf("%w: %w", errCorrupt, err)
		}
		ref.Indexes[i] = v
		off += n
	}
	if off != len(b) {
		return schemawire.SchemaRef{}, fmt.Errorf("%w: %d trailing bytes", errCorrupt, len(b)-off)
	}
	return ref, nil
}
