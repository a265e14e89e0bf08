// Package wire holds the byte-level primitives of the schema-registry envelope:
// single bytes, big-endian int32 fields, raw byte runs and 32-bit varints.
//
// Every function works on a caller-owned slice, starts at index 0 and reports
// how many bytes it consumed or produced. Advancing the cursor is the caller's
// job:
//
//	n, err := wire.WriteUint8(buf, 0)
//	m, err := wire.WriteInt32(buf[n:], id)
//
// Nothing here allocates on success or keeps a reference to the slice.
// Writers check the length up front, so a failed write leaves dst untouched.
package wire

import "encoding/binary"

const (
	// SizeUint8 is the encoded size of a single byte field.
	SizeUint8 = 1
	// SizeInt32 is the encoded size of a fixed 32-bit field.
	SizeInt32 = 4
)

// WriteUint8 writes v into dst[0].
func WriteUint8(dst []byte, v byte) (int, error) {
	if len(dst) < SizeUint8 {
		return 0, outOfBounds("write uint8", SizeUint8, len(dst))
	}
	dst[0] = v
	return SizeUint8, nil
}

// ReadUint8 reads src[0].
func ReadUint8(src []byte) (byte, int, error) {
	if len(src) < SizeUint8 {
		return 0, 0, outOfBounds("read uint8", SizeUint8, len(src))
	}
	return src[0], SizeUint8, nil
}

// WriteInt32 writes v in network byte order (big-endian, two's complement)
// into dst[:4], independent of the host architecture.
func WriteInt32(dst []byte, v int32) (int, error) {
	if len(dst) < SizeInt32 {
		return 0, outOfBounds("write int32", SizeInt32, len(dst))
	}
	binary.BigEndian.PutUint32(dst, uint32(v))
	return SizeInt32, nil
}

// ReadInt32 reads a big-endian int32 from src[:4].
func ReadInt32(src []byte) (int32, int, error) {
	if len(src) < SizeInt32 {
		return 0, 0, outOfBounds("read int32", SizeInt32, len(src))
	}
	return int32(binary.BigEndian.Uint32(src)), SizeInt32, nil
}

// WriteBytes copies b verbatim into the front of dst.
func WriteBytes(dst, b []byte) (int, error) {
	if len(dst) < len(b) {
		return 0, outOfBounds("write bytes", len(b), len(dst))
	}
	return copy(dst, b), nil
}
