package wire

const (
	// MaxVarintLen32 is the longest encoding of a 32-bit varint.
	MaxVarintLen32 = 5

	// shift after the fourth continuation group; one more means a sixth group.
	maxShift = 28
)

// ReadUvarint32 decodes a base-128 varint from the front of src: 7 value bits
// per byte, least significant group first, high bit set on every byte but the
// last.
//
// At most 5 bytes are consumed. A fifth byte that still carries the
// continuation bit yields ErrVarintOverflow; running out of input first yields
// ErrUnexpectedEOF. Bits of a terminal fifth byte beyond bit 31 are dropped,
// matching peers that use the same 32-bit format.
func ReadUvarint32(src []byte) (uint32, int, error) {
	var v uint32
	var shift uint
	for i, b := range src {
		if b&0x80 == 0 {
			v |= uint32(b) << shift
			return v, i + 1, nil
		}
		v |= uint32(b&0x7f) << shift
		shift += 7
		if shift > maxShift {
			return 0, 0, ErrVarintOverflow
		}
	}
	return 0, 0, ErrUnexpectedEOF
}

// ReadVarint32 decodes a zigzag varint: an unsigned varint u mapped back
// through (u >> 1) ^ -(u & 1).
func ReadVarint32(src []byte) (int32, int, error) {
	u, n, err := ReadUvarint32(src)
	if err != nil {
		return 0, 0, err
	}
	return UnZigZag32(u), n, nil
}

// WriteUvarint32 is the inverse of ReadUvarint32. It always emits the minimal
// encoding, UvarintSize32(v) bytes long.
func WriteUvarint32(dst []byte, v uint32) (int, error) {
	size := UvarintSize32(v)
	if len(dst) < size {
		return 0, outOfBounds("write uvarint32", size, len(dst))
	}
	i := 0
	for v >= 0x80 {
		dst[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	dst[i] = byte(v)
	return i + 1, nil
}

// WriteVarint32 zigzag-encodes v and writes it as an unsigned varint.
func WriteVarint32(dst []byte, v int32) (int, error) {
	return WriteUvarint32(dst, ZigZag32(v))
}

// UvarintSize32 returns the encoded length of v: 1 byte below 2^7, up to 5
// bytes from 2^28.
func UvarintSize32(v uint32) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	case v < 1<<28:
		return 4
	default:
		return MaxVarintLen32
	}
}

// VarintSize32 returns the encoded length of the zigzag form of v.
func VarintSize32(v int32) int { return UvarintSize32(ZigZag32(v)) }

// ZigZag32 maps signed to unsigned so small magnitudes stay small:
// 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
func ZigZag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// UnZigZag32 inverts ZigZag32.
func UnZigZag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}
