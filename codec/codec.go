// Package codec turns typed values into the payload bytes carried after the
// envelope header, and back.
package codec

// Codec encodes V to payload bytes and decodes payload bytes to V.
// Implementations must be safe for concurrent use.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
