package codec

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type user struct {
	ID   string `json:"id" msgpack:"id" cbor:"id"`
	Name string `json:"name" msgpack:"name" cbor:"name"`
}

func roundTrip[V comparable](t *testing.T, name string, c Codec[V], v V) {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("%s Encode: %v", name, err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("%s Decode: %v", name, err)
	}
	if got != v {
		t.Fatalf("%s: got=%+v want=%+v", name, got, v)
	}
}

func TestStructCodecs(t *testing.T) {
	u := user{ID: "1", Name: "Ada"}
	roundTrip[user](t, "json", JSON[user]{}, u)
	roundTrip[user](t, "msgpack", Msgpack[user]{}, u)
	roundTrip[user](t, "cbor", MustCBOR[user](false), u)
	roundTrip[user](t, "cbor-det", MustCBOR[user](true), u)
	roundTrip[string](t, "string", String{}, "héllo")
}

func TestCBORDeterministicIsStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		b, err := c.Encode(m)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(b, first) {
			t.Fatalf("deterministic encoding changed: %x vs %x", b, first)
		}
	}
}

func TestBytesIdentity(t *testing.T) {
	in := []byte{1, 2, 3}
	b, _ := Bytes{}.Encode(in)
	out, _ := Bytes{}.Decode(b)
	if !bytes.Equal(out, in) {
		t.Fatalf("got=%x", out)
	}
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }, true)
	b, err := c.Encode(wrapperspb.String("hi"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if !proto.Equal(got, wrapperspb.String("hi")) {
		t.Fatalf("got=%v", got)
	}

	var zero Protobuf[*wrapperspb.StringValue]
	if _, err := zero.Decode(b); err == nil {
		t.Fatalf("expected error from codec without constructor")
	}
}

func TestLimitCodec(t *testing.T) {
	c := LimitCodec[string]{Inner: String{}, MaxDecode: 3}
	if _, err := c.Decode([]byte("abcd")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err=%v want ErrTooLarge", err)
	}
	if v, err := c.Decode([]byte("abc")); err != nil || v != "abc" {
		t.Fatalf("boundary: v=%q err=%v", v, err)
	}
	off := LimitCodec[string]{Inner: String{}}
	if _, err := off.Decode(bytes.Repeat([]byte("x"), 1<<16)); err != nil {
		t.Fatalf("MaxDecode=0 should disable limit: %v", err)
	}
}
