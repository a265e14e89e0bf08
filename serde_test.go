package schemawire

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	c "github.com/unkn0wn-root/schemawire/codec"
	"github.com/unkn0wn-root/schemawire/envelope"
	"github.com/unkn0wn-root/schemawire/wire"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recHooks struct {
	NopHooks
	mu        sync.Mutex
	rejected  []string
	schemaRej []int32
	resolve   int
	tooLarge  int
}

func (h *recHooks) EnvelopeRejected(_ string, reason string) {
	h.mu.Lock()
	h.rejected = append(h.rejected, reason)
	h.mu.Unlock()
}

func (h *recHooks) SchemaRejected(_ string, id int32, _ error) {
	h.mu.Lock()
	h.schemaRej = append(h.schemaRej, id)
	h.mu.Unlock()
}

func (h *recHooks) ResolveError(string, error) {
	h.mu.Lock()
	h.resolve++
	h.mu.Unlock()
}

func (h *recHooks) PayloadTooLarge(string, int, int) {
	h.mu.Lock()
	h.tooLarge++
	h.mu.Unlock()
}

func newTestSerde[V any](t *testing.T, codec c.Codec[V], optsOpt func(*Options[V])) Serde[V] {
	t.Helper()
	opts := Options[V]{
		Subject:  "users-value",
		Resolver: Static(SchemaRef{ID: 7}),
		Codec:    codec,
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	sd, err := New[V](opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sd
}

func TestNewValidatesOptions(t *testing.T) {
	base := Options[user]{Subject: "s", Resolver: Static(SchemaRef{}), Codec: c.JSON[user]{}}

	o := base
	o.Subject = ""
	if _, err := New[user](o); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("err=%v want ErrMissingSubject", err)
	}
	o = base
	o.Resolver = nil
	if _, err := New[user](o); !errors.Is(err, ErrMissingResolver) {
		t.Fatalf("err=%v want ErrMissingResolver", err)
	}
	o = base
	o.Codec = nil
	if _, err := New[user](o); !errors.Is(err, ErrMissingCodec) {
		t.Fatalf("err=%v want ErrMissingCodec", err)
	}
	o = base
	o.Layout = envelope.Layout(9)
	if _, err := New[user](o); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}

func TestJSONPlainRoundTrip(t *testing.T) {
	ctx := context.Background()
	sd := newTestSerde[user](t, c.JSON[user]{}, func(o *Options[user]) {
		o.Layout = envelope.Plain
	})
	in := user{ID: "1", Name: "Ada"}

	b, err := sd.Serialize(ctx, in)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(b[:5], []byte{0, 0, 0, 0, 7}) {
		t.Fatalf("header=%x want 0000000007", b[:5])
	}
	if b[5] != '{' {
		t.Fatalf("plain layout should have payload right after the id, got %x", b[5])
	}

	got, ref, err := sd.Deserialize(ctx, b)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got != in || ref.ID != 7 {
		t.Fatalf("got=%+v ref=%+v", got, ref)
	}
}

func TestProtobufIndexedRoundTrip(t *testing.T) {
	ctx := context.Background()
	pc := c.NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }, false)
	sd := newTestSerde[*wrapperspb.StringValue](t, pc, func(o *Options[*wrapperspb.StringValue]) {
		o.Resolver = Static(SchemaRef{ID: 100, Indexes: []int32{1, 0}})
	})

	b, err := sd.Serialize(ctx, wrapperspb.String("hello"))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	h, _, err := envelope.Indexed.Split(b)
	if err != nil || h.SchemaID != 100 || len(h.Indexes) != 2 || h.Indexes[0] != 1 {
		t.Fatalf("header=%+v err=%v", h, err)
	}

	got, ref, err := sd.Deserialize(ctx, b)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !proto.Equal(got, wrapperspb.String("hello")) {
		t.Fatalf("got=%v", got)
	}
	if ref.ID != 100 || len(ref.Indexes) != 2 || ref.Indexes[1] != 0 {
		t.Fatalf("ref=%+v", ref)
	}
}

func TestDeserializeBytesAliasesInput(t *testing.T) {
	ctx := context.Background()
	sd := newTestSerde[[]byte](t, c.Bytes{}, nil)

	b, err := sd.Serialize(ctx, []byte("abc"))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, _, err := sd.Deserialize(ctx, b)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	kept := append([]byte(nil), got...)

	b[len(b)-1] = 'z'
	if string(got) != "abz" {
		t.Fatalf("got=%q; Bytes payload should alias the input buffer", got)
	}
	if string(kept) != "abc" {
		t.Fatalf("copy changed: %q", kept)
	}
}

func TestResolveErrorPropagates(t *testing.T) {
	boom := errors.New("registry down")
	hooks := &recHooks{}
	sd := newTestSerde[user](t, c.JSON[user]{}, func(o *Options[user]) {
		o.Resolver = ResolverFunc(func(context.Context, string) (SchemaRef, error) { return SchemaRef{}, boom })
		o.Hooks = hooks
	})
	_, err := sd.Serialize(context.Background(), user{})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want wrapped boom", err)
	}
	var ee *EnvelopeError
	if !errors.As(err, &ee) || ee.Op != "resolve" || ee.Subject != "users-value" {
		t.Fatalf("unexpected error shape: %#v", err)
	}
	if hooks.resolve != 1 {
		t.Fatalf("ResolveError hook calls=%d", hooks.resolve)
	}
}

func TestDeserializeRejectsBadEnvelopes(t *testing.T) {
	hooks := &recHooks{}
	sd := newTestSerde[user](t, c.JSON[user]{}, func(o *Options[user]) { o.Hooks = hooks })
	ctx := context.Background()

	cases := []struct {
		in     []byte
		want   error
		reason string
	}{
		{[]byte{1, 0, 0, 0, 7, 0}, envelope.ErrBadMagic, "bad_magic"},
		{[]byte{0, 0, 0}, wire.ErrOutOfBounds, "truncated"},
		{[]byte{0, 0, 0, 0, 7, 0x80}, wire.ErrUnexpectedEOF, "truncated"},
		{[]byte{0, 0, 0, 0, 7, 0xff, 0xff, 0xff, 0xff, 0xff}, wire.ErrVarintOverflow, "varint_overflow"},
		{[]byte{0, 0, 0, 0, 7, 0x01}, envelope.ErrMalformed, "malformed"},
	}
	for i, tc := range cases {
		if _, _, err := sd.Deserialize(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: err=%v want %v", i, err, tc.want)
		}
		if got := hooks.rejected[len(hooks.rejected)-1]; got != tc.reason {
			t.Fatalf("case %d: reason=%q want %q", i, got, tc.reason)
		}
	}
}

func TestAcceptRejectsUnknownSchema(t *testing.T) {
	hooks := &recHooks{}
	sd := newTestSerde[user](t, c.JSON[user]{}, func(o *Options[user]) {
		o.Accept = AcceptIDs(7, 8)
		o.Hooks = hooks
	})
	ctx := context.Background()

	b := envelope.Indexed.Append(nil, envelope.Header{SchemaID: 9}, []byte(`{"id":"1"}`))
	_, ref, err := sd.Deserialize(ctx, b)
	if !errors.Is(err, ErrSchemaRejected) {
		t.Fatalf("err=%v want ErrSchemaRejected", err)
	}
	if ref.ID != 9 || len(hooks.schemaRej) != 1 || hooks.schemaRej[0] != 9 {
		t.Fatalf("ref=%+v hooks=%v", ref, hooks.schemaRej)
	}

	ok, err := sd.Serialize(ctx, user{ID: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _, err := sd.Deserialize(ctx, ok); err != nil || v.ID != "2" {
		t.Fatalf("accepted id: v=%+v err=%v", v, err)
	}
}

func TestMaxPayload(t *testing.T) {
	hooks := &recHooks{}
	sd := newTestSerde[string](t, c.String{}, func(o *Options[string]) {
		o.MaxPayload = 4
		o.Hooks = hooks
	})
	ctx := context.Background()

	if _, err := sd.Serialize(ctx, "abcde"); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Serialize err=%v want ErrPayloadTooLarge", err)
	}
	b := envelope.Indexed.Append(nil, envelope.Header{SchemaID: 7}, []byte("abcde"))
	if _, _, err := sd.Deserialize(ctx, b); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Deserialize err=%v want ErrPayloadTooLarge", err)
	}
	if hooks.tooLarge != 2 {
		t.Fatalf("PayloadTooLarge hook calls=%d want 2", hooks.tooLarge)
	}

	b, err := sd.Serialize(ctx, "abcd")
	if err != nil {
		t.Fatalf("boundary Serialize: %v", err)
	}
	if v, _, err := sd.Deserialize(ctx, b); err != nil || v != "abcd" {
		t.Fatalf("boundary Deserialize: v=%q err=%v", v, err)
	}
}

func TestCodecDecodeError(t *testing.T) {
	sd := newTestSerde[user](t, c.JSON[user]{}, nil)
	b := envelope.Indexed.Append(nil, envelope.Header{SchemaID: 7}, []byte("not json"))
	_, _, err := sd.Deserialize(context.Background(), b)
	var ee *EnvelopeError
	if !errors.As(err, &ee) || ee.Op != "decode" {
		t.Fatalf("err=%v want decode EnvelopeError", err)
	}
}

func TestSerdeConcurrentUse(t *testing.T) {
	sd := newTestSerde[user](t, c.JSON[user]{}, nil)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b, err := sd.Serialize(ctx, user{ID: "x"})
				if err != nil {
					t.Error(err)
					return
				}
				if _, _, err := sd.Deserialize(ctx, b); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
