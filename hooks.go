package schemawire

// Hooks are callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run on the
// Serialize/Deserialize path.
type Hooks interface {
	// An inbound envelope could not be parsed.
	// reason ∈ {"bad_magic", "truncated", "varint_overflow", "malformed"}
	EnvelopeRejected(subject, reason string)

	// Options.Accept refused the writer schema found in a header.
	SchemaRejected(subject string, schemaID int32, err error)

	// The Resolver failed for subject.
	ResolveError(subject string, err error)

	// A payload exceeded Options.MaxPayload (either direction).
	PayloadTooLarge(subject string, size, limit int)

	// schemacache dropped an unreadable entry.
	// reason ∈ {"corrupt", "version"}
	CacheSelfHeal(storageKey, reason string)

	// The cache provider returned ok=false on Set.
	CacheSetRejected(storageKey string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) EnvelopeRejected(string, string)     {}
func (NopHooks) SchemaRejected(string, int32, error) {}
func (NopHooks) ResolveError(string, error)          {}
func (NopHooks) PayloadTooLarge(string, int, int)    {}
func (NopHooks) CacheSelfHeal(string, string)        {}
func (NopHooks) CacheSetRejected(string)             {}
