package util

import (
	"crypto/sha256"
	"fmt"
)

// MaxRawSubject is the longest subject embedded verbatim in a storage key.
const MaxRawSubject = 200

// SubjectKey returns "<prefix>:<subject>", or "<prefix>:#<hash>" with a short
// sha256 prefix when the subject is too long to embed.
func SubjectKey(prefix, subject string) string {
	if len(subject) <= MaxRawSubject {
		return prefix + ":" + subject
	}
	sum := sha256.Sum256([]byte(subject))
	return fmt.Sprintf("%s:#%x", prefix, sum[:8])
}
