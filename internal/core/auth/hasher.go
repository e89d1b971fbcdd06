// Package auth holds the authentication core: password hashing, session
// token issuance/verification, and the authorization policy shared by every
// protected endpoint.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hasher derives storable password digests. The construction is
// sha256(plaintext + pepper) rendered as lowercase hex, where the pepper is
// a single server-held secret shared by all accounts.
//
// Known weakness: there is no per-user salt and SHA-256 is fast, so equal
// passwords produce equal digests and offline guessing is cheap. This is
// kept deliberately — every digest already in the directory was produced
// this way, and changing the scheme would invalidate them without a
// migration plan.
type Hasher struct {
	pepper string
}

// NewHasher returns a Hasher using the given pepper. The pepper must be
// validated as non-empty at startup; business logic assumes it is set.
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Hash computes the digest for a plaintext password. It never fails.
func (h *Hasher) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext + h.pepper))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether plaintext hashes to storedDigest.
func (h *Hasher) Verify(plaintext, storedDigest string) bool {
	return hmac.Equal([]byte(h.Hash(plaintext)), []byte(storedDigest))
}
