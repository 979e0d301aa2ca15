package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password digest schemes. SchemeSHA256 is the historical scheme: a single
// unsalted sha256 round, so two users with the same password share a digest.
// SchemeBcrypt is the opt-in replacement for new hashes; verification accepts
// either so a store can hold a mix during migration.
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

type Hasher struct {
	scheme string
}

// NewHasher returns a Hasher using the given scheme for new digests.
// Unknown schemes fall back to sha256.
func NewHasher(scheme string) *Hasher {
	if scheme != SchemeBcrypt {
		scheme = SchemeSHA256
	}
	return &Hasher{scheme: scheme}
}

// HashPassword digests a plaintext password for storage.
func (h *Hasher) HashPassword(plaintext string) (string, error) {
	if h.scheme == SchemeBcrypt {
		out, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

// VerifyPassword reports whether plaintext matches the stored digest,
// picking the scheme from the digest itself.
func (h *Hasher) VerifyPassword(digest, plaintext string) bool {
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	}
	sum := sha256.Sum256([]byte(plaintext))
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hex.EncodeToString(sum[:]))) == 1
}
