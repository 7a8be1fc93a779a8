package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
)

const saltBytes = 20

var saltEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Hasher is the salted one-way hashing primitive used for local credentials.
type Hasher interface {
	Hash(secret, salt string) string
	GenerateSalt() string
}

// NewHasher returns the default SHA-256 hasher.
func NewHasher() Hasher {
	return shaHasher{}
}

type shaHasher struct{}

// Hash digests salt || secret || salt and returns the hex encoding.
func (shaHasher) Hash(secret, salt string) string {
	sum := sha256.Sum256([]byte(salt + secret + salt))
	return hex.EncodeToString(sum[:])
}

// GenerateSalt returns a lower-case base32 random salt with 160 bits of
// entropy.
func (shaHasher) GenerateSalt() string {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("auth: crypto/rand unavailable: %v", err))
	}
	return strings.ToLower(saltEncoding.EncodeToString(buf))
}
