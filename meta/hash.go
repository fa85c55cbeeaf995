package meta

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest of an asset source.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing, so source hashes
// never collide with digests of the same bytes taken for other purposes.
type domainKey [32]byte

// sourceDomainKey is the ASCII of "svgbake.meta.source", zero-padded.
// Changing it invalidates every recorded source hash.
var sourceDomainKey = domainKey{
	's', 'v', 'g', 'b', 'a', 'k', 'e', '.', 'm', 'e', 't', 'a', '.',
	's', 'o', 'u', 'r', 'c', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashSource computes the keyed hash of an asset's source bytes.
func HashSource(data []byte) Hash {
	hasher, err := blake3.NewKeyed(sourceDomainKey[:])
	if err != nil {
		// Only a wrong key length fails, and domainKey is fixed-size.
		panic("meta: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// String returns the lowercase hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash parses a 64-character hex digest.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != hex.EncodedLen(len(h)) {
		return Hash{}, fmt.Errorf("meta: hash %q has %d characters, want %d", s, len(s), hex.EncodedLen(len(h)))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return Hash{}, fmt.Errorf("meta: hash %q: %w", s, err)
	}
	return h, nil
}
