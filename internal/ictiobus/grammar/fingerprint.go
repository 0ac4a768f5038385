package grammar

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// fingerprintHash hashes the canonical textual form of a grammar with
// blake2b-256 and returns the digest hex-encoded.
func fingerprintHash(canonical string) string {
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
