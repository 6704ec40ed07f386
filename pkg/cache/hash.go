package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashKey returns "kind:" followed by the SHA-256 of parts. Parts are
// NUL-joined, which cannot occur in URLs or coordinates.
func hashKey(kind string, parts ...string) string {
	return kind + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
