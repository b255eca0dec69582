package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentHash fingerprints an ordered field list; changing field order
// changes the hash. Flashcard duplicate detection hashes
// userID|type|front|sourceID in exactly that order.
func ContentHash(parts ...string) string {
	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hasher.Sum(nil))
}
