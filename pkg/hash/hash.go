package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns the SHA-256 hex digest of the normalized input text.
// Normalization is lower-casing plus trimming, so inputs that differ only in
// case or surrounding whitespace share a fingerprint. Used as the cache key
// component for AI analysis lookups.
func Fingerprint(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
