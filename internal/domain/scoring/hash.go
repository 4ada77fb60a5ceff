package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeComment trims, lowercases and collapses whitespace runs to a
// single space. Two comments that normalize identically share a cache entry.
func NormalizeComment(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// HashComment returns the hex sha256 digest of the normalized comment text,
// used as the classification cache key.
func HashComment(text string) string {
	sum := sha256.Sum256([]byte(NormalizeComment(text)))
	return hex.EncodeToString(sum[:])
}

// WordCount is a whitespace token count of the raw comment text. It is
// computed locally and does not depend on the classifier.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
