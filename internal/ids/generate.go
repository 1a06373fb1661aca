package ids

import (
	"crypto/sha256"
	"encoding/base32"

	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/google/uuid"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length <= 0 {
		return ""
	}
	if length > len(encoded) {
		length = len(encoded)
	}
	return internalstrings.NormalizeLower(encoded[:length])
}

// GenerateRandom creates an ID seeded from a random UUID, so two tasks with
// the same title created within one clock tick still get distinct IDs.
func GenerateRandom(length int) string {
	return Generate(uuid.NewString(), length)
}
