// Package shortid generates short, collision-resistant, URL-safe
// identifiers from a fixed 64-character alphabet. They are used for group
// ids (shareable and guess-resistant, unlike sequential ids) and to
// disambiguate uploaded file names.
package shortid

import (
	"crypto/rand"
	"fmt"
)

// Alphabet is the set of characters identifiers are drawn from. Its size is
// a power of two, so reducing a random byte modulo the size is unbiased.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ$@"

// DefaultLength gives ~54 bits of entropy, enough to make accidental
// collisions between group ids negligible.
const DefaultLength = 9

// Generate returns a random identifier of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("shortid: invalid length %d", length)
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("shortid: %w", err)
	}

	for i, v := range b {
		b[i] = Alphabet[int(v)%len(Alphabet)]
	}

	return string(b), nil
}

// New returns a random identifier of DefaultLength.
func New() (string, error) {
	return Generate(DefaultLength)
}
