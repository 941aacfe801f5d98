// Package passgen generates random passwords by sampling character
// classes: digits, letters and, optionally, specials.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength is used when the requested length is not positive.
const DefaultLength = 15

const (
	digits   = "0123456789"
	upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower    = "abcdefghijklmnopqrstuvwxyz"
	specials = "!@#$%^&*()-_=+[]{};:,.<>/?\\|'\"`~"
)

// Generate returns a random password of the given length. When
// withSpecials is set the special-character class is included in the
// sampling alphabet. Randomness comes from crypto/rand.
func Generate(length int, withSpecials bool) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	alphabet := digits + upper + lower
	if withSpecials {
		alphabet += specials
	}

	max := big.NewInt(int64(len(alphabet)))
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("sample random character: %w", err)
		}
		password[i] = alphabet[n.Int64()]
	}

	return string(password), nil
}
