// Package unlockcode generates the short-lived credentials handed to the
// physical unlock hardware.
package unlockcode

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// tokenAlphabet avoids characters that read ambiguously on a station
// display (0/O, 1/I/L).
const tokenAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const tokenLength = 8

// New returns an 8-character random token, roughly 39 bits of entropy.
// Codes are single-use and expire with the reservation, so this is enough
// to make guessing by an observer at the station impractical.
func New() (string, error) {
	code := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("unlockcode: %w", err)
		}
		code[i] = tokenAlphabet[n.Int64()]
	}

	return string(code), nil
}

// NewLegacy returns a 4-digit numeric code for station firmware that only
// accepts the original keypad format.
func NewLegacy() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("unlockcode: %w", err)
	}

	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}

// Matches compares codes in constant time.
func Matches(code, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(code), []byte(presented)) == 1
}
