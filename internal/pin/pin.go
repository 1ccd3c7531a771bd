// Package pin implements the chat PIN gate: a 4-digit code compared locally against a stored
// SHA-256 hash. It keeps casual visitors out and is not a security boundary.
package pin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Length is the number of digits in a PIN.
const Length = 4

var (
	// ErrInvalidPIN is returned for input that is not exactly Length ASCII digits.
	ErrInvalidPIN = errors.New("PIN must be 4 digits")
	// ErrMismatch is returned when a well-formed PIN does not match the stored hash.
	ErrMismatch = errors.New("incorrect PIN")
	// ErrInvalidHash is returned for a stored hash that is not 64 hex characters.
	ErrInvalidHash = errors.New("PIN hash must be 64 hex characters")
)

// Validate checks that pin is exactly four ASCII digits.
func Validate(pin string) error {
	if len(pin) != Length {
		return ErrInvalidPIN
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

// Hash returns the lowercase hex SHA-256 digest of pin.
func Hash(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// ParseHash decodes a stored hex digest, accepting either case.
func ParseHash(s string) ([sha256.Size]byte, error) {
	var out [sha256.Size]byte
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) != sha256.Size {
		return out, ErrInvalidHash
	}
	copy(out[:], raw)
	return out, nil
}

// Gate verifies PIN attempts against one stored hash.
type Gate struct {
	hash     [sha256.Size]byte
	attempts int
	unlocked bool
}

// NewGate creates a Gate for the given hex SHA-256 digest.
//
// Parameters:
//   - hexHash: the stored digest
//
// Returns:
//   - *Gate: the gate, locked
//   - error: ErrInvalidHash if hexHash is malformed
func NewGate(hexHash string) (*Gate, error) {
	h, err := ParseHash(hexHash)
	if err != nil {
		return nil, fmt.Errorf("new gate: %w", err)
	}
	return &Gate{hash: h}, nil
}

// Verify checks pin and unlocks the gate on success. Malformed input does not count as an attempt.
//
// Returns:
//   - error: ErrInvalidPIN, ErrMismatch or nil
func (g *Gate) Verify(pin string) error {
	if err := Validate(pin); err != nil {
		return err
	}
	g.attempts++
	sum := sha256.Sum256([]byte(pin))
	if subtle.ConstantTimeCompare(sum[:], g.hash[:]) != 1 {
		return ErrMismatch
	}
	g.unlocked = true
	return nil
}

// Unlocked reports whether a correct PIN has been entered.
func (g *Gate) Unlocked() bool {
	return g.unlocked
}

// Attempts returns the number of well-formed PINs tried.
func (g *Gate) Attempts() int {
	return g.attempts
}

// Lock re-locks the gate.
func (g *Gate) Lock() {
	g.unlocked = false
}
